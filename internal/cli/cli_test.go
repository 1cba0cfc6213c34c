package cli

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/productctl/internal/app"
	"github.com/abgdnv/productctl/internal/devapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliFixture struct {
	store  *devapi.Store
	apiURL string
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	store := devapi.NewStore(devapi.SeedProducts()...)
	srv := httptest.NewServer(app.SetupDevAPIHandler(store, slog.New(slog.DiscardHandler)))
	t.Cleanup(srv.Close)
	return &cliFixture{store: store, apiURL: srv.URL + "/products"}
}

func (f *cliFixture) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	streams := Streams{In: strings.NewReader(""), Out: &out, ErrOut: &errOut}
	code := Execute(t.Context(), append(args, "--api-url", f.apiURL), streams)
	return code, out.String(), errOut.String()
}

func Test_CLI_List(t *testing.T) {
	// given
	f := newCLIFixture(t)

	// when
	code, out, _ := f.run(t, "list")

	// then
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "ID  NAME")
	assert.Contains(t, out, "Mechanical keyboard")
	assert.Contains(t, out, "89.90")
}

func Test_CLI_Create(t *testing.T) {
	testCases := []struct {
		name         string
		args         []string
		expectedCode int
		expectedOut  string
		expectedErr  string
		expectedLen  int
	}{
		{
			name:         "Success",
			args:         []string{"create", "--name", "Mouse", "--price", "15"},
			expectedCode: 0,
			expectedOut:  "Product 'Mouse' created successfully.",
			expectedLen:  4,
		},
		{
			name:         "Error - invalid price",
			args:         []string{"create", "--name", "Mouse", "--price", "-3"},
			expectedCode: 1,
			expectedErr:  "Price must be a positive number.",
			expectedLen:  3,
		},
		{
			name:         "Error - missing name",
			args:         []string{"create", "--price", "3"},
			expectedCode: 1,
			expectedErr:  "Product name is required.",
			expectedLen:  3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			f := newCLIFixture(t)

			// when
			code, out, errOut := f.run(t, tc.args...)

			// then
			assert.Equal(t, tc.expectedCode, code)
			assert.Contains(t, out, tc.expectedOut)
			assert.Contains(t, errOut, tc.expectedErr)
			assert.Len(t, f.store.FindAll(), tc.expectedLen)
		})
	}
}

func Test_CLI_Update(t *testing.T) {
	// given
	f := newCLIFixture(t)

	// when
	code, out, _ := f.run(t, "update", "2", "--description", "braided")

	// then
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Product updated successfully.")
	updated, err := f.store.FindByID("2")
	require.NoError(t, err)
	assert.Equal(t, "USB-C cable", updated.Name)
	assert.Equal(t, "braided", updated.Description)
	assert.Equal(t, 9.5, *updated.Price)
}

func Test_CLI_Update_NotFound(t *testing.T) {
	f := newCLIFixture(t)

	code, _, errOut := f.run(t, "update", "99", "--name", "x")

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error updating product: Product not found.\n", errOut)
}

func Test_CLI_Delete(t *testing.T) {
	testCases := []struct {
		name         string
		id           string
		expectedCode int
		expectedOut  string
		expectedErr  string
		expectedLen  int
	}{
		{
			name:         "Success",
			id:           "3",
			expectedCode: 0,
			expectedOut:  "Product ID 3 deleted successfully.",
			expectedLen:  2,
		},
		{
			name:         "Error - not found",
			id:           "42",
			expectedCode: 1,
			expectedErr:  "Error deleting product: Product not found.",
			expectedLen:  3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCLIFixture(t)

			code, out, errOut := f.run(t, "delete", tc.id, "--yes")

			assert.Equal(t, tc.expectedCode, code)
			assert.Contains(t, out, tc.expectedOut)
			assert.Contains(t, errOut, tc.expectedErr)
			assert.Len(t, f.store.FindAll(), tc.expectedLen)
		})
	}
}

func Test_CLI_ConfigErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	streams := Streams{In: strings.NewReader(""), Out: &out, ErrOut: &errOut}

	code := Execute(t.Context(), []string{"list", "--api-url", "not a url"}, streams)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "Error: invalid configuration")
}

func Test_CLI_UsageErrors(t *testing.T) {
	f := newCLIFixture(t)

	code, _, errOut := f.run(t, "delete")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "accepts 1 arg(s)")
}
