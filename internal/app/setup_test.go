package app

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abgdnv/productctl/internal/config"
	"github.com/abgdnv/productctl/internal/devapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	t.Setenv("CONSOLE_API_BASEURL", apiURL)
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func Test_SetupConsoleHandler(t *testing.T) {
	// given
	logger := slog.New(slog.DiscardHandler)
	api := httptest.NewServer(SetupDevAPIHandler(devapi.NewStore(devapi.SeedProducts()...), logger))
	t.Cleanup(api.Close)
	cfg := testConfig(t, api.URL+"/products")
	handler := SetupConsoleHandler(SetupDependencies(cfg, logger), cfg)

	testCases := []struct {
		name         string
		target       string
		expectedCode int
		expectedBody string
	}{
		{name: "page", target: "/", expectedCode: http.StatusOK, expectedBody: "Desk lamp"},
		{name: "health", target: "/healthz", expectedCode: http.StatusOK},
		{name: "unknown route", target: "/nope", expectedCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))

			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.expectedBody)
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		})
	}
}

func Test_SetupServers(t *testing.T) {
	cfg := testConfig(t, "http://localhost:3000/products")
	logger := slog.New(slog.DiscardHandler)

	consoleSrv := SetupConsoleServer(SetupDependencies(cfg, logger), cfg)
	devSrv := SetupDevAPIServer(cfg, logger)

	assert.Equal(t, ":8080", consoleSrv.Addr)
	assert.Equal(t, ":3000", devSrv.Addr)
	assert.Equal(t, cfg.HTTPServer.Timeout.Read, devSrv.ReadTimeout)
}
