// Package e2e runs the console flows against a real json-server.
// The suite starts json-server in Docker with testcontainers-go and drives it through the
// API client and the controller, the same way the web console and the CLI do.
// Set CONSOLE_SKIP_E2E_TESTS=1 to skip it where Docker is unavailable.
package e2e

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/productctl/internal/client"
	"github.com/abgdnv/productctl/internal/controller"
	perrors "github.com/abgdnv/productctl/internal/errors"
	"github.com/abgdnv/productctl/internal/notify"
	"github.com/abgdnv/productctl/internal/product"
	"github.com/abgdnv/productctl/internal/render"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "CONSOLE_SKIP_E2E_TESTS"

const jsonServerImage = "clue/json-server:latest"

// seedDB is mounted as json-server's database. Ids mix numbers and strings on purpose.
const seedDB = `{
  "products": [
    {"id": 1, "name": "Mechanical keyboard", "price": 89.9, "description": "Brown switches", "stock": 4},
    {"id": "2", "name": "USB-C cable", "price": 9.5}
  ]
}`

type recordingNotifier struct {
	last notify.Message
}

func (n *recordingNotifier) Notify(text string, kind notify.Kind) {
	n.last = notify.Message{Text: text, Kind: kind}
}

type lastView struct {
	display render.Display
}

func (v *lastView) Show(d render.Display) {
	v.display = d
}

type alwaysConfirm struct{}

func (alwaysConfirm) Confirm(context.Context, string) bool { return true }

// ConsoleE2ESuite is a test suite for the console flows against json-server.
type ConsoleE2ESuite struct {
	suite.Suite
	container testcontainers.Container
	client    *client.Client
	notifier  *recordingNotifier
	view      *lastView
	ctrl      *controller.Controller
	ctx       context.Context
}

func (s *ConsoleE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var err error
	s.container, err = testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        jsonServerImage,
			ExposedPorts: []string{"80/tcp"},
			Files: []testcontainers.ContainerFile{{
				Reader:            strings.NewReader(seedDB),
				ContainerFilePath: "/data/db.json",
				FileMode:          0o644,
			}},
			WaitingFor: wait.ForHTTP("/products").
				WithPort("80/tcp").
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(s.T(), err, "Failed to run json-server container")

	endpoint, err := s.container.PortEndpoint(s.ctx, "80/tcp", "http")
	require.NoError(s.T(), err, "Failed to get json-server endpoint")

	s.client = client.New(endpoint+"/products", client.WithLogger(logger))
	s.notifier = &recordingNotifier{}
	s.view = &lastView{}
	s.ctrl = controller.New(s.client, s.view, s.notifier, alwaysConfirm{}, logger)
}

func (s *ConsoleE2ESuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(testcontainers.TerminateContainer(s.container), "Failed to terminate json-server container")
	}
}

func (s *ConsoleE2ESuite) SetupTest() {
	s.notifier.last = notify.Message{}
}

func TestConsoleE2E(t *testing.T) {
	// Skip integration tests if the environment variable is set
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping integration tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(ConsoleE2ESuite))
}

func (s *ConsoleE2ESuite) TestList_E2E() {
	products, err := s.client.ListProducts(s.ctx)

	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(products), 2)
	s.Equal("1", products[0].ID)
	s.Equal("2", products[1].ID)
}

func (s *ConsoleE2ESuite) TestCreateUpdateDelete_E2E() {
	// create
	err := s.ctrl.Create(s.ctx, controller.CreateForm{Name: "Mouse", Price: "15", Description: "wireless"})
	s.Require().NoError(err)
	s.Equal(notify.Message{Text: "Product 'Mouse' created successfully.", Kind: notify.Success}, s.notifier.last)

	item, ok := s.itemNamed("Mouse")
	s.Require().True(ok, "created product is rendered")
	s.Equal("15.00", item.Price)
	id := item.ID

	// price only update keeps the other fields
	err = s.ctrl.Update(s.ctx, controller.UpdateForm{ID: id, Price: "12.5"})
	s.Require().NoError(err)
	s.Equal(notify.Message{Text: "Product updated successfully.", Kind: notify.Success}, s.notifier.last)
	stored, err := s.client.FetchProductByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Mouse", stored.Name)
	s.Equal("wireless", stored.Description)
	s.Equal(product.PriceOf(12.5), stored.Price)

	// delete, then delete again
	s.Require().NoError(s.ctrl.Delete(s.ctx, id))
	s.Equal(notify.Message{Text: "Product ID " + id + " deleted successfully.", Kind: notify.Success}, s.notifier.last)
	err = s.ctrl.Delete(s.ctx, id)
	s.ErrorIs(err, perrors.ErrProductNotFound)
	s.Equal(notify.Message{Text: "Error deleting product: Product not found.", Kind: notify.Error}, s.notifier.last)
}

func (s *ConsoleE2ESuite) TestUpdateKeepsUnknownFields_E2E() {
	err := s.ctrl.Update(s.ctx, controller.UpdateForm{ID: "1", Description: "Red switches"})

	s.Require().NoError(err)
	stored, err := s.client.FetchProductByID(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal("Red switches", stored.Description)
	s.JSONEq(`4`, string(stored.Extra["stock"]))
}

func (s *ConsoleE2ESuite) TestUpdateNotFound_E2E() {
	err := s.ctrl.Update(s.ctx, controller.UpdateForm{ID: "999", Name: "Ghost"})

	s.Error(err)
	s.Equal(notify.Message{Text: "Error updating product: Product not found.", Kind: notify.Error}, s.notifier.last)
}

// itemNamed returns the rendered item with the given name.
func (s *ConsoleE2ESuite) itemNamed(name string) (render.Item, bool) {
	for _, it := range s.view.display.Items {
		if it.Name == name {
			return it, true
		}
	}
	return render.Item{}, false
}
