// Package controller runs the create, update, delete and reload flows of the console.
// The user surfaces (web console, command line) inject their list view, notifier and
// confirmer, so both share the same behavior.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	perrors "github.com/abgdnv/productctl/internal/errors"
	"github.com/abgdnv/productctl/internal/notify"
	"github.com/abgdnv/productctl/internal/product"
	"github.com/abgdnv/productctl/internal/render"
	"github.com/abgdnv/productctl/internal/validate"
	"github.com/abgdnv/productctl/pkg/logger"
)

const (
	MsgIDGenerationFailed = "Failed to auto-generate ID."
	MsgIDRequired         = "Product ID is required for update."
	MsgNoDataToUpdate     = "No data to update."
	MsgUpdated            = "Product updated successfully."
)

// ProductAPI is the products HTTP API as seen by the controller.
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
	CreateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	FetchProductByID(ctx context.Context, id string) (*product.Product, error)
	UpdateProduct(ctx context.Context, id string, p product.Product) (*product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ListView shows the latest rendering of the collection.
type ListView interface {
	Show(d render.Display)
}

// Confirmer asks the user a yes/no question. Any answer other than an explicit yes is a no.
type Confirmer interface {
	Confirm(ctx context.Context, question string) bool
}

// CreateForm holds the raw values of the create form.
type CreateForm struct {
	Name        string
	Price       string
	Description string
}

// UpdateForm holds the raw values of the update form.
type UpdateForm struct {
	ID          string
	Name        string
	Price       string
	Description string
}

// Controller turns form submissions into API calls and reports every outcome through the
// notifier. Flows started concurrently are not ordered against each other.
type Controller struct {
	api       ProductAPI
	view      ListView
	notifier  notify.Notifier
	confirmer Confirmer
	logger    *slog.Logger

	mu         sync.Mutex
	createForm CreateForm
	updateForm UpdateForm
	display    render.Display
}

// New creates a controller with its collaborators.
func New(api ProductAPI, view ListView, notifier notify.Notifier, confirmer Confirmer, logger *slog.Logger) *Controller {
	return &Controller{
		api:       api,
		view:      view,
		notifier:  notifier,
		confirmer: confirmer,
		logger:    logger.With("component", "controller"),
		display:   render.Render(nil),
	}
}

// Refresh re-reads the collection and replaces the displayed list.
// On failure the previous list stays on screen.
func (c *Controller) Refresh(ctx context.Context) error {
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "Error loading products", "error", err)
		c.notifier.Notify("Error loading products: "+perrors.Describe(err), notify.Error)
		return err
	}
	d := render.Render(products)

	c.mu.Lock()
	c.display = d
	c.mu.Unlock()

	c.view.Show(d)
	c.logger.DebugContext(ctx, "Products rendered", "count", len(d.Items))
	return nil
}

// Create assigns the next id, validates and posts a new product.
// The id is read from the current collection and not reserved, so two concurrent creators
// may compute the same id; the API then rejects or duplicates the second record.
func (c *Controller) Create(ctx context.Context, form CreateForm) error {
	c.mu.Lock()
	c.createForm = form
	c.mu.Unlock()

	existing, err := c.api.ListProducts(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "Error generating new ID", "error", err)
		c.notifier.Notify(MsgIDGenerationFailed, notify.Error)
		return fmt.Errorf("failed to generate product id: %w", err)
	}

	p := product.Product{
		ID:          product.NextID(existing),
		Name:        strings.TrimSpace(form.Name),
		Price:       parseCreatePrice(form.Price),
		Description: strings.TrimSpace(form.Description),
	}
	ctx = logger.AppendCtx(ctx, slog.String("product_id", p.ID))

	if err := validate.Validate(p, false); err != nil {
		c.logger.WarnContext(ctx, "Invalid product", "error", err)
		c.notifier.Notify(perrors.Describe(err), notify.Error)
		return err
	}

	c.logger.InfoContext(ctx, "Creating product", "name", p.Name)
	created, err := c.api.CreateProduct(ctx, p)
	if err != nil {
		c.logger.ErrorContext(ctx, "Error creating product", "error", err)
		c.notifier.Notify("Error creating product: "+perrors.Describe(err), notify.Error)
		return err
	}

	name := created.Name
	if name == "" {
		name = p.Name
	}
	c.notifier.Notify(fmt.Sprintf("Product '%s' created successfully.", name), notify.Success)

	c.mu.Lock()
	c.createForm = CreateForm{}
	c.mu.Unlock()

	_ = c.Refresh(ctx)
	return nil
}

// Update merges the filled-in fields onto the stored record and replaces it.
func (c *Controller) Update(ctx context.Context, form UpdateForm) error {
	c.mu.Lock()
	c.updateForm = form
	c.mu.Unlock()

	id := strings.TrimSpace(form.ID)
	if id == "" {
		c.notifier.Notify(MsgIDRequired, notify.Error)
		return &perrors.ValidationError{Message: MsgIDRequired}
	}
	ctx = logger.AppendCtx(ctx, slog.String("product_id", id))

	patch := patchOf(form)
	if patch.IsEmpty() {
		c.notifier.Notify(MsgNoDataToUpdate, notify.Error)
		return &perrors.ValidationError{Message: MsgNoDataToUpdate}
	}
	if err := validate.Validate(patch.Fields(), true); err != nil {
		c.logger.WarnContext(ctx, "Invalid update", "error", err)
		c.notifier.Notify(perrors.Describe(err), notify.Error)
		return err
	}

	existing, err := c.api.FetchProductByID(ctx, id)
	if err != nil {
		c.logger.WarnContext(ctx, "Product to update not found", "error", err)
		c.notifier.Notify("Error updating product: Product not found.", notify.Error)
		return err
	}
	merged := patch.Apply(*existing)

	c.logger.InfoContext(ctx, "Updating product")
	if _, err := c.api.UpdateProduct(ctx, id, merged); err != nil {
		c.logger.ErrorContext(ctx, "Error updating product", "error", err)
		c.notifier.Notify("Error updating product: "+perrors.Describe(err), notify.Error)
		return err
	}
	c.notifier.Notify(MsgUpdated, notify.Success)

	c.mu.Lock()
	c.updateForm = UpdateForm{}
	c.mu.Unlock()

	_ = c.Refresh(ctx)
	return nil
}

// Delete removes a product after the user confirmed it. A declined confirmation sends nothing.
func (c *Controller) Delete(ctx context.Context, id string) error {
	ctx = logger.AppendCtx(ctx, slog.String("product_id", id))
	if !c.confirmer.Confirm(ctx, DeleteQuestion(id)) {
		c.logger.InfoContext(ctx, "Delete declined")
		return nil
	}

	c.logger.InfoContext(ctx, "Deleting product")
	if err := c.api.DeleteProduct(ctx, id); err != nil {
		c.logger.ErrorContext(ctx, "Error deleting product", "error", err)
		c.notifier.Notify("Error deleting product: "+perrors.Describe(err), notify.Error)
		return err
	}
	c.notifier.Notify(fmt.Sprintf("Product ID %s deleted successfully.", id), notify.Success)

	_ = c.Refresh(ctx)
	return nil
}

// DeleteQuestion is the confirmation asked before deleting id.
func DeleteQuestion(id string) string {
	return fmt.Sprintf("Are you sure you want to delete product ID %s?", id)
}

// Edit copies the displayed values of item id into the update form.
// It reports false when no displayed item has that id.
func (c *Controller) Edit(id string) (UpdateForm, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.display.Find(id)
	if !ok {
		return c.updateForm, false
	}
	c.updateForm = UpdateForm{
		ID:          item.Edit.ID,
		Name:        item.Edit.Name,
		Price:       item.Edit.Price,
		Description: item.Edit.Description,
	}
	return c.updateForm, true
}

// Forms returns the current values of the create and update forms.
func (c *Controller) Forms() (CreateForm, UpdateForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createForm, c.updateForm
}

// Display returns the last successful rendering.
func (c *Controller) Display() render.Display {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

// IsValidation reports whether err was raised before any request was sent.
func IsValidation(err error) bool {
	var validationErr *perrors.ValidationError
	return errors.As(err, &validationErr)
}

// parseCreatePrice returns nil for an empty field and NaN for text that is not a number,
// which the validator then rejects.
func parseCreatePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return product.PriceOf(math.NaN())
	}
	return &v
}

// patchOf keeps the non-empty fields of the update form. A price that is not a number
// is treated as not filled in.
func patchOf(form UpdateForm) product.Patch {
	var patch product.Patch
	if name := strings.TrimSpace(form.Name); name != "" {
		patch.Name = &name
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(form.Price), 64); err == nil && !math.IsNaN(v) {
		patch.Price = &v
	}
	if description := strings.TrimSpace(form.Description); description != "" {
		patch.Description = &description
	}
	return patch
}
