// Package devapi serves an in-memory products collection with json-server semantics,
// for local runs of the console and for tests.
package devapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/productctl/internal/errors"
	"github.com/abgdnv/productctl/internal/product"
	"github.com/abgdnv/productctl/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// idRule keeps ids usable as a single path segment.
const idRule = "omitempty,max=64,excludesall=/?#"

type Handler struct {
	store    *Store
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a handler serving store.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		validate: validator.New(),
		logger:   logger.With("component", "devapi"),
	}
}

// RegisterRoutes registers the products collection under /products.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Replace)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll lists the collection.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	list := h.store.FindAll()
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	found, err := h.store.FindByID(id)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondJSON(w, h.logger, http.StatusNotFound, struct{}{})
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Create stores a new product, assigning an id when the body has none.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.store.Create(p)
	if err != nil {
		if errors.Is(err, ErrDuplicateID) {
			h.logger.WarnContext(r.Context(), "Duplicate product id", "ID", p.ID)
			web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Error: %s %s", err, p.ID))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// Replace overwrites a product with the request body.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.store.Replace(id, p)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			h.logger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondJSON(w, h.logger, http.StatusNotFound, struct{}{})
			return
		}
		h.logger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to update product with ID %s", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteByID(id); err != nil {
		h.logger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
		web.RespondJSON(w, h.logger, http.StatusNotFound, struct{}{})
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondJSON(w, h.logger, http.StatusOK, struct{}{})
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (product.Product, bool) {
	var p product.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.logger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return product.Product{}, false
	}
	if err := h.validate.Var(p.ID, idRule); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid product id", "ID", p.ID, "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid product id")
		return product.Product{}, false
	}
	return p, true
}
