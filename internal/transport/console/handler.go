// Package console serves the server-rendered web console: the product list, a transient
// message, the create and update forms and the reload trigger.
package console

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/abgdnv/productctl/internal/controller"
	"github.com/abgdnv/productctl/internal/notify"
	"github.com/abgdnv/productctl/internal/render"
	"github.com/abgdnv/productctl/pkg/web"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").
	Funcs(template.FuncMap{"pathEscape": url.PathEscape}).
	ParseFS(templatesFS, "templates/*.html"))

// Flows is the part of the controller the console drives.
type Flows interface {
	Refresh(ctx context.Context) error
	Create(ctx context.Context, form controller.CreateForm) error
	Update(ctx context.Context, form controller.UpdateForm) error
	Delete(ctx context.Context, id string) error
	Edit(id string) (controller.UpdateForm, bool)
	Forms() (controller.CreateForm, controller.UpdateForm)
}

type pageData struct {
	Message notify.Message
	Display render.Display
	Create  controller.CreateForm
	Update  controller.UpdateForm
}

type confirmData struct {
	ID       string
	Question string
}

type Handler struct {
	flows  Flows
	board  *notify.Board
	view   *ListView
	logger *slog.Logger
}

// NewHandler creates the console handler. board and view must be the notifier and list
// view the controller was built with.
func NewHandler(flows Flows, board *notify.Board, view *ListView, logger *slog.Logger) *Handler {
	return &Handler{
		flows:  flows,
		board:  board,
		view:   view,
		logger: logger.With("component", "console"),
	}
}

// RegisterRoutes registers the console pages and form actions.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Page)
	r.Post("/reload", h.Reload)

	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Post("/update", h.Update)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/edit", h.Edit)
			r.Get("/delete", h.ConfirmDelete)
			r.Post("/delete", h.Delete)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// Page loads the collection and renders the console.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	_ = h.flows.Refresh(r.Context())
	createForm, updateForm := h.flows.Forms()
	h.render(w, r, "page.html", pageData{
		Message: h.board.Current(),
		Display: h.view.Current(),
		Create:  createForm,
		Update:  updateForm,
	})
}

// Reload re-reads the collection.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	_ = h.flows.Refresh(r.Context())
	web.RedirectSeeOther(w, r, "/")
}

// Create submits the create form.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	err := h.flows.Create(r.Context(), controller.CreateForm{
		Name:        r.PostFormValue("name"),
		Price:       r.PostFormValue("price"),
		Description: r.PostFormValue("description"),
	})
	h.logOutcome(r, "create", err)
	web.RedirectSeeOther(w, r, "/")
}

// Update submits the update form.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	err := h.flows.Update(r.Context(), controller.UpdateForm{
		ID:          r.PostFormValue("id"),
		Name:        r.PostFormValue("name"),
		Price:       r.PostFormValue("price"),
		Description: r.PostFormValue("description"),
	})
	h.logOutcome(r, "update", err)
	web.RedirectSeeOther(w, r, "/")
}

// Edit copies a listed product into the update form.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.flows.Edit(id); !ok {
		h.logger.WarnContext(r.Context(), "Edit requested for a product that is not listed", "ID", id)
	}
	web.RedirectSeeOther(w, r, "/")
}

// ConfirmDelete asks the user to confirm a delete.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.render(w, r, "confirm.html", confirmData{ID: id, Question: controller.DeleteQuestion(id)})
}

// Delete runs the delete flow with the answer of the confirmation page.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	ctx := WithConfirmation(r.Context(), r.PostFormValue("confirm") == "yes")
	err := h.flows.Delete(ctx, id)
	h.logOutcome(r, "delete", err)
	web.RedirectSeeOther(w, r, "/")
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(r.Context(), "Error parsing form", "error", err)
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return false
	}
	return true
}

// logOutcome records failures already shown to the user; they never fail the request.
func (h *Handler) logOutcome(r *http.Request, action string, err error) {
	if err != nil {
		h.logger.DebugContext(r.Context(), "Console action failed", "action", action, "error", err)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Error rendering page", "template", name, "error", err)
	}
}
