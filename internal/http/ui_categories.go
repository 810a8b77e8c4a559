package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	"github.com/lubsanchez/pos-console/internal/http/validation"
)

type categoryForm struct {
	ID          int64
	Name        string
	Description string
	Active      bool
}

func parseCategoryForm(r *http.Request) (categoryForm, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return categoryForm{}, map[string]string{"nombre": "Invalid form submission."}
	}
	f := categoryForm{
		Name:        strings.TrimSpace(r.PostFormValue("nombre")),
		Description: strings.TrimSpace(r.PostFormValue("descripcion")),
		Active:      r.PostFormValue("activa") != "",
	}
	f.ID, _ = pathID(r)
	errs := validation.New().
		Validate("nombre", f.Name, validation.Required("Name", maxNameLength)).
		Validate("descripcion", f.Description, validation.Optional("Description", maxDescLength)).
		Errors()
	return f, errs
}

// CategoriesPage lists categories. GET /categorias.
func (h *UIHandlers) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Categories", CurrentPage: PageCategories},
		Fetch: func(ctx context.Context, data map[string]any) error {
			categories, err := h.Catalog.Categories(ctx)
			data["Categories"] = categories
			return err
		},
	})
}

// CategoryNew renders the empty form. GET /categorias/nueva.
func (h *UIHandlers) CategoryNew(w http.ResponseWriter, r *http.Request) {
	h.renderCategoryForm(w, r, FormModeCreate, categoryForm{Active: true})
}

// CategoryEdit renders the form for an existing category. GET /categorias/{id}/editar.
func (h *UIHandlers) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	c, err := h.Catalog.Category(r.Context(), id)
	if err != nil {
		h.renderLoadError(w, r, err)
		return
	}
	f := categoryForm{ID: c.ID, Name: c.Name, Active: c.Active}
	if c.Description != nil {
		f.Description = *c.Description
	}
	h.renderCategoryForm(w, r, FormModeEdit, f)
}

// CategoryCreate handles POST /categorias.
func (h *UIHandlers) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	h.saveCategory(w, r, FormModeCreate)
}

// CategoryUpdate handles POST /categorias/{id}.
func (h *UIHandlers) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	h.saveCategory(w, r, FormModeEdit)
}

func (h *UIHandlers) saveCategory(w http.ResponseWriter, r *http.Request, mode FormMode) {
	HandleForm(FormHandlerOpts[categoryForm]{
		W:      w,
		R:      r,
		Mode:   mode,
		Parser: parseCategoryForm,
		Save: func(ctx context.Context, id int64, f categoryForm) error {
			active := f.Active
			_, err := h.Catalog.SaveCategory(ctx, id, pos.CategoryInput{
				Name:        f.Name,
				Description: optionalString(f.Description),
				Active:      &active,
			})
			return err
		},
		Renderer: h.renderPage,
		OnSuccess: func(w http.ResponseWriter, r *http.Request) {
			h.done(w, r, "/categorias", "Category saved.")
		},
		PageMeta: categoryFormMeta(mode),
	})
}

// CategoryDelete handles POST /categorias/{id}/eliminar.
func (h *UIHandlers) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if err := h.Catalog.DeleteCategory(r.Context(), id); err != nil {
		h.fail(w, r, "/categorias", "Delete category", err)
		return
	}
	h.done(w, r, "/categorias", "Category deleted.")
}

func (h *UIHandlers) renderCategoryForm(w http.ResponseWriter, r *http.Request, mode FormMode, f categoryForm) {
	data := NewTemplateData(r, categoryFormMeta(mode)).
		With("Mode", mode).
		With("FormData", f).
		Build()
	h.renderPage(w, r, data)
}

func categoryFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit category", CurrentPage: PageCategoryForm}
	}
	return PageMeta{Title: "New category", CurrentPage: PageCategoryForm}
}
