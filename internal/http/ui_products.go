package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	"github.com/lubsanchez/pos-console/internal/http/validation"
)

const (
	maxProductStock = 1_000_000
	maxCodeLength   = 64
	maxNameLength   = 120
	maxDescLength   = 500
)

// productForm keeps the submitted strings so a rejected form shows them back.
type productForm struct {
	ID          int64
	Code        string
	Name        string
	Description string
	Price       string
	Cost        string
	Stock       string
	MinStock    string
	CategoryID  string
	Active      bool
}

func productFormFrom(p pos.Product) productForm {
	f := productForm{
		ID:         p.ID,
		Code:       p.Code,
		Name:       p.Name,
		Price:      strconv.FormatFloat(p.Price, 'f', 2, 64),
		Cost:       strconv.FormatFloat(p.Cost, 'f', 2, 64),
		Stock:      strconv.Itoa(p.Stock),
		MinStock:   strconv.Itoa(p.MinStock),
		CategoryID: strconv.FormatInt(p.CategoryID, 10),
		Active:     p.Active,
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	return f
}

// input converts a validated form.
func (f productForm) input() pos.ProductInput {
	price, _ := strconv.ParseFloat(f.Price, 64)
	cost, _ := strconv.ParseFloat(f.Cost, 64)
	stock, _ := strconv.Atoi(f.Stock)
	minStock, _ := strconv.Atoi(f.MinStock)
	categoryID, _ := strconv.ParseInt(f.CategoryID, 10, 64)
	active := f.Active
	return pos.ProductInput{
		Code:        f.Code,
		Name:        f.Name,
		Description: optionalString(f.Description),
		Price:       price,
		Cost:        cost,
		Stock:       stock,
		MinStock:    minStock,
		CategoryID:  categoryID,
		Active:      &active,
	}
}

func parseProductForm(r *http.Request) (productForm, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return productForm{}, map[string]string{"codigo": "Invalid form submission."}
	}
	f := productForm{
		Code:        strings.TrimSpace(r.PostFormValue("codigo")),
		Name:        strings.TrimSpace(r.PostFormValue("nombre")),
		Description: strings.TrimSpace(r.PostFormValue("descripcion")),
		Price:       strings.TrimSpace(r.PostFormValue("precio")),
		Cost:        strings.TrimSpace(r.PostFormValue("costo")),
		Stock:       strings.TrimSpace(r.PostFormValue("stock")),
		MinStock:    strings.TrimSpace(r.PostFormValue("stockMinimo")),
		CategoryID:  strings.TrimSpace(r.PostFormValue("categoriaId")),
		Active:      r.PostFormValue("activo") != "",
	}
	f.ID, _ = pathID(r)
	if f.Cost == "" {
		f.Cost = "0"
	}
	if f.MinStock == "" {
		f.MinStock = "0"
	}

	errs := validation.New().
		Validate("codigo", f.Code, validation.Required("Code", maxCodeLength)).
		Validate("nombre", f.Name, validation.Required("Name", maxNameLength)).
		Validate("descripcion", f.Description, validation.Optional("Description", maxDescLength)).
		Validate("precio", f.Price, validation.Required("Price", 32), validation.Amount("Price")).
		Validate("costo", f.Cost, validation.Amount("Cost")).
		Validate("stock", f.Stock, validation.Required("Stock", 16), validation.IntRange("Stock", 0, maxProductStock)).
		Validate("stockMinimo", f.MinStock, validation.IntRange("Minimum stock", 0, maxProductStock)).
		Validate("categoriaId", f.CategoryID, validation.Required("Category", 20)).
		Errors()
	if _, ok := errs["categoriaId"]; !ok {
		if id, err := strconv.ParseInt(f.CategoryID, 10, 64); err != nil || id <= 0 {
			errs["categoriaId"] = "Select a category."
		}
	}
	return f, errs
}

// ProductsPage lists the catalog. GET /productos.
func (h *UIHandlers) ProductsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := pos.ProductQuery{
		Page:   getPageParam(q),
		Search: strings.TrimSpace(q.Get("q")),
	}
	query.CategoryID, _ = strconv.ParseInt(q.Get("categoria"), 10, 64)

	b := NewTemplateData(r, PageMeta{Title: "Products", CurrentPage: PageProducts}).
		With("Search", query.Search).
		With("CategoryFilter", query.CategoryID)

	categories, err := h.Catalog.Categories(r.Context())
	if err != nil {
		h.logger().WarnContext(r.Context(), "categories failed to load", "error", err)
	}
	b.With("Categories", categories)

	page, err := h.Catalog.Products(r.Context(), query)
	if err != nil {
		h.logger().WarnContext(r.Context(), "products failed to load", "error", err)
		data := b.Build()
		markPageError(data, err)
		h.renderPage(w, r, data)
		return
	}
	b.With("Products", page.Data).WithPagination(page.Meta, "/productos")
	h.renderPage(w, r, b.Build())
}

// ProductNew renders the empty product form. GET /productos/nuevo.
func (h *UIHandlers) ProductNew(w http.ResponseWriter, r *http.Request) {
	h.renderProductForm(w, r, FormModeCreate, productForm{Active: true, Cost: "0", MinStock: "0"})
}

// ProductEdit renders the form for an existing product. GET /productos/{id}/editar.
func (h *UIHandlers) ProductEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	p, err := h.Catalog.Product(r.Context(), id)
	if err != nil {
		h.renderLoadError(w, r, err)
		return
	}
	h.renderProductForm(w, r, FormModeEdit, productFormFrom(p))
}

// ProductCreate handles POST /productos.
func (h *UIHandlers) ProductCreate(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, FormModeCreate)
}

// ProductUpdate handles POST /productos/{id}.
func (h *UIHandlers) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, FormModeEdit)
}

func (h *UIHandlers) saveProduct(w http.ResponseWriter, r *http.Request, mode FormMode) {
	var saved pos.Product
	HandleForm(FormHandlerOpts[productForm]{
		W:      w,
		R:      r,
		Mode:   mode,
		Parser: parseProductForm,
		Save: func(ctx context.Context, id int64, f productForm) error {
			var err error
			saved, err = h.Catalog.SaveProduct(ctx, id, f.input())
			return err
		},
		Renderer: h.renderPage,
		OnSuccess: func(w http.ResponseWriter, r *http.Request) {
			h.done(w, r, "/productos", "Product "+saved.Name+" saved.")
		},
		PageMeta:  productFormMeta(mode),
		ExtraData: map[string]any{"Categories": h.categoryOptions(r.Context())},
	})
}

// ProductDelete handles POST /productos/{id}/eliminar.
func (h *UIHandlers) ProductDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if err := h.Catalog.DeleteProduct(r.Context(), id); err != nil {
		h.fail(w, r, "/productos", "Delete product", err)
		return
	}
	h.done(w, r, "/productos", "Product deleted.")
}

func (h *UIHandlers) renderProductForm(w http.ResponseWriter, r *http.Request, mode FormMode, f productForm) {
	data := NewTemplateData(r, productFormMeta(mode)).
		With("Mode", mode).
		With("FormData", f).
		With("Categories", h.categoryOptions(r.Context())).
		Build()
	h.renderPage(w, r, data)
}

func productFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit product", CurrentPage: PageProductForm}
	}
	return PageMeta{Title: "New product", CurrentPage: PageProductForm}
}

// categoryOptions feeds the category select; a failure leaves it empty.
func (h *UIHandlers) categoryOptions(ctx context.Context) []pos.Category {
	categories, err := h.Catalog.Categories(ctx)
	if err != nil {
		h.logger().WarnContext(ctx, "categories failed to load", "error", err)
		return nil
	}
	return categories
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
