package httpx

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	apperrors "github.com/lubsanchez/pos-console/internal/errors"
	mocks "github.com/lubsanchez/pos-console/internal/mocks/auth"
)

func validProductForm() url.Values {
	return url.Values{
		"codigo":      {"750100"},
		"nombre":      {"Agua 600ml"},
		"precio":      {"12.50"},
		"stock":       {"10"},
		"categoriaId": {"1"},
		"activo":      {"1"},
	}
}

func TestProductCreate_Success(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())
	h.login()

	var saved pos.ProductInput
	var savedID int64 = -1
	h.catalog.SaveFunc = func(_ context.Context, id int64, in pos.ProductInput) (pos.Product, error) {
		savedID, saved = id, in
		return pos.Product{ID: 7, Name: in.Name}, nil
	}

	rec := h.postForm("/productos", validProductForm())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/productos", rec.Header().Get("Location"))
	assert.Zero(t, savedID)
	assert.Equal(t, "750100", saved.Code)
	assert.InDelta(t, 12.5, saved.Price, 0.001)
	assert.Equal(t, 10, saved.Stock)
	assert.Equal(t, int64(1), saved.CategoryID)
	require.NotNil(t, saved.Active)
	assert.True(t, *saved.Active)
	assert.Nil(t, saved.Description)
}

func TestProductCreate_ValidationKeepsInput(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())
	h.login()
	calls := 0
	h.catalog.SaveFunc = func(context.Context, int64, pos.ProductInput) (pos.Product, error) {
		calls++
		return pos.Product{}, nil
	}

	form := validProductForm()
	form.Set("nombre", "")
	form.Set("categoriaId", "0")
	rec := h.postForm("/productos", form)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, calls)
	body := rec.Body.String()
	assert.Contains(t, body, errMsgFixBelow)
	assert.Contains(t, body, "Select a category.")
	assert.Contains(t, body, `value="750100"`)
}

func TestProductUpdate_FieldErrorFromAPI(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())
	h.login()
	h.catalog.SaveFunc = func(_ context.Context, id int64, _ pos.ProductInput) (pos.Product, error) {
		assert.Equal(t, int64(7), id)
		return pos.Product{}, apperrors.ValidationField("codigo", "Code already in use")
	}

	rec := h.postForm("/productos/7", validProductForm())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Code already in use")
}

func TestProductDelete(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())
	h.login()
	var deleted int64
	h.catalog.DeleteFunc = func(_ context.Context, id int64) error {
		deleted = id
		return nil
	}

	rec := h.postForm("/productos/7/eliminar", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, int64(7), deleted)
}

func TestProductsPage_EmployeeSeesNoEditControls(t *testing.T) {
	h := newHarness(t, mocks.DefaultEmployee())
	h.login()
	h.catalog.ProductsFunc = func(context.Context, pos.ProductQuery) (pos.Page[pos.Product], error) {
		return pos.Page[pos.Product]{Data: []pos.Product{testProduct()}, Meta: pos.PageMeta{CurrentPage: 1, LastPage: 1, Total: 1}}, nil
	}

	rec := h.get("/productos")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Agua 600ml")
	assert.NotContains(t, rec.Body.String(), "/productos/nuevo")
	assert.NotContains(t, rec.Body.String(), "/productos/7/eliminar")
}
