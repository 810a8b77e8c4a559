package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageDashboard = "dashboard"
	PagePOS       = "pos"

	PageProducts    = "productos"
	PageProductForm = "producto-form"

	PageCategories   = "categorias"
	PageCategoryForm = "categoria-form"

	PageSales = "ventas"
	PageSale  = "venta"

	PageUsers    = "usuarios"
	PageUserForm = "usuario-form"

	PageReports = "reportes"

	PageLogin    = "login"
	PageRegister = "register"
)

// Fixed routes the handlers redirect between.
const (
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
	PathPOS       = "/pos"
)

// TemplatePathFromRoot is where templates live relative to the project root.
const TemplatePathFromRoot = "frontend/templates"

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageDashboard:    "dashboard-content",
	PagePOS:          "pos-content",
	PageProducts:     "productos-content",
	PageProductForm:  "producto-form-content",
	PageCategories:   "categorias-content",
	PageCategoryForm: "categoria-form-content",
	PageSales:        "ventas-content",
	PageSale:         "venta-content",
	PageUsers:        "usuarios-content",
	PageUserForm:     "usuario-form-content",
	PageReports:      "reportes-content",
	PageLogin:        "login-content",
	PageRegister:     "register-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
