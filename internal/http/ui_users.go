package httpx

import (
	"context"
	"net/http"
	"strings"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
	apperrors "github.com/lubsanchez/pos-console/internal/errors"
	"github.com/lubsanchez/pos-console/internal/http/validation"
)

type userForm struct {
	ID       int64
	FullName string
	Email    string
	Role     string
	Password string
}

//nolint:gochecknoglobals // static read-only options for the role select
var roleOptions = []string{string(domainauth.RoleAdmin), string(domainauth.RoleEmployee)}

func parseUserForm(r *http.Request) (userForm, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return userForm{}, map[string]string{"fullName": "Invalid form submission."}
	}
	f := userForm{
		FullName: strings.TrimSpace(r.PostFormValue("fullName")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Role:     strings.TrimSpace(r.PostFormValue("role")),
		Password: r.PostFormValue("password"),
	}
	f.ID, _ = pathID(r)

	v := validation.New().
		Validate("fullName", f.FullName, validation.Required("Full name", maxNameLength)).
		Validate("email", f.Email, validation.Required("Email", maxEmailLength), validation.Email("Email")).
		Validate("role", f.Role, validation.OneOf("Role", roleOptions))
	if f.ID == 0 {
		v.Validate("password", f.Password, validation.Required("Password", 128), validation.MinLength("Password", minPasswordLength))
	} else {
		v.Validate("password", f.Password, validation.MinLength("Password", minPasswordLength))
	}
	return f, v.Errors()
}

// UsersPage lists operator accounts. GET /usuarios.
func (h *UIHandlers) UsersPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Users", CurrentPage: PageUsers},
		Fetch: func(ctx context.Context, data map[string]any) error {
			users, err := h.Staff.List(ctx)
			data["Users"] = users
			return err
		},
	})
}

// UserNew renders the empty account form. GET /usuarios/nuevo.
func (h *UIHandlers) UserNew(w http.ResponseWriter, r *http.Request) {
	h.renderUserForm(w, r, FormModeCreate, userForm{Role: string(domainauth.RoleEmployee)})
}

// UserEdit renders the form for an existing account. GET /usuarios/{id}/editar.
func (h *UIHandlers) UserEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	users, err := h.Staff.List(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err)
		return
	}
	for _, u := range users {
		if u.ID == id {
			h.renderUserForm(w, r, FormModeEdit, userForm{
				ID:       u.ID,
				FullName: u.FullName,
				Email:    u.Email,
				Role:     string(u.Role),
			})
			return
		}
	}
	h.renderLoadError(w, r, apperrors.NotFound("User not found"))
}

// UserCreate handles POST /usuarios.
func (h *UIHandlers) UserCreate(w http.ResponseWriter, r *http.Request) {
	h.saveUser(w, r, FormModeCreate)
}

// UserUpdate handles POST /usuarios/{id}.
func (h *UIHandlers) UserUpdate(w http.ResponseWriter, r *http.Request) {
	h.saveUser(w, r, FormModeEdit)
}

func (h *UIHandlers) saveUser(w http.ResponseWriter, r *http.Request, mode FormMode) {
	HandleForm(FormHandlerOpts[userForm]{
		W:      w,
		R:      r,
		Mode:   mode,
		Parser: parseUserForm,
		Save: func(ctx context.Context, id int64, f userForm) error {
			_, err := h.Staff.Save(ctx, id, pos.StaffInput{
				FullName: f.FullName,
				Email:    f.Email,
				Role:     domainauth.Role(f.Role),
				Password: f.Password,
			})
			return err
		},
		Renderer: func(w http.ResponseWriter, r *http.Request, data map[string]any) {
			if f, ok := data["FormData"].(userForm); ok {
				f.Password = ""
				data["FormData"] = f
			}
			data["Roles"] = roleOptions
			h.renderPage(w, r, data)
		},
		OnSuccess: func(w http.ResponseWriter, r *http.Request) {
			h.done(w, r, "/usuarios", "User saved.")
		},
		PageMeta: userFormMeta(mode),
	})
}

// UserDelete handles POST /usuarios/{id}/eliminar.
func (h *UIHandlers) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if err := h.Staff.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "/usuarios", "Delete user", err)
		return
	}
	h.done(w, r, "/usuarios", "User deleted.")
}

func (h *UIHandlers) renderUserForm(w http.ResponseWriter, r *http.Request, mode FormMode, f userForm) {
	data := NewTemplateData(r, userFormMeta(mode)).
		With("Mode", mode).
		With("FormData", f).
		With("Roles", roleOptions).
		Build()
	h.renderPage(w, r, data)
}

func userFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit user", CurrentPage: PageUserForm}
	}
	return PageMeta{Title: "New user", CurrentPage: PageUserForm}
}
