package httpx

import (
	"errors"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/http/validation"
	"github.com/lubsanchez/pos-console/internal/service"
	"github.com/lubsanchez/pos-console/internal/session"
)

const (
	minPasswordLength = 6
	maxEmailLength    = 254
)

type loginForm struct {
	Email    string
	Password string
	Redirect string
}

type registerForm struct {
	FullName string
	Email    string
	Password string
	Confirm  string
}

// LoginPage renders the sign-in form. GET /login.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, loginForm{Redirect: safeRedirectPath(r.URL.Query().Get("redirect"))}, nil, "")
}

// Login signs the operator in. POST /login.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Redirect: safeRedirectPath(r.PostFormValue("redirect")),
	}
	errs := validation.New().
		Validate("email", form.Email, validation.Required("Email", maxEmailLength)).
		Validate("password", form.Password, validation.Required("Password", 128)).
		Errors()
	if len(errs) > 0 {
		h.renderLogin(w, r, form, errs, "Please fill in all fields.")
		return
	}

	identity, err := h.Session.Login(r.Context(), domainauth.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		h.renderLogin(w, r, form, nil, loginFailureMessage(err))
		return
	}

	target := form.Redirect
	if target == "" || target == PathLogin {
		target = PathDashboard
	}
	h.done(w, r, target, "Welcome, "+identity.FullName+"!")
}

// RegisterPage renders the sign-up form. GET /register.
func (h *UIHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, registerForm{}, nil, "")
}

// Register creates an account and signs it in. POST /register.
func (h *UIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := registerForm{
		FullName: strings.TrimSpace(r.PostFormValue("fullName")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}
	errs := validation.New().
		Validate("fullName", form.FullName, validation.Required("Full name", 120)).
		Validate("email", form.Email, validation.Required("Email", maxEmailLength), validation.Email("Email")).
		Validate("password", form.Password, validation.Required("Password", 128), validation.MinLength("Password", minPasswordLength)).
		Errors()
	if form.Confirm != form.Password {
		errs["confirm"] = "Passwords do not match."
	}
	if len(errs) > 0 {
		h.renderRegister(w, r, form, errs, errMsgFixBelow)
		return
	}

	identity, err := h.Session.Register(r.Context(), domainauth.Registration{
		FullName: form.FullName,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		h.renderRegister(w, r, form, nil, loginFailureMessage(err))
		return
	}
	h.done(w, r, PathDashboard, "Account created. Welcome, "+identity.FullName+"!")
}

// Logout ends the session. POST /logout.
// The store also navigates every attached browser to the login page.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout(r.Context())
	h.Flash.Add(w, r, service.Info("You have signed out."))
	redirect(w, r, PathLogin)
}

// SessionStatus reports the session state as JSON. GET /api/session.
func (h *UIHandlers) SessionStatus(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{"authenticated": h.Session.IsAuthenticated()}
	if identity, ok := h.Session.CurrentIdentity(); ok {
		resp["user"] = identity
	}
	if last := h.Session.LastValidated(); !last.IsZero() {
		resp["lastValidated"] = last.UTC().Format(time.RFC3339)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// ValidateSession validates the credential now. POST /api/session/validate.
// Only a rejected credential reports valid=false; outages keep the session.
func (h *UIHandlers) ValidateSession(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]bool{"valid": h.Session.ValidateNow(r.Context())})
}

func loginFailureMessage(err error) string {
	var le *session.LoginError
	if errors.As(err, &le) && le.Message != "" {
		return le.Message
	}
	return "Invalid credentials."
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, form loginForm, errs map[string]string, msg string) {
	form.Password = ""
	b := NewTemplateData(r, PageMeta{Title: "Sign in", CurrentPage: PageLogin}).
		WithFieldErrors(errs).
		With("FormData", form)
	if msg != "" {
		b.WithError(msg)
	}
	h.renderPage(w, r, b.Build())
}

func (h *UIHandlers) renderRegister(w http.ResponseWriter, r *http.Request, form registerForm, errs map[string]string, msg string) {
	form.Password, form.Confirm = "", ""
	b := NewTemplateData(r, PageMeta{Title: "Create account", CurrentPage: PageRegister}).
		WithFieldErrors(errs).
		With("FormData", form)
	if msg != "" {
		b.WithError(msg)
	}
	h.renderPage(w, r, b.Build())
}
