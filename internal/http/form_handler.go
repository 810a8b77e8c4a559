package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/lubsanchez/pos-console/internal/errors"
)

// FormParser parses form data from an HTTP request and returns the parsed data
// along with any field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormSaver creates (id == 0) or updates a record.
type FormSaver[T any] func(ctx context.Context, id int64, in T) error

// FormRenderer is a function that renders the form template with the given data.
type FormRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// FormHandlerOpts contains all options needed to handle a form submission.
type FormHandlerOpts[T any] struct {
	W        http.ResponseWriter
	R        *http.Request
	Mode     FormMode
	Parser   FormParser[T]
	Save     FormSaver[T]
	Renderer FormRenderer
	// OnSuccess runs after a successful save; it must write the response.
	OnSuccess func(w http.ResponseWriter, r *http.Request)
	PageMeta  PageMeta
	// ExtraData is merged into the template data when the form is re-rendered.
	ExtraData map[string]any
	// ErrorStatus is set on validation errors (defaults to 200 for htmx swaps).
	ErrorStatus int
}

// HandleForm processes create and edit submissions: parse, validate, save,
// and on failure re-render the form with the operator's input preserved.
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Parser == nil || opts.Save == nil || opts.Renderer == nil || opts.OnSuccess == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}

	var id int64
	switch opts.Mode {
	case FormModeCreate:
	case FormModeEdit:
		var ok bool
		if id, ok = pathID(opts.R); !ok {
			http.NotFound(opts.W, opts.R)
			return
		}
	default:
		http.Error(opts.W, "invalid form mode", http.StatusBadRequest)
		return
	}

	data, fieldErrors := opts.Parser(opts.R)
	if len(fieldErrors) > 0 {
		opts.renderFormError(fieldErrors, "", data)
		return
	}

	if err := opts.Save(opts.R.Context(), id, data); err != nil {
		handleFormServiceError(opts, err, data)
		return
	}
	opts.OnSuccess(opts.W, opts.R)
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handleFormServiceError maps a save error onto the form. Errors naming a
// field are shown next to it; other messages become the banner.
func handleFormServiceError[T any](opts FormHandlerOpts[T], err error, data T) {
	if errors.Is(err, context.Canceled) {
		http.Error(opts.W, "request canceled", http.StatusRequestTimeout)
		return
	}

	mapped := apperrors.MapAPIError(err)
	if field := apperrors.GetField(mapped); field != "" {
		opts.renderFormError(map[string]string{field: apperrors.UserMessage(mapped)}, "", data)
		return
	}
	if apperrors.IsValidation(mapped) || apperrors.IsConflict(mapped) {
		opts.renderFormError(nil, apperrors.UserMessage(mapped), data)
		return
	}
	opts.renderFormError(nil, "Unable to save: "+apperrors.UserMessage(mapped), data)
}

// renderFormError renders the form with errors and preserves form data.
func (fh FormHandlerOpts[T]) renderFormError(fieldErrors map[string]string, generalError string, data T) {
	if fh.ErrorStatus != 0 && len(fieldErrors) > 0 {
		fh.W.WriteHeader(fh.ErrorStatus)
	}

	templateData := NewTemplateData(fh.R, fh.PageMeta).WithFieldErrors(fieldErrors)
	switch {
	case generalError != "":
		templateData.WithError(generalError)
	case len(fieldErrors) > 0:
		templateData.WithError(errMsgFixBelow)
	}
	templateData.With("Mode", fh.Mode)
	for k, v := range fh.ExtraData {
		templateData.With(k, v)
	}
	templateData.With("FormData", data)

	fh.Renderer(fh.W, fh.R, templateData.Build())
}
