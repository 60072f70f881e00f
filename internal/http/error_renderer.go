package httpx

import (
	"errors"
	"net/http"

	"github.com/sman1jakarta/portal/internal/domain/notice"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

var (
	errNotFound  = errors.New("resource not found")
	errForbidden = errors.New("forbidden")
)

// FormError is an error translated for redisplaying a form.
type FormError struct {
	Status  int
	Fields  map[string]string
	Message string
}

// ClassifyFormError maps a service error to inline field errors and a general
// message. ok is false for errors that are not the visitor's to fix.
func ClassifyFormError(err error) (FormError, bool) {
	if fields, ok := apperrors.AsFieldErrors(err); ok {
		status := http.StatusUnprocessableEntity
		if apperrors.IsConflict(err) {
			status = http.StatusConflict
		}
		return FormError{Status: status, Fields: fields, Message: errMsgFixBelow}, true
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return FormError{}, false
	}
	switch appErr.Code {
	case apperrors.ErrCodeValidation:
		return FormError{Status: http.StatusUnprocessableEntity, Message: appErr.Message}, true
	case apperrors.ErrCodeConflict, apperrors.ErrCodeForeignKey:
		return FormError{Status: http.StatusConflict, Message: appErr.Message}, true
	case apperrors.ErrCodeTimeout:
		return FormError{Status: http.StatusGatewayTimeout, Message: "Permintaan melebihi batas waktu. Silakan coba lagi."}, true
	default:
		return FormError{}, false
	}
}

// ErrorOpts contains the options for redisplaying a form after a failed submit.
type ErrorOpts struct {
	Err  error
	Meta PageMeta
	// Data carries the form values and choice lists back to the template.
	Data *TemplateDataBuilder
}

// RenderFormError redisplays a form with inline errors, or falls back to the
// 404 and 500 pages for errors the visitor cannot fix.
func (h *UIHandlers) RenderFormError(w http.ResponseWriter, r *http.Request, opts ErrorOpts) {
	if apperrors.IsNotFound(opts.Err) {
		h.NotFound(w, r)
		return
	}
	fe, ok := ClassifyFormError(opts.Err)
	if !ok {
		h.serverError(w, r, opts.Err)
		return
	}
	data := opts.Data
	if data == nil {
		data = NewTemplateData()
	}
	data.WithFieldErrors(fe.Fields).WithError(fe.Message)
	h.render(w, r, fe.Status, opts.Meta, data.Build())
}

// failLookup answers a failed load or delete: 404 for missing records, 500 otherwise.
func (h *UIHandlers) failLookup(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.IsNotFound(err) {
		h.NotFound(w, r)
		return
	}
	h.serverError(w, r, err)
}

// IsValidationError reports whether err is the visitor's to fix.
func IsValidationError(err error) bool {
	return apperrors.IsValidation(err)
}

// flashError queues err's message as an error notice for the next page.
func (h *UIHandlers) flashError(w http.ResponseWriter, r *http.Request, err error) {
	msg := errMsgFixBelow
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		msg = appErr.Message
	} else if fields, ok := apperrors.AsFieldErrors(err); ok {
		for _, m := range fields {
			msg = m
			break
		}
	}
	h.flash(w, r, notice.Error(msg))
}
