package httpx

import (
	"github.com/sman1jakarta/portal/internal/http/ui/viewmodel"
)

// TemplateDataBuilder provides a fluent API for building the page-specific part of template data.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates an empty TemplateDataBuilder.
func NewTemplateData() *TemplateDataBuilder {
	return &TemplateDataBuilder{data: map[string]any{}}
}

// WithForm sets the submitted or loaded form values and the form mode.
func (b *TemplateDataBuilder) WithForm(form any, mode FormMode) *TemplateDataBuilder {
	b.data["Form"] = form
	b.data["Mode"] = string(mode)
	b.data["IsEdit"] = mode == FormModeEdit
	return b
}

// WithPagination adds the pager.
func (b *TemplateDataBuilder) WithPagination(p viewmodel.Pagination) *TemplateDataBuilder {
	b.data["Pagination"] = p
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	if msg != "" {
		b.data["Error"] = true
		b.data["ErrorMessage"] = msg
	}
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
