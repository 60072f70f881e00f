package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

func TestClassifyFormError(t *testing.T) {
	fields := apperrors.FieldErrors{}
	fields.Add("title", "Judul wajib diisi")
	fields.Add("content", "Isi berita wajib diisi")

	tests := []struct {
		name       string
		err        error
		wantOK     bool
		wantStatus int
		wantFields map[string]string
		wantMsg    string
	}{
		{
			name:       "field errors",
			err:        fields.Err(),
			wantOK:     true,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string]string{"title": "Judul wajib diisi", "content": "Isi berita wajib diisi"},
			wantMsg:    errMsgFixBelow,
		},
		{
			name:       "wrapped single field",
			err:        fmt.Errorf("create user: %w", apperrors.ValidationField("email", "Email tidak valid")),
			wantOK:     true,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string]string{"email": "Email tidak valid"},
			wantMsg:    errMsgFixBelow,
		},
		{
			name:       "duplicate email",
			err:        apperrors.ConflictField("email", "Email sudah terdaftar"),
			wantOK:     true,
			wantStatus: http.StatusConflict,
			wantFields: map[string]string{"email": "Email sudah terdaftar"},
			wantMsg:    errMsgFixBelow,
		},
		{
			name:       "plain validation",
			err:        apperrors.Validation("Data tidak lengkap"),
			wantOK:     true,
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Data tidak lengkap",
		},
		{
			name:       "plain conflict",
			err:        apperrors.Conflict("Data sedang diubah"),
			wantOK:     true,
			wantStatus: http.StatusConflict,
			wantMsg:    "Data sedang diubah",
		},
		{
			name:       "timeout",
			err:        apperrors.Wrap(context.DeadlineExceeded, apperrors.ErrCodeTimeout, "slow"),
			wantOK:     true,
			wantStatus: http.StatusGatewayTimeout,
		},
		{name: "internal", err: apperrors.Internal("boom")},
		{name: "plain error", err: errors.New("connection refused")},
		{name: "not found", err: apperrors.NotFound("news not found")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe, ok := ClassifyFormError(tt.err)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantStatus, fe.Status)
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, map[string]string(fe.Fields))
			} else {
				assert.Empty(t, fe.Fields)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, fe.Message)
			} else {
				assert.NotEmpty(t, fe.Message)
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(apperrors.ValidationField("status", "Status tidak valid")))
	assert.False(t, IsValidationError(apperrors.NotFound("contact not found")))
	assert.False(t, IsValidationError(nil))
}
