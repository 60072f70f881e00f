package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/sman1jakarta/portal/internal/adapters/memory"
	"github.com/sman1jakarta/portal/internal/core"
	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/mocks"
	"github.com/sman1jakarta/portal/internal/ports"
)

func TestFixedVerifier(t *testing.T) {
	v := FixedVerifier{Email: "admin@sman1jakarta.sch.id", Password: "admin123"}
	ctx := context.Background()

	p, err := v.Verify(ctx, " Admin@SMAN1Jakarta.sch.id ", "admin123")
	require.NoError(t, err)
	assert.Equal(t, BuiltinAdminName, p.Name)
	assert.Equal(t, domainauth.RoleAdmin, p.Role)
	assert.Empty(t, p.UserID)

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "admin@sman1jakarta.sch.id", "admin124"},
		{"wrong email", "guru@sman1jakarta.sch.id", "admin123"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ports.ErrInvalidCredentials)
		})
	}

	_, err = FixedVerifier{}.Verify(ctx, "", "")
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials, "unconfigured verifier accepts nothing")
}

func seedUser(t *testing.T, repo *memory.UserRepository, email, password string, status model.UserStatus) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := repo.Create(context.Background(), core.CreateUserParams{
		Input: model.UserInput{
			Name:   "Budi Santoso",
			Email:  email,
			Role:   domainauth.RoleGuru,
			Status: status,
		},
		PasswordHash: string(hash),
	})
	require.NoError(t, err)
	return u
}

func TestUserVerifier(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	active := seedUser(t, repo, "budi@sman1jakarta.sch.id", "rahasia1", model.UserStatusActive)
	seedUser(t, repo, "siti@sman1jakarta.sch.id", "rahasia2", model.UserStatusInactive)

	v := UserVerifier{Users: repo}

	p, err := v.Verify(ctx, "BUDI@sman1jakarta.sch.id", "rahasia1")
	require.NoError(t, err)
	assert.Equal(t, active.ID, p.UserID)
	assert.Equal(t, "Budi Santoso", p.Name)
	assert.Equal(t, domainauth.RoleGuru, p.Role)

	got, err := repo.GetByID(ctx, active.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin, "successful login stamps last login")

	_, err = v.Verify(ctx, "budi@sman1jakarta.sch.id", "salah123")
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = v.Verify(ctx, "siti@sman1jakarta.sch.id", "rahasia2")
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials, "inactive accounts cannot log in")

	_, err = v.Verify(ctx, "nobody@sman1jakarta.sch.id", "rahasia1")
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	want := domainauth.Principal{Name: "Guru", Role: domainauth.RoleGuru}

	t.Run("falls through rejections", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		first := mocks.NewMockCredentialVerifier(ctrl)
		second := mocks.NewMockCredentialVerifier(ctrl)
		gomock.InOrder(
			first.EXPECT().Verify(gomock.Any(), "a@b.id", "secret").Return(domainauth.Principal{}, ports.ErrInvalidCredentials),
			second.EXPECT().Verify(gomock.Any(), "a@b.id", "secret").Return(want, nil),
		)

		got, err := Chain{first, second}.Verify(ctx, "a@b.id", "secret")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("stops on first match", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		first := mocks.NewMockCredentialVerifier(ctrl)
		second := mocks.NewMockCredentialVerifier(ctrl)
		first.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(want, nil)

		got, err := Chain{first, second}.Verify(ctx, "a@b.id", "secret")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("stops on backend error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		first := mocks.NewMockCredentialVerifier(ctrl)
		second := mocks.NewMockCredentialVerifier(ctrl)
		boom := errors.New("db down")
		first.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(domainauth.Principal{}, boom)

		_, err := Chain{first, second}.Verify(ctx, "a@b.id", "secret")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty chain rejects", func(t *testing.T) {
		_, err := Chain{}.Verify(ctx, "a@b.id", "secret")
		assert.ErrorIs(t, err, ports.ErrInvalidCredentials)
	})
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("admin123")))
}
