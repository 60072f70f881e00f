package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1jakarta/portal/internal/core"
	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
	"github.com/sman1jakarta/portal/internal/ports"
)

var (
	_ ports.SessionStore      = (*SessionStore)(nil)
	_ core.CacheRepository    = (*Cache)(nil)
	_ core.SettingsRepository = (*SettingsRepository)(nil)
	_ core.NewsRepository     = (*NewsRepository)(nil)
	_ core.GalleryRepository  = (*GalleryRepository)(nil)
	_ core.ContactRepository  = (*ContactRepository)(nil)
	_ core.UserRepository     = (*UserRepository)(nil)
	_ core.ActivityRepository = (*ActivityRepository)(nil)
)

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	sess := domainauth.Session{ID: "s1", IsAuthenticated: true, Username: "Administrator", Role: domainauth.RoleAdmin}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", got.Username)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domainauth.ErrNoSession)

	t.Run("corrupt values are reported and kept", func(t *testing.T) {
		for _, raw := range []string{"{", "null", `{"id":"bad"}`, `{"id":"bad","isAuthenticated":false}`} {
			store.PutRaw("bad", []byte(raw))
			_, err := store.Get(ctx, "bad")
			assert.ErrorIs(t, err, domainauth.ErrCorruptRecord, raw)
			assert.True(t, store.Has("bad"))
		}
	})

	t.Run("expired sessions are rejected on save", func(t *testing.T) {
		expired := sess
		expired.ID = "s2"
		expired.ExpiresAt = time.Now().Add(-time.Second)
		assert.Error(t, store.Save(ctx, expired))
	})

	require.NoError(t, store.Delete(ctx, "s1"))
	assert.False(t, store.Has("s1"))
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	c := NewCache()
	now := time.Date(2024, 12, 15, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	now = now.Add(2 * time.Minute)
	v, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)

	n, err := c.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = c.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, c.Set(ctx, "text", []byte("abc"), 0))
	_, err = c.Incr(ctx, "text")
	assert.Error(t, err)

	deleted, err := c.Delete(ctx, "counter")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = c.Delete(ctx, "counter")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	r := NewSettingsRepository()

	doc, err := r.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, doc)

	in := []byte(`{"schoolName":"X"}`)
	require.NoError(t, r.Put(ctx, in))
	in[2] = 'Z' // callers may reuse their buffer
	doc, err = r.Get(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"schoolName":"X"}`, string(doc))
}

func validNews(title string, status model.NewsStatus, category model.NewsCategory) *model.NewsInput {
	return &model.NewsInput{
		Title:    title,
		Excerpt:  "Ringkasan berita untuk pengujian repositori memori.",
		Content:  strings.Repeat("Konten berita yang panjang. ", 4),
		Category: category,
		Author:   "Humas",
		Status:   status,
	}
}

func TestNewsRepository(t *testing.T) {
	ctx := context.Background()
	r := NewNewsRepository()

	first, err := r.Create(ctx, validNews("Berita Pertama", model.NewsStatusPublished, model.NewsCategoryPrestasi))
	require.NoError(t, err)
	require.NotNil(t, first.PublishedAt)
	_, err = r.Create(ctx, validNews("Berita Kedua", model.NewsStatusDraft, model.NewsCategoryAkademik))
	require.NoError(t, err)
	third, err := r.Create(ctx, validNews("Berita Ketiga", model.NewsStatusPublished, model.NewsCategoryAkademik))
	require.NoError(t, err)

	list, err := r.List(ctx, model.NewsListOptions{Status: model.NewsStatusPublished})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, third.ID, list[0].ID, "newest first")

	list, err = r.List(ctx, model.NewsListOptions{Category: "AKADEMIK", Q: "kedua"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = r.List(ctx, model.NewsListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)

	n, err := r.Count(ctx, model.NewsListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, r.IncrementViews(ctx, first.ID))
	got, err := r.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)

	require.NoError(t, r.Delete(ctx, first.ID))
	_, err = r.GetByID(ctx, first.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Berita tidak ditemukan", err.Error())
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	a, err := r.Create(ctx, core.CreateUserParams{
		Input:        model.UserInput{Name: "A", Email: "a@sman1jakarta.sch.id", Role: domainauth.RoleGuru},
		PasswordHash: "h",
	})
	require.NoError(t, err)
	b, err := r.Create(ctx, core.CreateUserParams{
		Input:        model.UserInput{Name: "B", Email: "b@sman1jakarta.sch.id", Role: domainauth.RoleStaff},
		PasswordHash: "h",
	})
	require.NoError(t, err)

	_, err = r.Create(ctx, core.CreateUserParams{
		Input:        model.UserInput{Name: "C", Email: "A@SMAN1JAKARTA.SCH.ID", Role: domainauth.RoleStaff},
		PasswordHash: "h",
	})
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "email", apperrors.GetField(err))

	_, err = r.Update(ctx, b.ID, core.CreateUserParams{
		Input: model.UserInput{Name: "B", Email: a.Email, Role: domainauth.RoleStaff},
	})
	assert.True(t, apperrors.IsConflict(err))

	updated, err := r.Update(ctx, a.ID, core.CreateUserParams{
		Input: model.UserInput{Name: "A2", Email: a.Email, Role: domainauth.RoleGuru, Status: model.UserStatusInactive},
	})
	require.NoError(t, err)
	assert.Equal(t, "h", updated.PasswordHash)
	assert.False(t, updated.IsActive())

	list, err := r.List(ctx, model.UserListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestActivityRepository_Recent(t *testing.T) {
	ctx := context.Background()
	r := NewActivityRepository()
	for _, m := range []string{"satu", "dua", "tiga"} {
		_, err := r.Record(ctx, model.RecordActivityRequest{Kind: model.ActivityNews, Message: m})
		require.NoError(t, err)
	}
	recent, err := r.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "tiga", recent[0].Message)

	_, err = r.Record(ctx, model.RecordActivityRequest{})
	assert.True(t, apperrors.IsValidation(err))
}
