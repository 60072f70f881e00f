package service

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sman1jakarta/portal/internal/adapters/memory"
	"github.com/sman1jakarta/portal/internal/core"
	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/domain/settings"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

func newsInput(title string, status model.NewsStatus, featured bool) *model.NewsInput {
	return &model.NewsInput{
		Title:    title,
		Excerpt:  "Ringkasan berita yang cukup panjang untuk lolos validasi.",
		Content:  strings.Repeat("Isi berita sekolah yang lengkap dan informatif. ", 3),
		Category: model.NewsCategoryKegiatan,
		Author:   "Admin Sekolah",
		Status:   status,
		Featured: featured,
	}
}

type fakeImages struct {
	mu      sync.Mutex
	removed []string
}

func (f *fakeImages) Remove(_ context.Context, u string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, u)
	return nil
}

func TestPage(t *testing.T) {
	p := Page[int]{Items: []int{1, 2}, Total: 5, Limit: 2, Offset: 2}
	assert.Equal(t, 2, p.Number())
	assert.Equal(t, 3, p.Pages())
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, 0, p.PrevOffset())
	assert.Equal(t, 4, p.NextOffset())

	last := Page[int]{Items: []int{5}, Total: 5, Limit: 2, Offset: 4}
	assert.False(t, last.HasNext())
	assert.Equal(t, 1, Page[int]{}.Pages())
}

func TestNewsService(t *testing.T) {
	ctx := context.Background()
	activities := memory.NewActivityRepository()
	activity := NewActivityService(ActivityServiceOptions{Repo: activities})
	svc := NewNewsService(NewsServiceOptions{Repo: memory.NewNewsRepository(), Activity: activity})

	_, err := svc.Create(ctx, &model.NewsInput{Title: "abc"}, "admin")
	fe, ok := apperrors.AsFieldErrors(err)
	require.True(t, ok)
	assert.True(t, fe.Has("title"))
	assert.True(t, fe.Has("content"))

	published, err := svc.Create(ctx, newsInput("Festival Seni Sekolah", model.NewsStatusPublished, true), "admin")
	require.NoError(t, err)
	draft, err := svc.Create(ctx, newsInput("Draf Pengumuman Ujian", model.NewsStatusDraft, false), "admin")
	require.NoError(t, err)

	t.Run("public reads only see published", func(t *testing.T) {
		_, err := svc.GetPublished(ctx, draft.ID)
		assert.True(t, apperrors.IsNotFound(err))

		page, err := svc.ListPublished(ctx, model.NewsListOptions{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, published.ID, page.Items[0].ID)

		featured, err := svc.Featured(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, featured, 1)
	})

	t.Run("view counts", func(t *testing.T) {
		n, err := svc.View(ctx, published.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n.Views)
		n, err = svc.View(ctx, published.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, n.Views)
	})

	t.Run("search and category filter", func(t *testing.T) {
		page, err := svc.List(ctx, model.NewsListOptions{Q: "festival", Category: "kegiatan"})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)

		page, err = svc.List(ctx, model.NewsListOptions{Category: "Prestasi"})
		require.NoError(t, err)
		assert.Equal(t, 0, page.Total)
	})

	require.NoError(t, svc.Delete(ctx, draft.ID, "admin"))
	_, err = svc.Get(ctx, draft.ID)
	assert.True(t, apperrors.IsNotFound(err))

	recent, err := activity.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "Berita dihapus: Draf Pengumuman Ujian", recent[0].Message)
	assert.Equal(t, model.ActivityNews, recent[0].Kind)
}

func galleryInput(title, image string, featured bool) *model.GalleryInput {
	return &model.GalleryInput{
		Title:       title,
		Description: "Dokumentasi kegiatan siswa di sekolah.",
		Category:    model.GalleryCategoryKegiatanRutin,
		ImageURL:    image,
		UploadedBy:  "Admin Sekolah",
		Featured:    featured,
	}
}

func TestGalleryService(t *testing.T) {
	ctx := context.Background()
	images := &fakeImages{}
	svc := NewGalleryService(GalleryServiceOptions{Repo: memory.NewGalleryRepository(), Images: images})

	item, err := svc.Create(ctx, galleryInput("Upacara Bendera", "/media/gallery/a.jpg", false), "admin")
	require.NoError(t, err)

	t.Run("update without image keeps the photo", func(t *testing.T) {
		got, err := svc.Update(ctx, item.ID, galleryInput("Upacara Hari Senin", "", false), "admin")
		require.NoError(t, err)
		assert.Equal(t, "/media/gallery/a.jpg", got.ImageURL)
		assert.Empty(t, images.removed)
	})

	t.Run("new image replaces the old upload", func(t *testing.T) {
		got, err := svc.Update(ctx, item.ID, galleryInput("Upacara Hari Senin", "/media/gallery/b.jpg", true), "admin")
		require.NoError(t, err)
		assert.Equal(t, "/media/gallery/b.jpg", got.ImageURL)
		assert.Equal(t, []string{"/media/gallery/a.jpg"}, images.removed)
	})

	t.Run("preview puts featured first", func(t *testing.T) {
		_, err := svc.Create(ctx, galleryInput("Latihan Basket", "/media/gallery/c.jpg", false), "admin")
		require.NoError(t, err)
		preview, err := svc.Preview(ctx, 2)
		require.NoError(t, err)
		require.Len(t, preview, 2)
		assert.Equal(t, item.ID, preview[0].ID)
	})

	require.NoError(t, svc.Delete(ctx, item.ID, "admin"))
	assert.Contains(t, images.removed, "/media/gallery/b.jpg")

	page, err := svc.List(ctx, model.GalleryListOptions{Category: "all"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func contactInput() *model.ContactInput {
	return &model.ContactInput{
		Name:     "Ahmad Rizki",
		Phone:    "0812-3456-7890",
		Email:    "ahmad.rizki@email.com",
		Subject:  "Informasi Pendaftaran",
		Message:  "Mohon info jadwal pendaftaran siswa baru.",
		Category: model.ContactCategoryPendaftaran,
	}
}

func TestContactService(t *testing.T) {
	ctx := context.Background()
	store := NewSettingsStore(SettingsStoreOptions{Repo: memory.NewSettingsRepository()})
	at := time.Date(2025, 1, 20, 3, 4, 5, 0, time.UTC)
	svc := NewContactService(ContactServiceOptions{
		Repo: memory.NewContactRepository(),
		Config: ContactConfig{
			AdminWhatsApp: "6281234567890",
			Settings:      store,
			Now:           func() time.Time { return at },
		},
	})

	res, err := svc.Submit(ctx, contactInput())
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusPending, res.Contact.Status)
	assert.Equal(t, model.ContactPrioritySedang, res.Contact.Priority)
	assert.Equal(t, "081234567890", res.Contact.Phone)

	u, err := url.Parse(res.WhatsAppURL)
	require.NoError(t, err)
	assert.Equal(t, "/6281234567890", u.Path)
	text := u.Query().Get("text")
	assert.Contains(t, text, "*Pesan Baru dari Website SMA Negeri 1 Jakarta*")
	assert.Contains(t, text, "*Nama:* Ahmad Rizki")
	assert.Contains(t, text, "Waktu: 10.04.05")

	t.Run("invalid submission", func(t *testing.T) {
		bad := contactInput()
		bad.Phone = "12345"
		_, err := svc.Submit(ctx, bad)
		fe, ok := apperrors.AsFieldErrors(err)
		require.True(t, ok)
		assert.Equal(t, "Format nomor WhatsApp tidak valid", fe["phone"])
	})

	t.Run("status changes and counts", func(t *testing.T) {
		require.NoError(t, svc.SetStatus(ctx, res.Contact.ID, model.ContactStatusResponded, "admin"))
		_, err := svc.Submit(ctx, contactInput())
		require.NoError(t, err)

		inbox, err := svc.List(ctx, model.ContactListOptions{Status: model.ContactStatusPending})
		require.NoError(t, err)
		assert.Equal(t, 1, inbox.Total)
		assert.Equal(t, 1, inbox.Counts[model.ContactStatusResponded])
		assert.Equal(t, 2, inbox.Counts.Total())

		err = svc.SetStatus(ctx, res.Contact.ID, "Closed", "admin")
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("reply link uses the visitor's number", func(t *testing.T) {
		c, err := svc.Get(ctx, res.Contact.ID)
		require.NoError(t, err)
		link := svc.ReplyURL(c)
		assert.True(t, strings.HasPrefix(link, "https://wa.me/6281234567890?text="))
		assert.Contains(t, link, url.QueryEscape("Halo Ahmad Rizki"))
	})

	require.NoError(t, svc.Delete(ctx, res.Contact.ID, "admin"))
	_, err = svc.Get(ctx, res.Contact.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func minCostHash(p string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
	return string(h), err
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	svc := NewUserService(UserServiceOptions{Repo: repo, Hash: minCostHash})

	in := model.UserInput{
		Name:     "Siti Nurhaliza, S.Pd",
		Email:    "Siti.Nurhaliza@sman1jakarta.sch.id",
		Role:     domainauth.RoleGuru,
		Password: "rahasia123",
	}
	u, err := svc.Create(ctx, in, "admin")
	require.NoError(t, err)
	assert.Equal(t, "siti.nurhaliza@sman1jakarta.sch.id", u.Email)
	assert.Equal(t, model.UserStatusActive, u.Status)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("rahasia123")))

	t.Run("duplicate email", func(t *testing.T) {
		dup := in
		dup.Name = "Siti Lain"
		_, err := svc.Create(ctx, dup, "admin")
		require.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "email", apperrors.GetField(err))
	})

	t.Run("password required on create", func(t *testing.T) {
		noPass := in
		noPass.Email = "baru@sman1jakarta.sch.id"
		noPass.Password = ""
		_, err := svc.Create(ctx, noPass, "admin")
		fe, ok := apperrors.AsFieldErrors(err)
		require.True(t, ok)
		assert.Equal(t, "Password harus diisi", fe["password"])
	})

	t.Run("update keeps the password unless given", func(t *testing.T) {
		upd := in
		upd.Password = ""
		upd.Role = domainauth.RoleStaff
		got, err := svc.Update(ctx, u.ID, upd, "admin")
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleStaff, got.Role)
		assert.Equal(t, u.PasswordHash, got.PasswordHash)

		upd.Password = "baru12345"
		got, err = svc.Update(ctx, u.ID, upd, "admin")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("baru12345")))
	})

	users, err := svc.List(ctx, model.UserListOptions{})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, svc.Delete(ctx, u.ID, "admin"))
	_, err = svc.Get(ctx, u.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDashboardService_Overview(t *testing.T) {
	ctx := context.Background()
	repos := DashboardRepos{
		News:       memory.NewNewsRepository(),
		Gallery:    memory.NewGalleryRepository(),
		Contacts:   memory.NewContactRepository(),
		Users:      memory.NewUserRepository(),
		Activities: memory.NewActivityRepository(),
	}
	activity := NewActivityService(ActivityServiceOptions{Repo: repos.Activities})
	news := NewNewsService(NewsServiceOptions{Repo: repos.News, Activity: activity})
	contacts := NewContactService(ContactServiceOptions{Repo: repos.Contacts, Activity: activity})

	_, err := news.Create(ctx, newsInput("Berita Pertama Sekolah", model.NewsStatusPublished, false), "admin")
	require.NoError(t, err)
	_, err = news.Create(ctx, newsInput("Berita Kedua Sekolah", model.NewsStatusDraft, false), "admin")
	require.NoError(t, err)
	_, err = contacts.Submit(ctx, contactInput())
	require.NoError(t, err)
	_, err = repos.Users.Create(ctx, core.CreateUserParams{
		Input:        model.UserInput{Name: "Andi", Email: "andi@sman1jakarta.sch.id", Role: domainauth.RoleStaff, Status: model.UserStatusInactive},
		PasswordHash: "x",
	})
	require.NoError(t, err)

	visits := core.CacheVisitCounter{Cache: memory.NewCache()}
	for range 3 {
		_, err := visits.Incr(ctx)
		require.NoError(t, err)
	}

	svc := NewDashboardService(DashboardServiceOptions{Repos: repos, Visits: visits})
	ov, err := svc.Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, model.DashboardStats{
		News:            2,
		PublishedNews:   1,
		Contacts:        1,
		PendingContacts: 1,
		Users:           1,
		ActiveUsers:     0,
		Visits:          3,
	}, ov.Stats)
	assert.Len(t, ov.RecentNews, 2)
	assert.Len(t, ov.Activities, 3)
}

func TestActivityService_SettingsSubscriber(t *testing.T) {
	ctx := context.Background()
	activity := NewActivityService(ActivityServiceOptions{Repo: memory.NewActivityRepository()})
	store := NewSettingsStore(SettingsStoreOptions{Repo: memory.NewSettingsRepository()})
	store.Subscribe(activity.SettingsSubscriber())

	name := "SMA Negeri 1 Jakarta Pusat"
	_, err := store.Update(ctx, settings.Patch{SchoolName: &name})
	require.NoError(t, err)

	recent, err := activity.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, model.ActivitySettings, recent[0].Kind)
	assert.Equal(t, "Pengaturan diperbarui", recent[0].Message)
}
