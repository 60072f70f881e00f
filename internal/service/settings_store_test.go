package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sman1jakarta/portal/internal/adapters/memory"
	"github.com/sman1jakarta/portal/internal/domain/settings"
	"github.com/sman1jakarta/portal/internal/mocks"
)

func strPtr(s string) *string { return &s }

func fullSettings() settings.SchoolSettings {
	return settings.SchoolSettings{
		SchoolName:        "SMA Harapan Bangsa",
		SchoolShortName:   "SMA HB",
		SchoolAddress:     "Jl. Merdeka No. 1, Bandung",
		SchoolPhone:       "0221234567",
		SchoolEmail:       "info@hb.sch.id",
		SchoolWebsite:     "https://hb.sch.id",
		PrincipalName:     "Ibu Rina Kartika",
		SchoolMotto:       "Cerdas dan Berakhlak",
		SchoolDescription: "Sekolah menengah atas swasta di pusat kota Bandung.",
		LogoURL:           "/media/logo/hb.png",
	}
}

func TestSettingsStore_LoadDefaults(t *testing.T) {
	store := NewSettingsStore(SettingsStoreOptions{Repo: memory.NewSettingsRepository()})
	assert.Equal(t, settings.Defaults(), store.Current())
	assert.Equal(t, settings.Defaults(), store.Load(context.Background()))
}

func TestSettingsStore_LoadNeverFails(t *testing.T) {
	ctx := context.Background()

	t.Run("read error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSettingsRepository(ctrl)
		repo.EXPECT().Get(gomock.Any()).Return(nil, errors.New("db down"))

		store := NewSettingsStore(SettingsStoreOptions{Repo: repo})
		assert.Equal(t, settings.Defaults(), store.Load(ctx))
	})

	t.Run("unparsable document", func(t *testing.T) {
		repo := memory.NewSettingsRepository()
		require.NoError(t, repo.Put(ctx, []byte(`{"schoolName":`)))

		store := NewSettingsStore(SettingsStoreOptions{Repo: repo})
		assert.Equal(t, settings.Defaults(), store.Load(ctx))
	})
}

func TestSettingsStore_UpdateRoundTrip(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		patch settings.Patch
		want  func() settings.SchoolSettings
	}{
		{
			name:  "empty patch",
			patch: settings.Patch{},
			want:  settings.Defaults,
		},
		{
			name:  "partial patch",
			patch: settings.Patch{SchoolName: strPtr("X")},
			want: func() settings.SchoolSettings {
				s := settings.Defaults()
				s.SchoolName = "X"
				return s
			},
		},
		{
			name:  "full patch",
			patch: fullSettings().AsPatch(),
			want:  fullSettings,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewSettingsRepository()
			store := NewSettingsStore(SettingsStoreOptions{Repo: repo})

			got, err := store.Update(ctx, tt.patch)
			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)

			fresh := NewSettingsStore(SettingsStoreOptions{Repo: repo})
			assert.Equal(t, tt.want(), fresh.Load(ctx))
		})
	}
}

func TestSettingsStore_UpdateMergesOntoCurrent(t *testing.T) {
	ctx := context.Background()
	store := NewSettingsStore(SettingsStoreOptions{Repo: memory.NewSettingsRepository()})

	_, err := store.Update(ctx, settings.Patch{SchoolName: strPtr("SMA Negeri 2 Jakarta")})
	require.NoError(t, err)
	got, err := store.Update(ctx, settings.Patch{SchoolMotto: strPtr("Maju Bersama"), SchoolPhone: strPtr("")})
	require.NoError(t, err)

	assert.Equal(t, "SMA Negeri 2 Jakarta", got.SchoolName)
	assert.Equal(t, "Maju Bersama", got.SchoolMotto)
	assert.Empty(t, got.SchoolPhone)
	assert.Equal(t, got, store.Current())
}

func TestSettingsStore_BlankValuesSurviveReload(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSettingsRepository()
	store := NewSettingsStore(SettingsStoreOptions{Repo: repo})

	got, err := store.Update(ctx, settings.Patch{SchoolMotto: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, got.SchoolMotto)
	assert.Equal(t, settings.Defaults().SchoolName, got.SchoolName)

	fresh := NewSettingsStore(SettingsStoreOptions{Repo: repo})
	assert.Equal(t, got, fresh.Load(ctx))

	require.NoError(t, repo.Put(ctx, []byte(`{"schoolMotto":""}`)))
	loaded := fresh.Load(ctx)
	assert.Empty(t, loaded.SchoolMotto)
	assert.Equal(t, settings.Defaults().LogoURL, loaded.LogoURL)
}

func TestSettingsStore_UpdateValidated(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSettingsRepository()
	store := NewSettingsStore(SettingsStoreOptions{Repo: repo})

	var notified int
	store.Subscribe(func(settings.SchoolSettings) { notified++ })

	merged, err := store.UpdateValidated(ctx, settings.Patch{SchoolName: strPtr("SMA")})
	require.Error(t, err)
	assert.Equal(t, "SMA", merged.SchoolName, "rejected value is handed back for the form")
	assert.Equal(t, settings.Defaults(), store.Current())
	assert.Zero(t, notified)
	raw, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, raw)

	got, err := store.UpdateValidated(ctx, settings.Patch{SchoolName: strPtr("SMA Negeri 2 Jakarta")})
	require.NoError(t, err)
	assert.Equal(t, "SMA Negeri 2 Jakarta", got.SchoolName)
	assert.Equal(t, 1, notified)
}

func TestSettingsStore_LoadWaitsForUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewSettingsStore(SettingsStoreOptions{Repo: memory.NewSettingsRepository()})

	entered := make(chan struct{})
	release := make(chan struct{})
	store.Subscribe(func(settings.SchoolSettings) {
		close(entered)
		<-release
	})

	done := make(chan settings.SchoolSettings)
	go func() {
		_, _ = store.Update(ctx, settings.Patch{SchoolName: strPtr("SMA Negeri 2 Jakarta")})
	}()
	<-entered
	go func() { done <- store.Load(ctx) }()

	select {
	case <-done:
		t.Fatal("Load returned while Update was still publishing")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	assert.Equal(t, "SMA Negeri 2 Jakarta", (<-done).SchoolName)
}

func TestSettingsStore_SubscribersSeeMergedValueInOrder(t *testing.T) {
	ctx := context.Background()
	store := NewSettingsStore(SettingsStoreOptions{Repo: memory.NewSettingsRepository()})

	var order []string
	var navbar, home settings.SchoolSettings
	unsubNav := store.Subscribe(func(s settings.SchoolSettings) {
		order = append(order, "navbar")
		navbar = s
	})
	store.Subscribe(func(s settings.SchoolSettings) {
		order = append(order, "home")
		home = s
	})

	got, err := store.Update(ctx, settings.Patch{SchoolShortName: strPtr("SMANSA")})
	require.NoError(t, err)

	assert.Equal(t, []string{"navbar", "home"}, order)
	assert.Equal(t, got, navbar)
	assert.Equal(t, got, home)
	assert.Equal(t, "SMANSA", home.SchoolShortName)
	assert.Equal(t, settings.Defaults().SchoolName, home.SchoolName)

	unsubNav()
	unsubNav()
	assert.Equal(t, 1, store.Subscribers())

	_, err = store.Update(ctx, settings.Patch{SchoolShortName: strPtr("SMAN 1")})
	require.NoError(t, err)
	assert.Equal(t, "SMANSA", navbar.SchoolShortName, "unsubscribed listener is not called")
	assert.Equal(t, "SMAN 1", home.SchoolShortName)
}

func TestSettingsStore_PersistFailureNotifiesNobody(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSettingsRepository(ctrl)
	repo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	store := NewSettingsStore(SettingsStoreOptions{Repo: repo})
	called := false
	store.Subscribe(func(settings.SchoolSettings) { called = true })

	_, err := store.Update(context.Background(), settings.Patch{SchoolName: strPtr("Baru Sekali")})
	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, settings.Defaults(), store.Current())
}

func TestSettingsStore_ResetLogo(t *testing.T) {
	ctx := context.Background()
	store := NewSettingsStore(SettingsStoreOptions{Repo: memory.NewSettingsRepository()})

	_, err := store.Update(ctx, settings.Patch{LogoURL: strPtr("/media/logo/new.png")})
	require.NoError(t, err)
	got, err := store.ResetLogo(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultLogoURL, got.LogoURL)
}

func TestSettingsStore_ConcurrentUpdatesLastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSettingsRepository()
	store := NewSettingsStore(SettingsStoreOptions{Repo: repo})

	var mu sync.Mutex
	var seen []string
	store.Subscribe(func(s settings.SchoolSettings) {
		mu.Lock()
		seen = append(seen, s.SchoolName)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, settings.Patch{SchoolName: strPtr(fmt.Sprintf("Sekolah %02d", i))})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, seen, 20)
	last := seen[len(seen)-1]
	assert.Equal(t, last, store.Current().SchoolName)
	assert.Equal(t, last, NewSettingsStore(SettingsStoreOptions{Repo: repo}).Load(ctx).SchoolName)
}
