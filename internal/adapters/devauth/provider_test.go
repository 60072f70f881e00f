package devauth

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1jakarta/portal/internal/ports"
)

func TestProvider_RoundTrip(t *testing.T) {
	prov, err := NewProvider(Config{Email: "dev@sman1jakarta.sch.id", Groups: []string{"portal-admins"}})
	require.NoError(t, err)
	fixed := time.Date(2024, 12, 15, 8, 0, 0, 0, time.UTC)
	prov.now = func() time.Time { return fixed }
	ctx := context.Background()

	authURL, state, nonce, err := prov.Begin(ctx, ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	require.NotEmpty(t, nonce)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback", u.Path)
	assert.Equal(t, Code, u.Query().Get("code"))
	assert.Equal(t, state, u.Query().Get("state"))

	id, err := prov.Exchange(ctx, ports.ExchangeInput{Code: Code, State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, "dev@sman1jakarta.sch.id", id.Email)
	assert.Equal(t, "dev@sman1jakarta.sch.id", id.Name)
	assert.Equal(t, []string{"portal-admins"}, id.Groups)
	assert.Equal(t, fixed.Add(8*time.Hour), id.ExpiresAt)

	id.Groups[0] = "mutated"
	again, err := prov.Exchange(ctx, ports.ExchangeInput{Code: Code})
	require.NoError(t, err)
	assert.Equal(t, []string{"portal-admins"}, again.Groups)
}

func TestProvider_RejectsForeignCode(t *testing.T) {
	prov, err := NewProvider(Config{Email: "dev@sman1jakarta.sch.id", Name: "Dev", SessionDuration: time.Hour})
	require.NoError(t, err)

	_, err = prov.Exchange(context.Background(), ports.ExchangeInput{Code: "stolen"})
	require.Error(t, err)
}

func TestNewProvider_RequiresEmail(t *testing.T) {
	_, err := NewProvider(Config{Name: "x"})
	require.ErrorContains(t, err, "email is required")
}
