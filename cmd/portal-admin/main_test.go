package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1jakarta/portal/config"
	"github.com/sman1jakarta/portal/internal/bootstrap"
	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/model"
)

func TestIsLikelyRemoteHost(t *testing.T) {
	cases := map[string]bool{
		"":              false,
		"localhost":     false,
		"127.0.0.1":     false,
		"::1":           false,
		"db.local":      false,
		"10.0.0.5":      true,
		"db.example.id": true,
	}
	for host, want := range cases {
		assert.Equal(t, want, isLikelyRemoteHost(host), host)
	}
}

func TestParseDBResetFlags(t *testing.T) {
	opts, err := parseDBResetFlags([]string{"--yes", "--seed", "--timeout", "1m"})
	require.NoError(t, err)
	assert.True(t, opts.Yes)
	assert.True(t, opts.Seed)
	assert.False(t, opts.AllowRemote)
	assert.Equal(t, time.Minute, opts.Timeout)

	_, err = parseDBResetFlags([]string{"--timeout", "0s"})
	require.Error(t, err)
}

func TestParseCreateUserFlags(t *testing.T) {
	opts, err := parseCreateUserFlags([]string{
		"--name", "Rina Wulandari", "--email", "rina@sman1jakarta.sch.id", "--role", "GURU",
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleGuru, opts.Input.Role)
	assert.Equal(t, model.UserStatusActive, opts.Input.Status)

	_, err = parseCreateUserFlags([]string{"--name", "Rina"})
	require.ErrorContains(t, err, "--email")

	_, err = parseCreateUserFlags([]string{"--name", "Rina", "--email", "r@x.id", "--role", "wali"})
	require.ErrorContains(t, err, "unknown role")
}

func TestParseListUsersFlags(t *testing.T) {
	opts, err := parseListUsersFlags([]string{"--role", "admin", "--q", "budi"})
	require.NoError(t, err)
	assert.Equal(t, 100, opts.Limit)
	assert.Equal(t, "budi", opts.Query)

	_, err = parseListUsersFlags([]string{"--limit", "0"})
	require.Error(t, err)
}

func TestPrintUsers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsers(&buf, nil))
	assert.Equal(t, "No users found.\n", buf.String())

	buf.Reset()
	login := time.Date(2026, 1, 5, 8, 30, 0, 0, time.Local)
	require.NoError(t, printUsers(&buf, []*model.User{
		{Name: "Budi Santoso", Email: "budi@sman1jakarta.sch.id", Role: domainauth.RoleAdmin, Status: model.UserStatusActive, LastLogin: &login},
		{Name: "Maya Sari", Email: "maya@sman1jakarta.sch.id", Role: domainauth.RoleStaff, Status: model.UserStatusInactive},
	}))
	out := buf.String()
	assert.Contains(t, out, "LAST LOGIN")
	assert.Contains(t, out, "2026-01-05 08:30")
	assert.Contains(t, out, "Administrator")
	assert.Contains(t, out, "never")
}

func TestPrintSessions(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	rows := []sessionRow{
		{
			Key: bootstrap.SessionKeyPrefix + "abc",
			Session: domainauth.Session{
				ID: "abc", Email: "budi@sman1jakarta.sch.id", Role: domainauth.RoleAdmin,
				LoginTime: now.Add(-time.Hour), ExpiresAt: now.Add(30 * time.Minute),
			},
		},
		{Key: bootstrap.SessionKeyPrefix + "def", Session: domainauth.Session{ID: "def", Email: "x@y.id"}},
		{Key: bootstrap.SessionKeyPrefix + "bad", Corrupt: true},
	}
	var buf bytes.Buffer
	require.NoError(t, printSessions(&buf, rows, now))
	out := buf.String()
	assert.Contains(t, out, "in 30m0s")
	assert.Contains(t, out, "on logout")
	assert.Contains(t, out, "(unreadable)")
	assert.NotContains(t, out, bootstrap.SessionKeyPrefix)

	buf.Reset()
	require.NoError(t, printSessions(&buf, nil, now))
	assert.Equal(t, "No active sessions.\n", buf.String())
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"news": 6}, true))
	assert.Equal(t, "{\"news\":6}\n", buf.String())
}

func TestHasRedisConfig(t *testing.T) {
	assert.False(t, hasRedisConfig(nil))
	assert.False(t, hasRedisConfig(&config.RedisConfig{}))
	assert.True(t, hasRedisConfig(&config.RedisConfig{URI: "localhost:6379"}))
	assert.False(t, hasRedisConfig(&config.RedisConfig{UseSentinel: true, URI: "localhost:6379"}))
	assert.True(t, hasRedisConfig(&config.RedisConfig{UseCluster: true, ClusterNodes: []string{"a:7000"}}))
}
