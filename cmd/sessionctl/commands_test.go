package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"shopify-embedded-app/internal/config"
	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/infrastructure/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSessionctl_MigrateGetDelete(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	dsn := filepath.Join(t.TempDir(), "sessions.db")
	flags := []string{"--driver", config.StoreSQLite, "--dsn", dsn}

	out, err := runCommand(t, append([]string{"migrate"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	repo, closeFn, err := repository.OpenSessionRepository(context.Background(), config.StorageConfig{Driver: config.StoreSQLite, DatabaseURL: dsn})
	require.NoError(t, err)
	token := "shpat_secret"
	require.NoError(t, repo.Save(context.Background(), &domain.Session{
		ID:    domain.GetSessionID("acme.myshopify.com"),
		Shop:  "acme.myshopify.com",
		Token: &token,
		Scope: "read_products",
	}))
	require.NoError(t, closeFn(context.Background()))

	out, err = runCommand(t, append([]string{"get", "acme.myshopify.com"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `"scope": "read_products"`)
	assert.Contains(t, out, `"has_token": true`)
	assert.NotContains(t, out, token)

	out, err = runCommand(t, append([]string{"delete", "acme.myshopify.com"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted session for acme.myshopify.com")

	out, err = runCommand(t, append([]string{"delete", "acme.myshopify.com"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "no session")

	_, err = runCommand(t, append([]string{"get", "acme.myshopify.com"}, flags...)...)
	assert.Error(t, err)
}

func TestSessionctl_RejectsInvalidShop(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	dsn := filepath.Join(t.TempDir(), "sessions.db")

	_, err := runCommand(t, "get", "evil.com", "--driver", config.StoreSQLite, "--dsn", dsn)
	assert.ErrorIs(t, err, domain.ErrInvalidShopDomain)
}
