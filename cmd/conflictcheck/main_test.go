package main

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/professional-hubs/conflicts/internal/auth"
)

func writeKeyPair(t *testing.T) (privPath, pubPath string) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	dir := t.TempDir()
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	privPath = filepath.Join(dir, "jwt_private.pem")
	pubPath = filepath.Join(dir, "jwt_public.pem")
	require.NoError(t, os.WriteFile(privPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER}), 0o600))
	require.NoError(t, os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}), 0o600))
	return privPath, pubPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "conflictcheck dev\n", out)
}

func TestTokenCommand(t *testing.T) {
	privPath, pubPath := writeKeyPair(t)
	t.Setenv("CONFLICTS_JWT_PRIVATE_KEY", privPath)
	t.Setenv("CONFLICTS_JWT_PUBLIC_KEY", pubPath)

	out, err := execute(t, "token", "--firm", "3", "--subject", "intake-bot")
	require.NoError(t, err)

	mgr, err := auth.NewJWTManager(privPath, pubPath, time.Hour)
	require.NoError(t, err)
	claims, err := mgr.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.FirmID)
	assert.Equal(t, "intake-bot", claims.Subject)
}

func TestTokenCommandErrors(t *testing.T) {
	t.Setenv("CONFLICTS_JWT_PRIVATE_KEY", "")
	t.Setenv("CONFLICTS_JWT_PUBLIC_KEY", "")

	_, err := execute(t, "token")
	assert.ErrorContains(t, err, "firm")

	_, err = execute(t, "token", "--firm", "1")
	assert.ErrorContains(t, err, "ephemeral")

	privPath, pubPath := writeKeyPair(t)
	t.Setenv("CONFLICTS_JWT_PRIVATE_KEY", privPath)
	t.Setenv("CONFLICTS_JWT_PUBLIC_KEY", pubPath)
	_, err = execute(t, "token", "--firm", "0")
	assert.Error(t, err, "firm must be positive")
}

func TestCheckCommandRejectsLongFields(t *testing.T) {
	_, err := execute(t, "check", "--firm", "1", "--company", strings.Repeat("x", 300))
	assert.ErrorContains(t, err, "company_name exceeds maximum length")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd().Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "seed", "import", "firms", "token", "check", "version"} {
		assert.Contains(t, names, want)
	}
}
