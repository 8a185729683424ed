package main

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/socialjohn/internal/config"
	jwtx "github.com/dropDatabas3/socialjohn/internal/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestGenSecret(t *testing.T) {
	out, err := run(t, "gen-secret")
	require.NoError(t, err)
	b, err := base64.StdEncoding.DecodeString(out)
	require.NoError(t, err)
	require.Len(t, b, 64)
}

func TestToken(t *testing.T) {
	secret := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("s", 64)))
	t.Setenv("SOCIALJOHN_AUTH_TOKEN_SECRET", secret)

	out, err := run(t, "token", "42")
	require.NoError(t, err)

	ts := jwtx.NewTokenService(secret, config.Default().TokenTTL())
	id, err := ts.ExtractUserID(out)
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	_, err = run(t, "token", "abc")
	require.Error(t, err)
}
