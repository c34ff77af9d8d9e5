package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/celar/internal/client/cli"
	"github.com/iudanet/celar/internal/client/iocli"
	"github.com/iudanet/celar/internal/client/storage"
	"github.com/iudanet/celar/internal/client/storage/boltdb"
	pkgapi "github.com/iudanet/celar/pkg/api"
)

func captureIO() (*iocli.IOMock, *strings.Builder) {
	out := &strings.Builder{}
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) { out.WriteString(fmt.Sprintln(a...)) },
		PrintfFunc:  func(format string, a ...any) { fmt.Fprintf(out, format, a...) },
		WriteFunc:   func(p []byte) (int, error) { return out.Write(p) },
	}, out
}

func TestRun_Version(t *testing.T) {
	stdio, out := captureIO()
	require.NoError(t, run([]string{"-version"}, stdio))
	assert.Contains(t, out.String(), "Celar Client")
	assert.Contains(t, out.String(), "Version:    dev")
}

func TestRun_MissingCommand(t *testing.T) {
	stdio, out := captureIO()
	err := run([]string{"-db", filepath.Join(t.TempDir(), "c.db")}, stdio)
	require.Error(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_UnknownCommand(t *testing.T) {
	stdio, _ := captureIO()
	err := run([]string{"-db", filepath.Join(t.TempDir(), "c.db"), "sync"}, stdio)
	assert.ErrorIs(t, err, cli.ErrUnknownCommand)
}

func TestRun_UsesSessionServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(pkgapi.ProfileResponse{Username: "alice", Software: []string{}, Coins: 2})
	}))
	defer server.Close()

	dbPath := filepath.Join(t.TempDir(), "c.db")
	store, err := boltdb.New(context.Background(), dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SaveAuth(context.Background(), &storage.AuthData{
		Username:    "alice",
		AccessToken: "tok",
		ServerURL:   server.URL,
		ExpiresAt:   time.Now().Add(time.Hour),
	}))
	require.NoError(t, store.Close())

	stdio, out := captureIO()
	require.NoError(t, run([]string{"-db", dbPath, "me"}, stdio))
	assert.Contains(t, out.String(), "Coins: 2")
}
