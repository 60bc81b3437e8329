package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/netkeeper/internal/config"
	"github.com/dmitrijs2005/netkeeper/internal/journal"
	"github.com/dmitrijs2005/netkeeper/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIURL = "http://127.0.0.1:1"
	cfg.ConsoleAddr = ""
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "netkeeper.log")
	return cfg
}

func TestNewApp_BadTimeZone(t *testing.T) {
	cfg := testConfig(t)
	cfg.TimeZone = "Nowhere/Atlantis"

	_, err := NewApp(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nowhere/Atlantis")

	_, err = os.Stat(cfg.LogFile)
	assert.True(t, os.IsNotExist(err), "log file must not be opened before the config is usable")
}

func TestRun_ExitPersistsHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.HistoryPath = filepath.Join(t.TempDir(), "history.db")

	a, err := NewApp(context.Background(), cfg, strings.NewReader("exit\n"), &bytes.Buffer{})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		a.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after exit")
	}

	store, err := journal.OpenSQLite(context.Background(), cfg.HistoryPath)
	require.NoError(t, err)
	defer store.Close()

	recs, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, session.MsgGreeting, recs[0].Text)

	info, err := os.Stat(cfg.LogFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.ConsoleAddr = "127.0.0.1:0"

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()

	a, err := NewApp(context.Background(), cfg, r, &bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, a.console)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop on cancel")
	}

	assert.ErrorIs(t, a.ctrl.SignOut(context.Background()), session.ErrClosed)
}
