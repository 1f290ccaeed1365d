package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/wa-stats/internal/config"
	"github.com/Zuo-Peng/wa-stats/internal/stats"
	"github.com/Zuo-Peng/wa-stats/internal/watch"
)

func TestIndexOnChangeCoalescesBursts(t *testing.T) {
	events := make(chan watch.Event, 3)
	for i := 0; i < 3; i++ {
		events <- watch.Event{Path: "/c/Bob.txt", Op: watch.OpWrite}
	}

	runs := 0
	go func() {
		time.Sleep(settle + 700*time.Millisecond)
		close(events)
	}()

	err := indexOnChange(context.Background(), events, func() error {
		runs++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
}

func TestIndexOnChangeStopsOnErrorAndCancel(t *testing.T) {
	events := make(chan watch.Event, 1)
	events <- watch.Event{Path: "/c/Bob.txt", Op: watch.OpCreate}

	boom := errors.New("boom")
	err := indexOnChange(context.Background(), events, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, indexOnChange(ctx, make(chan watch.Event), func() error { return nil }))
}

func TestColorizeSnippet(t *testing.T) {
	got := colorizeSnippet("ins >>>Kino<<< gehen")
	assert.Equal(t, "ins "+sColorBoldRed+"Kino"+sColorReset+" gehen", got)
}

func TestResolveChat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "family"), 0o755))
	path := filepath.Join(dir, "family", "Eltern.txt")
	require.NoError(t, os.WriteFile(path, []byte("header\n"), 0o644))

	cfg := config.Default(dir)
	cfg.ChatsDir = dir
	a := &app{cfg: cfg}

	for _, arg := range []string{"family/Eltern", "family/Eltern.txt", path} {
		fi, err := a.resolveChat(arg)
		require.NoError(t, err, arg)
		assert.Equal(t, "family/Eltern", fi.Key)
	}

	_, err := a.resolveChat("nobody")
	assert.Error(t, err)

	_, err = a.resolveChat("family")
	assert.Error(t, err, "directories are not chats")
}

func TestReportOptionsDashboardDefaults(t *testing.T) {
	a := &app{cfg: config.Default(t.TempDir())}

	ro, err := a.reportOptions("Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", ro.Person)
	assert.Equal(t, stats.DashboardEmojiMinCount, ro.EmojiMinCount)
	assert.NotNil(t, ro.Normalizer)
	assert.Equal(t, 1, ro.Wait.FirstIndex)
}
