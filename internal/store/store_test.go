package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wesen/neograph/pkg/graphstyle"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "neograph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPrefs(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	_, ok, err := s.Pref(ctx, PrefActiveSheet)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetPref(ctx, PrefActiveSheet, "movies"))
	require.NoError(t, s.SetPref(ctx, PrefActiveSheet, "people"))
	v, ok, err := s.Pref(ctx, PrefActiveSheet)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "people", v)
}

func TestFlags(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	shown, err := s.Flag(ctx, PrefZoomLimitHintShown)
	require.NoError(t, err)
	assert.False(t, shown)

	require.NoError(t, s.SetFlag(ctx, PrefZoomLimitHintShown, true))
	shown, err = s.Flag(ctx, PrefZoomLimitHintShown)
	require.NoError(t, err)
	assert.True(t, shown)
}

func TestSheets(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	style := graphstyle.New()
	style.ChangeForSelector(graphstyle.ParseSelector("node.Person"), graphstyle.Props{"color": "#FF0000", "caption": "{name}"})
	sheet := style.ToSheet()

	require.NoError(t, s.SaveSheet(ctx, "movies", sheet))
	loaded, err := s.LoadSheet(ctx, "movies")
	require.NoError(t, err)
	assert.Equal(t, sheet, loaded)

	require.NoError(t, s.SaveSheet(ctx, "blank", graphstyle.New().ToSheet()))
	names, err := s.SheetNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"blank", "movies"}, names)

	require.NoError(t, s.DeleteSheet(ctx, "movies"))
	_, err = s.LoadSheet(ctx, "movies")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.DeleteSheet(ctx, "movies"))
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "neograph.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetFlag(ctx, PrefZoomLimitHintShown, true))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	shown, err := s.Flag(ctx, PrefZoomLimitHintShown)
	require.NoError(t, err)
	assert.True(t, shown)
}

func TestInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.SetPref(context.Background(), "k", "v"))
}
