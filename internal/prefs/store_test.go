package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetReturnsDefaults(t *testing.T) {
	s := setupTestStore(t, "")

	p, err := s.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), p)
}

func TestPutAndGet(t *testing.T) {
	s := setupTestStore(t, "")
	ctx := context.Background()

	want := Defaults()
	want.Theme = ThemeDark
	want.WorkMinutes = 50
	want.SessionsForLongBreak = 2

	require.NoError(t, s.Put(ctx, "alice", want))

	got, err := s.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other, err := s.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), other)
}

func TestPutValidates(t *testing.T) {
	s := setupTestStore(t, "")
	ctx := context.Background()

	bad := Defaults()
	bad.Theme = "solarized"
	assert.ErrorIs(t, s.Put(ctx, "alice", bad), ErrInvalidTheme)

	bad = Defaults()
	bad.ShortBreakMinutes = 0
	assert.Error(t, s.Put(ctx, "alice", bad))

	assert.ErrorIs(t, s.Put(ctx, "  ", Defaults()), ErrInvalidUsername)

	_, err := s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	require.NoError(t, err)
	p := Defaults()
	p.Theme = ThemeDark
	require.NoError(t, s.Put(ctx, "alice", p))
	require.NoError(t, s.Close())

	s = setupTestStore(t, dir)
	got, err := s.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, got.Theme)
}

func TestSetTimerDefaults(t *testing.T) {
	s := setupTestStore(t, "")
	ctx := context.Background()

	d := Defaults().TimerSettings
	d.WorkMinutes = 45
	s.SetTimerDefaults(d)

	p, err := s.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 45, p.WorkMinutes)
	assert.Equal(t, ThemeLight, p.Theme)
}
