package editor

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_OpenGetClose(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := NewManager(nil, logger)

	a, err := m.Open(solid(t, 4, 4, color.NRGBA{255, 0, 0, 255}))
	require.NoError(t, err)
	b, err := m.Open(solid(t, 4, 4, color.NRGBA{0, 255, 0, 255}))
	require.NoError(t, err)

	assert.Len(t, a.ID, 21, "nanoid default length")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, m.IDs(), 2)

	got, err := m.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	require.NoError(t, m.Close(a.ID))
	_, err = m.Get(a.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(a.ID), ErrSessionNotFound)
	assert.Equal(t, []string{b.ID}, m.IDs())
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := NewManager(nil, nil)
	ctx := context.Background()

	a, err := m.Open(solid(t, 10, 5, color.NRGBA{0, 0, 0, 255}))
	require.NoError(t, err)
	b, err := m.Open(solid(t, 10, 5, color.NRGBA{0, 0, 0, 255}))
	require.NoError(t, err)

	_, err = a.Apply(ctx, Rotate{Degrees: 90})
	require.NoError(t, err)

	assert.Equal(t, 5, a.Current().Width())
	assert.Equal(t, 10, b.Current().Width())
	assert.False(t, b.CanUndo())
}

func TestManager_MaxHistory(t *testing.T) {
	m := NewManager(nil, nil)
	m.MaxHistory = 2

	s, err := m.Open(solid(t, 2, 2, color.NRGBA{0, 0, 0, 255}))
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := s.Apply(context.Background(), Flip{Axis: "h"})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.State().Length)
}

// fakeClock is a settable time source for expiry tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestManager_EvictsLeastRecentlyUsed(t *testing.T) {
	logger, hook := test.NewNullLogger()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewManager(nil, logger)
	m.now = clock.Now
	m.MaxSessions = 2

	a, err := m.Open(solid(t, 2, 2, color.NRGBA{0, 0, 0, 255}))
	require.NoError(t, err)
	clock.Advance(time.Second)
	b, err := m.Open(solid(t, 2, 2, color.NRGBA{0, 0, 0, 255}))
	require.NoError(t, err)
	clock.Advance(time.Second)

	// Touching a makes b the least recently used.
	_, err = m.Get(a.ID)
	require.NoError(t, err)
	clock.Advance(time.Second)

	c, err := m.Open(solid(t, 2, 2, color.NRGBA{0, 0, 0, 255}))
	require.NoError(t, err)

	assert.Len(t, m.IDs(), 2)
	_, err = m.Get(b.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(a.ID)
	assert.NoError(t, err)
	_, err = m.Get(c.ID)
	assert.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
}

func TestManager_ExpiresIdleSessions(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewManager(nil, nil)
	m.now = clock.Now
	m.IdleTimeout = time.Minute

	idle, err := m.Open(solid(t, 2, 2, color.NRGBA{0, 0, 0, 255}))
	require.NoError(t, err)
	clock.Advance(40 * time.Second)
	busy, err := m.Open(solid(t, 2, 2, color.NRGBA{0, 0, 0, 255}))
	require.NoError(t, err)
	clock.Advance(40 * time.Second)

	_, err = m.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "idle for 80s")
	_, err = m.Get(busy.ID)
	assert.NoError(t, err, "idle for 40s")
	assert.Equal(t, []string{busy.ID}, m.IDs())

	m.IdleTimeout = 0
	clock.Advance(time.Hour)
	_, err = m.Get(busy.ID)
	assert.NoError(t, err, "expiry disabled")
}

func TestNewManager_Defaults(t *testing.T) {
	m := NewManager(nil, nil)
	assert.Equal(t, DefaultMaxSessions, m.MaxSessions)
	assert.Equal(t, DefaultIdleTimeout, m.IdleTimeout)
}
