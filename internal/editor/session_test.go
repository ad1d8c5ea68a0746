package editor

import (
	"context"
	"image/color"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_UndoRedo(t *testing.T) {
	ctx := context.Background()
	base := solid(t, 30, 10, color.NRGBA{50, 50, 50, 255})
	s := NewSession("s1", base, nil)

	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	assert.Same(t, base, s.Current())

	rotated, err := s.Apply(ctx, Rotate{Degrees: 90})
	require.NoError(t, err)
	assert.Equal(t, 10, rotated.Width())

	cropped, err := s.Apply(ctx, Crop{})
	require.NoError(t, err)
	assert.Same(t, cropped, s.Current())
	assert.Equal(t, []Command{Rotate{Degrees: 90}, Crop{}}, s.Log())

	got, err := s.Undo()
	require.NoError(t, err)
	assert.Same(t, rotated, got)
	assert.True(t, s.CanRedo())

	got, err = s.Undo()
	require.NoError(t, err)
	assert.Same(t, base, got)
	assert.Empty(t, s.Log())

	_, err = s.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)

	got, err = s.Redo()
	require.NoError(t, err)
	assert.Same(t, rotated, got)

	got, err = s.Redo()
	require.NoError(t, err)
	assert.Same(t, cropped, got)

	_, err = s.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)
}

func TestSession_ApplyAfterUndoDropsRedoTail(t *testing.T) {
	ctx := context.Background()
	s := NewSession("s1", solid(t, 8, 8, color.NRGBA{0, 0, 0, 255}), nil)

	_, err := s.Apply(ctx, Brightness{Value: 10})
	require.NoError(t, err)
	_, err = s.Apply(ctx, Brightness{Value: 20})
	require.NoError(t, err)
	_, err = s.Undo()
	require.NoError(t, err)

	_, err = s.Apply(ctx, Contrast{Value: 5})
	require.NoError(t, err)

	assert.False(t, s.CanRedo())
	assert.Equal(t, []Command{Brightness{Value: 10}, Contrast{Value: 5}}, s.Log())

	st := s.State()
	assert.Equal(t, 2, st.Position)
	assert.Equal(t, 2, st.Length)
	assert.Equal(t, []string{"brightness", "contrast"}, st.Ops)
}

func TestSession_FailedApplyKeepsHistory(t *testing.T) {
	ctx := context.Background()
	logger, hook := test.NewNullLogger()
	s := NewSession("s1", solid(t, 4, 4, color.NRGBA{0, 0, 0, 255}), nil)
	s.log = logger

	_, err := s.Apply(ctx, Rotate{Degrees: 180})
	require.NoError(t, err)
	_, err = s.Undo()
	require.NoError(t, err)

	_, err = s.Apply(ctx, Filter{Name: "glitter"})
	require.Error(t, err)

	assert.True(t, s.CanRedo(), "a failed command must not truncate the redo tail")
	assert.Empty(t, s.Log())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestSession_ApplyBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	s := NewSession("s1", solid(t, 30, 10, color.NRGBA{0, 0, 0, 255}), nil)
	s.log = logger

	_, err := s.Apply(ctx, Brightness{Value: 10})
	require.NoError(t, err)
	before := s.Current()

	_, err = s.ApplyBatch(ctx, []Command{Rotate{Degrees: 90}, Flip{Axis: "h"}, Filter{Name: "glitter"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command 2 (filter)")

	assert.Same(t, before, s.Current())
	st := s.State()
	assert.Equal(t, 1, st.Position)
	assert.Equal(t, []string{"brightness"}, st.Ops)

	out, err := s.ApplyBatch(ctx, []Command{Rotate{Degrees: 90}, Flip{Axis: "h"}})
	require.NoError(t, err)
	assert.Same(t, out, s.Current())
	assert.Equal(t, 10, out.Width())
	assert.Equal(t, []string{"brightness", "rotate", "flip"}, s.State().Ops)

	// Each command of a batch is its own undo step.
	undone, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, 10, undone.Width())
	assert.Equal(t, 2, s.State().Position)
}

func TestSession_HistoryLimit(t *testing.T) {
	ctx := context.Background()
	s := NewSession("s1", solid(t, 4, 4, color.NRGBA{0, 0, 0, 255}), nil)
	s.limit = 3

	for v := 1; v <= 5; v++ {
		_, err := s.Apply(ctx, Brightness{Value: v})
		require.NoError(t, err)
	}

	st := s.State()
	assert.Equal(t, 3, st.Length)
	assert.Equal(t, 3, st.Position)
	assert.Equal(t, []Command{Brightness{Value: 3}, Brightness{Value: 4}, Brightness{Value: 5}}, s.Log())

	for i := 0; i < 3; i++ {
		_, err := s.Undo()
		require.NoError(t, err)
	}
	_, err := s.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)

	// The base is now the result of the first two brightness steps:
	// round(1*2.55) + round(2*2.55) = 3 + 5.
	assert.Equal(t, uint8(8), s.Current().At(0, 0).R)
}

func TestSession_ConcurrentApply(t *testing.T) {
	ctx := context.Background()
	s := NewSession("s1", solid(t, 16, 16, color.NRGBA{10, 10, 10, 255}), nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Apply(ctx, Brightness{Value: 4})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, s.Log(), 10)
	// Each step adds round(4*2.55) = 10.
	assert.Equal(t, uint8(110), s.Current().At(0, 0).R)
}
