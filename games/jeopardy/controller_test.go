/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(svc *fakeService, opts Options) (*Controller, *recordingView) {
	view := &recordingView{}
	sampler := NewSampler(svc, 100, 0, testRand())

	return NewController(opts, svc, sampler, view), view
}

func TestControllerStart(t *testing.T) {
	svc := newFakeService(20, 10)
	c, view := newTestController(svc, DefaultOptions())

	assert.Equal(t, Idle, c.Phase())
	assert.Nil(t, c.Game())

	require.NoError(t, c.Start(context.Background()))

	assert.Equal(t, Ready, c.Phase())
	assert.Equal(t, []Phase{Loading, Ready}, view.phases)
	assert.Empty(t, view.errors)
	assert.Equal(t, 6, svc.detailCalls)

	g := c.Game()
	require.Len(t, g.Categories, 6)
	for _, cat := range g.Categories {
		assert.NotEmpty(t, cat.Title)
		require.Len(t, cat.Clues, 1)
		assert.Equal(t, Hidden, cat.Clues[0].Showing)
	}

	b := view.lastBoard()
	assert.Len(t, b.Header, 6)
	require.Len(t, b.Rows, 5)
	for _, cell := range b.Rows[0] {
		assert.Equal(t, Placeholder, cell.Text)
	}
	for _, cell := range b.Rows[4] {
		assert.True(t, cell.Empty)
	}
	assert.Equal(t, b, c.Board())
}

func TestControllerStartCustomSizes(t *testing.T) {
	svc := newFakeService(10, 10)
	c, _ := newTestController(svc, Options{Categories: 3, Rows: 4, Clues: 4})

	require.NoError(t, c.Start(context.Background()))

	g := c.Game()
	require.Len(t, g.Categories, 3)
	for _, cat := range g.Categories {
		assert.Len(t, cat.Clues, 4)
	}

	for _, row := range c.Board().Rows {
		for _, cell := range row {
			assert.False(t, cell.Empty)
		}
	}
}

func TestControllerStartFailure(t *testing.T) {
	tests := []struct {
		name    string
		svc     func() *fakeService
		wantErr error
	}{
		{
			name: "listing fails",
			svc: func() *fakeService {
				f := newFakeService(10, 5)
				f.poolErr = errors.New("boom")
				return f
			},
			wantErr: ErrServiceUnavailable,
		},
		{
			name: "listing too short",
			svc: func() *fakeService {
				return newFakeService(3, 5)
			},
			wantErr: ErrServiceUnavailable,
		},
		{
			name: "detail fails",
			svc: func() *fakeService {
				f := newFakeService(6, 5)
				f.detailErr[4] = errors.New("timeout")
				return f
			},
			wantErr: ErrServiceUnavailable,
		},
		{
			name: "category without clues",
			svc: func() *fakeService {
				f := newFakeService(6, 5)
				d := f.details[2]
				d.Clues = nil
				f.details[2] = d
				return f
			},
			wantErr: ErrInsufficientClues,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, view := newTestController(tt.svc(), DefaultOptions())

			err := c.Start(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, Idle, c.Phase())
			assert.Nil(t, c.Game())
			assert.Equal(t, []Phase{Loading, Idle}, view.phases)
			require.Len(t, view.errors, 1)
			assert.Equal(t, ErrorMessage(err), view.errors[0])
			assert.Empty(t, view.lastBoard().Header, "no partial board is shown")
		})
	}
}

func TestControllerFailureAfterSuccessClearsGame(t *testing.T) {
	svc := newFakeService(6, 5)
	c, _ := newTestController(svc, DefaultOptions())

	require.NoError(t, c.Start(context.Background()))
	require.NotNil(t, c.Game())

	svc.poolErr = errors.New("down")
	require.Error(t, c.Restart(context.Background()))

	assert.Equal(t, Idle, c.Phase())
	assert.Nil(t, c.Game())
	assert.Empty(t, c.Board().Header)
}

func TestControllerRestartDiscardsState(t *testing.T) {
	svc := newFakeService(1, 1)
	c, _ := newTestController(svc, Options{Categories: 1, Rows: 1, Clues: 1})

	require.NoError(t, c.Start(context.Background()))
	first := c.Game()

	assert.True(t, c.Click(Address{0, 0}))
	assert.True(t, c.Click(Address{0, 0}))
	require.Equal(t, Answer, first.Categories[0].Clues[0].Showing)

	require.NoError(t, c.Restart(context.Background()))
	second := c.Game()

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Categories[0].Clues[0].Question, second.Categories[0].Clues[0].Question)
	assert.Equal(t, Hidden, second.Categories[0].Clues[0].Showing)
	assert.Equal(t, Placeholder, c.Board().Rows[0][0].Text)
}

func TestControllerStaleLoad(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService(20, 5)
	c, view := newTestController(svc, DefaultOptions())

	assert.Zero(t, c.Loads())

	first := c.Begin()
	second := c.Begin()
	assert.Greater(t, second.Generation(), first.Generation())
	assert.Equal(t, uint64(2), c.Loads())

	g1, err := c.Fetch(ctx)
	require.NoError(t, err)
	g2, err := c.Fetch(ctx)
	require.NoError(t, err)

	// The older load lands first and must not commit.
	assert.ErrorIs(t, c.Finish(first, g1, nil), ErrStaleLoad)
	assert.Equal(t, Loading, c.Phase())
	assert.Nil(t, c.Game())

	require.NoError(t, c.Finish(second, g2, nil))
	assert.Same(t, g2, c.Game())

	// A late failure from the superseded load is swallowed too.
	assert.ErrorIs(t, c.Finish(first, nil, errors.New("late")), ErrStaleLoad)
	assert.Equal(t, Ready, c.Phase())
	assert.Same(t, g2, c.Game())
	assert.Empty(t, view.errors)
}

func TestControllerStaleAfterNewerCommit(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService(20, 5)
	c, _ := newTestController(svc, DefaultOptions())

	first := c.Begin()
	g1, err := c.Fetch(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Start(ctx))
	current := c.Game()

	assert.ErrorIs(t, c.Finish(first, g1, nil), ErrStaleLoad)
	assert.Same(t, current, c.Game())
}

func TestControllerFinishTwice(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(newFakeService(6, 1), DefaultOptions())

	l := c.Begin()
	g, err := c.Fetch(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Finish(l, g, nil))
	assert.ErrorIs(t, c.Finish(l, &Game{}, nil), ErrStaleLoad)
	assert.Same(t, g, c.Game())
}

func TestControllerBeginClearsBoard(t *testing.T) {
	c, view := newTestController(newFakeService(6, 1), DefaultOptions())
	require.NoError(t, c.Start(context.Background()))

	c.Begin()

	assert.Equal(t, Loading, c.Phase())
	assert.Nil(t, c.Game())
	assert.Empty(t, view.lastBoard().Header)
}

func TestErrorMessage(t *testing.T) {
	assert.Contains(t, ErrorMessage(ErrInsufficientClues), "enough clues")
	assert.Contains(t, ErrorMessage(ErrServiceUnavailable), "could not be reached")
	assert.Contains(t, ErrorMessage(errors.New("other")), "Unable to load")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "unknown", Phase(7).String())
}
