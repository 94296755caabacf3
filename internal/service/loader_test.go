package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countView struct {
	Value int `json:"value"`
}

func TestLoadView_CachesResult(t *testing.T) {
	c := newMemoryCache()
	loader := NewViewLoader(c)
	var builds int32

	build := func(ctx context.Context) (countView, error) {
		atomic.AddInt32(&builds, 1)
		return countView{Value: 7}, nil
	}

	first, err := loadView(context.Background(), loader, "test", "", "p", build, nil)
	require.NoError(t, err)
	second, err := loadView(context.Background(), loader, "test", "", "p", build, nil)
	require.NoError(t, err)

	assert.Equal(t, 7, first.Value)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
}

func TestLoadView_ErrorIsNotCached(t *testing.T) {
	c := newMemoryCache()
	loader := NewViewLoader(c)
	boom := errors.New("backend down")

	_, err := loadView(context.Background(), loader, "test", "", "p", func(ctx context.Context) (countView, error) {
		return countView{}, boom
	}, nil)

	assert.ErrorIs(t, err, boom)
	assert.False(t, c.has("test", "p"))
}

func TestLoadView_DegradedViewOnError(t *testing.T) {
	c := newMemoryCache()
	loader := NewViewLoader(c)

	got, err := loadView(context.Background(), loader, "test", "", "p", func(ctx context.Context) (countView, error) {
		return countView{Value: 9}, errors.New("connection refused")
	}, func(err error) countView {
		return countView{Value: -1}
	})

	require.NoError(t, err)
	assert.Equal(t, -1, got.Value)
	assert.False(t, c.has("test", "p"), "degraded views are not cached")
}

func TestLoadView_CanceledRequestIsNotDegraded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loadView(ctx, NewViewLoader(nil), "test", "", "p", func(ctx context.Context) (countView, error) {
		return countView{}, ctx.Err()
	}, func(err error) countView {
		return countView{Value: -1}
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadView_NewerLoadCancelsOlder(t *testing.T) {
	c := newMemoryCache()
	loader := NewViewLoader(c)
	started := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := loadView(context.Background(), loader, "test", "session-1", "range-a", func(ctx context.Context) (countView, error) {
			close(started)
			<-ctx.Done()
			return countView{}, ctx.Err()
		}, nil)
		done <- err
	}()

	<-started
	newer, err := loadView(context.Background(), loader, "test", "session-1", "range-b", func(ctx context.Context) (countView, error) {
		return countView{Value: 2}, nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, newer.Value)
	assert.ErrorIs(t, <-done, domain.ErrSuperseded)
	assert.False(t, c.has("test", "range-a"))
	assert.True(t, c.has("test", "range-b"))
}

func TestLoadView_StaleResultIsDiscarded(t *testing.T) {
	c := newMemoryCache()
	loader := NewViewLoader(c)
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		// ignores cancellation and returns late
		_, err := loadView(context.Background(), loader, "test", "session-1", "same", func(ctx context.Context) (countView, error) {
			close(started)
			<-release
			return countView{Value: 1}, nil
		}, nil)
		done <- err
	}()

	<-started
	newer, err := loadView(context.Background(), loader, "test", "session-1", "same", func(ctx context.Context) (countView, error) {
		return countView{Value: 2}, nil
	}, nil)
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-done, domain.ErrSuperseded)

	var cached countView
	ok, err := c.Get(context.Background(), "test", "same", &cached)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, newer.Value)
	assert.Equal(t, 2, cached.Value, "stale load must not overwrite the newer result")
}

func TestLoadView_ScopesAreIndependent(t *testing.T) {
	loader := NewViewLoader(newMemoryCache())
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := loadView(context.Background(), loader, "test", "session-1", "a", func(ctx context.Context) (countView, error) {
			close(started)
			<-release
			return countView{Value: 1}, ctx.Err()
		}, nil)
		done <- err
	}()

	<-started
	_, err := loadView(context.Background(), loader, "test", "session-2", "b", func(ctx context.Context) (countView, error) {
		return countView{Value: 2}, nil
	}, nil)
	require.NoError(t, err)
	close(release)

	assert.NoError(t, <-done)
}

func TestLoadView_EmptyScopeNeverSupersedes(t *testing.T) {
	loader := NewViewLoader(nil)
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := loadView(context.Background(), loader, "test", "", "a", func(ctx context.Context) (countView, error) {
			close(started)
			<-release
			return countView{Value: 1}, ctx.Err()
		}, nil)
		done <- err
	}()

	<-started
	_, err := loadView(context.Background(), loader, "test", "", "a", func(ctx context.Context) (countView, error) {
		return countView{Value: 2}, nil
	}, nil)
	require.NoError(t, err)
	close(release)

	assert.NoError(t, <-done)
}
