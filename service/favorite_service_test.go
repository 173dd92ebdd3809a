package service

import (
	"context"
	"errors"
	"testing"

	"carrental/pkg/rental"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteService_ToggleRoundTrip(t *testing.T) {
	stg := newFakeStore()
	svc := newTestServices(stg).Favorite()
	ctx := context.Background()

	start, err := svc.Load(ctx, "client-1")
	require.NoError(t, err)

	added, op, err := svc.Toggle(ctx, "client-1", start, "vehicle-1")
	require.NoError(t, err)
	assert.Equal(t, rental.FavoriteAdd, op)
	assert.True(t, added.Has("vehicle-1"))
	assert.True(t, stg.favorites["client-1"]["vehicle-1"])

	back, op, err := svc.Toggle(ctx, "client-1", added, "vehicle-1")
	require.NoError(t, err)
	assert.Equal(t, rental.FavoriteRemove, op)
	assert.Equal(t, start, back)
	assert.False(t, stg.favorites["client-1"]["vehicle-1"])
}

func TestFavoriteService_ToggleFailureRollsBack(t *testing.T) {
	stg := newFakeStore()
	stg.fail["favorite.add"] = errors.New("network unreachable")
	svc := newTestServices(stg).Favorite()

	start := rental.NewFavorites("vehicle-2")
	got, op, err := svc.Toggle(context.Background(), "client-1", start, "vehicle-1")

	var syncErr *rental.SyncError
	require.True(t, errors.As(err, &syncErr))
	assert.Equal(t, rental.FavoriteAdd, op)
	assert.Equal(t, start, got)
	assert.False(t, got.Has("vehicle-1"))
}

func TestFavoriteService_ToggleTimeoutRollsBack(t *testing.T) {
	stg := newFakeStore()
	stg.slow["favorite.remove"] = true
	svc := newTestServices(stg).Favorite()

	start := rental.NewFavorites("vehicle-1")
	got, _, err := svc.Toggle(context.Background(), "client-1", start, "vehicle-1")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, got.Has("vehicle-1"))
}

func TestFavoriteService_CancelledContextRollsBack(t *testing.T) {
	stg := newFakeStore()
	stg.slow["favorite.add"] = true
	svc := newTestServices(stg).Favorite()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, _, err := svc.Toggle(ctx, "client-1", rental.NewFavorites(), "vehicle-1")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, got)
}

func TestFavoriteService_RejectsConcurrentToggle(t *testing.T) {
	stg := newFakeStore()
	mgr := newTestServices(stg).(*service)
	fav := mgr.favoriteService.(*favoriteService)

	release, err := fav.acquire("favorite:client-1:vehicle-1")
	require.NoError(t, err)
	defer release()

	start := rental.NewFavorites()
	got, _, err := fav.Toggle(context.Background(), "client-1", start, "vehicle-1")
	assert.ErrorIs(t, err, ErrMutationInFlight)
	assert.Equal(t, start, got)
}
