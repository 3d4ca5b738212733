package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/service"
	"rentvault-backend/internal/utils"
)

func TestRegisterAsset(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		asset, err := f.registry.RegisterAsset(context.Background(), owner, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(1), asset.ID)
		assert.Equal(t, "owner", asset.Owner)
		assert.True(t, asset.Available)
	})

	t.Run("NonPositivePrice", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.registry.RegisterAsset(context.Background(), owner, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
		_, err = f.registry.RegisterAsset(context.Background(), owner, -5)
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})

	t.Run("EmptyAccount", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.registry.RegisterAsset(context.Background(), service.Caller{}, 100)
		assert.ErrorIs(t, err, domain.ErrInvalidAccount)
	})

	t.Run("MonotonicIDs", func(t *testing.T) {
		f := newFixture(t)
		a1, err := f.registry.RegisterAsset(context.Background(), owner, 100)
		require.NoError(t, err)
		a2, err := f.registry.RegisterAsset(context.Background(), owner, 200)
		require.NoError(t, err)
		assert.Equal(t, a1.ID+1, a2.ID)
	})
}

func TestUpdateAsset(t *testing.T) {
	t.Run("OwnerOnly", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)

		_, err := f.registry.UpdateAsset(context.Background(), renter, asset.ID, 200, true)
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})

	t.Run("PriceAndAvailability", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)

		got, err := f.registry.UpdateAsset(context.Background(), owner, asset.ID, 250, false)
		require.NoError(t, err)
		assert.Equal(t, int64(250), got.PricePerHour)
		assert.False(t, got.Available)
	})

	t.Run("InvalidPrice", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)

		_, err := f.registry.UpdateAsset(context.Background(), owner, asset.ID, 0, true)
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.registry.UpdateAsset(context.Background(), owner, 42, 100, true)
		assert.ErrorIs(t, err, domain.ErrAssetNotFound)
	})
}

func TestTransferOwnership(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)

		got, err := f.registry.TransferOwnership(context.Background(), owner, asset.ID, "buyer")
		require.NoError(t, err)
		assert.Equal(t, "buyer", got.Owner)

		// The old owner has lost control.
		_, err = f.registry.UpdateAsset(context.Background(), owner, asset.ID, 200, true)
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})

	t.Run("EmptyNewOwner", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)

		_, err := f.registry.TransferOwnership(context.Background(), owner, asset.ID, "")
		assert.ErrorIs(t, err, domain.ErrInvalidAccount)
	})

	t.Run("PayoutFollowsOwnerAtCompletion", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		_, err := f.registry.TransferOwnership(ctx, owner, asset.ID, "buyer")
		require.NoError(t, err)

		f.clk.Set(booking.EndTime())
		_, err = f.bookings.CompleteBooking(ctx, renter, booking.ID)
		require.NoError(t, err)

		payout, err := f.ledger.Withdrawable(ctx, "buyer")
		require.NoError(t, err)
		assert.Equal(t, int64(194), payout)
	})
}

func TestQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := f.registerAsset(t)

	quote, err := f.registry.Quote(ctx, asset.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, utils.Quote{Rental: 200, Premium: 10, Total: 210}, quote)

	_, err = f.registry.Quote(ctx, asset.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidHours)
	_, err = f.registry.Quote(ctx, 42, 2)
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}
