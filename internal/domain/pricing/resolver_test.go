package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/money"
)

type staticSlabs struct {
	slabs []PriceSlab
}

func (s staticSlabs) ListByHotel(ctx context.Context, hotelID rooms.HotelID) ([]PriceSlab, error) {
	return s.slabs, nil
}

func (s staticSlabs) Save(ctx context.Context, slab PriceSlab) error { return nil }

func testRoom(baseCents int64) *rooms.Room {
	return &rooms.Room{
		ID:                "room-1",
		HotelID:           "hotel-1",
		Name:              "Standard Double",
		BasePricePerNight: money.Must(baseCents, "USD"),
		TotalCount:        5,
		CapacityPerRoom:   2,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, in, out string) daterange.DateRange {
	t.Helper()
	dr, err := daterange.Parse(in, out)
	require.NoError(t, err)
	return dr
}

func TestQuoteWithoutSlabsUsesBasePrice(t *testing.T) {
	resolver := NewResolver(staticSlabs{})
	dr := mustRange(t, "2025-06-01", "2025-06-04")

	breakdown, err := resolver.Quote(context.Background(), testRoom(10000), dr)
	require.NoError(t, err)
	assert.Equal(t, 3, breakdown.Nights)
	assert.Equal(t, int64(30000), breakdown.Subtotal.Amount)
	assert.Equal(t, int64(30000), breakdown.Total.Amount)
	assert.Empty(t, breakdown.Discounts)
}

func TestQuoteAppliesSeasonalMultiplierPerNight(t *testing.T) {
	resolver := NewResolver(staticSlabs{slabs: []PriceSlab{{
		ID:                "summer",
		HotelID:           "hotel-1",
		Kind:              SlabSeasonal,
		StartDate:         day(2025, 6, 2),
		EndDate:           day(2025, 6, 2),
		MultiplierPercent: 150,
	}}})
	dr := mustRange(t, "2025-06-01", "2025-06-04")

	breakdown, err := resolver.Quote(context.Background(), testRoom(10000), dr)
	require.NoError(t, err)
	// Nights 1 and 3 at base, night 2 at 1.5x.
	assert.Equal(t, int64(35000), breakdown.Subtotal.Amount)
}

func TestQuoteOverlappingSeasonalSlabsLargestWins(t *testing.T) {
	resolver := NewResolver(staticSlabs{slabs: []PriceSlab{
		{ID: "a", Kind: SlabSeasonal, StartDate: day(2025, 6, 1), EndDate: day(2025, 6, 30), MultiplierPercent: 120},
		{ID: "b", Kind: SlabSeasonal, StartDate: day(2025, 6, 1), EndDate: day(2025, 6, 30), MultiplierPercent: 150},
	}})
	dr := mustRange(t, "2025-06-01", "2025-06-03")

	breakdown, err := resolver.Quote(context.Background(), testRoom(10000), dr)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), breakdown.Subtotal.Amount)
}

func TestQuoteSeasonalWindowIsInclusive(t *testing.T) {
	resolver := NewResolver(staticSlabs{slabs: []PriceSlab{{
		ID: "window", Kind: SlabSeasonal,
		StartDate: day(2025, 6, 1), EndDate: day(2025, 6, 2), MultiplierPercent: 200,
	}}})
	dr := mustRange(t, "2025-06-01", "2025-06-04")

	breakdown, err := resolver.Quote(context.Background(), testRoom(10000), dr)
	require.NoError(t, err)
	// Nights 1 and 2 doubled, night 3 at base.
	assert.Equal(t, int64(50000), breakdown.Subtotal.Amount)
}

func TestQuoteSubNeutralMultiplierLowersPrice(t *testing.T) {
	resolver := NewResolver(staticSlabs{slabs: []PriceSlab{{
		ID: "offseason", Kind: SlabSeasonal,
		StartDate: day(2025, 11, 1), EndDate: day(2025, 11, 30), MultiplierPercent: 80,
	}}})
	dr := mustRange(t, "2025-11-10", "2025-11-12")

	breakdown, err := resolver.Quote(context.Background(), testRoom(10000), dr)
	require.NoError(t, err)
	assert.Equal(t, int64(16000), breakdown.Subtotal.Amount)
}

func TestQuoteDurationDiscountBoundaries(t *testing.T) {
	resolver := NewResolver(staticSlabs{slabs: []PriceSlab{{
		ID: "weekly", Kind: SlabDuration,
		MinNights: 3, MaxNights: 6, DiscountPercent: 10,
	}}})

	cases := []struct {
		name     string
		out      string
		discount bool
		total    int64
	}{
		{"below minimum", "2025-06-03", false, 20000},
		{"lower boundary", "2025-06-04", true, 27000},
		{"upper boundary", "2025-06-07", true, 54000},
		{"above maximum", "2025-06-08", false, 70000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dr := mustRange(t, "2025-06-01", tc.out)
			breakdown, err := resolver.Quote(context.Background(), testRoom(10000), dr)
			require.NoError(t, err)
			if tc.discount {
				require.Len(t, breakdown.Discounts, 1)
				assert.Equal(t, 10, breakdown.Discounts[0].Percent)
			} else {
				assert.Empty(t, breakdown.Discounts)
			}
			assert.Equal(t, tc.total, breakdown.Total.Amount)
		})
	}
}

func TestQuoteOverlappingDurationSlabsLargestWins(t *testing.T) {
	resolver := NewResolver(staticSlabs{slabs: []PriceSlab{
		{ID: "short", Kind: SlabDuration, MinNights: 2, MaxNights: 10, DiscountPercent: 5},
		{ID: "long", Kind: SlabDuration, MinNights: 3, MaxNights: 10, DiscountPercent: 15},
	}})
	dr := mustRange(t, "2025-06-01", "2025-06-05")

	breakdown, err := resolver.Quote(context.Background(), testRoom(10000), dr)
	require.NoError(t, err)
	require.Len(t, breakdown.Discounts, 1)
	assert.Equal(t, 15, breakdown.Discounts[0].Percent)
	assert.Equal(t, int64(34000), breakdown.Total.Amount)
}

func TestQuoteCombinesSeasonalAndDuration(t *testing.T) {
	resolver := NewResolver(staticSlabs{slabs: []PriceSlab{
		{ID: "summer", Kind: SlabSeasonal, StartDate: day(2025, 6, 1), EndDate: day(2025, 8, 31), MultiplierPercent: 150},
		{ID: "weekly", Kind: SlabDuration, MinNights: 4, MaxNights: 14, DiscountPercent: 10},
	}})
	dr := mustRange(t, "2025-06-01", "2025-06-05")

	breakdown, err := resolver.Quote(context.Background(), testRoom(10000), dr)
	require.NoError(t, err)
	// 4 nights at 15000, then 10% off the stay.
	assert.Equal(t, int64(60000), breakdown.Subtotal.Amount)
	assert.Equal(t, int64(54000), breakdown.Total.Amount)
	assert.Equal(t, int64(54000), breakdown.StaySubtotal().Amount)
	assert.Equal(t, int64(13500), breakdown.AverageNightly().Amount)
}

func TestQuoteIsDeterministic(t *testing.T) {
	resolver := NewResolver(staticSlabs{slabs: []PriceSlab{
		{ID: "summer", Kind: SlabSeasonal, StartDate: day(2025, 6, 1), EndDate: day(2025, 8, 31), MultiplierPercent: 130},
		{ID: "weekly", Kind: SlabDuration, MinNights: 2, MaxNights: 30, DiscountPercent: 7},
	}})
	dr := mustRange(t, "2025-06-10", "2025-06-17")

	first, err := resolver.Quote(context.Background(), testRoom(12345), dr)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := resolver.Quote(context.Background(), testRoom(12345), dr)
		require.NoError(t, err)
		assert.Equal(t, first.Total, again.Total)
		assert.Equal(t, first.Subtotal, again.Subtotal)
	}
}
