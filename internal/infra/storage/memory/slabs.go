package memory

import (
	"context"
	"sync"

	domainpricing "github.com/Jayu-patel/hotels-management-sub000/internal/domain/pricing"
	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
)

// SlabRepository is an in-memory price slab store.
type SlabRepository struct {
	mu      sync.RWMutex
	byHotel map[domainrooms.HotelID][]domainpricing.PriceSlab
}

// NewSlabRepository builds an empty repository.
func NewSlabRepository() *SlabRepository {
	return &SlabRepository{byHotel: make(map[domainrooms.HotelID][]domainpricing.PriceSlab)}
}

// ListByHotel returns the hotel's slabs in insertion order.
func (r *SlabRepository) ListByHotel(ctx context.Context, hotelID domainrooms.HotelID) ([]domainpricing.PriceSlab, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slabs := r.byHotel[hotelID]
	out := make([]domainpricing.PriceSlab, len(slabs))
	copy(out, slabs)
	return out, nil
}

// Save appends or replaces a slab keyed by its ID.
func (r *SlabRepository) Save(ctx context.Context, slab domainpricing.PriceSlab) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slabs := r.byHotel[slab.HotelID]
	for i := range slabs {
		if slabs[i].ID == slab.ID {
			slabs[i] = slab
			return nil
		}
	}
	r.byHotel[slab.HotelID] = append(slabs, slab)
	return nil
}

var _ domainpricing.SlabRepository = (*SlabRepository)(nil)
