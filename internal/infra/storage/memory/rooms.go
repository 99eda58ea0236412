package memory

import (
	"context"
	"sort"
	"sync"

	domainrooms "github.com/Jayu-patel/hotels-management-sub000/internal/domain/rooms"
)

// RoomRepository is an in-memory room store.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[domainrooms.RoomID]*domainrooms.Room
}

// NewRoomRepository builds an empty repository.
func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[domainrooms.RoomID]*domainrooms.Room)}
}

// ByID returns a room or rooms.ErrRoomNotFound.
func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.items[id]
	if !ok {
		return nil, domainrooms.ErrRoomNotFound
	}
	clone := *room
	return &clone, nil
}

// ListByHotel returns every room type of a hotel, ordered by name.
func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID domainrooms.HotelID) ([]*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainrooms.Room, 0)
	for _, room := range r.items {
		if room.HotelID != hotelID {
			continue
		}
		clone := *room
		matches = append(matches, &clone)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Name < matches[j].Name
	})
	return matches, nil
}

// Save stores or updates a room entry.
func (r *RoomRepository) Save(ctx context.Context, room *domainrooms.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *room
	r.items[room.ID] = &clone
	return nil
}

var _ domainrooms.Repository = (*RoomRepository)(nil)
