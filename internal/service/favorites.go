package service

import (
	"context"

	"github.com/google/uuid"

	"bakkie/internal/domain"
	"bakkie/internal/kv"
)

// FavoritesService manages the user's saved locations in the key-value
// store. The list is unbounded; reads fail soft like history.
type FavoritesService struct {
	store kv.Store
}

// NewFavoritesService creates a favorites service over the given store.
func NewFavoritesService(store kv.Store) *FavoritesService {
	return &FavoritesService{store: store}
}

// List returns all saved locations.
func (s *FavoritesService) List(ctx context.Context) []domain.FavoriteLocation {
	return s.load(ctx)
}

// Add saves a location and returns it with its assigned id.
func (s *FavoritesService) Add(ctx context.Context, name, address, locType string) (domain.FavoriteLocation, error) {
	fav := domain.FavoriteLocation{
		ID:      uuid.New().String(),
		Name:    name,
		Address: address,
		Type:    locType,
	}

	favorites := append(s.load(ctx), fav)
	if err := kv.SetJSON(ctx, s.store, kv.KeyFavorites, favorites); err != nil {
		return domain.FavoriteLocation{}, err
	}
	return fav, nil
}

// Remove deletes a saved location. Removing an unknown id is a no-op.
func (s *FavoritesService) Remove(ctx context.Context, id string) error {
	favorites := s.load(ctx)
	kept := favorites[:0]
	for _, f := range favorites {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	return kv.SetJSON(ctx, s.store, kv.KeyFavorites, kept)
}

func (s *FavoritesService) load(ctx context.Context) []domain.FavoriteLocation {
	var favorites []domain.FavoriteLocation
	if !kv.GetJSON(ctx, s.store, kv.KeyFavorites, &favorites) {
		return nil
	}
	return favorites
}
