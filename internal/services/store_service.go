package services

import (
	"context"
	"errors"

	"storeadmin/internal/domain"
	"storeadmin/internal/repos"
)

var (
	ErrNotOwner  = errors.New("store not owned by caller")
	ErrNameEmpty = errors.New("name is required")
)

// StoreService holds the ownership rule shared by every mutating handler.
type StoreService struct {
	Stores *repos.StoreRepo
}

func NewStoreService(stores *repos.StoreRepo) *StoreService {
	return &StoreService{Stores: stores}
}

// Authorize returns the store when userID owns it and ErrNotOwner otherwise,
// including when the store does not exist.
func (s *StoreService) Authorize(ctx context.Context, storeID, userID string) (*domain.Store, error) {
	st, err := s.Stores.OwnedBy(ctx, storeID, userID)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, ErrNotOwner
	}
	return st, err
}

func (s *StoreService) Create(ctx context.Context, userID, name string) (*domain.Store, error) {
	if name == "" {
		return nil, ErrNameEmpty
	}
	return s.Stores.Create(ctx, userID, name)
}

// Landing picks the store a signed-in user should see first; nil means none yet.
func (s *StoreService) Landing(ctx context.Context, userID string) (*domain.Store, error) {
	st, err := s.Stores.FirstByUser(ctx, userID)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, nil
	}
	return st, err
}
