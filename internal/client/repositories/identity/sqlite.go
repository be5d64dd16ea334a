package identity

import (
	"context"

	"github.com/dmitrijs2005/fishlog/internal/client/models"
	"github.com/dmitrijs2005/fishlog/internal/client/repositories/metadata"
)

// SQLiteStore keeps the identity entry in the local key/value table.
type SQLiteStore struct {
	repo metadata.Repository
}

func NewSQLiteStore(repo metadata.Repository) *SQLiteStore {
	return &SQLiteStore{repo: repo}
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.User, error) {
	b, err := s.repo.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	return decode(b)
}

func (s *SQLiteStore) Save(ctx context.Context, user *models.User) error {
	b, err := encode(user)
	if err != nil {
		return err
	}
	return s.repo.Set(ctx, StorageKey, b)
}
