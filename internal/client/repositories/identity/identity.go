// Package identity persists the last known user between runs.
//
// The cache holds a single logical entry under StorageKey whose value is the
// JSON document {"user": <user or null>}. Nothing else about the session is
// kept here: loading state, errors and connectivity are rebuilt on start.
package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fishlog/internal/client/models"
)

// StorageKey names the cache entry.
const StorageKey = "auth-storage"

// Store is the persisted identity cache. Load returns (nil, nil) when
// nothing was saved; Save(nil) records a logged-out state.
type Store interface {
	Load(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

type envelope struct {
	User *models.User `json:"user"`
}

func encode(u *models.User) ([]byte, error) {
	b, err := json.Marshal(envelope{User: u})
	if err != nil {
		return nil, fmt.Errorf("encode identity: %w", err)
	}
	return b, nil
}

func decode(b []byte) (*models.User, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return env.User, nil
}
