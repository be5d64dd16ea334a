package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/fishlog/internal/client/models"
)

// Client is the account surface of the hosted platform used by the session
// flow.
type Client interface {
	Close() error
	CreateAccount(ctx context.Context, userID, email, password, name string) (*models.Account, error)
	CreateSession(ctx context.Context, email, password string) (*models.Session, error)
	GetSession(ctx context.Context) (*models.Session, error)
	GetAccount(ctx context.Context) (*models.Account, error)
	GetPreferences(ctx context.Context) (json.RawMessage, error)
	UpdatePreferences(ctx context.Context, prefs models.Preferences) error
	DeleteSession(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Documents is the document-database surface behind catches, groups, events
// and comments.
type Documents interface {
	CreateDocument(ctx context.Context, collection, id string, data map[string]any, out any) error
	UpdateDocument(ctx context.Context, collection, id string, data map[string]any, out any) error
	DeleteDocument(ctx context.Context, collection, id string) error
	ListDocuments(ctx context.Context, collection string, queries []Query, out any) (int, error)
}

// Query is one list filter or ordering clause, serialized the way the
// platform expects in the queries[] parameter.
type Query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

func Equal(attr string, values ...any) Query {
	return Query{Method: "equal", Attribute: attr, Values: values}
}

// Search matches a full-text or array-contains attribute.
func Search(attr string, value string) Query {
	return Query{Method: "search", Attribute: attr, Values: []any{value}}
}

func OrderDesc(attr string) Query {
	return Query{Method: "orderDesc", Attribute: attr}
}

func Limit(n int) Query {
	return Query{Method: "limit", Values: []any{n}}
}

func (q Query) String() string {
	b, _ := json.Marshal(q)
	return string(b)
}
