package storage

import (
	"context"

	"github.com/kiddarkness/itemshop/internal/app/domain/selection"
	"github.com/kiddarkness/itemshop/internal/app/domain/shop"
)

// SnapshotStore holds the latest normalized catalog. The catalog is rebuilt
// wholesale on every fetch, so there is exactly one current snapshot.
type SnapshotStore interface {
	PutSnapshot(ctx context.Context, snap shop.Snapshot) error
	GetSnapshot(ctx context.Context) (shop.Snapshot, error)
}

// SessionStore holds in-progress selection sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, st selection.State) (selection.State, error)
	UpdateSession(ctx context.Context, st selection.State) (selection.State, error)
	GetSession(ctx context.Context, id string) (selection.State, error)
	DeleteSession(ctx context.Context, id string) error
}
