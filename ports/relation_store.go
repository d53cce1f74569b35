package ports

import (
	"context"

	"wrangle/domain/core"
	"wrangle/domain/table"
)

// RelationStore persists cleaned tables as named relations.
// Save overwrites any existing relation of the same name (last writer wins;
// the system is single-user and offers no locking). Load of an unknown name
// fails with a NOT_FOUND error. Round-trips are lossless: column names, kinds
// and cell values, missing markers included.
type RelationStore interface {
	Save(ctx context.Context, name core.RelationName, t *table.Table) error
	Load(ctx context.Context, name core.RelationName) (*table.Table, error)
	Delete(ctx context.Context, name core.RelationName) error
	List(ctx context.Context) ([]core.RelationName, error)
}

// BlobStore holds raw uploaded files before parsing
type BlobStore interface {
	Store(ctx context.Context, data []byte, filename string) (string, error)
	Read(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}
