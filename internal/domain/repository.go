package domain

import "context"

// StorageBackend is the key-value slot abstraction the history store writes
// through. A slot holds one opaque document, read and written wholesale.
// Get returns ErrSlotNotFound for a slot that has never been written.
type StorageBackend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// ProductFetcher defines the interface for looking up a product by barcode
// against the upstream food-product database.
type ProductFetcher interface {
	FetchProduct(ctx context.Context, barcode string) (*ProductRecord, error)
}

// HistoryRepository defines the interface for the local scan history.
// Load never fails: storage problems degrade to an empty history.
type HistoryRepository interface {
	Append(ctx context.Context, record *ProductRecord) error
	Load(ctx context.Context) []ProductRecord
}
