package docstore

import "context"

// Store is a schemaless document store keyed by collection and id.
// Identifiers are assigned by the store on Create.
type Store interface {
	Create(ctx context.Context, collection string, doc Document) (string, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	// Update merges partial into the stored document. Keys not present in
	// partial are left untouched.
	Update(ctx context.Context, collection, id string, partial Document) error
	Delete(ctx context.Context, collection, id string) error
	// Query returns every document in collection whose fields equal all
	// filters, ordered by sort. Returned documents carry their id under IDField.
	Query(ctx context.Context, collection string, filters []Filter, sort Sort) ([]Document, error)
}
