package docstore

import "errors"

var (
	ErrNotFound = errors.New("document not found")
	ErrTimeout  = errors.New("store operation timed out")
)

// IDField is the key under which Get and Query expose a document's id.
const IDField = "id"

// Document is a schemaless key/value map.
type Document map[string]any

// Filter is an equality predicate on a single field.
type Filter struct {
	Field string
	Value any
}

// Direction is the ordering applied by a Sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Sort orders query results by a single field. An empty Field keeps
// insertion order.
type Sort struct {
	Field     string
	Direction Direction
}

// Eq is shorthand for an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Clone returns a shallow copy of d without the id key.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}
