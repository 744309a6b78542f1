package docstore

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// NewID returns a fresh document identifier.
func NewID() string {
	return uuid.NewString()
}

// Encode serialises a document body. The id key is never stored.
func Encode(doc Document) ([]byte, error) {
	return msgpack.Marshal(doc.Clone())
}

// Decode is the inverse of Encode. Integers come back as int64 or uint64
// and floats as float64 regardless of their encoded width.
func Decode(data []byte) (Document, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if raw == nil {
		return Document{}, nil
	}
	return Document(raw), nil
}

// Merge applies partial on top of doc in place.
func Merge(doc, partial Document) {
	for k, v := range partial {
		if k == IDField {
			continue
		}
		doc[k] = v
	}
}

// Matches reports whether doc satisfies every filter.
func Matches(doc Document, filters []Filter) bool {
	for _, f := range filters {
		v, ok := doc[f.Field]
		if !ok {
			if f.Value != nil {
				return false
			}
			continue
		}
		if Compare(v, f.Value) != 0 {
			return false
		}
	}
	return true
}

// SortDocuments orders docs in place. Ties keep their incoming order.
func SortDocuments(docs []Document, sort Sort) {
	if sort.Field == "" {
		return
	}
	slices.SortStableFunc(docs, func(a, b Document) int {
		c := Compare(a[sort.Field], b[sort.Field])
		if sort.Direction == Descending {
			return -c
		}
		return c
	})
}

// Compare orders two document values. Numbers compare numerically across
// widths, strings lexically, false before true, and nil before anything.
// Values of unrelated types compare by their formatted form.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if ai, ok := asInt(a); ok {
		if bi, ok := asInt(b); ok {
			return cmp.Compare(ai, bi)
		}
	}
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return cmp.Compare(af, bf)
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return cmp.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
