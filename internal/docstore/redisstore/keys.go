package redisstore

import "fmt"

// Key prefix for all tennis-ledger data
const keyPrefix = "tennis"

// documentKey returns the Redis key holding a document body
func documentKey(collection, id string) string {
	return fmt.Sprintf("%s:doc:%s:%s", keyPrefix, collection, id)
}

// collectionIndexKey returns the sorted set of ids in a collection,
// scored by insertion time
func collectionIndexKey(collection string) string {
	return fmt.Sprintf("%s:idx:%s", keyPrefix, collection)
}
