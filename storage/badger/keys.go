package badger

import "encoding/binary"

// Key prefixes for cached catalog data
const (
	catalogRecordPrefix = "catrec"
	catalogMetaKey      = "catmeta"
)

// makeRecordKey generates a key for a catalog record by dataset position.
// Positions are written in BigEndian order so lexicographic iteration
// yields records in dataset order.
func makeRecordKey(position uint64) []byte {
	prefix := catalogRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], position)
	return buf
}

// recordKeyPrefix returns the common prefix of all record keys.
func recordKeyPrefix() []byte {
	return []byte(catalogRecordPrefix + ":")
}

// makeMetaKey returns the key holding the catalog metadata.
func makeMetaKey() []byte {
	return []byte(catalogMetaKey)
}
