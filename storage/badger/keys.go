package badger

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/storage"
)

// Key prefix for passage records. Full layout: passage:<collection>:<id>
const passagePrefix = "passage"

const maxCollectionName = 128

// validateCollection checks that a collection name is usable inside a key.
func validateCollection(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", storage.ErrInvalidCollection)
	}
	if len(name) > maxCollectionName {
		return fmt.Errorf("%w: name exceeds %d bytes", storage.ErrInvalidCollection, maxCollectionName)
	}
	if strings.ContainsAny(name, ":\x00") {
		return fmt.Errorf("%w: %q contains a reserved character", storage.ErrInvalidCollection, name)
	}
	return nil
}

// makeCollectionPrefix generates the key prefix shared by all passages in a collection.
// Format: prefix:collection:
func makeCollectionPrefix(collection string) []byte {
	return []byte(passagePrefix + ":" + collection + ":")
}

// makePassageKey generates a key for a passage by ID.
// Format: prefix:collection:id (id in BigEndian so iteration follows ID order)
func makePassageKey(collection string, id core.ID) []byte {
	prefix := makeCollectionPrefix(collection)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
