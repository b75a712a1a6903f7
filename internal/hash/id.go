package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// PathID computes the xxHash64 of a (parent, name) series path.
//
// The parent length is hashed ahead of the two components so that the
// boundary between them contributes to the digest: ("a", "bc") and
// ("ab", "c") produce different IDs.
func PathID(parent, name string) uint64 {
	var d xxhash.Digest
	d.Reset()

	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(parent)))
	_, _ = d.Write(n[:])
	_, _ = d.WriteString(parent)
	_, _ = d.WriteString(name)

	return d.Sum64()
}
