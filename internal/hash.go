// This file contains the deterministic order key that the ranking
// and pairing code uses as its terminal tie-break.
package internal

import "hash/fnv"

// sep keeps distinct (event, role, id) triples from colliding when
// their concatenations are equal.
const sep = byte(0x1f)

// OrderKey hashes an event id, a role label and a competitor id into
// a stable 64-bit key. The key only depends on the three inputs, so
// repeated calls, reordered inputs and different processes all agree.
//
// The role label separates orderings that must not correlate, such as
// the standings order and the pairing order of the same event.
func OrderKey(eventID, role, id string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(eventID))
	h.Write([]byte{sep})
	h.Write([]byte(role))
	h.Write([]byte{sep})
	h.Write([]byte(id))
	return h.Sum64()
}
