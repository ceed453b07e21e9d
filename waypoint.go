package hashchain

import (
	"errors"
	"sort"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Waypoints are evenly spaced (index, digest) checkpoints recorded while a chain is generated, so
// that any element of a chain of up to 2^32 or more elements can later be rebuilt at a cost bounded
// by the stride instead of the chain length.

var ErrNoWaypoint = errors.New("hashchain: no waypoint at or before index")

// Waypoint records chain[Index].
type Waypoint struct {
	Index  uint64
	Digest Digest
}

// Stride returns the spacing between the waypoints sampled from a chain of the given length into
// capacity slots: 1 when the whole chain fits, floor(elements/capacity) otherwise and 0 when
// nothing can be stored.
func Stride(elements uint64, capacity int) uint64 {
	switch {
	case capacity <= 0 || elements == 0:
		return 0
	case uint64(capacity) >= elements:
		return 1
	}
	return elements / uint64(capacity) /* Integer division floors; n >= 1 here. */
}

// GenerateWithWaypoints is Generate for SHA-256 chains that also samples up to capacity waypoints.
func GenerateWithWaypoints(seed []byte, elements uint64, capacity int) (Digest, []Waypoint, uint64, error) {
	return SHA256.GenerateWithWaypoints(seed, elements, capacity)
}

// GenerateInto is GenerateInto for SHA-256 chains.
func GenerateInto(seed []byte, elements uint64, buf []Waypoint) (Digest, int, error) {
	return SHA256.GenerateInto(seed, elements, buf)
}

// Seek rebuilds chain[index] of a SHA-256 chain from the nearest waypoint at or before it.
func Seek(waypoints []Waypoint, index uint64) (Digest, error) { return SHA256.Seek(waypoints, index) }

// GenerateWithWaypoints returns the tail of the chain grown from seed along with the waypoints
// sampled while growing it and the chain index of the last one stored. At most capacity waypoints
// are kept, and never more than elements; the returned slice is the only allocation made. last is a
// chain index, not a slot; the slot is len(waypoints)-1. When nothing is stored the slice is empty
// and last is 0, the same as a single waypoint at index 0, so check len(waypoints) to tell them
// apart.
func (a Algorithm) GenerateWithWaypoints(seed []byte, elements uint64, capacity int) (
	tail Digest, waypoints []Waypoint, last uint64, err error) {

	if elements == 0 {
		return tail, nil, 0, ErrInvalidLength
	}
	slots := uint64(0)
	if capacity > 0 {
		slots = uint64(capacity)
	}
	if slots > elements {
		slots = elements
	}

	waypoints = make([]Waypoint, slots)
	tail, n, err := a.GenerateInto(seed, elements, waypoints)
	if err != nil {
		return tail, nil, 0, err
	}
	if waypoints = waypoints[:n]; n > 0 {
		last = waypoints[n-1].Index
	}
	return tail, waypoints, last, nil
}

// GenerateInto grows the chain like Generate while writing waypoints into buf, whose length is the
// capacity, and returns how many entries were written. If len(buf) >= elements every element is
// stored; otherwise chain[0], chain[n], chain[2n], ... for n = Stride(elements, len(buf)) until buf
// is full. buf is the only memory written to.
func (a Algorithm) GenerateInto(seed []byte, elements uint64, buf []Waypoint) (tail Digest, n int, err error) {
	if elements == 0 {
		return tail, 0, ErrInvalidLength
	}
	stride, next := Stride(elements, len(buf)), a.step()

	tail = a.Sum(seed)
	for i, mark := uint64(0), uint64(0); ; i++ {
		if stride > 0 && n < len(buf) && i == mark {
			buf[n] = Waypoint{i, tail}
			n++
			mark += stride
		}
		if i == elements-1 {
			break
		}
		tail = next(tail)
	}
	return tail, n, nil
}

// Seek rebuilds chain[index] starting from the nearest waypoint at or before index. waypoints must
// be ordered by strictly increasing Index and come from the chain being sought; Seek cannot tell
// whether index lies past the end of that chain.
func (a Algorithm) Seek(waypoints []Waypoint, index uint64) (Digest, error) {
	i := sort.Search(len(waypoints), func(i int) bool { return waypoints[i].Index > index })
	if i == 0 {
		return Digest{}, ErrNoWaypoint
	}
	w := waypoints[i-1]
	return a.advance(w.Digest, index-w.Index), nil
}

// after returns the first waypoint whose Index is at least index.
func after(waypoints []Waypoint, index uint64) (Waypoint, bool) {
	i := sort.Search(len(waypoints), func(i int) bool { return waypoints[i].Index >= index })
	if i == len(waypoints) {
		return Waypoint{}, false
	}
	return waypoints[i], true
}
