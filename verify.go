package hashchain

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Verification walks a claimed element forward to a trusted anchor. Because the digest is one-way,
// an element that reaches the tail in exactly the right number of hops can only have come from the
// chain that produced the tail.

// Result is the outcome of a verification. The zero value rejects.
type Result uint8

const (
	Rejected Result = iota
	Verified
)

func (r Result) String() string {
	if r == Verified {
		return "verified"
	}
	return "rejected"
}

// Verify checks a claimed SHA-256 chain element against the chain's tail.
func Verify(element Digest, index uint64, tail Digest, length uint64) Result {
	return SHA256.Verify(element, index, tail, length)
}

// VerifyNear checks a claimed SHA-256 chain element against the nearest waypoint after it.
func VerifyNear(element Digest, index uint64, waypoints []Waypoint) Result {
	return SHA256.VerifyNear(element, index, waypoints)
}

// ValidateWaypoints checks a set of SHA-256 chain waypoints against the chain's tail.
func ValidateWaypoints(waypoints []Waypoint, tail Digest, length uint64) Result {
	return SHA256.ValidateWaypoints(waypoints, tail, length)
}

// Verify reports whether element is chain[index] of the chain of the given length ending in tail.
// The element is hashed length-1-index times and compared to tail. An index outside the chain is
// rejected rather than reported as an error: no element can sit at or past its chain's length.
func (a Algorithm) Verify(element Digest, index uint64, tail Digest, length uint64) Result {
	if index >= length {
		return Rejected
	}
	return a.reaches(element, length-1-index, tail)
}

// VerifyNear is Verify anchored at the nearest waypoint whose Index is at least index instead of
// the tail. Waypoints are only as trustworthy as their source; callers that did not produce them
// should check them with ValidateWaypoints first.
func (a Algorithm) VerifyNear(element Digest, index uint64, waypoints []Waypoint) Result {
	w, ok := after(waypoints, index)
	if !ok {
		return Rejected
	}
	return a.reaches(element, w.Index-index, w.Digest)
}

// ValidateWaypoints reports whether waypoints are strictly ordered elements of the chain of the
// given length ending in tail. Each waypoint is walked only as far as the next one, so the whole
// set costs at most length-1 hops. An empty set is trivially valid.
func (a Algorithm) ValidateWaypoints(waypoints []Waypoint, tail Digest, length uint64) Result {
	for i, w := range waypoints {
		if w.Index >= length {
			return Rejected
		}
		anchor, hops := tail, length-1-w.Index
		if i+1 < len(waypoints) {
			next := waypoints[i+1]
			if next.Index <= w.Index || next.Index >= length {
				return Rejected
			}
			anchor, hops = next.Digest, next.Index-w.Index
		}
		if a.reaches(w.Digest, hops, anchor) != Verified {
			return Rejected
		}
	}
	return Verified
}

func (a Algorithm) reaches(d Digest, hops uint64, anchor Digest) Result {
	if a.advance(d, hops).Equal(anchor) {
		return Verified
	}
	return Rejected
}
