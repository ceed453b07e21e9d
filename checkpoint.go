package hashchain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"github.com/zeebo/xxh3"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// A Checkpoint is what a chain's owner keeps between sessions: the tail it publishes and the
// waypoints it rebuilds elements from. Its binary form is big-endian and closed by an XXH3 checksum
// that catches storage corruption; it is not a substitute for ValidateWaypoints.

var ErrMalformedCheckpoint = errors.New("hashchain: malformed checkpoint")

const (
	checkpointMagic   = "HCWP"
	checkpointVersion = 1
	headerSize        = len(checkpointMagic) + 2 + 8 + Size + 4
	waypointSize      = 8 + Size
	trailerSize       = 8
)

// Checkpoint is the persisted state of one chain: its length, tail and sampled waypoints.
type Checkpoint struct {
	Algorithm Algorithm
	Elements  uint64
	Tail      Digest
	Waypoints []Waypoint
}

// NewCheckpoint generates the chain grown from seed and records its tail and waypoints.
func (a Algorithm) NewCheckpoint(seed []byte, elements uint64, capacity int) (*Checkpoint, error) {
	tail, waypoints, _, err := a.GenerateWithWaypoints(seed, elements, capacity)
	if err != nil {
		return nil, err
	}
	return &Checkpoint{Algorithm: a, Elements: elements, Tail: tail, Waypoints: waypoints}, nil
}

// Seek rebuilds chain[index] from the checkpoint's waypoints.
func (c *Checkpoint) Seek(index uint64) (Digest, error) {
	if index >= c.Elements {
		return Digest{}, fmt.Errorf("hashchain: Seek: index %d outside chain of %d", index, c.Elements)
	}
	return c.Algorithm.Seek(c.Waypoints, index)
}

// Verify checks a claimed element against the checkpoint's tail.
func (c *Checkpoint) Verify(element Digest, index uint64) Result {
	return c.Algorithm.Verify(element, index, c.Tail, c.Elements)
}

// MarshalBinary encodes c in the HCWP format, trailed by the XXH3 of everything before it.
func (c *Checkpoint) MarshalBinary() ([]byte, error) {
	if !c.Algorithm.Available() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(c.Algorithm))
	}
	if uint64(len(c.Waypoints)) > 1<<32-1 {
		return nil, fmt.Errorf("hashchain: MarshalBinary: %d waypoints do not fit", len(c.Waypoints))
	}

	b := make([]byte, 0, headerSize+len(c.Waypoints)*waypointSize+trailerSize)
	b = append(b, checkpointMagic...)
	b = append(b, checkpointVersion, byte(c.Algorithm))
	b = appendUint64(b, c.Elements)
	b = append(b, c.Tail[:]...)
	b = appendUint32(b, uint32(len(c.Waypoints)))
	for _, w := range c.Waypoints {
		b = appendUint64(b, w.Index)
		b = append(b, w.Digest[:]...)
	}
	return appendUint64(b, xxh3.Hash(b)), nil
}

// UnmarshalBinary decodes b into c, leaving c untouched unless b is well formed. Waypoint indices
// are checked for order and range but their digests are not walked.
func (c *Checkpoint) UnmarshalBinary(b []byte) error {
	if len(b) < headerSize+trailerSize {
		return fmt.Errorf("%w: %d bytes is too short", ErrMalformedCheckpoint, len(b))
	}
	body, sum := b[:len(b)-trailerSize], binary.BigEndian.Uint64(b[len(b)-trailerSize:])
	if xxh3.Hash(body) != sum {
		return fmt.Errorf("%w: checksum mismatch", ErrMalformedCheckpoint)
	}
	if string(body[:len(checkpointMagic)]) != checkpointMagic {
		return fmt.Errorf("%w: bad magic", ErrMalformedCheckpoint)
	}
	body = body[len(checkpointMagic):]
	if body[0] != checkpointVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformedCheckpoint, body[0])
	}
	alg := Algorithm(body[1])
	if !alg.Available() {
		return fmt.Errorf("%w: %v", ErrMalformedCheckpoint, alg)
	}
	body = body[2:]

	var out Checkpoint
	out.Algorithm = alg
	out.Elements, body = binary.BigEndian.Uint64(body), body[8:]
	body = body[copy(out.Tail[:], body):]
	count, body := uint64(binary.BigEndian.Uint32(body)), body[4:]
	if out.Elements == 0 {
		return fmt.Errorf("%w: %v", ErrMalformedCheckpoint, ErrInvalidLength)
	}
	if uint64(len(body)) != count*waypointSize {
		return fmt.Errorf("%w: %d waypoints declared, %d bytes present", ErrMalformedCheckpoint, count, len(body))
	}

	out.Waypoints = make([]Waypoint, count)
	for i := range out.Waypoints {
		w := &out.Waypoints[i]
		w.Index, body = binary.BigEndian.Uint64(body), body[8:]
		body = body[copy(w.Digest[:], body):]
		switch {
		case w.Index >= out.Elements:
			return fmt.Errorf("%w: waypoint %d lies outside the chain", ErrMalformedCheckpoint, i)
		case i > 0 && w.Index <= out.Waypoints[i-1].Index:
			return fmt.Errorf("%w: waypoint %d is out of order", ErrMalformedCheckpoint, i)
		}
	}
	*c = out
	return nil
}

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendUint64(b []byte, v uint64) []byte {
	return append(b,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
