package hashchain

import "errors"

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// The following functions derive one-way hash chains: chain[0] is the digest of the seed and every
// later element is the digest of its predecessor. Only the tail is ever returned; no function here
// retains the chain itself.

var ErrInvalidLength = errors.New("hashchain: chain must contain at least 1 element")

// Generate returns the tail of the SHA-256 chain of the given length grown from seed.
func Generate(seed []byte, elements uint64) (Digest, error) { return SHA256.Generate(seed, elements) }

// Element returns chain[index] of the SHA-256 chain grown from seed.
func Element(seed []byte, index uint64) Digest { return SHA256.Element(seed, index) }

// Generate returns chain[elements-1], the tail, of the chain grown from seed. The same seed and
// length always produce the same tail.
func (a Algorithm) Generate(seed []byte, elements uint64) (Digest, error) {
	if elements == 0 {
		return Digest{}, ErrInvalidLength
	}
	return a.Element(seed, elements-1), nil
}

// Element returns chain[index], the result of index+1 applications of a to seed.
func (a Algorithm) Element(seed []byte, index uint64) Digest {
	return a.advance(a.Sum(seed), index)
}

// advance applies the digest hops times to d.
func (a Algorithm) advance(d Digest, hops uint64) Digest {
	next := a.step()
	for ; hops > 0; hops-- {
		d = next(d)
	}
	return d
}
