package hashchain

import (
	"crypto/hmac"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"hash"
	"strings"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// This file contains the digest primitives every chain is built from, exposed through one-shot and
// streaming interfaces.

// Size is the length in bytes of every digest produced by this package.
const Size = 32

// Digest is a single chain element. It is always passed by value.
type Digest [Size]byte

// Algorithm selects the digest primitive a chain is built from.
type Algorithm uint8

const (
	SHA256 Algorithm = iota
	BLAKE3
	BLAKE2b256
	algorithms
)

var (
	ErrUnknownAlgorithm = errors.New("hashchain: unknown algorithm")
	ErrFinalized        = errors.New("hashchain: context already finalized")
)

var names = [algorithms]string{"sha256", "blake3", "blake2b-256"}

func (a Algorithm) String() string {
	if a >= algorithms {
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
	return names[a]
}

// Available reports whether a names a known digest primitive.
func (a Algorithm) Available() bool { return a < algorithms }

// ParseAlgorithm maps a case-insensitive name such as "sha256" or "BLAKE3" to its Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, v := range names {
		if name == v || name == strings.Replace(v, "-", "", 1) {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// New returns a fresh hash.Hash for a.
func (a Algorithm) New() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New()
	case BLAKE3:
		return blake3.New()
	case BLAKE2b256:
		h, _ := blake2b.New256(nil) /* Only fails for oversized keys. */
		return h
	}
	panic(fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(a)))
}

// Sum is the one-shot digest of data.
func (a Algorithm) Sum(data []byte) Digest {
	switch a {
	case SHA256:
		return sha256.Sum256(data)
	case BLAKE3:
		return blake3.Sum256(data)
	case BLAKE2b256:
		return blake2b.Sum256(data)
	}
	panic(fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(a)))
}

// step returns the function that advances a chain by one hop.
func (a Algorithm) step() func(Digest) Digest {
	switch a {
	case SHA256:
		return func(d Digest) Digest { return sha256.Sum256(d[:]) }
	case BLAKE3:
		return func(d Digest) Digest { return blake3.Sum256(d[:]) }
	case BLAKE2b256:
		return func(d Digest) Digest { return blake2b.Sum256(d[:]) }
	}
	panic(fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(a)))
}

// HMAC computes the keyed digest of msg using a as the underlying hash.
func (a Algorithm) HMAC(key, msg []byte) (sum Digest) {
	m := hmac.New(a.New, key)
	m.Write(msg)
	copy(sum[:], m.Sum(nil))
	return sum
}

// Sum returns the SHA-256 digest of data.
func Sum(data []byte) Digest { return SHA256.Sum(data) }

// HMAC returns the HMAC-SHA256 of msg under key.
func HMAC(key, msg []byte) Digest { return SHA256.HMAC(key, msg) }

// Context is a streaming digest computation. It is created by Init, fed by Write and consumed
// exactly once by Final; Reset makes it usable again.
type Context struct {
	alg  Algorithm
	h    hash.Hash
	done bool
}

// Init begins a streaming SHA-256 computation.
func Init() *Context { return SHA256.Init() }

// Init begins a streaming computation with a.
func (a Algorithm) Init() *Context { return &Context{alg: a, h: a.New()} }

// Algorithm reports the primitive c was initialised with.
func (c *Context) Algorithm() Algorithm { return c.alg }

func (c *Context) Write(p []byte) (int, error) {
	if c.done {
		return 0, ErrFinalized
	}
	return c.h.Write(p)
}

// Final returns the digest of everything written so far. Any further Write or Final fails with
// ErrFinalized until Reset is called.
func (c *Context) Final() (sum Digest, err error) {
	if c.done {
		return sum, ErrFinalized
	}
	c.done = true
	copy(sum[:], c.h.Sum(nil))
	c.h.Reset() /* Nothing written so far survives finalization. */
	return sum, nil
}

func (c *Context) Reset() {
	c.h.Reset()
	c.done = false
}

// Equal reports whether d and o are the same digest in constant time.
func (d Digest) Equal(o Digest) bool { return subtle.ConstantTimeCompare(d[:], o[:]) == 1 }

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// ParseDigest decodes a digest from 64 hexadecimal characters or standard base64.
func ParseDigest(s string) (d Digest, err error) {
	var raw []byte
	if s = strings.TrimSpace(s); len(s) == hex.EncodedLen(Size) {
		raw, err = hex.DecodeString(s)
	} else {
		raw, err = base64.StdEncoding.DecodeString(s)
	}
	if err != nil {
		return d, fmt.Errorf("hashchain: ParseDigest: %w", err)
	}
	if len(raw) != Size {
		return d, fmt.Errorf("hashchain: ParseDigest: %d bytes decoded, must be %d", len(raw), Size)
	}
	copy(d[:], raw)
	return d, nil
}
