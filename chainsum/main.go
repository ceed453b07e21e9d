package main

import (
	"encoding/base64"
	"encoding/hex"
	. "fmt"
	"github.com/p7r0x7/hashchain"
	"github.com/p7r0x7/vainpath"
	. "github.com/spf13/pflag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const n = "\n"
const success, failure, invalid = 0, 1, 2

var warnings = 0

func main() { os.Exit(program()) }

// help prints a usage menu. To consistently render this menu in most terminal windows, its content
// should be no wider than 80 columns.
func help() {
	origin, err := os.Executable()
	if err != nil {
		origin = "chainsum" /* Default binary name */
	} else {
		origin = filepath.Base(origin)
	}
	name := vainpath.Trim(origin, "…", 12)
	spaces := strings.Repeat(" ", utf8.RuneCountInString(name)+3)
	Fprint(os.Stderr, yell, "One-way hash chains: tails, waypoints and verification.", zero, n+n+
		"Usage:"+n+
		"  ", name, " [-h]"+n,
		spaces, "[-bt] [-a ALG] [-n N] [-w CAP -o FILE] [--quiet|no-codes] -|PATH..."+n,
		spaces, "[-bt] [-a ALG] [-n N] [-w CAP -o FILE] [--quiet|no-codes] -s STRING..."+n,
		spaces, "[-a ALG] -V DIGEST -i INDEX (--tail DIGEST -n N | -c FILE)"+n+n+
			"Options:"+n)
	PrintDefaults()
	name = vainpath.Trim(origin, "…", 15)
	Fprint(os.Stderr, n+"Every argument is the seed of one chain, whose tail `", name, "` prints."+n+
		"Order of arguments does not matter unless `--` is specified, signaling the end"+n+
		"of parsed flags. `-` is treated as a reference to ", os.Stdin.Name(), " on this platform."+n)
}

// This program is a command-line interface for hashchain: it grows a chain from every seed it is
// given and prints the tail, or verifies one claimed element against a trusted tail.
func program() int {
	if pHelp || (NArg() == 0 && pVerify == "") {
		help()
		return success
	}
	alg, err := hashchain.ParseAlgorithm(pAlgorithm)
	if err != nil {
		return usage(err)
	}
	if pVerify != "" {
		return verify(alg)
	}
	if pElements == 0 {
		return usage(hashchain.ErrInvalidLength)
	}
	if pOut != "" && NArg() != 1 {
		return usage(Errorf("-o takes exactly one target, %d given", NArg()))
	}

	for _, target := range Args() {
		start, delta := time.Now(), ""

		seed, err := readSeed(target)
		if err != nil {
			warn(err)
			continue
		}
		tail, err := generate(alg, seed)
		if err != nil {
			warn(err)
			continue
		}

		if pTime {
			d := time.Since(start)
			if d.Microseconds() > 99 {
				d = d.Truncate(10 * time.Microsecond)
			}
			delta = " (" + d.String() + ")"
		}

		str := hex.EncodeToString(tail[:])
		if pBase64 {
			str = base64.StdEncoding.EncodeToString(tail[:])
		}
		if pQuiet {
			Print(str, n)
		} else if pString {
			Print(yell, str, zero, `  "`, target, `"`, delta, n)
		} else if pNoCodes {
			Print(str, `  `, filepath.Clean(target), delta, n)
		} else {
			Print(yell, str, zero, `  `, und, vainpath.Simplify(target), zero, delta, n)
		}
	}

	if !pQuiet {
		if warnings == 1 {
			Fprint(os.Stderr, "1 ", purp, "target is a directory or is otherwise inaccessible.", zero, n)
		} else if warnings > 1 {
			Fprint(os.Stderr, warnings, " ", purp, "targets are directories or are otherwise inaccessible.", zero, n)
		}
	}
	if warnings > 0 {
		return failure
	}
	return success
}

func readSeed(target string) ([]byte, error) {
	switch {
	case pString:
		return []byte(target), nil
	case target == "-" || target == os.Stdin.Name():
		defer os.Stdin.Close() /* STDIN should not be reused. */
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(target)
}

// generate returns the tail of the chain grown from seed, writing a checkpoint file first if one
// was requested.
func generate(alg hashchain.Algorithm, seed []byte) (hashchain.Digest, error) {
	if pOut == "" {
		return alg.Generate(seed, pElements)
	}
	c, err := alg.NewCheckpoint(seed, pElements, pWaypoints)
	if err != nil {
		return hashchain.Digest{}, err
	}
	b, err := c.MarshalBinary()
	if err != nil {
		return hashchain.Digest{}, err
	}
	if err = os.WriteFile(pOut, b, 0644); err != nil {
		return hashchain.Digest{}, err
	}
	return c.Tail, nil
}

// verify checks the element given to --verify and reports the outcome through the exit code.
func verify(alg hashchain.Algorithm) int {
	element, err := hashchain.ParseDigest(pVerify)
	if err != nil {
		return usage(err)
	}

	var result hashchain.Result
	switch {
	case pCheckpoint != "" && pTail != "":
		return usage(Errorf("--tail and --checkpoint are mutually exclusive"))
	case pCheckpoint != "":
		c := new(hashchain.Checkpoint)
		b, err := os.ReadFile(pCheckpoint)
		if err == nil {
			err = c.UnmarshalBinary(b)
		}
		if err != nil {
			Fprint(os.Stderr, purp, vainpath.Simplify(pCheckpoint), ": ", err, zero, n)
			warn(err)
			return failure
		}
		if CommandLine.Changed("algorithm") && c.Algorithm != alg {
			return usage(Errorf("checkpoint was built with %v, not %v", c.Algorithm, alg))
		}
		result = c.Verify(element, pIndex)
	case pTail != "":
		tail, err := hashchain.ParseDigest(pTail)
		if err != nil {
			return usage(err)
		}
		if !CommandLine.Changed("elements") {
			return usage(Errorf("--tail requires the chain length (-n)"))
		}
		result = alg.Verify(element, pIndex, tail, pElements)
	default:
		return usage(Errorf("--verify requires --tail or --checkpoint"))
	}

	if pQuiet {
		Print(result, n)
	} else {
		Print(yell, result, zero, `  `, element, ` @ `, pIndex, n)
	}
	if result != hashchain.Verified {
		return failure
	}
	return success
}

func usage(err error) int {
	Fprint(os.Stderr, purp, err, zero, n)
	return invalid
}

func warn(err ...interface{}) {
	if pStrict {
		panic(err)
	}
	warnings++
}
