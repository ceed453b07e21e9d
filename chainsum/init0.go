package main

import (
	. "github.com/spf13/pflag"
	"os"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var pAlgorithm, pOut, pVerify, pTail, pCheckpoint = "", "", "", "", ""
var pElements, pIndex, pWaypoints, pNoCodesDefault = uint64(0), uint64(0), 0, false
var pHelp, pBase64, pNoCodes, pQuiet, pStrict, pString, pTime bool
var yell, purp, und, zero = "\033[33m", "\033[35m", "\033[4m", "\033[0m"

func init() {
	pNoCodes = pNoCodesDefault
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--no-codes=false":
			pNoCodes = false
		case "--quiet", "--quiet=true":
			pNoCodes, pQuiet = true, true
		case "--no-codes", "--no-codes=true":
			pNoCodes = true
		}
	}
	if pNoCodes {
		yell, purp, und, zero = "", "", "", ""
	}

	BoolVarP(&pHelp, "help", "h", false,
		purp+"print this help menu"+zero+n)

	StringVarP(&pAlgorithm, "algorithm", "a", "sha256",
		purp+"digest primitive: sha256, blake3 or blake2b-256"+zero)

	BoolVarP(&pBase64, "base64", "b", false,
		purp+"render digests in base64"+zero+" (default hex)")

	StringVarP(&pCheckpoint, "checkpoint", "c", "",
		purp+"read the tail and length to verify against from a"+zero+
			n+purp+"checkpoint file written by -o"+zero)

	Uint64VarP(&pIndex, "index", "i", 0,
		purp+"chain index of the element given to --verify"+zero)

	Uint64VarP(&pElements, "elements", "n", 1<<10,
		purp+"number of elements in each chain"+zero)

	Bool("no-codes", pNoCodesDefault,
		purp+"print to console w/o formatting codes or simplified"+zero+
			n+purp+"filepaths"+zero)

	StringVarP(&pOut, "out", "o", "",
		purp+"write a checkpoint file holding the tail and waypoints"+zero+
			n+purp+"(single target only)"+zero)

	Bool("quiet", false,
		purp+"suppress non-breaking errors and print ONLY digests"+zero+
			n+"(enables --no-codes)")

	BoolVar(&pStrict, "strict", false,
		purp+"cause chainsum to panic on any error"+zero)

	BoolVarP(&pString, "string", "s", false,
		purp+"process arguments instead as UTF-8 seed strings"+zero)

	BoolVarP(&pTime, "time", "t", false,
		purp+"print time taken to read and chain each seed"+zero)

	StringVar(&pTail, "tail", "",
		purp+"trusted tail to verify against (requires -n)"+zero)

	StringVarP(&pVerify, "verify", "V", "",
		purp+"verify this element (hex or base64) instead of generating"+zero)

	IntVarP(&pWaypoints, "waypoints", "w", 0,
		purp+"number of waypoints to keep in the -o checkpoint"+zero)

	/* Order flags alphabetically except for help, which is hoisted to the top. */
	CommandLine.SortFlags = false
	Parse()
}
