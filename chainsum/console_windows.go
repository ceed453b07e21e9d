//go:build windows

package main

import (
	. "golang.org/x/sys/windows"
	"os"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

/* Runs before init0.go registers any flags, so that consoles unable to render VT sequences default
to --no-codes. */
func init() {
	for _, f := range [2]*os.File{os.Stdout, os.Stderr} {
		var mode uint32
		h := Handle(f.Fd())
		if GetConsoleMode(h, &mode) != nil {
			pNoCodesDefault = true
			return
		}
		if mode&ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
			continue
		}
		if SetConsoleMode(h, mode|ENABLE_VIRTUAL_TERMINAL_PROCESSING) != nil {
			pNoCodesDefault = true
			return
		}
	}
}
