package main

import (
	. "fmt"
	"github.com/aead/chacha20/chacha"
	"github.com/dterei/gotsc"
	"github.com/p7r0x7/hashchain"
	"golang.org/x/sys/cpu"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Compares how quickly each digest primitive walks a chain. Hop counts stand in for the byte sizes
// of a hash benchmark: every hop digests exactly one 32-byte element.

var lengths = [...]uint64{1 << 4, 1 << 10, 1 << 16, 1 << 20}
var seed, calltime = make([]byte, 64), gotsc.TSCOverhead()

func init() {
	/* Every run chains the same ChaCha20 keystream block. */
	key, nonce := make([]byte, chacha.KeySize), make([]byte, chacha.NonceSize)
	chacha.XORKeyStream(seed, seed, nonce, key, 20)
}

func generate(alg hashchain.Algorithm, elements uint64) func(b *testing.B) {
	return func(b *testing.B) {
		b.SetBytes(int64(elements) * hashchain.Size)
		b.ReportAllocs()
		b.ResetTimer()
		for i := b.N; i > 0; i-- {
			alg.Generate(seed, elements)
		}
	}
}

func benchAlg(alg hashchain.Algorithm) {
	const s = len(lengths)
	throughputs, speeds, usages := make([]float64, s), make([]float64, s), make([]float64, s)

	for i, v := range lengths {
		totalHz, polls, mut, stop := uint64(0), uint64(0), &sync.Mutex{}, make(chan struct{})
		if calltime > 0 {
			go func() {
				for {
					select {
					case <-stop:
						return
					default:
					}
					tsc1 := gotsc.BenchStart()
					time.Sleep(time.Millisecond)
					tsc2 := gotsc.BenchEnd()

					mut.Lock()
					totalHz += tsc2 - tsc1 - calltime
					polls++
					mut.Unlock()

					time.Sleep(time.Millisecond * 9)
				}
			}()
		}
		r := testing.Benchmark(generate(alg, v))
		close(stop)
		mut.Lock()
		totalHz *= 1000

		hops := float64(r.N) * float64(v)
		throughputs[i] = hops / r.T.Seconds() /* hops/s */
		if polls > 0 {
			speeds[i] = float64(totalHz) / float64(polls) / throughputs[i]
		}
		throughputs[i] /= 1e6 /* Mhops/s */
		usages[i] = float64(r.AllocedBytesPerOp())
		mut.Unlock()
	}

	Println("Speed " + fmtFloats(throughputs...) + "   Mhop/s")
	if calltime > 0 {
		Println("      " + fmtFloats(speeds...) + "   cph")
	}
	Println("Usage " + fmtFloats(usages...) + "   B/op\n")
}

// fmtFloats right-aligns one column per chain length. Mhop/s rates keep three decimals, cycle
// counts per hop keep one and byte counts, being whole, keep none.
func fmtFloats(f ...float64) string {
	var str string
	for _, v := range f {
		prec := 3
		if float64(int64(v)) == v || v >= 1e4 {
			prec = 0
		} else if v >= 1e2 {
			prec = 1
		}
		str += Sprintf("  %8.*f", prec, v)
	}
	return str
}

// features lists the instruction set extensions the digest primitives can take advantage of.
func features() string {
	var have []string
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"avx2", cpu.X86.HasAVX2},
		{"avx512", cpu.X86.HasAVX512F},
		{"ssse3", cpu.X86.HasSSSE3},
		{"sha2", cpu.ARM64.HasSHA2},
		{"asimd", cpu.ARM64.HasASIMD},
	} {
		if f.ok {
			have = append(have, f.name)
		}
	}
	if len(have) == 0 {
		return "none detected"
	}
	return Sprint(have)
}

func main() {
	Printf("Running Chainstat on %d CPUs!\n%s/%s, %s\n\n"+
		"          16 hops   1K hops  64K hops   1M hops\n",
		runtime.NumCPU(), runtime.GOOS, runtime.GOARCH, features())
	t := time.Now()

	for _, alg := range []hashchain.Algorithm{hashchain.SHA256, hashchain.BLAKE3, hashchain.BLAKE2b256} {
		Println(alg)
		benchAlg(alg)
	}

	Println("Finished in " + time.Since(t).Truncate(time.Millisecond).String() + ".")
}
