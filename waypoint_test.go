package hashchain

import (
	"errors"
	"github.com/google/go-cmp/cmp"
	"testing"
)

func TestStride(t *testing.T) {
	for _, tc := range []struct {
		elements uint64
		capacity int
		want     uint64
	}{
		{10, 0, 0},
		{10, -3, 0},
		{10, 10, 1},
		{10, 11, 1},
		{10, 4, 2},
		{10, 3, 3},
		{10, 1, 10},
		{1 << 32, 1000, 4294967},
		{0, 5, 0},
	} {
		if got := Stride(tc.elements, tc.capacity); got != tc.want {
			t.Errorf("Stride(%d, %d) = %d, want %d", tc.elements, tc.capacity, got, tc.want)
		}
	}
}

func TestGenerateWithWaypoints_Coverage(t *testing.T) {
	seed := []byte("waypoints")
	chain := materialize(SHA256, seed, 37)

	for _, tc := range []struct {
		name     string
		capacity int
		indices  []uint64
	}{
		{"exact", 37, seq(0, 37, 1)},
		{"oversized", 500, seq(0, 37, 1)},
		{"stride 2, truncated", 18, seq(0, 36, 2)},
		{"stride 3", 12, seq(0, 36, 3)},
		{"stride 4, truncated", 9, seq(0, 36, 4)},
		{"stride 12, truncated", 3, []uint64{0, 12, 24}},
		{"single", 1, []uint64{0}},
		{"none", 0, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tail, waypoints, last, err := GenerateWithWaypoints(seed, 37, tc.capacity)
			if err != nil {
				t.Fatal(err)
			}
			if tail != chain[36] {
				t.Fatalf("tail = %v, want %v", tail, chain[36])
			}

			want := make([]Waypoint, 0, len(tc.indices))
			for _, i := range tc.indices {
				want = append(want, Waypoint{i, chain[i]})
			}
			if diff := cmp.Diff(want, waypoints); diff != "" {
				t.Errorf("waypoints mismatch (-want +got):\n%s", diff)
			}
			if len(waypoints) > tc.capacity && tc.capacity >= 0 {
				t.Errorf("%d waypoints stored in %d slots", len(waypoints), tc.capacity)
			}

			wantLast := uint64(0)
			if len(tc.indices) > 0 {
				wantLast = tc.indices[len(tc.indices)-1]
			}
			if last != wantLast {
				t.Errorf("last = %d, want %d", last, wantLast)
			}
		})
	}
}

func TestGenerateWithWaypoints_FullChainLast(t *testing.T) {
	for _, n := range []uint64{1, 2, 9, 100} {
		_, waypoints, last, err := GenerateWithWaypoints([]byte("full"), n, int(n))
		if err != nil {
			t.Fatal(err)
		}
		if uint64(len(waypoints)) != n || last != n-1 {
			t.Errorf("elements %d: %d waypoints, last %d; want %d and %d", n, len(waypoints), last, n, n-1)
		}
	}
}

func TestGenerateInto(t *testing.T) {
	seed := testSeeds(5)[4]
	for _, a := range allAlgorithms {
		for _, capacity := range []int{0, 1, 7, 64, 1000} {
			tail, want, _, err := a.GenerateWithWaypoints(seed, 1000, capacity)
			if err != nil {
				t.Fatal(err)
			}

			buf := make([]Waypoint, capacity)
			got, n, err := a.GenerateInto(seed, 1000, buf)
			if err != nil {
				t.Fatal(err)
			}
			if got != tail {
				t.Errorf("%v/%d: tail = %v, want %v", a, capacity, got, tail)
			}
			if diff := cmp.Diff(want, buf[:n]); diff != "" {
				t.Errorf("%v/%d: waypoints mismatch (-want +got):\n%s", a, capacity, diff)
			}
			for i := n; i < len(buf); i++ {
				if buf[i] != (Waypoint{}) {
					t.Errorf("%v/%d: slot %d written past n = %d", a, capacity, i, n)
				}
			}
		}
	}
}

func TestSeek(t *testing.T) {
	seed := []byte("seek")
	chain := materialize(SHA256, seed, 100)
	_, waypoints, _, err := GenerateWithWaypoints(seed, 100, 7)
	if err != nil {
		t.Fatal(err)
	}
	for i := range chain {
		got, err := Seek(waypoints, uint64(i))
		if err != nil {
			t.Fatalf("Seek(%d): %v", i, err)
		}
		if got != chain[i] {
			t.Fatalf("Seek(%d) = %v, want %v", i, got, chain[i])
		}
	}

	if _, err := Seek(nil, 3); !errors.Is(err, ErrNoWaypoint) {
		t.Errorf("Seek on empty set: err = %v, want ErrNoWaypoint", err)
	}
	if _, err := Seek(waypoints[1:], waypoints[1].Index-1); !errors.Is(err, ErrNoWaypoint) {
		t.Errorf("Seek before first waypoint: err = %v, want ErrNoWaypoint", err)
	}
}

func TestAllocs(t *testing.T) {
	const elements = 1 << 14
	seed, buf := testSeeds(3)[2], make([]Waypoint, 64)
	tail, _ := Generate(seed, elements)
	element := Element(seed, 100)

	for _, tc := range []struct {
		name string
		want float64
		f    func()
	}{
		{"GenerateInto", 0, func() { GenerateInto(seed, elements, buf) }},
		{"Verify", 0, func() { Verify(element, 100, tail, elements) }},
		{"GenerateWithWaypoints", 1, func() { GenerateWithWaypoints(seed, elements, 64) }},
	} {
		if got := testing.AllocsPerRun(5, tc.f); got != tc.want {
			t.Errorf("%s: %v allocs per run, want %v", tc.name, got, tc.want)
		}
	}
}

func seq(from, to, step uint64) (s []uint64) {
	for i := from; i < to; i += step {
		s = append(s, i)
	}
	return s
}
