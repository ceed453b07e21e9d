package hashchain

import "testing"

func TestVerify_EveryIndex(t *testing.T) {
	for _, a := range allAlgorithms {
		for _, seed := range testSeeds(4) {
			chain := materialize(a, seed, 64)
			tail := chain[len(chain)-1]
			for i, element := range chain {
				if got := a.Verify(element, uint64(i), tail, 64); got != Verified {
					t.Fatalf("%v: Verify(chain[%d], %d) = %v", a, i, i, got)
				}
			}
		}
	}
}

func TestVerify_BitFlip(t *testing.T) {
	chain := materialize(SHA256, []byte("flip"), 16)
	tail := chain[15]
	for i, element := range chain {
		for bit := 0; bit < Size*8; bit++ {
			forged := element
			forged[bit/8] ^= 1 << (bit % 8)
			if got := Verify(forged, uint64(i), tail, 16); got != Rejected {
				t.Fatalf("chain[%d] with bit %d flipped = %v", i, bit, got)
			}
		}
	}
}

func TestVerify_WrongIndex(t *testing.T) {
	chain := materialize(SHA256, []byte("index"), 10)
	tail := chain[9]
	for i, element := range chain {
		for j := range chain {
			want := Rejected
			if i == j {
				want = Verified
			}
			if got := Verify(element, uint64(j), tail, 10); got != want {
				t.Errorf("Verify(chain[%d], %d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestVerify_Tail(t *testing.T) {
	for _, n := range []uint64{1, 2, 1000} {
		tail, err := Generate([]byte("tail"), n)
		if err != nil {
			t.Fatal(err)
		}
		if got := Verify(tail, n-1, tail, n); got != Verified {
			t.Errorf("Verify(tail, %d, tail, %d) = %v", n-1, n, got)
		}
	}
	var other Digest
	tail := Sum([]byte("tail"))
	if got := Verify(other, 0, tail, 1); got != Rejected {
		t.Errorf("zero-hop mismatch = %v, want rejected", got)
	}
}

func TestVerify_OutOfRange(t *testing.T) {
	tail, _ := Generate([]byte("range"), 5)
	for _, tc := range []struct{ index, length uint64 }{
		{5, 5},
		{6, 5},
		{0, 0},
		{^uint64(0), 5},
	} {
		if got := Verify(tail, tc.index, tail, tc.length); got != Rejected {
			t.Errorf("Verify(index %d, length %d) = %v, want rejected", tc.index, tc.length, got)
		}
	}
}

func TestVerifyNear(t *testing.T) {
	seed := []byte("near")
	chain := materialize(SHA256, seed, 50)
	_, waypoints, _, err := GenerateWithWaypoints(seed, 50, 5)
	if err != nil {
		t.Fatal(err)
	}

	/* Stride 10 leaves indices 41 to 49 with no waypoint at or after them. */
	for i, element := range chain {
		want := Verified
		if i > 40 {
			want = Rejected
		}
		if got := VerifyNear(element, uint64(i), waypoints); got != want {
			t.Errorf("VerifyNear(chain[%d]) = %v, want %v", i, got, want)
		}
		forged := element
		forged[0] ^= 0x80
		if got := VerifyNear(forged, uint64(i), waypoints); got != Rejected {
			t.Errorf("VerifyNear(forged chain[%d]) = %v, want rejected", i, got)
		}
	}
	if got := VerifyNear(chain[3], 3, nil); got != Rejected {
		t.Errorf("VerifyNear with no waypoints = %v, want rejected", got)
	}
}

func TestValidateWaypoints(t *testing.T) {
	seed := []byte("validate")
	tail, waypoints, _, err := GenerateWithWaypoints(seed, 200, 9)
	if err != nil {
		t.Fatal(err)
	}
	if got := ValidateWaypoints(waypoints, tail, 200); got != Verified {
		t.Fatalf("genuine waypoints = %v", got)
	}
	if got := ValidateWaypoints(nil, tail, 200); got != Verified {
		t.Errorf("empty set = %v, want verified", got)
	}

	clone := func() []Waypoint { return append([]Waypoint(nil), waypoints...) }
	tampered := clone()
	tampered[4].Digest[31] ^= 1
	swapped := clone()
	swapped[2], swapped[3] = swapped[3], swapped[2]
	duplicated := append(clone()[:3], waypoints[2:]...)
	shifted := clone()
	shifted[len(shifted)-1].Index++
	outside := append(clone(), Waypoint{200, tail})
	farNext := clone()
	farNext[1].Index = 1 << 40
	maxNext := clone()
	maxNext[1].Index = ^uint64(0)

	/* A next index past the chain must be rejected before any hop is taken toward it. */
	for name, set := range map[string][]Waypoint{
		"tampered":   tampered,
		"swapped":    swapped,
		"duplicated": duplicated,
		"shifted":    shifted,
		"outside":    outside,
		"far next":   farNext,
		"max next":   maxNext,
	} {
		if got := ValidateWaypoints(set, tail, 200); got != Rejected {
			t.Errorf("%s waypoints = %v, want rejected", name, got)
		}
	}
	if got := ValidateWaypoints(waypoints, tail, 201); got != Rejected {
		t.Errorf("wrong length = %v, want rejected", got)
	}
}

func TestResult_String(t *testing.T) {
	if Verified.String() != "verified" || Rejected.String() != "rejected" {
		t.Errorf("got %q and %q", Verified, Rejected)
	}
}
