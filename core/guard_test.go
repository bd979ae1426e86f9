package core

import "testing"

func TestProofSystemString(t *testing.T) {
	cases := map[ProofSystem]string{
		ProofSystemSP1:     "SP1",
		ProofSystemGroth16: "Groth16",
		ProofSystemPlonk:   "Plonk",
		ProofSystemHalo2:   "Halo2",
		ProofSystem(99):    "unknown",
	}
	for sys, want := range cases {
		if got := sys.String(); got != want {
			t.Fatalf("ProofSystem(%d).String() = %q, want %q", sys, got, want)
		}
	}
}
