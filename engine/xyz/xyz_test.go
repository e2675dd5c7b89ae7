package xyz

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/mol-go/engine/molecule"
)

const waterXYZ = `3
water
O  0.000  0.000  0.000
H  0.960  0.000  0.000
H -0.240  0.930  0.000
`

func TestParseWater(t *testing.T) {
	parsed, err := Parse(strings.NewReader(waterXYZ))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.Name != "water" {
		t.Fatalf("name %q, want water", parsed.Name)
	}
	if len(parsed.Atoms) != 3 {
		t.Fatalf("atom count %d, want 3", len(parsed.Atoms))
	}
	if parsed.Atoms[0].Species != molecule.SpeciesOxygen {
		t.Fatalf("first atom species %q", parsed.Atoms[0].Species)
	}
	if got := parsed.Atoms[1].Position; got != [3]float32{0.96, 0, 0} {
		t.Fatalf("hydrogen position %v", got)
	}
	// Both O-H pairs are within covalent distance; the H-H pair is not.
	if len(parsed.Bonds) != 2 {
		t.Fatalf("inferred %d bonds, want 2: %v", len(parsed.Bonds), parsed.Bonds)
	}
	for _, bond := range parsed.Bonds {
		if bond[0] != 0 {
			t.Fatalf("bond %v does not involve the oxygen", bond)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad count", "x\ncomment\n"},
		{"negative count", "-1\ncomment\n"},
		{"truncated atoms", "2\ncomment\nH 0 0 0\n"},
		{"short atom line", "1\ncomment\nH 0 0\n"},
		{"bad coordinate", "1\ncomment\nH 0 zero 0\n"},
		{"missing comment", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestParseToleratesExtraColumnsAndSymbolCase(t *testing.T) {
	input := "2\nsalt fragment\nNA 0 0 0 0.5\ncl 2.5 0 0 -0.5\n"
	parsed, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.Atoms[0].Species != molecule.Species("Na") {
		t.Fatalf("symbol not normalized: %q", parsed.Atoms[0].Species)
	}
	if parsed.Atoms[1].Species != molecule.SpeciesChlorine {
		t.Fatalf("symbol not normalized: %q", parsed.Atoms[1].Species)
	}
}

func TestInferBondsDistanceCutoff(t *testing.T) {
	atoms := []ParsedAtom{
		{Species: molecule.SpeciesCarbon, Position: [3]float32{0, 0, 0}},
		{Species: molecule.SpeciesCarbon, Position: [3]float32{1.5, 0, 0}},
		{Species: molecule.SpeciesCarbon, Position: [3]float32{10, 0, 0}},
	}
	bonds := InferBonds(atoms)
	if len(bonds) != 1 {
		t.Fatalf("expected 1 bond, got %v", bonds)
	}
	if bonds[0] != [2]int{0, 1} {
		t.Fatalf("wrong bond pair %v", bonds[0])
	}
}

func TestLoaderDeliversResultOffThread(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "water.xyz")
	if err := os.WriteFile(path, []byte(waterXYZ), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()
	defer l.Close()
	l.Load(path)

	select {
	case res := <-l.Results():
		if res.Err != nil {
			t.Fatalf("load failed: %v", res.Err)
		}
		if res.Path != path {
			t.Fatalf("result path %q, want %q", res.Path, path)
		}
		if len(res.Structure.Atoms) != 3 {
			t.Fatalf("atom count %d, want 3", len(res.Structure.Atoms))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered")
	}
}

func TestLoaderReportsMissingFile(t *testing.T) {
	l := NewLoader()
	defer l.Close()
	l.Load(filepath.Join(t.TempDir(), "missing.xyz"))

	select {
	case res := <-l.Results():
		if res.Err == nil {
			t.Fatal("expected an error for a missing file")
		}
		if res.Structure != nil {
			t.Fatal("no structure may be delivered on failure")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered")
	}
}
