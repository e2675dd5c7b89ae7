package xyz

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/mol-go/engine/molecule"
)

// ErrMalformed indicates the input is not a valid XYZ structure. Parse
// errors wrap it so callers can classify load failures without matching
// message text.
var ErrMalformed = errors.New("xyz: malformed structure")

// bondTolerance scales the covalent-radius sum when inferring bonds: two
// atoms are considered bonded when their distance is below
// bondTolerance * (r1 + r2).
const bondTolerance = 1.2

// ParsedAtom is one atom read from an XYZ file.
type ParsedAtom struct {
	Species  molecule.Species
	Position [3]float32
}

// ParsedStructure is the result of parsing one XYZ structure: the ordered
// atom list plus inferred bonds as index pairs into it. It carries no
// identifiers; the store assigns those during bulk construction.
type ParsedStructure struct {
	// Name is the free-text comment line of the file.
	Name string
	// Atoms in file order.
	Atoms []ParsedAtom
	// Bonds as ordered index pairs (i < j) into Atoms.
	Bonds [][2]int
}

// Parse reads one structure in XYZ format: an atom-count line, a free-text
// comment line, then one "symbol x y z" line per atom. Extra columns after
// the coordinates are ignored; extra lines after the last atom are ignored.
// Bonds are not part of the format and are inferred from covalent radii.
//
// Parameters:
//   - r: the input to read
//
// Returns:
//   - *ParsedStructure: the parsed structure with inferred bonds
//   - error: an error wrapping ErrMalformed if the input is invalid
func Parse(r io.Reader) (*ParsedStructure, error) {
	scanner := bufio.NewScanner(r)

	countLine, ok := nextLine(scanner)
	if !ok {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: bad atom count %q", ErrMalformed, strings.TrimSpace(countLine))
	}

	name, ok := nextLine(scanner)
	if !ok {
		return nil, fmt.Errorf("%w: missing comment line", ErrMalformed)
	}

	parsed := &ParsedStructure{Name: strings.TrimSpace(name)}
	for i := 0; i < count; i++ {
		line, ok := nextLine(scanner)
		if !ok {
			return nil, fmt.Errorf("%w: expected %d atom lines, got %d", ErrMalformed, count, i)
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("%w: atom line %d has %d fields", ErrMalformed, i+1, len(fields))
		}
		var position [3]float32
		for axis := 0; axis < 3; axis++ {
			v, err := strconv.ParseFloat(fields[axis+1], 32)
			if err != nil {
				return nil, fmt.Errorf("%w: atom line %d coordinate %q", ErrMalformed, i+1, fields[axis+1])
			}
			position[axis] = float32(v)
		}
		parsed.Atoms = append(parsed.Atoms, ParsedAtom{
			Species:  molecule.NormalizeSymbol(fields[0]),
			Position: position,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	parsed.Bonds = InferBonds(parsed.Atoms)
	return parsed, nil
}

// InferBonds derives bond index pairs from interatomic distances: two atoms
// bond when their distance is under bondTolerance times the sum of their
// covalent radii. Quadratic over the atom list, which is fine at the
// structure sizes this viewer targets.
//
// Parameters:
//   - atoms: the atom list in file order
//
// Returns:
//   - [][2]int: ordered index pairs (i < j) of bonded atoms
func InferBonds(atoms []ParsedAtom) [][2]int {
	var bonds [][2]int
	for i := 0; i < len(atoms); i++ {
		ri := molecule.Info(atoms[i].Species).CovalentRadius
		for j := i + 1; j < len(atoms); j++ {
			rj := molecule.Info(atoms[j].Species).CovalentRadius
			limit := bondTolerance * (ri + rj)
			if distance(atoms[i].Position, atoms[j].Position) <= limit {
				bonds = append(bonds, [2]int{i, j})
			}
		}
	}
	return bonds
}

// nextLine reads one line, reporting false at end of input. Blank lines are
// returned as-is; the comment line of a structure is legitimately empty.
func nextLine(scanner *bufio.Scanner) (string, bool) {
	if scanner.Scan() {
		return scanner.Text(), true
	}
	return "", false
}

func distance(a, b [3]float32) float32 {
	dx := float64(a[0] - b[0])
	dy := float64(a[1] - b[1])
	dz := float64(a[2] - b[2])
	return float32(math.Sqrt(dx*dx + dy*dy + dz*dz))
}
