package molecule

import "strings"

// Species identifies a chemical element by its canonical symbol ("H", "C",
// "Cl", ...). Unknown symbols are kept as written and rendered with the
// default element properties.
type Species string

// Canonical species symbols for the elements with dedicated display
// properties. Any other symbol falls back to the default entry.
const (
	SpeciesHydrogen   Species = "H"
	SpeciesCarbon     Species = "C"
	SpeciesNitrogen   Species = "N"
	SpeciesOxygen     Species = "O"
	SpeciesFluorine   Species = "F"
	SpeciesPhosphorus Species = "P"
	SpeciesSulfur     Species = "S"
	SpeciesChlorine   Species = "Cl"
	SpeciesBromine    Species = "Br"
	SpeciesIodine     Species = "I"
)

// ElementInfo holds the derived display and editing properties of a species.
// Color and radius are pure functions of the species; they are never stored
// per atom.
type ElementInfo struct {
	// Color is the base RGB display color in linear space.
	Color [3]float32
	// CovalentRadius is the single-bond covalent radius in angstroms, used
	// for bond inference and space-filling display.
	CovalentRadius float32
	// MaxValence is the maximum number of bonds an atom of this species may
	// participate in. Constructive edits beyond this limit are rejected.
	MaxValence int
}

// elementTable maps canonical species symbols to their properties.
var elementTable = map[Species]ElementInfo{
	SpeciesHydrogen:   {Color: [3]float32{1.0, 1.0, 1.0}, CovalentRadius: 0.31, MaxValence: 1},
	SpeciesCarbon:     {Color: [3]float32{0.2, 0.2, 0.2}, CovalentRadius: 0.76, MaxValence: 4},
	SpeciesNitrogen:   {Color: [3]float32{0.2, 0.2, 1.0}, CovalentRadius: 0.71, MaxValence: 3},
	SpeciesOxygen:     {Color: [3]float32{1.0, 0.1, 0.1}, CovalentRadius: 0.66, MaxValence: 2},
	SpeciesFluorine:   {Color: [3]float32{0.5, 0.9, 0.3}, CovalentRadius: 0.57, MaxValence: 1},
	SpeciesPhosphorus: {Color: [3]float32{1.0, 0.5, 0.0}, CovalentRadius: 1.07, MaxValence: 5},
	SpeciesSulfur:     {Color: [3]float32{0.9, 0.9, 0.2}, CovalentRadius: 1.05, MaxValence: 6},
	SpeciesChlorine:   {Color: [3]float32{0.1, 0.9, 0.1}, CovalentRadius: 1.02, MaxValence: 1},
	SpeciesBromine:    {Color: [3]float32{0.6, 0.2, 0.1}, CovalentRadius: 1.20, MaxValence: 1},
	SpeciesIodine:     {Color: [3]float32{0.4, 0.0, 0.7}, CovalentRadius: 1.39, MaxValence: 1},
}

// defaultElement is used for species without a dedicated table entry.
var defaultElement = ElementInfo{Color: [3]float32{0.7, 0.7, 0.7}, CovalentRadius: 1.0, MaxValence: 4}

// Info retrieves the display and editing properties of a species.
// Unknown species return the default entry.
//
// Parameters:
//   - s: the species to look up
//
// Returns:
//   - ElementInfo: the properties of the species
func Info(s Species) ElementInfo {
	if info, ok := elementTable[s]; ok {
		return info
	}
	return defaultElement
}

// NormalizeSymbol converts a raw element symbol as read from a file into its
// canonical form: first letter upper-case, remainder lower-case ("CL" and
// "cl" both become "Cl").
//
// Parameters:
//   - raw: the symbol as it appeared in the input
//
// Returns:
//   - Species: the canonical species symbol
func NormalizeSymbol(raw string) Species {
	if raw == "" {
		return Species("")
	}
	return Species(strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:]))
}
