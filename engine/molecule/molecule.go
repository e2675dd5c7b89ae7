package molecule

import "errors"

// Command-level edit errors. These are local, recoverable failures: the
// store is left untouched and the caller surfaces them as a status message.
var (
	// ErrNotFound indicates the referenced atom or bond does not exist.
	ErrNotFound = errors.New("molecule: entity not found")

	// ErrInvalidEndpoint indicates a bond endpoint is missing or the two
	// endpoints are the same atom.
	ErrInvalidEndpoint = errors.New("molecule: invalid bond endpoint")

	// ErrDuplicateBond indicates a bond already connects the same unordered
	// pair of atoms.
	ErrDuplicateBond = errors.New("molecule: duplicate bond")

	// ErrValenceExceeded indicates an endpoint is already at its maximum
	// bond count for its species.
	ErrValenceExceeded = errors.New("molecule: valence limit exceeded")

	// ErrDuplicateID indicates a restore carried an identifier that is
	// already live in the store.
	ErrDuplicateID = errors.New("molecule: identifier already present")
)

// Atom is one atom of the loaded structure. Radius and color are derived
// from the species via Info and are never stored here.
type Atom struct {
	ID       AtomID
	Species  Species
	Position [3]float32
}

// Bond connects two distinct atoms. Endpoints are normalized so A < B,
// making equality order-insensitive. A bond never outlives either endpoint.
type Bond struct {
	ID BondID
	A  AtomID
	B  AtomID
}

// pairOf returns the bond's normalized endpoint pair.
func (b Bond) pairOf() [2]AtomID {
	return normalizePair(b.A, b.B)
}

// normalizePair orders an endpoint pair numerically so unordered pairs
// compare equal.
func normalizePair(a, b AtomID) [2]AtomID {
	if a > b {
		a, b = b, a
	}
	return [2]AtomID{a, b}
}

// store is the implementation of the Store interface.
type store struct {
	alloc Allocator

	atoms map[AtomID]Atom
	bonds map[BondID]Bond

	// pairs indexes live bonds by normalized endpoint pair for duplicate
	// detection.
	pairs map[[2]AtomID]BondID
	// incident lists the live bonds touching each atom, in insertion order.
	incident map[AtomID][]BondID
}

// Store is the single mutable owner of the loaded structure's topology and
// coordinates. All mutation goes through the operations below; each
// operation either applies fully and returns a delta, or fails with a typed
// error and leaves the store untouched. The store is confined to the
// interactive thread and is not safe for concurrent use.
type Store interface {
	// InsertAtom allocates a fresh identifier and inserts a new atom.
	//
	// Parameters:
	//   - species: the element species of the new atom
	//   - position: the atom's position
	//
	// Returns:
	//   - AtomAdded: the delta describing the inserted atom
	InsertAtom(species Species, position [3]float32) AtomAdded

	// RemoveAtom removes an atom and cascades removal of every bond that
	// references it, as one atomic edit.
	//
	// Parameters:
	//   - id: the atom to remove
	//
	// Returns:
	//   - AtomRemoved: the delta carrying the removed atom and all removed bonds
	//   - error: ErrNotFound if the atom does not exist
	RemoveAtom(id AtomID) (AtomRemoved, error)

	// MoveAtom updates an atom's position.
	//
	// Parameters:
	//   - id: the atom to move
	//   - position: the new position
	//
	// Returns:
	//   - AtomMoved: the delta carrying the old and new positions
	//   - error: ErrNotFound if the atom does not exist
	MoveAtom(id AtomID, position [3]float32) (AtomMoved, error)

	// InsertBond allocates a fresh identifier and inserts a bond between two
	// existing atoms.
	//
	// Parameters:
	//   - a: the first endpoint
	//   - b: the second endpoint
	//
	// Returns:
	//   - BondAdded: the delta describing the inserted bond
	//   - error: ErrInvalidEndpoint, ErrDuplicateBond, or ErrValenceExceeded
	InsertBond(a, b AtomID) (BondAdded, error)

	// RemoveBond removes a single bond.
	//
	// Parameters:
	//   - id: the bond to remove
	//
	// Returns:
	//   - BondRemoved: the delta carrying the removed bond
	//   - error: ErrNotFound if the bond does not exist
	RemoveBond(id BondID) (BondRemoved, error)

	// RestoreAtom reinstates an atom under its original identifier. Used by
	// command inversion and replay so identifiers survive undo/redo. The
	// identifier is reserved so the allocator can never reissue it.
	//
	// Parameters:
	//   - atom: the atom to reinstate, carrying its original identifier
	//
	// Returns:
	//   - AtomAdded: the delta describing the reinstated atom
	//   - error: ErrDuplicateID if the identifier is already live
	RestoreAtom(atom Atom) (AtomAdded, error)

	// RestoreBond reinstates a bond under its original identifier. Valence
	// limits are not rechecked: the bond existed before, so reinstating it
	// restores a previously valid state.
	//
	// Parameters:
	//   - bond: the bond to reinstate, carrying its original identifier
	//
	// Returns:
	//   - BondAdded: the delta describing the reinstated bond
	//   - error: ErrDuplicateID if the identifier or pair is already live,
	//     ErrInvalidEndpoint if either endpoint is missing
	RestoreBond(bond Bond) (BondAdded, error)

	// Atom retrieves an atom by identifier.
	//
	// Parameters:
	//   - id: the atom identifier
	//
	// Returns:
	//   - Atom: a copy of the atom
	//   - bool: true if the atom exists
	Atom(id AtomID) (Atom, bool)

	// Bond retrieves a bond by identifier.
	//
	// Parameters:
	//   - id: the bond identifier
	//
	// Returns:
	//   - Bond: a copy of the bond
	//   - bool: true if the bond exists
	Bond(id BondID) (Bond, bool)

	// BondBetween retrieves the bond connecting an unordered pair of atoms.
	//
	// Parameters:
	//   - a: the first endpoint
	//   - b: the second endpoint
	//
	// Returns:
	//   - Bond: a copy of the bond
	//   - bool: true if such a bond exists
	BondBetween(a, b AtomID) (Bond, bool)

	// BondsOf retrieves copies of every bond touching an atom, in insertion
	// order.
	//
	// Parameters:
	//   - id: the atom identifier
	//
	// Returns:
	//   - []Bond: the incident bonds, nil if the atom is isolated or absent
	BondsOf(id AtomID) []Bond

	// Atoms retrieves copies of all live atoms in unspecified order.
	//
	// Returns:
	//   - []Atom: all live atoms
	Atoms() []Atom

	// Bonds retrieves copies of all live bonds in unspecified order.
	//
	// Returns:
	//   - []Bond: all live bonds
	Bonds() []Bond

	// AtomCount returns the number of live atoms.
	//
	// Returns:
	//   - int: the live atom count
	AtomCount() int

	// BondCount returns the number of live bonds.
	//
	// Returns:
	//   - int: the live bond count
	BondCount() int

	// Clear removes every atom and bond. Identifier counters are not reset;
	// identifiers stay unique across a reload.
	Clear()
}

var _ Store = &store{}

// NewStore creates an empty molecule store with all options applied.
//
// Parameters:
//   - options: functional options to configure the store
//
// Returns:
//   - Store: the newly created store
func NewStore(options ...StoreOption) Store {
	s := &store{
		alloc:    NewAllocator(),
		atoms:    make(map[AtomID]Atom),
		bonds:    make(map[BondID]Bond),
		pairs:    make(map[[2]AtomID]BondID),
		incident: make(map[AtomID][]BondID),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *store) InsertAtom(species Species, position [3]float32) AtomAdded {
	atom := Atom{
		ID:       s.alloc.AllocateAtomID(),
		Species:  species,
		Position: position,
	}
	s.atoms[atom.ID] = atom
	return AtomAdded{Atom: atom}
}

func (s *store) RemoveAtom(id AtomID) (AtomRemoved, error) {
	atom, ok := s.atoms[id]
	if !ok {
		return AtomRemoved{}, ErrNotFound
	}

	// Cascade: every incident bond goes with the atom, in one atomic edit.
	var removed []Bond
	for _, bondID := range s.incident[id] {
		bond := s.bonds[bondID]
		removed = append(removed, bond)
		s.dropBond(bond)
		other := bond.A
		if other == id {
			other = bond.B
		}
		s.pruneIncident(other, bondID)
	}
	delete(s.incident, id)
	delete(s.atoms, id)

	return AtomRemoved{Atom: atom, RemovedBonds: removed}, nil
}

func (s *store) MoveAtom(id AtomID, position [3]float32) (AtomMoved, error) {
	atom, ok := s.atoms[id]
	if !ok {
		return AtomMoved{}, ErrNotFound
	}
	old := atom.Position
	atom.Position = position
	s.atoms[id] = atom
	return AtomMoved{ID: id, OldPosition: old, NewPosition: position}, nil
}

func (s *store) InsertBond(a, b AtomID) (BondAdded, error) {
	if a == b {
		return BondAdded{}, ErrInvalidEndpoint
	}
	atomA, okA := s.atoms[a]
	atomB, okB := s.atoms[b]
	if !okA || !okB {
		return BondAdded{}, ErrInvalidEndpoint
	}
	pair := normalizePair(a, b)
	if _, exists := s.pairs[pair]; exists {
		return BondAdded{}, ErrDuplicateBond
	}
	if len(s.incident[a]) >= Info(atomA.Species).MaxValence ||
		len(s.incident[b]) >= Info(atomB.Species).MaxValence {
		return BondAdded{}, ErrValenceExceeded
	}

	bond := Bond{ID: s.alloc.AllocateBondID(), A: pair[0], B: pair[1]}
	s.linkBond(bond)
	return BondAdded{Bond: bond}, nil
}

func (s *store) RemoveBond(id BondID) (BondRemoved, error) {
	bond, ok := s.bonds[id]
	if !ok {
		return BondRemoved{}, ErrNotFound
	}
	s.dropBond(bond)
	s.pruneIncident(bond.A, id)
	s.pruneIncident(bond.B, id)
	return BondRemoved{Bond: bond}, nil
}

func (s *store) RestoreAtom(atom Atom) (AtomAdded, error) {
	if _, exists := s.atoms[atom.ID]; exists {
		return AtomAdded{}, ErrDuplicateID
	}
	s.atoms[atom.ID] = atom
	s.alloc.Reserve(atom.ID, 0)
	return AtomAdded{Atom: atom}, nil
}

func (s *store) RestoreBond(bond Bond) (BondAdded, error) {
	if _, exists := s.bonds[bond.ID]; exists {
		return BondAdded{}, ErrDuplicateID
	}
	if _, okA := s.atoms[bond.A]; !okA {
		return BondAdded{}, ErrInvalidEndpoint
	}
	if _, okB := s.atoms[bond.B]; !okB {
		return BondAdded{}, ErrInvalidEndpoint
	}
	pair := bond.pairOf()
	if _, exists := s.pairs[pair]; exists {
		return BondAdded{}, ErrDuplicateID
	}
	bond.A, bond.B = pair[0], pair[1]
	s.linkBond(bond)
	s.alloc.Reserve(0, bond.ID)
	return BondAdded{Bond: bond}, nil
}

func (s *store) Atom(id AtomID) (Atom, bool) {
	atom, ok := s.atoms[id]
	return atom, ok
}

func (s *store) Bond(id BondID) (Bond, bool) {
	bond, ok := s.bonds[id]
	return bond, ok
}

func (s *store) BondBetween(a, b AtomID) (Bond, bool) {
	id, ok := s.pairs[normalizePair(a, b)]
	if !ok {
		return Bond{}, false
	}
	return s.bonds[id], true
}

func (s *store) BondsOf(id AtomID) []Bond {
	ids := s.incident[id]
	if len(ids) == 0 {
		return nil
	}
	bonds := make([]Bond, 0, len(ids))
	for _, bondID := range ids {
		bonds = append(bonds, s.bonds[bondID])
	}
	return bonds
}

func (s *store) Atoms() []Atom {
	atoms := make([]Atom, 0, len(s.atoms))
	for _, atom := range s.atoms {
		atoms = append(atoms, atom)
	}
	return atoms
}

func (s *store) Bonds() []Bond {
	bonds := make([]Bond, 0, len(s.bonds))
	for _, bond := range s.bonds {
		bonds = append(bonds, bond)
	}
	return bonds
}

func (s *store) AtomCount() int {
	return len(s.atoms)
}

func (s *store) BondCount() int {
	return len(s.bonds)
}

func (s *store) Clear() {
	s.atoms = make(map[AtomID]Atom)
	s.bonds = make(map[BondID]Bond)
	s.pairs = make(map[[2]AtomID]BondID)
	s.incident = make(map[AtomID][]BondID)
}

// linkBond installs a bond into all three indexes.
func (s *store) linkBond(bond Bond) {
	s.bonds[bond.ID] = bond
	s.pairs[bond.pairOf()] = bond.ID
	s.incident[bond.A] = append(s.incident[bond.A], bond.ID)
	s.incident[bond.B] = append(s.incident[bond.B], bond.ID)
}

// dropBond removes a bond from the bond and pair indexes. Incident lists are
// the caller's responsibility: RemoveAtom deletes whole lists during its
// cascade, RemoveBond prunes single entries.
func (s *store) dropBond(bond Bond) {
	delete(s.bonds, bond.ID)
	delete(s.pairs, bond.pairOf())
}

// pruneIncident removes one bond id from an atom's incident list.
func (s *store) pruneIncident(atom AtomID, id BondID) {
	list := s.incident[atom]
	for i, candidate := range list {
		if candidate == id {
			s.incident[atom] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(s.incident[atom]) == 0 {
		delete(s.incident, atom)
	}
}
