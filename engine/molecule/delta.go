package molecule

// Delta is one structured change produced by a store mutation. The set of
// delta kinds is closed; consumers switch over the concrete types below.
// A ChangeFeed is the ordered list of deltas one command produced.
type Delta interface {
	isDelta()
}

// ChangeFeed is the ordered set of deltas emitted by a single command
// application or inversion. It is the only channel through which the render
// sync layer learns about store mutations.
type ChangeFeed []Delta

// AtomAdded reports that an atom was inserted into the store.
type AtomAdded struct {
	// Atom is a copy of the inserted atom, including its identifier.
	Atom Atom
}

// AtomRemoved reports that an atom was removed, along with every bond that
// referenced it. The removed bonds are part of the same delta because the
// cascade is one atomic edit: undoing it must restore the atom and all of
// its bonds with their original identifiers.
type AtomRemoved struct {
	// Atom is a copy of the removed atom.
	Atom Atom
	// RemovedBonds are copies of every bond that was cascaded away, in
	// removal order.
	RemovedBonds []Bond
}

// AtomMoved reports that an atom's position changed.
type AtomMoved struct {
	ID          AtomID
	OldPosition [3]float32
	NewPosition [3]float32
}

// BondAdded reports that a bond was inserted into the store.
type BondAdded struct {
	// Bond is a copy of the inserted bond, including its identifier.
	Bond Bond
}

// BondRemoved reports that a single bond was removed (not as part of an
// atom-removal cascade).
type BondRemoved struct {
	// Bond is a copy of the removed bond.
	Bond Bond
}

func (AtomAdded) isDelta()   {}
func (AtomRemoved) isDelta() {}
func (AtomMoved) isDelta()   {}
func (BondAdded) isDelta()   {}
func (BondRemoved) isDelta() {}
