package history

import (
	"github.com/Carmen-Shannon/mol-go/engine/molecule"
)

// Command is one reversible edit against the molecule store. The command set
// is closed: add atom, remove atom, move atom, add bond, remove bond. Each
// command captures at apply time exactly the data it needs to invert itself
// losslessly, including the identifiers it created, so that apply, invert
// and re-apply reproduce bit-identical topology and coordinates.
type Command interface {
	// Apply performs the forward edit.
	//
	// Parameters:
	//   - store: the molecule store to mutate
	//
	// Returns:
	//   - molecule.ChangeFeed: the deltas the edit produced
	//   - error: a typed store error if the edit is invalid; nothing was mutated
	Apply(store molecule.Store) (molecule.ChangeFeed, error)

	// Invert performs the exact inverse of a previously applied edit using
	// the data captured during Apply.
	//
	// Parameters:
	//   - store: the molecule store to mutate
	//
	// Returns:
	//   - molecule.ChangeFeed: the deltas the inversion produced
	//   - error: a typed store error; only reachable if the store was
	//     mutated outside the command engine
	Invert(store molecule.Store) (molecule.ChangeFeed, error)
}

// merger is implemented by commands that can absorb a subsequent command
// into themselves on the undo stack. Only consecutive moves of the same
// atom merge; everything else is its own undo step.
type merger interface {
	merge(next Command) bool
}

// addAtomCommand inserts a new atom. The created atom is captured on first
// apply so redo reinstates it under the same identifier.
type addAtomCommand struct {
	species  molecule.Species
	position [3]float32
	created  *molecule.Atom
}

// NewAddAtom creates a command that inserts an atom of the given species at
// the given position.
//
// Parameters:
//   - species: the element species of the new atom
//   - position: where to place it
//
// Returns:
//   - Command: the add-atom command
func NewAddAtom(species molecule.Species, position [3]float32) Command {
	return &addAtomCommand{species: species, position: position}
}

func (c *addAtomCommand) Apply(store molecule.Store) (molecule.ChangeFeed, error) {
	if c.created == nil {
		added := store.InsertAtom(c.species, c.position)
		c.created = &added.Atom
		return molecule.ChangeFeed{added}, nil
	}
	added, err := store.RestoreAtom(*c.created)
	if err != nil {
		return nil, err
	}
	return molecule.ChangeFeed{added}, nil
}

func (c *addAtomCommand) Invert(store molecule.Store) (molecule.ChangeFeed, error) {
	removed, err := store.RemoveAtom(c.created.ID)
	if err != nil {
		return nil, err
	}
	return molecule.ChangeFeed{removed}, nil
}

// removeAtomCommand removes an atom and every bond touching it as one unit.
type removeAtomCommand struct {
	id      molecule.AtomID
	removed *molecule.AtomRemoved
}

// NewRemoveAtom creates a command that removes an atom and cascades removal
// of its incident bonds.
//
// Parameters:
//   - id: the atom to remove
//
// Returns:
//   - Command: the remove-atom command
func NewRemoveAtom(id molecule.AtomID) Command {
	return &removeAtomCommand{id: id}
}

func (c *removeAtomCommand) Apply(store molecule.Store) (molecule.ChangeFeed, error) {
	removed, err := store.RemoveAtom(c.id)
	if err != nil {
		return nil, err
	}
	c.removed = &removed
	return molecule.ChangeFeed{removed}, nil
}

func (c *removeAtomCommand) Invert(store molecule.Store) (molecule.ChangeFeed, error) {
	added, err := store.RestoreAtom(c.removed.Atom)
	if err != nil {
		return nil, err
	}
	feed := molecule.ChangeFeed{added}
	for _, bond := range c.removed.RemovedBonds {
		restored, err := store.RestoreBond(bond)
		if err != nil {
			return feed, err
		}
		feed = append(feed, restored)
	}
	return feed, nil
}

// moveAtomCommand repositions an atom. The old position is captured on
// first apply. Consecutive moves of the same atom merge so one drag gesture
// undoes as a single step.
type moveAtomCommand struct {
	id          molecule.AtomID
	newPosition [3]float32

	applied     bool
	oldPosition [3]float32
}

// NewMoveAtom creates a command that moves an atom to a new position.
//
// Parameters:
//   - id: the atom to move
//   - position: the new position
//
// Returns:
//   - Command: the move-atom command
func NewMoveAtom(id molecule.AtomID, position [3]float32) Command {
	return &moveAtomCommand{id: id, newPosition: position}
}

func (c *moveAtomCommand) Apply(store molecule.Store) (molecule.ChangeFeed, error) {
	moved, err := store.MoveAtom(c.id, c.newPosition)
	if err != nil {
		return nil, err
	}
	if !c.applied {
		c.applied = true
		c.oldPosition = moved.OldPosition
	}
	return molecule.ChangeFeed{moved}, nil
}

func (c *moveAtomCommand) Invert(store molecule.Store) (molecule.ChangeFeed, error) {
	moved, err := store.MoveAtom(c.id, c.oldPosition)
	if err != nil {
		return nil, err
	}
	return molecule.ChangeFeed{moved}, nil
}

func (c *moveAtomCommand) merge(next Command) bool {
	move, ok := next.(*moveAtomCommand)
	if !ok || move.id != c.id {
		return false
	}
	// Keep the original old position, absorb the latest destination.
	c.newPosition = move.newPosition
	return true
}

// addBondCommand inserts a bond between two existing atoms. The created
// bond is captured on first apply so redo reinstates the same identifier.
type addBondCommand struct {
	a, b    molecule.AtomID
	created *molecule.Bond
}

// NewAddBond creates a command that bonds two atoms.
//
// Parameters:
//   - a: the first endpoint
//   - b: the second endpoint
//
// Returns:
//   - Command: the add-bond command
func NewAddBond(a, b molecule.AtomID) Command {
	return &addBondCommand{a: a, b: b}
}

func (c *addBondCommand) Apply(store molecule.Store) (molecule.ChangeFeed, error) {
	if c.created == nil {
		added, err := store.InsertBond(c.a, c.b)
		if err != nil {
			return nil, err
		}
		c.created = &added.Bond
		return molecule.ChangeFeed{added}, nil
	}
	added, err := store.RestoreBond(*c.created)
	if err != nil {
		return nil, err
	}
	return molecule.ChangeFeed{added}, nil
}

func (c *addBondCommand) Invert(store molecule.Store) (molecule.ChangeFeed, error) {
	removed, err := store.RemoveBond(c.created.ID)
	if err != nil {
		return nil, err
	}
	return molecule.ChangeFeed{removed}, nil
}

// removeBondCommand removes a single bond.
type removeBondCommand struct {
	id      molecule.BondID
	removed *molecule.Bond
}

// NewRemoveBond creates a command that removes a bond.
//
// Parameters:
//   - id: the bond to remove
//
// Returns:
//   - Command: the remove-bond command
func NewRemoveBond(id molecule.BondID) Command {
	return &removeBondCommand{id: id}
}

func (c *removeBondCommand) Apply(store molecule.Store) (molecule.ChangeFeed, error) {
	removed, err := store.RemoveBond(c.id)
	if err != nil {
		return nil, err
	}
	c.removed = &removed.Bond
	return molecule.ChangeFeed{removed}, nil
}

func (c *removeBondCommand) Invert(store molecule.Store) (molecule.ChangeFeed, error) {
	restored, err := store.RestoreBond(*c.removed)
	if err != nil {
		return nil, err
	}
	return molecule.ChangeFeed{restored}, nil
}
