package viewer

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/Carmen-Shannon/mol-go/engine/history"
	"github.com/Carmen-Shannon/mol-go/engine/instance"
	"github.com/Carmen-Shannon/mol-go/engine/molecule"
	"github.com/Carmen-Shannon/mol-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/mol-go/engine/xyz"
)

// Tool identifies the active editing tool, which decides what a click on the
// molecule does.
type Tool int

const (
	// ToolSelect picks the atom under the cursor, or clears the selection
	// when the click hits empty space.
	ToolSelect Tool = iota

	// ToolAddAtom places a new atom of the session's active species at the
	// click point.
	ToolAddAtom

	// ToolAddBond bonds two atoms: the first click anchors one endpoint,
	// the second click on another atom creates the bond.
	ToolAddBond

	// ToolMove drags the atom under the cursor, keeping it at its original
	// depth along the view ray. The whole drag lands as a single undo step.
	ToolMove
)

// String returns the short display name used in the status line.
func (t Tool) String() string {
	switch t {
	case ToolAddAtom:
		return "add-atom"
	case ToolAddBond:
		return "add-bond"
	case ToolMove:
		return "move"
	default:
		return "select"
	}
}

// sessionImpl is the implementation of the Session interface.
type sessionImpl struct {
	mu *sync.Mutex

	store   molecule.Store
	history history.Engine
	sync    instance.RenderSync
	loader  xyz.Loader

	tool    Tool
	species molecule.Species

	// bondAnchor is the first endpoint chosen with the add-bond tool, nil
	// until the first click lands on an atom.
	bondAnchor *molecule.AtomID

	// drag state for the move tool
	dragAtom  *molecule.AtomID
	dragDepth float32

	// placeDepth is the distance along the pick ray at which the add-atom
	// tool places new atoms when the click hits empty space.
	placeDepth float32

	structureName string
	message       string

	pending []bind_group_provider.BufferWrite
}

// Session is the molecular editing session behind the viewer window. It owns
// the molecule store, the undo history, and the render sync layer, and turns
// user gestures (picks, drags, key presses) into commands and buffer writes.
//
// The session is free of GPU handles; the engine drains its accumulated
// buffer writes each frame and hands them to the renderer.
type Session interface {
	// Store returns the session's molecule store.
	//
	// Returns:
	//   - molecule.Store: the store
	Store() molecule.Store

	// History returns the session's undo engine.
	//
	// Returns:
	//   - history.Engine: the undo engine
	History() history.Engine

	// Sync returns the render sync layer, which the engine consults for
	// draw counts and buffer capacities.
	//
	// Returns:
	//   - instance.RenderSync: the sync layer
	Sync() instance.RenderSync

	// Open submits an asynchronous load of the given XYZ file. The parsed
	// structure is installed by a later PollLoad call.
	//
	// Parameters:
	//   - path: the XYZ file to load
	Open(path string)

	// Watch starts watching the given file for changes, reloading it
	// automatically whenever it is rewritten on disk.
	//
	// Parameters:
	//   - path: the XYZ file to watch
	//
	// Returns:
	//   - error: an error if the watch could not be established
	Watch(path string) error

	// PollLoad receives at most one completed load attempt without
	// blocking, installing the structure on success. Call once per frame.
	//
	// Returns:
	//   - bool: true if a new structure was installed this call
	PollLoad() bool

	// InstallStructure replaces the molecule with a parsed structure:
	// the store is rebuilt, the undo history is cleared, and a full
	// instance reload is queued.
	//
	// Parameters:
	//   - st: the parsed structure to install
	InstallStructure(st *xyz.ParsedStructure)

	// Execute runs an edit command through the undo engine and queues the
	// resulting buffer writes. Failed commands change nothing and surface
	// their reason in the status line.
	//
	// Parameters:
	//   - cmd: the command to execute
	//
	// Returns:
	//   - bool: true if the command applied successfully
	Execute(cmd history.Command) bool

	// Undo reverts the most recent edit, if any.
	//
	// Returns:
	//   - bool: true if a step was undone
	Undo() bool

	// Redo re-applies the most recently undone edit, if any.
	//
	// Returns:
	//   - bool: true if a step was redone
	Redo() bool

	// DeleteSelection removes the selected atom and its incident bonds as a
	// single undoable step. No-op when nothing is selected.
	//
	// Returns:
	//   - bool: true if an atom was removed
	DeleteSelection() bool

	// Tool returns the active editing tool.
	//
	// Returns:
	//   - Tool: the active tool
	Tool() Tool

	// SetTool switches the active editing tool and resets any in-progress
	// tool state (bond anchor, drag).
	//
	// Parameters:
	//   - t: the tool to activate
	SetTool(t Tool)

	// Species returns the species the add-atom tool places.
	//
	// Returns:
	//   - molecule.Species: the active species
	Species() molecule.Species

	// SetSpecies sets the species the add-atom tool places.
	//
	// Parameters:
	//   - sp: the species to place
	SetSpecies(sp molecule.Species)

	// SetRepresentation switches the display mode, queuing the rewrite of
	// every live atom record.
	//
	// Parameters:
	//   - rep: the representation to switch to
	SetRepresentation(rep instance.Representation)

	// HandlePick dispatches a click expressed as a world-space ray to the
	// active tool.
	//
	// Parameters:
	//   - origin: the ray origin (the camera position)
	//   - dir: the normalized ray direction
	HandlePick(origin, dir [3]float32)

	// BeginDrag starts a move gesture on the atom under the cursor.
	// No-op unless the move tool is active and the ray hits an atom.
	//
	// Parameters:
	//   - origin: the ray origin
	//   - dir: the normalized ray direction
	BeginDrag(origin, dir [3]float32)

	// DragTo continues an active move gesture, keeping the atom at its
	// original depth along the new ray. Consecutive drag updates merge
	// into a single undo step.
	//
	// Parameters:
	//   - origin: the ray origin
	//   - dir: the normalized ray direction
	DragTo(origin, dir [3]float32)

	// EndDrag finishes the move gesture and seals the undo step so later
	// moves of the same atom form separate steps.
	EndDrag()

	// UpdateCamera queues the camera uniform write for this frame.
	//
	// Parameters:
	//   - viewProj: the combined column-major view-projection matrix
	//   - position: the camera world position
	UpdateCamera(viewProj [16]float32, position [3]float32)

	// DrainWrites returns all buffer writes accumulated since the last
	// drain and clears the queue. Called once per frame by the engine.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the queued writes
	DrainWrites() []bind_group_provider.BufferWrite

	// StatusLine composes the one-line session summary shown in the window
	// title: structure name, entity counts, active tool and species, and
	// the most recent transient message.
	//
	// Returns:
	//   - string: the status line
	StatusLine() string

	// Close releases the session's loader resources.
	//
	// Returns:
	//   - error: an error if the loader failed to close
	Close() error
}

var _ Session = &sessionImpl{}

// NewSession creates an editing session over a fresh molecule store with all
// options applied.
//
// Parameters:
//   - options: functional options to configure the session
//
// Returns:
//   - Session: the newly created session
func NewSession(options ...SessionOption) Session {
	s := &sessionImpl{
		mu:         &sync.Mutex{},
		store:      molecule.NewStore(),
		tool:       ToolSelect,
		species:    molecule.SpeciesCarbon,
		placeDepth: 12,
	}
	for _, option := range options {
		option(s)
	}
	if s.sync == nil {
		s.sync = instance.NewRenderSync(s.store)
	}
	if s.history == nil {
		s.history = history.NewEngine(s.store)
	}
	if s.loader == nil {
		s.loader = xyz.NewLoader()
	}
	return s
}

func (s *sessionImpl) Store() molecule.Store {
	return s.store
}

func (s *sessionImpl) History() history.Engine {
	return s.history
}

func (s *sessionImpl) Sync() instance.RenderSync {
	return s.sync
}

func (s *sessionImpl) Open(path string) {
	s.loader.Load(path)
}

func (s *sessionImpl) Watch(path string) error {
	return s.loader.Watch(path)
}

func (s *sessionImpl) PollLoad() bool {
	select {
	case result := <-s.loader.Results():
		if result.Err != nil {
			s.mu.Lock()
			s.message = fmt.Sprintf("load failed: %v", result.Err)
			s.mu.Unlock()
			log.Printf("viewer: load %s failed: %v", result.Path, result.Err)
			return false
		}
		s.InstallStructure(result.Structure)
		return true
	default:
		return false
	}
}

func (s *sessionImpl) InstallStructure(st *xyz.ParsedStructure) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Clear()
	s.history.Clear()
	s.bondAnchor = nil
	s.dragAtom = nil

	ids := make([]molecule.AtomID, len(st.Atoms))
	for i, atom := range st.Atoms {
		ids[i] = s.store.InsertAtom(atom.Species, atom.Position).Atom.ID
	}
	for _, pair := range st.Bonds {
		if _, err := s.store.InsertBond(ids[pair[0]], ids[pair[1]]); err != nil {
			// Inferred bonds can exceed an element's valence in crowded
			// structures; skip those rather than rejecting the file.
			log.Printf("viewer: skipping inferred bond %d-%d: %v", pair[0], pair[1], err)
		}
	}

	s.structureName = st.Name
	s.message = ""
	s.pending = append(s.pending, s.sync.Load()...)
}

func (s *sessionImpl) Execute(cmd history.Command) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execute(cmd)
}

// execute runs a command and queues its writes. Caller must hold the mutex.
func (s *sessionImpl) execute(cmd history.Command) bool {
	feed, err := s.history.Execute(cmd)
	if err != nil {
		s.message = err.Error()
		return false
	}
	s.message = ""
	s.pending = append(s.pending, s.sync.OnChange(feed)...)
	return true
}

func (s *sessionImpl) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	feed, ok := s.history.Undo()
	if !ok {
		s.message = "nothing to undo"
		return false
	}
	s.message = ""
	s.pending = append(s.pending, s.sync.OnChange(feed)...)
	return true
}

func (s *sessionImpl) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	feed, ok := s.history.Redo()
	if !ok {
		s.message = "nothing to redo"
		return false
	}
	s.message = ""
	s.pending = append(s.pending, s.sync.OnChange(feed)...)
	return true
}

func (s *sessionImpl) DeleteSelection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.sync.Selection()
	if sel == nil {
		return false
	}
	return s.execute(history.NewRemoveAtom(*sel))
}

func (s *sessionImpl) Tool() Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool
}

func (s *sessionImpl) SetTool(t Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tool = t
	s.bondAnchor = nil
	s.dragAtom = nil
}

func (s *sessionImpl) Species() molecule.Species {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.species
}

func (s *sessionImpl) SetSpecies(sp molecule.Species) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.species = sp
}

func (s *sessionImpl) SetRepresentation(rep instance.Representation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, s.sync.SetRepresentation(rep)...)
}

func (s *sessionImpl) HandlePick(origin, dir [3]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hit, hitPoint, ok := s.pickAtom(origin, dir)

	switch s.tool {
	case ToolSelect:
		if ok {
			id := hit
			s.pending = append(s.pending, s.sync.SetSelection(&id)...)
		} else {
			s.pending = append(s.pending, s.sync.SetSelection(nil)...)
		}

	case ToolAddAtom:
		position := [3]float32{
			origin[0] + dir[0]*s.placeDepth,
			origin[1] + dir[1]*s.placeDepth,
			origin[2] + dir[2]*s.placeDepth,
		}
		if ok {
			// Clicking an existing atom places the new one alongside it
			// rather than inside it.
			radius := instance.AtomRadiusFor(s.species, s.sync.Representation())
			position = [3]float32{hitPoint[0], hitPoint[1] + 2*radius, hitPoint[2]}
		}
		s.execute(history.NewAddAtom(s.species, position))

	case ToolAddBond:
		if !ok {
			s.bondAnchor = nil
			return
		}
		if s.bondAnchor == nil {
			anchor := hit
			s.bondAnchor = &anchor
			s.pending = append(s.pending, s.sync.SetSelection(&anchor)...)
			return
		}
		anchor := *s.bondAnchor
		s.bondAnchor = nil
		s.pending = append(s.pending, s.sync.SetSelection(nil)...)
		if anchor != hit {
			s.execute(history.NewAddBond(anchor, hit))
		}

	case ToolMove:
		// Moves are driven by the drag callbacks, not by single picks.
	}
}

func (s *sessionImpl) BeginDrag(origin, dir [3]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tool != ToolMove {
		return
	}
	hit, _, ok := s.pickAtom(origin, dir)
	if !ok {
		return
	}
	atom, _ := s.store.Atom(hit)
	id := hit
	s.dragAtom = &id
	s.dragDepth = dot3(sub3(atom.Position, origin), dir)
}

func (s *sessionImpl) DragTo(origin, dir [3]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dragAtom == nil {
		return
	}
	position := [3]float32{
		origin[0] + dir[0]*s.dragDepth,
		origin[1] + dir[1]*s.dragDepth,
		origin[2] + dir[2]*s.dragDepth,
	}
	s.execute(history.NewMoveAtom(*s.dragAtom, position))
}

func (s *sessionImpl) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dragAtom == nil {
		return
	}
	s.dragAtom = nil
	s.history.Seal()
}

func (s *sessionImpl) UpdateCamera(viewProj [16]float32, position [3]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, s.sync.SetCamera(viewProj, position))
}

func (s *sessionImpl) DrainWrites() []bind_group_provider.BufferWrite {
	s.mu.Lock()
	defer s.mu.Unlock()
	writes := s.pending
	s.pending = nil
	return writes
}

func (s *sessionImpl) StatusLine() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.structureName
	if name == "" {
		name = "untitled"
	}
	line := fmt.Sprintf("%s | %d atoms %d bonds | %s (%s)",
		name, s.store.AtomCount(), s.store.BondCount(), s.tool, s.species)
	if s.message != "" {
		line += " | " + s.message
	}
	return line
}

func (s *sessionImpl) Close() error {
	return s.loader.Close()
}

// pickAtom intersects a world-space ray with every atom sphere at its
// displayed radius and returns the nearest hit in front of the origin.
// Caller must hold the mutex.
func (s *sessionImpl) pickAtom(origin, dir [3]float32) (molecule.AtomID, [3]float32, bool) {
	rep := s.sync.Representation()

	var bestID molecule.AtomID
	bestT := float32(math.Inf(1))
	found := false

	for _, atom := range s.store.Atoms() {
		radius := instance.AtomRadiusFor(atom.Species, rep)
		if t, ok := raySphere(origin, dir, atom.Position, radius); ok && t < bestT {
			bestT = t
			bestID = atom.ID
			found = true
		}
	}
	if !found {
		return 0, [3]float32{}, false
	}
	hitPoint := [3]float32{
		origin[0] + dir[0]*bestT,
		origin[1] + dir[1]*bestT,
		origin[2] + dir[2]*bestT,
	}
	return bestID, hitPoint, true
}

// raySphere solves the quadratic for a ray against a sphere and returns the
// nearest intersection distance in front of the origin.
func raySphere(origin, dir, center [3]float32, radius float32) (float32, bool) {
	oc := sub3(origin, center)
	b := dot3(oc, dir)
	c := dot3(oc, oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t := -b - sqrtDisc
	if t < 0 {
		t = -b + sqrtDisc
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

func sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
