package interact

import (
	"sync"
	"time"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

// Mode is the controller's state-machine state. Exactly one is active
// at a time; every transition is reported through OnModeChange.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeResizing
	ModeRotating
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDragging:
		return "dragging"
	case ModeResizing:
		return "resizing"
	case ModeRotating:
		return "rotating"
	case ModePanning:
		return "panning"
	default:
		return "unknown"
	}
}

const (
	// clickThresholdPx is the cursor travel, in screen pixels, below
	// which a press and release count as a click instead of a drag.
	clickThresholdPx = 5.0

	// doubleClickWindow is how long a click waits for a second click on
	// the same object before settling as a single click.
	doubleClickWindow = 300 * time.Millisecond

	// resizeHandlePx is the screen-space reach of an edge handle.
	resizeHandlePx = 8.0

	// minTableSizeWorld and minUISizePx clamp resizing: table-space
	// objects keep at least 100 world units per side, UI-layer objects
	// at least 200 screen pixels.
	minTableSizeWorld = 100.0
	minUISizePx       = 200.0
)

// KeyEscape cancels an in-flight rotation.
const KeyEscape = "Escape"

// Controller is the pointer interaction state machine. It owns no
// object state: reads go through the snapshot accessor, and every
// committed change leaves as an action through dispatch. The embedding
// client decides what a dispatch means, usually apply locally and
// forward to the room. Permission checks run here, before dispatch; a
// denied interaction dispatches nothing at all.
//
// One goroutine feeds the controller pointer and key events. The click
// settle timer is the only other entry point and is serialized through
// the internal mutex. The dispatch function must not call back into
// the controller.
type Controller struct {
	mu       sync.Mutex
	snapshot func() *table.Store
	dispatch func(table.Action)
	clock    Clock
	actor    table.Actor

	events Registry

	mode    Mode
	drag    dragState
	resize  resizeState
	rotate  rotateState
	pan     panState
	pending *pendingClick
}

// dragState tracks a press from pointer-down until it either settles as
// a click or crosses the threshold into an active drag.
type dragState struct {
	id        string
	kind      table.Kind
	ui        bool
	pinned    bool
	fromHand  bool
	detached  bool // card rides in the cursor slot, position commits at drop
	active    bool // crossed the click threshold
	movable   bool
	clickable bool
	// detachOnActivate takes the card to the cursor slot when the
	// threshold is crossed (press on a pile's top card).
	detachOnActivate bool

	startScreen geometry.Point
	// grabOffset anchors the object to the cursor: world units, or
	// screen units while the object is pinned.
	grabOffset geometry.Point
	hoverKey   string
}

type resizeState struct {
	id         string
	handle     Handle
	ui         bool
	start      geometry.Rect
	pressWorld geometry.Point
	min        float64
}

type rotateState struct {
	id            string
	ui            bool
	center        geometry.Point
	startAngle    float64
	startRotation float64
}

type panState struct {
	startScreen geometry.Point
	startCam    geometry.Camera
}

type pendingClick struct {
	objectID string
	at       time.Time
	info     ClickInfo
	timer    Timer
	canceled bool
}

// NewController builds a controller acting as the given actor. Reads go
// through snapshot, which must return the current store; writes leave
// through dispatch.
func NewController(snapshot func() *table.Store, dispatch func(table.Action), actor table.Actor) *Controller {
	return &Controller{
		snapshot: snapshot,
		dispatch: dispatch,
		clock:    systemClock{},
		actor:    actor,
	}
}

// Events exposes the subscription registry.
func (c *Controller) Events() *Registry { return &c.events }

// Mode returns the current state-machine state.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetActor changes who subsequent interactions act as.
func (c *Controller) SetActor(actor table.Actor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actor = actor
}

// SetClock replaces the timer source. Tests install a manual clock to
// drive the click settle window deterministically.
func (c *Controller) SetClock(clk Clock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clk
}

// PointerDown feeds a press at a viewport position. On an object it
// records a drag candidate (or grabs a resize handle), on a pile it
// grabs the top card, and on open table it starts panning.
func (c *Controller) PointerDown(screen geometry.Point) {
	c.mu.Lock()
	var emits []func()
	s := c.currentStore()
	if s == nil || c.mode != ModeIdle {
		c.mu.Unlock()
		return
	}

	h := hitAt(s, c.actor, screen)
	switch {
	case h.pile != nil:
		c.pressPile(s, h, screen)
	case h.obj != nil:
		c.pressObject(s, h.obj, screen, &emits)
	default:
		c.pan = panState{startScreen: screen, startCam: s.View}
		c.setMode(ModePanning, "", &emits)
	}
	c.mu.Unlock()
	c.run(nil, emits)
}

func (c *Controller) pressObject(s *table.Store, obj table.TableObject, screen geometry.Point, emits *[]func()) {
	core := obj.Core()
	ui := table.IsUIKind(obj.Kind())
	world := worldAt(s.View, screen, ui)

	if resizableKind(obj.Kind()) && c.actor.CanResize(obj) && core.PinnedScreenPos == nil {
		if hnd := handleAt(core.Bounds(), core.Rotation, world, s.View.Zoom); hnd != HandleNone {
			min := minTableSizeWorld
			if ui {
				min = minUISizePx / s.View.Zoom
			}
			c.resize = resizeState{
				id:         core.ID,
				handle:     hnd,
				ui:         ui,
				start:      core.Bounds(),
				pressWorld: world,
				min:        min,
			}
			c.setMode(ModeResizing, core.ID, emits)
			return
		}
	}

	// MOVE_OBJECT no-ops on locked objects for everyone, so a locked
	// object is never a drag candidate; the GM unlocks it first. Resize
	// and rotation go through UPDATE_OBJECT and keep the GM bypass.
	c.drag = dragState{
		id:          core.ID,
		kind:        obj.Kind(),
		ui:          ui,
		pinned:      core.PinnedScreenPos != nil,
		movable:     c.actor.CanMove(obj) && !core.Locked,
		clickable:   true,
		startScreen: screen,
	}
	if c.drag.pinned {
		c.drag.grabOffset = screen.Sub(*core.PinnedScreenPos)
	} else {
		c.drag.grabOffset = world.Sub(core.Position)
	}
}

// pressPile grabs the top card of a pile as a drag candidate. The card
// detaches into the cursor slot once the threshold is crossed; a short
// press on a pile is not a click.
func (c *Controller) pressPile(s *table.Store, h hit, screen geometry.Point) {
	top := s.Card(h.pile.CardIDs[len(h.pile.CardIDs)-1])
	if top == nil || top.Locked || !c.actor.CanMove(top) {
		return
	}
	c.drag = dragState{
		id:               top.ID,
		kind:             table.KindCard,
		movable:          true,
		detachOnActivate: true,
		startScreen:      screen,
		grabOffset:       geometry.Point{X: top.Width / 2, Y: top.Height / 2},
	}
}

// PointerMove feeds a cursor move. In idle it may promote a drag
// candidate; in every active mode it advances that mode and dispatches
// the incremental action.
func (c *Controller) PointerMove(screen geometry.Point) {
	c.mu.Lock()
	var acts []table.Action
	var emits []func()
	s := c.currentStore()
	if s == nil {
		c.mu.Unlock()
		return
	}

	switch c.mode {
	case ModeIdle:
		c.maybeStartDrag(s, screen, &acts, &emits)
	case ModeDragging:
		c.moveDrag(s, screen, &acts, &emits)
	case ModeResizing:
		c.moveResize(s, screen, &acts, &emits)
	case ModeRotating:
		c.moveRotate(s, screen, &acts, &emits)
	case ModePanning:
		c.movePan(screen, &acts)
	}
	c.mu.Unlock()
	c.run(acts, emits)
}

// maybeStartDrag promotes the press candidate once the cursor travels
// past the click threshold. An unmovable candidate is discarded at that
// point: it can no longer settle as a click and never drags.
func (c *Controller) maybeStartDrag(s *table.Store, screen geometry.Point, acts *[]table.Action, emits *[]func()) {
	if c.drag.id == "" || c.drag.active {
		return
	}
	if screen.Distance(c.drag.startScreen) <= clickThresholdPx {
		return
	}
	if !c.drag.movable {
		c.drag = dragState{}
		return
	}
	c.drag.active = true
	c.drag.clickable = false
	if c.drag.detachOnActivate {
		*acts = append(*acts, table.NewTakeToCursor(c.drag.id, c.actor.PlayerID))
		c.drag.detached = true
		c.drag.detachOnActivate = false
	}
	c.setMode(ModeDragging, c.drag.id, emits)
	info := c.dragInfo(s, screen)
	*emits = append(*emits, func() { c.events.fireDragStart(info) })
	c.moveDrag(s, screen, acts, emits)
}

func (c *Controller) moveDrag(s *table.Store, screen geometry.Point, acts *[]table.Action, emits *[]func()) {
	obj := s.Object(c.drag.id)
	if obj == nil {
		// Deleted under us by a peer action; abandon the drag.
		c.drag = dragState{}
		c.setMode(ModeIdle, "", emits)
		return
	}
	if !c.drag.detached {
		*acts = append(*acts, table.NewMoveObject(c.drag.id, c.dragTo(s.View, screen)))
	}
	info := c.dragInfo(s, screen)
	*emits = append(*emits, func() { c.events.fireDragMove(info) })

	if c.drag.kind == table.KindCard && !c.drag.pinned {
		t := resolveDrop(s, obj, screen, c.proposedRect(s.View, screen, obj))
		if k := t.key(); k != c.drag.hoverKey {
			c.drag.hoverKey = k
			hover := HoverInfo{ObjectID: c.drag.id, Target: t}
			*emits = append(*emits, func() { c.events.fireHover(hover) })
		}
	}
}

func (c *Controller) moveResize(s *table.Store, screen geometry.Point, acts *[]table.Action, emits *[]func()) {
	if s.Object(c.resize.id) == nil {
		c.resize = resizeState{}
		c.setMode(ModeIdle, "", emits)
		return
	}
	world := worldAt(s.View, screen, c.resize.ui)
	r := resizeRect(c.resize.start, c.resize.handle, world.Sub(c.resize.pressWorld), c.resize.min)
	pos := r.Pos()
	*acts = append(*acts, table.NewUpdateObject(c.resize.id, table.ObjectPatch{
		Position: &pos,
		Width:    &r.Width,
		Height:   &r.Height,
	}))
}

func (c *Controller) moveRotate(s *table.Store, screen geometry.Point, acts *[]table.Action, emits *[]func()) {
	if s.Object(c.rotate.id) == nil {
		c.rotate = rotateState{}
		c.setMode(ModeIdle, "", emits)
		return
	}
	world := worldAt(s.View, screen, c.rotate.ui)
	delta := geometry.AngleDeg(c.rotate.center, world) - c.rotate.startAngle
	rot := geometry.NormalizeDeg(c.rotate.startRotation + delta)
	*acts = append(*acts, table.NewUpdateObject(c.rotate.id, table.ObjectPatch{Rotation: &rot}))
}

func (c *Controller) movePan(screen geometry.Point, acts *[]table.Action) {
	cam := c.pan.startCam
	cam.Offset = c.pan.startCam.Offset.Add(screen.Sub(c.pan.startScreen))
	*acts = append(*acts, table.NewSetView(cam))
}

// PointerUp feeds a release. A candidate that never crossed the
// threshold settles as a click; an active drag resolves its drop; every
// other mode simply exits.
func (c *Controller) PointerUp(screen geometry.Point) {
	c.mu.Lock()
	var acts []table.Action
	var emits []func()
	s := c.currentStore()
	if s == nil {
		c.mu.Unlock()
		return
	}

	switch c.mode {
	case ModeIdle:
		if c.drag.id != "" && !c.drag.active && c.drag.clickable {
			c.registerClick(s, screen, &emits)
		}
		c.drag = dragState{}
	case ModeDragging:
		c.finishDrag(s, screen, &acts, &emits)
	case ModeResizing:
		c.resize = resizeState{}
		c.setMode(ModeIdle, "", &emits)
	case ModeRotating:
		c.rotate = rotateState{}
		c.setMode(ModeIdle, "", &emits)
	case ModePanning:
		c.pan = panState{}
		c.setMode(ModeIdle, "", &emits)
	}
	c.mu.Unlock()
	c.run(acts, emits)
}

// finishDrag resolves the drop against the live state at release time:
// piles beat decks beat snapping boards beat open table. The incremental
// moves already placed non-card objects; only a snap or a card commit
// dispatches here.
func (c *Controller) finishDrag(s *table.Store, screen geometry.Point, acts *[]table.Action, emits *[]func()) {
	drag := c.drag
	c.drag = dragState{}
	defer c.setMode(ModeIdle, "", emits)

	obj := s.Object(drag.id)
	if obj == nil {
		return
	}

	var target DropTarget
	if drag.pinned {
		target = DropTarget{Kind: DropTable, World: screen.Sub(drag.grabOffset)}
	} else {
		target = resolveDrop(s, obj, screen, c.proposedRectFor(s.View, screen, obj, drag))
	}

	switch target.Kind {
	case DropPile:
		*acts = append(*acts, table.NewAddCardToPile(drag.id, target.DeckID, target.PileID))
	case DropDeck:
		*acts = append(*acts, table.NewAddCardToTop(drag.id, target.DeckID))
	case DropBoard:
		if drag.detached {
			*acts = append(*acts, table.NewPlayCard(drag.id, target.World))
		} else {
			*acts = append(*acts, table.NewMoveObject(drag.id, target.World))
		}
	case DropTable:
		if drag.detached {
			*acts = append(*acts, table.NewPlayCard(drag.id, target.World))
		}
	}

	info := DragInfo{
		ObjectID: drag.id,
		Kind:     drag.kind,
		Screen:   screen,
		World:    worldAt(s.View, screen, drag.ui),
		FromHand: drag.fromHand,
	}
	drop := DropInfo{DragInfo: info, Target: target}
	*emits = append(*emits, func() { c.events.fireDrop(drop) })
}

// registerClick settles the release as a click. A second click on the
// same object inside the window fires the double-click immediately; a
// first click schedules its single-click to fire after the window so a
// double never also fires the single.
func (c *Controller) registerClick(s *table.Store, screen geometry.Point, emits *[]func()) {
	obj := s.Object(c.drag.id)
	if obj == nil {
		return
	}
	core := obj.Core()
	now := c.clock.Now()

	if p := c.pending; p != nil && p.objectID == core.ID && now.Sub(p.at) <= doubleClickWindow {
		p.canceled = true
		p.timer.Stop()
		c.pending = nil
		info := ClickInfo{
			ObjectID: core.ID,
			Binding:  c.permittedBinding(obj, core.DoubleClickAction),
			Double:   true,
			Screen:   screen,
		}
		*emits = append(*emits, func() { c.events.fireClick(info) })
		return
	}

	p := &pendingClick{
		objectID: core.ID,
		at:       now,
		info: ClickInfo{
			ObjectID: core.ID,
			Binding:  c.permittedBinding(obj, core.ClickAction),
			Screen:   screen,
		},
	}
	p.timer = c.clock.AfterFunc(doubleClickWindow, func() { c.settleClick(p) })
	// A pending click on a different object keeps its own timer and
	// settles on its own; each click waits out its own window.
	c.pending = p
}

func (c *Controller) settleClick(p *pendingClick) {
	c.mu.Lock()
	if p.canceled {
		c.mu.Unlock()
		return
	}
	if c.pending == p {
		c.pending = nil
	}
	c.mu.Unlock()
	c.events.fireClick(p.info)
}

// KeyDown feeds a key press. Escape cancels an in-flight rotation,
// leaving whatever was already dispatched.
func (c *Controller) KeyDown(key string) {
	if key != KeyEscape {
		return
	}
	c.mu.Lock()
	var emits []func()
	if c.mode == ModeRotating {
		c.rotate = rotateState{}
		c.setMode(ModeIdle, "", &emits)
	}
	c.mu.Unlock()
	c.run(nil, emits)
}

// BeginRotate enters rotation mode for the object, anchored at the
// current cursor. Pointer moves rotate by the angle swept around the
// object's center; pointer-up commits, Escape exits.
func (c *Controller) BeginRotate(objectID string, screen geometry.Point) {
	c.mu.Lock()
	var emits []func()
	s := c.currentStore()
	if s == nil || c.mode != ModeIdle {
		c.mu.Unlock()
		return
	}
	obj := s.Object(objectID)
	if obj == nil || !c.actor.CanMove(obj) {
		c.mu.Unlock()
		return
	}
	core := obj.Core()
	ui := table.IsUIKind(obj.Kind())
	center := core.Bounds().Center()
	c.rotate = rotateState{
		id:            objectID,
		ui:            ui,
		center:        center,
		startAngle:    geometry.AngleDeg(center, worldAt(s.View, screen, ui)),
		startRotation: core.Rotation,
	}
	c.setMode(ModeRotating, objectID, &emits)
	c.mu.Unlock()
	c.run(nil, emits)
}

// BeginHandDrag starts dragging a card out of the acting player's hand.
// The card detaches into the cursor slot immediately and the drag joins
// the standard move and drop path, so hand and table drags resolve
// identically.
func (c *Controller) BeginHandDrag(cardID string, screen geometry.Point) {
	c.mu.Lock()
	var acts []table.Action
	var emits []func()
	s := c.currentStore()
	if s == nil || c.mode != ModeIdle {
		c.mu.Unlock()
		return
	}
	card := s.Card(cardID)
	if card == nil || card.Location != table.LocationHand {
		c.mu.Unlock()
		return
	}
	if card.OwnerID != c.actor.PlayerID && !c.actor.GM {
		c.mu.Unlock()
		return
	}
	acts = append(acts, table.NewTakeToCursor(cardID, c.actor.PlayerID))
	c.drag = dragState{
		id:          cardID,
		kind:        table.KindCard,
		fromHand:    true,
		detached:    true,
		active:      true,
		movable:     true,
		startScreen: screen,
		grabOffset:  geometry.Point{X: card.Width / 2, Y: card.Height / 2},
	}
	c.setMode(ModeDragging, cardID, &emits)
	info := c.dragInfo(s, screen)
	emits = append(emits, func() { c.events.fireDragStart(info) })
	c.mu.Unlock()
	c.run(acts, emits)
}

// dragTo computes the MOVE_OBJECT target for the current cursor: screen
// space while the object is pinned, its layer's world space otherwise.
func (c *Controller) dragTo(cam geometry.Camera, screen geometry.Point) geometry.Point {
	if c.drag.pinned {
		return screen.Sub(c.drag.grabOffset)
	}
	return worldAt(cam, screen, c.drag.ui).Sub(c.drag.grabOffset)
}

func (c *Controller) proposedRect(cam geometry.Camera, screen geometry.Point, obj table.TableObject) geometry.Rect {
	return c.proposedRectFor(cam, screen, obj, c.drag)
}

func (c *Controller) proposedRectFor(cam geometry.Camera, screen geometry.Point, obj table.TableObject, drag dragState) geometry.Rect {
	core := obj.Core()
	pos := worldAt(cam, screen, drag.ui).Sub(drag.grabOffset)
	return geometry.Rect{X: pos.X, Y: pos.Y, Width: core.Width, Height: core.Height}
}

func (c *Controller) dragInfo(s *table.Store, screen geometry.Point) DragInfo {
	return DragInfo{
		ObjectID: c.drag.id,
		Kind:     c.drag.kind,
		Screen:   screen,
		World:    worldAt(s.View, screen, c.drag.ui),
		FromHand: c.drag.fromHand,
	}
}

func (c *Controller) permittedBinding(obj table.TableObject, name string) string {
	if name == "" || !c.actor.CanPerform(name, obj) {
		return ""
	}
	return name
}

func (c *Controller) setMode(to Mode, objectID string, emits *[]func()) {
	if c.mode == to {
		return
	}
	info := ModeInfo{From: c.mode, To: to, ObjectID: objectID}
	c.mode = to
	*emits = append(*emits, func() { c.events.fireMode(info) })
}

func (c *Controller) currentStore() *table.Store {
	if c.snapshot == nil {
		return nil
	}
	return c.snapshot()
}

// run performs the deferred dispatches and event emissions outside the
// lock, dispatches first so observers see committed state.
func (c *Controller) run(acts []table.Action, emits []func()) {
	if c.dispatch != nil {
		for _, a := range acts {
			c.dispatch(a)
		}
	}
	for _, f := range emits {
		f()
	}
}

// worldAt converts a viewport point into the coordinate space of the
// given layer.
func worldAt(cam geometry.Camera, screen geometry.Point, ui bool) geometry.Point {
	if ui {
		return cam.UIViewportToWorld(screen)
	}
	return cam.ViewportToWorld(screen)
}
