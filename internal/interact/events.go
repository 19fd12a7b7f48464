// Package interact implements the pointer interaction state machine:
// click against drag disambiguation, single against double click,
// dragging with live drop-target resolution, edge-handle resizing,
// free rotation, and camera panning. The controller owns only
// transient interaction state; every committed change leaves as an
// action through the dispatch function, and all object state is read
// through an explicit snapshot accessor. Consumers subscribe to typed
// events instead of a shared bus, so there is no ambient global
// listener state.
//
// The controller is single-owner: one goroutine feeds it pointer and
// key events. Multi-client consistency is the sync layer's job.
package interact

import (
	"sync"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

// DragInfo describes an in-flight drag.
type DragInfo struct {
	ObjectID string
	Kind     table.Kind
	// Screen is the cursor position; World its table-space equivalent
	// under the live camera.
	Screen geometry.Point
	World  geometry.Point
	// FromHand marks a drag that originated in a player's hand rather
	// than on the table.
	FromHand bool
}

// DropInfo describes a completed drag and where it resolved.
type DropInfo struct {
	DragInfo
	Target DropTarget
}

// HoverInfo reports a change of the drop candidate under the cursor
// while a card drag is in flight.
type HoverInfo struct {
	ObjectID string
	Target   DropTarget
}

// ClickInfo describes a settled click. Binding carries the object's
// bound action name when the actor is permitted to run it, empty
// otherwise.
type ClickInfo struct {
	ObjectID string
	Binding  string
	Double   bool
	Screen   geometry.Point
}

// ModeInfo reports a state-machine transition.
type ModeInfo struct {
	From, To Mode
	ObjectID string
}

type eventKind int

const (
	eventDragStart eventKind = iota
	eventDragMove
	eventDrop
	eventHover
	eventClick
	eventMode
)

type dragHandler struct {
	id uint32
	fn func(DragInfo)
}

type dropHandler struct {
	id uint32
	fn func(DropInfo)
}

type hoverHandler struct {
	id uint32
	fn func(HoverInfo)
}

type clickHandler struct {
	id uint32
	fn func(ClickInfo)
}

type modeHandler struct {
	id uint32
	fn func(ModeInfo)
}

// Registry holds the typed subscriber lists of one controller. Any
// view can react to any interaction by subscribing; delivery is
// synchronous on the goroutine that produced the event. Most events
// come from the controller's owner goroutine, but a delayed
// single-click settles on the timer goroutine, so the lists are
// mutex-guarded. Handlers run outside the lock and may subscribe or
// remove reentrantly.
type Registry struct {
	mu        sync.Mutex
	dragStart []dragHandler
	dragMove  []dragHandler
	drop      []dropHandler
	hover     []hoverHandler
	click     []clickHandler
	mode      []modeHandler
	nextID    uint32
}

// Subscription identifies one registered callback.
type Subscription struct {
	id   uint32
	reg  *Registry
	kind eventKind
}

// Remove unregisters the callback so it no longer fires.
func (s Subscription) Remove() {
	if s.reg == nil {
		return
	}
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	switch s.kind {
	case eventDragStart:
		s.reg.dragStart = removeDragHandler(s.reg.dragStart, s.id)
	case eventDragMove:
		s.reg.dragMove = removeDragHandler(s.reg.dragMove, s.id)
	case eventDrop:
		for i := range s.reg.drop {
			if s.reg.drop[i].id == s.id {
				s.reg.drop = append(s.reg.drop[:i], s.reg.drop[i+1:]...)
				break
			}
		}
	case eventHover:
		for i := range s.reg.hover {
			if s.reg.hover[i].id == s.id {
				s.reg.hover = append(s.reg.hover[:i], s.reg.hover[i+1:]...)
				break
			}
		}
	case eventClick:
		for i := range s.reg.click {
			if s.reg.click[i].id == s.id {
				s.reg.click = append(s.reg.click[:i], s.reg.click[i+1:]...)
				break
			}
		}
	case eventMode:
		for i := range s.reg.mode {
			if s.reg.mode[i].id == s.id {
				s.reg.mode = append(s.reg.mode[:i], s.reg.mode[i+1:]...)
				break
			}
		}
	}
}

func removeDragHandler(s []dragHandler, id uint32) []dragHandler {
	for i := range s {
		if s[i].id == id {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func (r *Registry) take() uint32 {
	r.nextID++
	return r.nextID
}

// OnDragStart registers a callback fired when a drag passes the click
// threshold (or a hand drag begins).
func (r *Registry) OnDragStart(fn func(DragInfo)) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.take()
	r.dragStart = append(r.dragStart, dragHandler{id: id, fn: fn})
	return Subscription{id: id, reg: r, kind: eventDragStart}
}

// OnDragMove registers a callback fired on every pointer move of an
// active drag.
func (r *Registry) OnDragMove(fn func(DragInfo)) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.take()
	r.dragMove = append(r.dragMove, dragHandler{id: id, fn: fn})
	return Subscription{id: id, reg: r, kind: eventDragMove}
}

// OnDrop registers a callback fired when a drag resolves.
func (r *Registry) OnDrop(fn func(DropInfo)) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.take()
	r.drop = append(r.drop, dropHandler{id: id, fn: fn})
	return Subscription{id: id, reg: r, kind: eventDrop}
}

// OnHoverChange registers a callback fired when the drop candidate
// under a dragged card changes.
func (r *Registry) OnHoverChange(fn func(HoverInfo)) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.take()
	r.hover = append(r.hover, hoverHandler{id: id, fn: fn})
	return Subscription{id: id, reg: r, kind: eventHover}
}

// OnClick registers a callback fired for settled single and double
// clicks.
func (r *Registry) OnClick(fn func(ClickInfo)) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.take()
	r.click = append(r.click, clickHandler{id: id, fn: fn})
	return Subscription{id: id, reg: r, kind: eventClick}
}

// OnModeChange registers a callback fired on state transitions.
func (r *Registry) OnModeChange(fn func(ModeInfo)) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.take()
	r.mode = append(r.mode, modeHandler{id: id, fn: fn})
	return Subscription{id: id, reg: r, kind: eventMode}
}

func (r *Registry) fireDragStart(info DragInfo) {
	r.mu.Lock()
	hs := append([]dragHandler(nil), r.dragStart...)
	r.mu.Unlock()
	for _, h := range hs {
		h.fn(info)
	}
}

func (r *Registry) fireDragMove(info DragInfo) {
	r.mu.Lock()
	hs := append([]dragHandler(nil), r.dragMove...)
	r.mu.Unlock()
	for _, h := range hs {
		h.fn(info)
	}
}

func (r *Registry) fireDrop(info DropInfo) {
	r.mu.Lock()
	hs := append([]dropHandler(nil), r.drop...)
	r.mu.Unlock()
	for _, h := range hs {
		h.fn(info)
	}
}

func (r *Registry) fireHover(info HoverInfo) {
	r.mu.Lock()
	hs := append([]hoverHandler(nil), r.hover...)
	r.mu.Unlock()
	for _, h := range hs {
		h.fn(info)
	}
}

func (r *Registry) fireClick(info ClickInfo) {
	r.mu.Lock()
	hs := append([]clickHandler(nil), r.click...)
	r.mu.Unlock()
	for _, h := range hs {
		h.fn(info)
	}
}

func (r *Registry) fireMode(info ModeInfo) {
	r.mu.Lock()
	hs := append([]modeHandler(nil), r.mode...)
	r.mu.Unlock()
	for _, h := range hs {
		h.fn(info)
	}
}
