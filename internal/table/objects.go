// Package table implements the tabletop object model, the authoritative
// object store, and the pure action reducer that is the only writer of
// that store. Cards, decks, piles, tokens, dice, counters, boards, and
// UI panels are variants of a closed TableObject union; all references
// between them are string ids resolved through the store, never live
// pointers, so snapshots stay cycle-free and replication stays cheap.
package table

import (
	"encoding/json"
	"fmt"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
)

// Kind discriminates the TableObject union.
type Kind string

const (
	KindCard    Kind = "card"
	KindDeck    Kind = "deck"
	KindToken   Kind = "token"
	KindBoard   Kind = "board"
	KindDice    Kind = "dice"
	KindCounter Kind = "counter"
	KindPanel   Kind = "panel"
	KindWindow  Kind = "window"
)

// CardLocation tells where a card currently lives. A card id appears in
// at most one membership structure at a time; Location names which one.
type CardLocation string

const (
	LocationTable  CardLocation = "TABLE"
	LocationDeck   CardLocation = "DECK"
	LocationHand   CardLocation = "HAND"
	LocationPile   CardLocation = "PILE"
	LocationCursor CardLocation = "CURSOR_SLOT"
)

// PilePosition anchors a pile relative to its owning deck.
type PilePosition string

const (
	PileLeft   PilePosition = "left"
	PileRight  PilePosition = "right"
	PileTop    PilePosition = "top"
	PileBottom PilePosition = "bottom"
	PileFree   PilePosition = "free"
)

// maxActionButtons caps the quick-action affordances per object.
const maxActionButtons = 4

// DefaultZ is the z-index objects spawn at.
const DefaultZ = 1000

// ActionButton is a quick-action affordance shown on an object.
type ActionButton struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// ObjectCore carries the fields shared by every TableObject variant.
// Position is world units, top-left anchored; Rotation is degrees
// clockwise in [0,360). PinnedScreenPos is non-nil while the object is
// pinned to the viewport.
type ObjectCore struct {
	ID                string          `json:"id"`
	Name              string          `json:"name,omitempty"`
	Position          geometry.Point  `json:"position"`
	Width             float64         `json:"width"`
	Height            float64         `json:"height"`
	Rotation          float64         `json:"rotation"`
	Z                 int             `json:"z"`
	Locked            bool            `json:"locked,omitempty"`
	OnTable           bool            `json:"onTable"`
	OwnerID           string          `json:"ownerId,omitempty"`
	AllowedActions    []string        `json:"allowedActions,omitempty"`
	AllowedActionsGM  []string        `json:"allowedActionsGM,omitempty"`
	ActionButtons     []ActionButton  `json:"actionButtons,omitempty"`
	ClickAction       string          `json:"clickAction,omitempty"`
	DoubleClickAction string          `json:"doubleClickAction,omitempty"`
	PinnedScreenPos   *geometry.Point `json:"pinnedScreenPos,omitempty"`
}

// Bounds returns the object's world-space bounding rectangle.
func (c *ObjectCore) Bounds() geometry.Rect {
	return geometry.Rect{X: c.Position.X, Y: c.Position.Y, Width: c.Width, Height: c.Height}
}

func (c *ObjectCore) copyCore() ObjectCore {
	out := *c
	out.AllowedActions = append([]string(nil), c.AllowedActions...)
	out.AllowedActionsGM = append([]string(nil), c.AllowedActionsGM...)
	out.ActionButtons = append([]ActionButton(nil), c.ActionButtons...)
	if c.PinnedScreenPos != nil {
		p := *c.PinnedScreenPos
		out.PinnedScreenPos = &p
	}
	return out
}

// TableObject is the closed union of everything that can sit on (or
// float over) the table. Exactly the variant structs in this package
// implement it.
type TableObject interface {
	Kind() Kind
	Core() *ObjectCore
	Copy() TableObject
}

// Card is a single playing card. DeckID points at the deck that owns
// it; Location tells which membership structure currently holds it.
type Card struct {
	ObjectCore
	FaceUp   bool         `json:"faceUp"`
	DeckID   string       `json:"deckId,omitempty"`
	Location CardLocation `json:"location"`
	Hidden   bool         `json:"hidden,omitempty"`
	Shape    string       `json:"shape,omitempty"`
}

func (c *Card) Kind() Kind        { return KindCard }
func (c *Card) Core() *ObjectCore { return &c.ObjectCore }

// Copy returns a deep copy of the card.
func (c *Card) Copy() TableObject {
	out := *c
	out.ObjectCore = c.copyCore()
	return &out
}

// Pile is a named ordered sub-stack embedded in its owning deck. It is
// not a top-level object and has no z-index of its own; its rectangle
// is derived from the deck on every layout pass.
type Pile struct {
	ID       string       `json:"id"`
	Name     string       `json:"name,omitempty"`
	DeckID   string       `json:"deckId"`
	Position PilePosition `json:"position"`
	Size     float64      `json:"size"`
	CardIDs  []string     `json:"cardIds"`
	FaceUp   bool         `json:"faceUp"`
	Visible  bool         `json:"visible"`
	X        float64      `json:"x,omitempty"`
	Y        float64      `json:"y,omitempty"`
	IsMill   bool         `json:"isMill,omitempty"`
	Locked   bool         `json:"locked,omitempty"`
}

// Copy returns a deep copy of the pile.
func (p *Pile) Copy() *Pile {
	out := *p
	out.CardIDs = append([]string(nil), p.CardIDs...)
	return &out
}

// Deck is an ordered stack of cards. CardIDs index 0 is the bottom of
// the physical stack; the last element is the top, which is where draws
// come from. BaseCardIDs snapshots the card set at creation for reset
// and count display.
type Deck struct {
	ObjectCore
	CardIDs     []string `json:"cardIds"`
	BaseCardIDs []string `json:"baseCardIds"`
	CardWidth   float64  `json:"cardWidth"`
	CardHeight  float64  `json:"cardHeight"`
	Piles       []*Pile  `json:"piles,omitempty"`
}

func (d *Deck) Kind() Kind        { return KindDeck }
func (d *Deck) Core() *ObjectCore { return &d.ObjectCore }

// Copy returns a deep copy of the deck including its piles.
func (d *Deck) Copy() TableObject {
	out := *d
	out.ObjectCore = d.copyCore()
	out.CardIDs = append([]string(nil), d.CardIDs...)
	out.BaseCardIDs = append([]string(nil), d.BaseCardIDs...)
	out.Piles = make([]*Pile, 0, len(d.Piles))
	for _, p := range d.Piles {
		out.Piles = append(out.Piles, p.Copy())
	}
	return &out
}

// Pile returns the embedded pile with the given id, or nil.
func (d *Deck) Pile(pileID string) *Pile {
	for _, p := range d.Piles {
		if p.ID == pileID {
			return p
		}
	}
	return nil
}

// MillPile returns the pile marked as the default mill destination.
func (d *Deck) MillPile() *Pile {
	for _, p := range d.Piles {
		if p.IsMill {
			return p
		}
	}
	return nil
}

// Token is a free-form marker on the table.
type Token struct {
	ObjectCore
	Shape string `json:"shape,omitempty"`
}

func (t *Token) Kind() Kind        { return KindToken }
func (t *Token) Core() *ObjectCore { return &t.ObjectCore }

// Copy returns a deep copy of the token.
func (t *Token) Copy() TableObject {
	out := *t
	out.ObjectCore = t.copyCore()
	return &out
}

// Board is a playing surface. Boards sort beneath every other kind and
// may carry a grid that dropped objects snap onto.
type Board struct {
	ObjectCore
	Shape string            `json:"shape,omitempty"`
	Grid  geometry.GridSpec `json:"grid"`
	Snap  bool              `json:"snap,omitempty"`
}

func (b *Board) Kind() Kind        { return KindBoard }
func (b *Board) Core() *ObjectCore { return &b.ObjectCore }

// Copy returns a deep copy of the board.
func (b *Board) Copy() TableObject {
	out := *b
	out.ObjectCore = b.copyCore()
	return &out
}

// Dice is a die with a current face value.
type Dice struct {
	ObjectCore
	Sides int `json:"sides"`
	Value int `json:"value"`
}

func (d *Dice) Kind() Kind        { return KindDice }
func (d *Dice) Core() *ObjectCore { return &d.ObjectCore }

// Copy returns a deep copy of the die.
func (d *Dice) Copy() TableObject {
	out := *d
	out.ObjectCore = d.copyCore()
	return &out
}

// Counter is an integer tally the players adjust.
type Counter struct {
	ObjectCore
	Value int `json:"value"`
}

func (c *Counter) Kind() Kind        { return KindCounter }
func (c *Counter) Core() *ObjectCore { return &c.ObjectCore }

// Copy returns a deep copy of the counter.
func (c *Counter) Copy() TableObject {
	out := *c
	out.ObjectCore = c.copyCore()
	return &out
}

// Panel is a UI-layer object. Its position is interpreted in the
// scroll-free screen layer.
type Panel struct {
	ObjectCore
	Minimized bool `json:"minimized,omitempty"`
}

func (p *Panel) Kind() Kind        { return KindPanel }
func (p *Panel) Core() *ObjectCore { return &p.ObjectCore }

// Copy returns a deep copy of the panel.
func (p *Panel) Copy() TableObject {
	out := *p
	out.ObjectCore = p.copyCore()
	return &out
}

// Window is a UI-layer object that remembers two placements: where it
// sits expanded and where it collapses to when minimized.
type Window struct {
	ObjectCore
	Minimized    bool           `json:"minimized,omitempty"`
	ExpandedPos  geometry.Point `json:"expandedPos"`
	MinimizedPos geometry.Point `json:"minimizedPos"`
}

func (w *Window) Kind() Kind        { return KindWindow }
func (w *Window) Core() *ObjectCore { return &w.ObjectCore }

// Copy returns a deep copy of the window.
func (w *Window) Copy() TableObject {
	out := *w
	out.ObjectCore = w.copyCore()
	return &out
}

// IsUIKind reports whether objects of this kind live in the scroll-free
// UI layer rather than in table space.
func IsUIKind(k Kind) bool {
	return k == KindPanel || k == KindWindow
}

// typePriority orders kinds for z-tie-breaking: boards render and hit
// beneath everything else.
func typePriority(k Kind) int {
	if k == KindBoard {
		return 0
	}
	return 1
}

// ObjectEnvelope wraps a TableObject for JSON and gob transport,
// tagging the payload with its kind so the concrete variant can be
// reconstructed.
type ObjectEnvelope struct {
	Object TableObject
}

type envelopeJSON struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes the wrapped object as {"kind": ..., "data": ...}.
func (e ObjectEnvelope) MarshalJSON() ([]byte, error) {
	if e.Object == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(e.Object)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelopeJSON{Kind: e.Object.Kind(), Data: data})
}

// UnmarshalJSON decodes a tagged object back into its concrete variant.
func (e *ObjectEnvelope) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		e.Object = nil
		return nil
	}
	var env envelopeJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	obj, err := newObjectOfKind(env.Kind)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(env.Data, obj); err != nil {
		return err
	}
	e.Object = obj
	return nil
}

func newObjectOfKind(k Kind) (TableObject, error) {
	switch k {
	case KindCard:
		return &Card{}, nil
	case KindDeck:
		return &Deck{}, nil
	case KindToken:
		return &Token{}, nil
	case KindBoard:
		return &Board{}, nil
	case KindDice:
		return &Dice{}, nil
	case KindCounter:
		return &Counter{}, nil
	case KindPanel:
		return &Panel{}, nil
	case KindWindow:
		return &Window{}, nil
	default:
		return nil, fmt.Errorf("unknown object kind %q", k)
	}
}
