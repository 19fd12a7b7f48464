package table

import (
	"time"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
)

// ActionType discriminates the action union. The set is closed; the
// reducer treats anything else as a no-op returning the same state.
type ActionType string

const (
	ActionAddObject         ActionType = "ADD_OBJECT"
	ActionUpdateObject      ActionType = "UPDATE_OBJECT"
	ActionMoveObject        ActionType = "MOVE_OBJECT"
	ActionDeleteObject      ActionType = "DELETE_OBJECT"
	ActionCloneObject       ActionType = "CLONE_OBJECT"
	ActionLockObject        ActionType = "LOCK_OBJECT"
	ActionUnlockObject      ActionType = "UNLOCK_OBJECT"
	ActionDraw              ActionType = "DRAW"
	ActionShuffleDeck       ActionType = "SHUFFLE_DECK"
	ActionFlipCard          ActionType = "FLIP_CARD"
	ActionReturnToDeck      ActionType = "RETURN_TO_DECK"
	ActionAddCardToPile     ActionType = "ADD_CARD_TO_PILE"
	ActionAddCardToTop      ActionType = "ADD_CARD_TO_TOP_OF_DECK"
	ActionMillToBottom      ActionType = "MILL_CARD_TO_BOTTOM"
	ActionMillToPile        ActionType = "MILL_CARD_TO_PILE"
	ActionReturnAll         ActionType = "RETURN_ALL"
	ActionResetDeck         ActionType = "RESET_DECK"
	ActionPlayCard          ActionType = "PLAY_CARD"
	ActionTakeToCursor      ActionType = "TAKE_TO_CURSOR"
	ActionAddPile           ActionType = "ADD_PILE"
	ActionUpdatePile        ActionType = "UPDATE_PILE"
	ActionDeletePile        ActionType = "DELETE_PILE"
	ActionPinToViewport     ActionType = "PIN_TO_VIEWPORT"
	ActionUnpinFromViewport ActionType = "UNPIN_FROM_VIEWPORT"
	ActionSetView           ActionType = "SET_VIEW"
	ActionLayerUp           ActionType = "LAYER_UP"
	ActionLayerDown         ActionType = "LAYER_DOWN"
	ActionRollDice          ActionType = "ROLL_DICE"
	ActionAdjustCounter     ActionType = "ADJUST_COUNTER"
	ActionSetWindowState    ActionType = "SET_WINDOW_STATE"
	ActionAddPlayer         ActionType = "ADD_PLAYER"
	ActionRemovePlayer      ActionType = "REMOVE_PLAYER"
	ActionSetActivePlayer   ActionType = "SET_ACTIVE_PLAYER"
	ActionAdvanceTurn       ActionType = "ADVANCE_TURN"
)

// ObjectPatch is the shallow-merge payload of UPDATE_OBJECT. Nil fields
// are left untouched; kind-specific fields applied to an object of the
// wrong kind are ignored.
type ObjectPatch struct {
	Name              *string            `json:"name,omitempty"`
	Position          *geometry.Point    `json:"position,omitempty"`
	Width             *float64           `json:"width,omitempty"`
	Height            *float64           `json:"height,omitempty"`
	Rotation          *float64           `json:"rotation,omitempty"`
	Z                 *int               `json:"z,omitempty"`
	Locked            *bool              `json:"locked,omitempty"`
	OnTable           *bool              `json:"onTable,omitempty"`
	OwnerID           *string            `json:"ownerId,omitempty"`
	ClickAction       *string            `json:"clickAction,omitempty"`
	DoubleClickAction *string            `json:"doubleClickAction,omitempty"`
	FaceUp            *bool              `json:"faceUp,omitempty"`
	Hidden            *bool              `json:"hidden,omitempty"`
	Shape             *string            `json:"shape,omitempty"`
	CardWidth         *float64           `json:"cardWidth,omitempty"`
	CardHeight        *float64           `json:"cardHeight,omitempty"`
	Sides             *int               `json:"sides,omitempty"`
	Value             *int               `json:"value,omitempty"`
	Grid              *geometry.GridSpec `json:"grid,omitempty"`
	Snap              *bool              `json:"snap,omitempty"`
	Minimized         *bool              `json:"minimized,omitempty"`
}

// PilePatch is the shallow-merge payload of UPDATE_PILE.
type PilePatch struct {
	Name     *string         `json:"name,omitempty"`
	Position *PilePosition   `json:"position,omitempty"`
	Size     *float64        `json:"size,omitempty"`
	FaceUp   *bool           `json:"faceUp,omitempty"`
	Visible  *bool           `json:"visible,omitempty"`
	Free     *geometry.Point `json:"free,omitempty"`
	IsMill   *bool           `json:"isMill,omitempty"`
	Locked   *bool           `json:"locked,omitempty"`
}

// Action is one entry of the replicated action stream: the wire
// contract between the interaction controller, the reducer, and every
// peer. It is a flat record discriminated by Type; each type reads the
// subset of fields its payload needs and ignores the rest. Randomized
// operations (shuffle, dice) carry an explicit Seed so the reducer
// stays deterministic and every peer derives the identical result.
type Action struct {
	Type ActionType `json:"type"`

	// ID addresses the primary subject: the object for object ops, the
	// card for card ops, the deck for deck ops.
	ID string `json:"id,omitempty"`

	// DeckID addresses the destination or owning deck of card and pile
	// operations.
	DeckID string `json:"deckId,omitempty"`

	PileID   string `json:"pileId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`

	// NewID carries the producer-generated id for CLONE_OBJECT.
	NewID string `json:"newId,omitempty"`

	Object    *ObjectEnvelope `json:"object,omitempty"`
	Patch     *ObjectPatch    `json:"patch,omitempty"`
	Pile      *Pile           `json:"pile,omitempty"`
	PilePatch *PilePatch      `json:"pilePatch,omitempty"`
	Player    *Player         `json:"player,omitempty"`

	To   *geometry.Point  `json:"to,omitempty"`
	View *geometry.Camera `json:"view,omitempty"`

	// Camera is the acting client's live view for pin and unpin, so
	// peers with different local views still derive the same result.
	Camera *geometry.Camera `json:"camera,omitempty"`

	Count     int   `json:"count,omitempty"`
	Delta     int   `json:"delta,omitempty"`
	Seed      int64 `json:"seed,omitempty"`
	Minimized bool  `json:"minimized,omitempty"`

	// At is the producer-side timestamp for log-carrying operations
	// (dice rolls); the reducer never reads the wall clock itself.
	At time.Time `json:"at,omitempty"`
}

// NewAddObject wraps an object into an ADD_OBJECT action.
func NewAddObject(obj TableObject) Action {
	return Action{Type: ActionAddObject, Object: &ObjectEnvelope{Object: obj}}
}

// NewUpdateObject builds an UPDATE_OBJECT action.
func NewUpdateObject(id string, patch ObjectPatch) Action {
	return Action{Type: ActionUpdateObject, ID: id, Patch: &patch}
}

// NewMoveObject builds a MOVE_OBJECT action.
func NewMoveObject(id string, to geometry.Point) Action {
	return Action{Type: ActionMoveObject, ID: id, To: &to}
}

// NewDeleteObject builds a DELETE_OBJECT action.
func NewDeleteObject(id string) Action {
	return Action{Type: ActionDeleteObject, ID: id}
}

// NewCloneObject builds a CLONE_OBJECT action. newID must be fresh;
// card ids of a cloned deck are derived from it deterministically.
func NewCloneObject(id, newID string) Action {
	return Action{Type: ActionCloneObject, ID: id, NewID: newID}
}

// NewDraw builds a DRAW action.
func NewDraw(deckID, playerID string, count int) Action {
	return Action{Type: ActionDraw, ID: deckID, PlayerID: playerID, Count: count}
}

// NewShuffleDeck builds a SHUFFLE_DECK action with the given seed.
func NewShuffleDeck(deckID string, seed int64) Action {
	return Action{Type: ActionShuffleDeck, ID: deckID, Seed: seed}
}

// NewFlipCard builds a FLIP_CARD action.
func NewFlipCard(cardID string) Action {
	return Action{Type: ActionFlipCard, ID: cardID}
}

// NewPlayCard builds a PLAY_CARD action placing the card at a world
// point.
func NewPlayCard(cardID string, to geometry.Point) Action {
	return Action{Type: ActionPlayCard, ID: cardID, To: &to}
}

// NewTakeToCursor builds a TAKE_TO_CURSOR action detaching the card
// into the acting player's cursor slot.
func NewTakeToCursor(cardID, playerID string) Action {
	return Action{Type: ActionTakeToCursor, ID: cardID, PlayerID: playerID}
}

// NewAddCardToPile builds an ADD_CARD_TO_PILE action.
func NewAddCardToPile(cardID, deckID, pileID string) Action {
	return Action{Type: ActionAddCardToPile, ID: cardID, DeckID: deckID, PileID: pileID}
}

// NewAddCardToTop builds an ADD_CARD_TO_TOP_OF_DECK action.
func NewAddCardToTop(cardID, deckID string) Action {
	return Action{Type: ActionAddCardToTop, ID: cardID, DeckID: deckID}
}

// NewSetView builds a SET_VIEW action carrying the new camera.
func NewSetView(view geometry.Camera) Action {
	return Action{Type: ActionSetView, View: &view}
}

// NewPin builds a PIN_TO_VIEWPORT action capturing the acting client's
// camera.
func NewPin(id string, cam geometry.Camera) Action {
	return Action{Type: ActionPinToViewport, ID: id, Camera: &cam}
}

// NewUnpin builds an UNPIN_FROM_VIEWPORT action capturing the acting
// client's camera.
func NewUnpin(id string, cam geometry.Camera) Action {
	return Action{Type: ActionUnpinFromViewport, ID: id, Camera: &cam}
}

// NewRollDice builds a ROLL_DICE action with the given seed and
// producer timestamp.
func NewRollDice(diceID, playerID string, seed int64, at time.Time) Action {
	return Action{Type: ActionRollDice, ID: diceID, PlayerID: playerID, Seed: seed, At: at}
}

// IsClientLocal reports whether an action type mutates only per-client
// state and must never be forwarded to peers. SET_VIEW is the sole such
// type: every client owns its camera, and pin and unpin carry the
// acting camera explicitly instead.
func IsClientLocal(t ActionType) bool {
	return t == ActionSetView
}
