package table

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Checksum computes a deterministic digest of the shared table state.
// Two stores that went through the same action sequence produce the
// same digest on every peer, so clients can compare digests after an
// action burst to detect replication divergence.
//
// The view transform is excluded: cameras are per-client. For pinned
// objects the stored screen position is hashed instead of the derived
// world position, since the latter legitimately differs between peers
// with different cameras.
func Checksum(s *Store) string {
	var b strings.Builder

	ids := make([]string, 0, len(s.Objects))
	for id := range s.Objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		writeObjectRepr(&b, s.Objects[id])
	}

	for _, p := range s.Players {
		fmt.Fprintf(&b, "player|%s|%s|%t\n", p.ID, p.Name, p.GM)
	}
	fmt.Fprintf(&b, "active|%s\n", s.ActivePlayerID)
	for _, r := range s.DiceLog {
		fmt.Fprintf(&b, "roll|%s|%s|%d|%d\n", r.DiceID, r.PlayerID, r.Sides, r.Value)
	}

	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func f2s(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeObjectRepr(b *strings.Builder, obj TableObject) {
	core := obj.Core()
	fmt.Fprintf(b, "%s|%s|%s", obj.Kind(), core.ID, core.Name)
	if core.PinnedScreenPos != nil {
		fmt.Fprintf(b, "|pin:%s,%s", f2s(core.PinnedScreenPos.X), f2s(core.PinnedScreenPos.Y))
	} else {
		fmt.Fprintf(b, "|pos:%s,%s", f2s(core.Position.X), f2s(core.Position.Y))
	}
	fmt.Fprintf(b, "|%s,%s|rot:%s|z:%d|lock:%t|table:%t|own:%s",
		f2s(core.Width), f2s(core.Height), f2s(core.Rotation),
		core.Z, core.Locked, core.OnTable, core.OwnerID)

	switch v := obj.(type) {
	case *Card:
		fmt.Fprintf(b, "|face:%t|deck:%s|loc:%s|hidden:%t", v.FaceUp, v.DeckID, v.Location, v.Hidden)
	case *Deck:
		fmt.Fprintf(b, "|cards:%s|base:%s|cw:%s|ch:%s",
			strings.Join(v.CardIDs, ","), strings.Join(v.BaseCardIDs, ","),
			f2s(v.CardWidth), f2s(v.CardHeight))
		for _, p := range v.Piles {
			fmt.Fprintf(b, "|pile:%s,%s,%s,%s,%t,%t,%t[%s]",
				p.ID, p.Position, f2s(p.Size), p.Name,
				p.FaceUp, p.Visible, p.IsMill, strings.Join(p.CardIDs, ","))
		}
	case *Token:
		fmt.Fprintf(b, "|shape:%s", v.Shape)
	case *Board:
		fmt.Fprintf(b, "|shape:%s|grid:%s,%s|snap:%t", v.Shape, v.Grid.Type, f2s(v.Grid.Size), v.Snap)
	case *Dice:
		fmt.Fprintf(b, "|sides:%d|value:%d", v.Sides, v.Value)
	case *Counter:
		fmt.Fprintf(b, "|value:%d", v.Value)
	case *Panel:
		fmt.Fprintf(b, "|min:%t", v.Minimized)
	case *Window:
		fmt.Fprintf(b, "|min:%t|exp:%s,%s|col:%s,%s", v.Minimized,
			f2s(v.ExpandedPos.X), f2s(v.ExpandedPos.Y),
			f2s(v.MinimizedPos.X), f2s(v.MinimizedPos.Y))
	}
	b.WriteByte('\n')
}
