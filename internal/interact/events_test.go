package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

func TestRegistryFiresAllHandlers(t *testing.T) {
	var reg Registry
	var got []string

	reg.OnDragStart(func(info DragInfo) { got = append(got, "a:"+info.ObjectID) })
	reg.OnDragStart(func(info DragInfo) { got = append(got, "b:"+info.ObjectID) })

	reg.fireDragStart(DragInfo{ObjectID: "tok-1", Kind: table.KindToken})
	assert.Equal(t, []string{"a:tok-1", "b:tok-1"}, got)
}

func TestRegistryRemove(t *testing.T) {
	var reg Registry
	var aFired, bFired int

	subA := reg.OnClick(func(ClickInfo) { aFired++ })
	reg.OnClick(func(ClickInfo) { bFired++ })

	reg.fireClick(ClickInfo{ObjectID: "tok-1"})
	subA.Remove()
	reg.fireClick(ClickInfo{ObjectID: "tok-1"})

	assert.Equal(t, 1, aFired)
	assert.Equal(t, 2, bFired)

	// Removing twice is harmless.
	subA.Remove()
	reg.fireClick(ClickInfo{ObjectID: "tok-1"})
	assert.Equal(t, 3, bFired)
}

func TestRegistryReentrantRemove(t *testing.T) {
	var reg Registry
	var fired int

	var sub Subscription
	sub = reg.OnModeChange(func(ModeInfo) {
		fired++
		sub.Remove()
	})

	reg.fireMode(ModeInfo{From: ModeIdle, To: ModeDragging})
	reg.fireMode(ModeInfo{From: ModeDragging, To: ModeIdle})
	assert.Equal(t, 1, fired)
}

func TestRegistryKindsAreIndependent(t *testing.T) {
	var reg Registry
	var clicks, drops int

	reg.OnClick(func(ClickInfo) { clicks++ })
	reg.OnDrop(func(DropInfo) { drops++ })

	reg.fireDrop(DropInfo{})
	assert.Equal(t, 0, clicks)
	assert.Equal(t, 1, drops)
}

func TestZeroRegistryFireIsSafe(t *testing.T) {
	var reg Registry
	reg.fireHover(HoverInfo{ObjectID: "x"})
	reg.fireDragMove(DragInfo{})
}
