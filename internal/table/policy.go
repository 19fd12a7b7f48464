package table

// Actor identifies who is attempting an interaction. Permission checks
// run in the interaction layer before an action is dispatched; the
// reducer itself never authorizes. A denied interaction produces no
// action at all.
type Actor struct {
	PlayerID string
	GM       bool
}

// CanMove reports whether the actor may drag the object. Locks and
// ownership restrict ordinary players; the GM bypasses both.
func (a Actor) CanMove(obj TableObject) bool {
	core := obj.Core()
	if a.GM {
		return true
	}
	if core.Locked {
		return false
	}
	return core.OwnerID == "" || core.OwnerID == a.PlayerID
}

// CanResize follows the same rules as CanMove.
func (a Actor) CanResize(obj TableObject) bool {
	return a.CanMove(obj)
}

// CanPerform reports whether the actor may run a named context action
// on the object. An empty permission set means unrestricted; a
// non-empty set is a whitelist. The GM consults the GM set and ignores
// ownership.
func (a Actor) CanPerform(action string, obj TableObject) bool {
	core := obj.Core()
	if a.GM {
		return allowedBy(core.AllowedActionsGM, action)
	}
	if core.OwnerID != "" && core.OwnerID != a.PlayerID {
		return false
	}
	return allowedBy(core.AllowedActions, action)
}

func allowedBy(set []string, action string) bool {
	if len(set) == 0 {
		return true
	}
	for _, v := range set {
		if v == action {
			return true
		}
	}
	return false
}
