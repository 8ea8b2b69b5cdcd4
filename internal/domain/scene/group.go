package scene

// Group is an ordered list of scenes loaded together, one of which is
// marked active once loaded.
type Group struct {
	ActiveScene Ref
	Scenes      []Ref
}

// NewGroup creates a group from scene names
func NewGroup(active string, scenes ...string) Group {
	return Group{
		ActiveScene: Ref(active),
		Scenes:      Refs(scenes...),
	}
}

// ActiveSceneKey returns the key groups are indexed by.
// Two groups with the same key are the same group for lookup purposes,
// whatever their scene lists hold.
func (g Group) ActiveSceneKey() Ref {
	return g.ActiveScene
}

// IsAssigned reports whether the group has an active scene
func (g Group) IsAssigned() bool {
	return !g.ActiveScene.IsEmpty()
}

// Contains reports whether the group lists the scene
func (g Group) Contains(ref Ref) bool {
	return ContainsRef(g.Scenes, ref)
}

// Validate makes sure the active scene is listed and clears duplicate
// entries. A nil scene list is left untouched.
func (g *Group) Validate() []Warning {
	if g.Scenes == nil {
		return nil
	}

	if !g.ActiveScene.IsEmpty() && !g.Contains(g.ActiveScene) {
		g.insertActive()
	}

	var warnings []Warning
	seen := make(map[Ref]struct{}, len(g.Scenes))
	for i, s := range g.Scenes {
		if s.IsEmpty() {
			continue
		}
		if _, dup := seen[s]; dup {
			g.Scenes[i] = ""
			warnings = append(warnings, Warning{Kind: WarnDuplicateScene, Scene: s})
			continue
		}
		seen[s] = struct{}{}
	}
	return warnings
}

// insertActive puts the active scene in the first empty slot, or appends it
func (g *Group) insertActive() {
	for i, s := range g.Scenes {
		if s.IsEmpty() {
			g.Scenes[i] = g.ActiveScene
			return
		}
	}
	g.Scenes = append(g.Scenes, g.ActiveScene)
}

// Clone returns a copy that shares no memory with g
func (g Group) Clone() Group {
	out := Group{ActiveScene: g.ActiveScene}
	if g.Scenes != nil {
		out.Scenes = append(make([]Ref, 0, len(g.Scenes)), g.Scenes...)
	}
	return out
}
