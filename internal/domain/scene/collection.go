package scene

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned by index based accessors
var ErrIndexOutOfRange = errors.New("index out of range")

// Collection bundles scene groups with the scenes that stay loaded
// across every group of the collection.
type Collection struct {
	Name            string
	PermanentScenes []Ref
	Groups          []Group
}

// GroupCount returns the number of group slots, assigned or not
func (c *Collection) GroupCount() int {
	return len(c.Groups)
}

// SceneByIndex returns the active scene of the group at index i
func (c *Collection) SceneByIndex(i int) (Ref, error) {
	if i < 0 || i >= len(c.Groups) {
		return "", fmt.Errorf("collection %q group %d of %d: %w", c.Name, i, len(c.Groups), ErrIndexOutOfRange)
	}
	return c.Groups[i].ActiveScene, nil
}

// Validate keeps the first group for each active scene, clears later
// collisions and validates the groups that remain. Unassigned groups are
// skipped.
func (c *Collection) Validate() []Warning {
	var warnings []Warning
	seen := make(map[Ref]struct{}, len(c.Groups))
	for i := range c.Groups {
		if !c.Groups[i].IsAssigned() {
			continue
		}

		key := c.Groups[i].ActiveSceneKey()
		if _, dup := seen[key]; dup {
			c.Groups[i] = Group{}
			warnings = append(warnings, Warning{Kind: WarnDuplicateGroup, Scene: key})
			continue
		}

		warnings = append(warnings, c.Groups[i].Validate()...)
		seen[key] = struct{}{}
	}
	return warnings
}
