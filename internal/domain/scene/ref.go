// Package scene holds the scene composition data model: scene references,
// groups of scenes and the collections that bundle them.
package scene

// Ref identifies a loadable scene by name.
// The zero value is the unassigned slot and is never a valid target.
type Ref string

// IsEmpty reports whether the reference is unassigned
func (r Ref) IsEmpty() bool {
	return r == ""
}

// String returns the scene name
func (r Ref) String() string {
	return string(r)
}

// Refs converts scene names into references
func Refs(names ...string) []Ref {
	refs := make([]Ref, len(names))
	for i, n := range names {
		refs[i] = Ref(n)
	}
	return refs
}

// ContainsRef reports whether ref appears in refs
func ContainsRef(refs []Ref, ref Ref) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
