package scene

import "fmt"

// WarningKind classifies a validation warning
type WarningKind int

const (
	WarnDuplicateScene WarningKind = iota
	WarnDuplicateGroup
)

// String returns the string representation of the warning kind
func (k WarningKind) String() string {
	switch k {
	case WarnDuplicateScene:
		return "DuplicateScene"
	case WarnDuplicateGroup:
		return "DuplicateGroup"
	default:
		return "Unknown"
	}
}

// Warning is a non-fatal authoring problem found during validation.
// The offending slot has already been cleared when a warning is reported.
type Warning struct {
	Kind  WarningKind
	Scene Ref
}

// String returns a designer-facing message
func (w Warning) String() string {
	switch w.Kind {
	case WarnDuplicateScene:
		return fmt.Sprintf("there is already a %s scene added to the list", w.Scene)
	case WarnDuplicateGroup:
		return fmt.Sprintf("there is already a group with %s as active scene", w.Scene)
	default:
		return fmt.Sprintf("unknown warning for scene %s", w.Scene)
	}
}
