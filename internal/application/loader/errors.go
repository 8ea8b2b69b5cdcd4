package loader

import "errors"

var (
	// ErrNotInitialized is returned by every operation except Initialize
	// until the loader has been initialized.
	ErrNotInitialized = errors.New("scene loader not initialized")

	// ErrNoCollections is returned by Initialize when no collection is configured.
	ErrNoCollections = errors.New("no scene collections configured")

	// ErrAlreadyInitialized reports a second Initialize call. The call
	// changes nothing and callers may ignore it.
	ErrAlreadyInitialized = errors.New("scene loader already initialized")

	// ErrEmptyGroup is returned when a selected collection holds a group
	// without an active scene.
	ErrEmptyGroup = errors.New("scene group has no active scene")

	// ErrMissingGroup is returned when no group of the current collection
	// has the requested active scene.
	ErrMissingGroup = errors.New("no scene group for scene")

	// ErrTransitionInProgress is returned when a transition is requested
	// while another one is running.
	ErrTransitionInProgress = errors.New("scene transition already in progress")
)
