package state

import "errors"

// These are façade-level rejections: the intent never reaches transit
// because a precondition transit itself assumes (a loaded or unloaded
// state) doesn't hold. Every other failure mode — unknown approval id,
// unknown clarification id, unknown task id, plan/approval mismatch — is
// encoded inside the returned ProjectState as a phase change plus a
// system discussion entry, per the discriminated-outcome design; it
// never surfaces as a Go error.
var (
	// ErrAlreadyInitialized is returned when create_project is sent but
	// a ProjectState is already loaded.
	ErrAlreadyInitialized = errors.New("state: project already initialized")

	// ErrNotInitialized is returned when any intent other than
	// create_project is sent with no ProjectState loaded.
	ErrNotInitialized = errors.New("state: no project initialized")

	// ErrUnknownIntent is returned for an intent type transit does not
	// recognize. The spec's "unknown intent is a no-op" rule applies to
	// intents transit recognizes the shape of but whose target (a task,
	// approval, etc.) is missing; a wholly unrecognized Type is a
	// programmer error and is rejected outright.
	ErrUnknownIntent = errors.New("state: unknown intent type")
)
