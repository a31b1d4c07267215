package ecs

import "github.com/rotisserie/eris"

var (
	// ErrResourceNotFound is raised when a required resource was never registered.
	ErrResourceNotFound = eris.New("resource not found")

	// ErrComponentNotFound is raised when a required component is missing on an entity.
	ErrComponentNotFound = eris.New("component not found")

	// ErrInvalidComponent is raised for values that cannot be stored as components.
	ErrInvalidComponent = eris.New("invalid component")

	// ErrStaleHandle is returned when a handle no longer refers to a live entity.
	ErrStaleHandle = eris.New("stale or unknown entity handle")

	// ErrEntityOwned is raised when an entity is inserted into an arena twice.
	ErrEntityOwned = eris.New("entity already belongs to an arena")

	// ErrInvalidUpdateKey is raised when an update unit is registered without a key.
	ErrInvalidUpdateKey = eris.New("update units require a non-zero update key")

	// ErrSchedulerSealed is raised when systems are registered after the first phase run.
	ErrSchedulerSealed = eris.New("systems cannot be registered after the first phase run")
)
