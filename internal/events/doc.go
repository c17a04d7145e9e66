// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and handler interfaces that allow for loose
// coupling between components in the system. Services can emit events without
// knowing which handlers will process them, enabling better separation of
// concerns and reducing circular dependencies.
//
// Two kinds of events flow through the emitter: job-request events emitted by
// the service layer when a contact creation is admitted, and terminal signals
// (contact created / creation failed) emitted by the job pipeline for
// observability and testing.
package events
