// Package events provides types and interfaces for decoupled task creation.
//
// Services emit task request events without knowing which handlers process
// them. This keeps the note service free of direct dependencies on the task
// runner and avoids circular imports between the two.
//
// The primary components are:
// - TaskRequestEvent: a request to create a background task
// - EventHandler: interface for components that handle events
// - EventEmitter: interface for components that emit events
package events
