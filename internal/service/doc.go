// Package service provides application-level services for managing cards,
// notes, and users. Services orchestrate domain logic and store operations,
// own transaction boundaries, and translate store errors into service-level
// sentinels for the API layer.
package service
