// Package api provides HTTP handlers for the API.
//
// Handlers translate between HTTP requests and the service layer: they
// decode and validate request payloads, resolve the authenticated user
// from the request context, call services, and map service errors to
// sanitized HTTP responses. No business logic lives here.
package api
