// Package gemini provides an implementation of the generation.Generator
// interface that uses Google's Gemini API for generating flashcards from
// note text.
//
// This package is an infrastructure adapter: it translates between the
// application's domain models and the Gemini API without exposing the
// external service to the core application. It loads the prompt from a
// template file, calls the API with exponential backoff for transient
// errors, and converts the structured JSON response into domain Card
// objects.
package gemini
