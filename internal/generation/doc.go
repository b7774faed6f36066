// Package generation provides the boundary between the deck pipeline and
// external AI/LLM services used for content generation. It defines the
// Generator interface, the Result returned by a generation attempt, and the
// fixed fallback flashcards used whenever generation yields nothing usable.
// The Gemini implementation lives in internal/platform/gemini.
package generation
