// Package service provides application-level services for decks and users.
//
// Services orchestrate the store, file storage, text extraction and
// flashcard generation adapters. They return sentinel errors for expected
// conditions (validation failures, missing entities) and wrap everything else
// in a *ServiceError so that the API layer can map errors to status codes
// with errors.Is and errors.As.
package service
