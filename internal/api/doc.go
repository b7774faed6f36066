// Package api implements the HTTP handlers for the decks and users REST
// endpoints. Handlers decode and validate requests, call the service layer,
// and translate service errors into status codes and safe client messages.
package api
