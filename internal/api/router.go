package api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the deck and user endpoints on r. The caller decides
// the prefix (the server mounts them under /api).
func RegisterRoutes(r chi.Router, decks *DeckHandler, users *UserHandler) {
	r.Route("/decks", func(r chi.Router) {
		r.Get("/", decks.ListDecks)
		r.Post("/", decks.CreateDeck)
		r.Get("/{id}", decks.GetDeck)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.ListUsers)
		r.Post("/", users.CreateUser)
		r.Get("/{id}", users.GetUser)
	})
}
