package main

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/librisys/library-client/internal/core/domain"
	"github.com/librisys/library-client/internal/devserver"
)

// seed loads a small fixture set so a fresh dev server is immediately
// usable: one admin (admin@librisys.dev / admin-password) and a few books.
func seed(store *devserver.Store, log zerolog.Logger) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin hash")
	}
	admin, err := store.CreateAdmin("Dev Admin", "admin@librisys.dev", string(hash), "", time.Now().UTC())
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	log.Info().Str("email", admin.Email).Msg("seeded admin account (password: admin-password)")

	books := []domain.Book{
		{Title: "The Go Programming Language", Author: "Donovan & Kernighan", Price: 39.99, Quantity: 3},
		{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Price: 44.50, Quantity: 2},
		{Title: "The Pragmatic Programmer", Author: "Hunt & Thomas", Price: 29.95, Quantity: 1},
	}
	for _, b := range books {
		store.AddBook(b)
	}
	log.Info().Int("count", len(books)).Msg("seeded catalog")
}
