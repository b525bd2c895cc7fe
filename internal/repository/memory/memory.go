// Package memory holds map-backed repositories. They give every single-record
// write the same item-level atomicity a document store offers and nothing more.
package memory

import (
	"unify-backend/internal/repository"
)

func NewStore() *repository.Store {
	return repository.NewStore(
		NewUserRepository(),
		NewChapterRepository(),
		NewChapterHeadRepository(),
		NewRegistrationRepository(),
		NewActivityRepository(),
		nil,
	)
}
