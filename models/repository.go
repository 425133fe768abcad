package models

import (
	"github.com/sirupsen/logrus"
	"github.com/takabooks/shops_backend/config"
)

// Repository exposes the domain operations over shops, products, sales,
// users and activities. It owns no state beyond its injected dependencies.
type Repository struct {
	store  *EntityStore
	logger *logrus.Logger
}

func NewRepository(store *EntityStore) *Repository {
	return &Repository{
		store:  store,
		logger: config.GetLogger(),
	}
}

// Store exposes the underlying entity store for read-side callers
// (reports, maintenance CLIs).
func (r *Repository) Store() *EntityStore {
	return r.store
}
