package service

import (
	"database/sql"

	"github.com/teagan-pado/contacts-application/internal/store"
)

// ContactRepositoryAdapter adapts a store.ContactStore to the service-level
// ContactRepository interface, adding access to the underlying database
// connection so the service can open transactions.
type ContactRepositoryAdapter struct {
	store.ContactStore
	db *sql.DB
}

// NewContactRepositoryAdapter creates a new adapter that implements
// ContactRepository by delegating to a store.ContactStore implementation
func NewContactRepositoryAdapter(
	contactStore store.ContactStore,
	db *sql.DB,
) *ContactRepositoryAdapter {
	return &ContactRepositoryAdapter{
		ContactStore: contactStore,
		db:           db,
	}
}

// WithTx returns a new adapter whose store operations run in the transaction
func (a *ContactRepositoryAdapter) WithTx(tx *sql.Tx) ContactRepository {
	return &ContactRepositoryAdapter{
		ContactStore: a.ContactStore.WithTx(tx),
		db:           a.db,
	}
}

// DB returns the underlying database connection
func (a *ContactRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// Ensure ContactRepositoryAdapter implements ContactRepository
var _ ContactRepository = (*ContactRepositoryAdapter)(nil)
