// Package db wires the PostgreSQL connection, the repositories built on it,
// and the schema migrations applied at startup.
package db

import (
	"context"

	"github.com/dmitrijs2005/photoshare/internal/server/repositories/photos"
)

// RepositoryManager owns the database handle and hands out repositories
// bound to it.
type RepositoryManager interface {
	Photos() photos.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
