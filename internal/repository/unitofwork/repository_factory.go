package unitofwork

import "context"

// RepositoryFactory hands each request its own UnitOfWork. Services never
// share one across goroutines.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
