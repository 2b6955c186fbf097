package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

// RepositoryFactory hands each service call its own UnitOfWork.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

type gormRepositoryFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &gormRepositoryFactory{db: db}
}

// NewUnitOfWork does not bind ctx; repositories take it per call and Begin
// takes it for the transaction.
func (f *gormRepositoryFactory) NewUnitOfWork(_ context.Context) UnitOfWork {
	return NewUnitOfWork(f.db)
}
