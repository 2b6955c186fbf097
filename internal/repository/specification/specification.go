package specification

import "gorm.io/gorm"

// Specification narrows a gorm query. Repositories accept any number of
// them so services can compose filters, paging and ordering per call.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Chain applies specs in order. Nil entries are skipped so callers can
// build optional filters inline.
func Chain(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, spec := range specs {
		if spec == nil {
			continue
		}
		db = spec.Apply(db)
	}
	return db
}
