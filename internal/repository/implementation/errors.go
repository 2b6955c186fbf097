package implementation

import (
	"errors"

	"mitr-be/internal/repository/specification"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	return specification.Chain(db, specs...)
}
