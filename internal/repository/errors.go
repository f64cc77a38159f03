package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrReferenced        = errors.New("record is referenced by other records")
	ErrStaleState        = errors.New("record changed concurrently")
	ErrInsufficientPoint = errors.New("insufficient loyalty points")
	ErrInsufficientStock = errors.New("insufficient ingredient stock")
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// translate maps driver and gorm errors onto the package sentinels. The
// original error stays in the chain.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return errors.Join(ErrReferenced, err)
		case pgUniqueViolation:
			return errors.Join(ErrDuplicate, err)
		}
	}
	return err
}
