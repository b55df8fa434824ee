package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/thereayou/relyexchange/internal/services"
)

const uniqueViolation = "23505"

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// translate maps driver errors onto the sentinels services understand.
func translate(err error) error {
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", services.ErrDuplicate, err)
	}
	return err
}
