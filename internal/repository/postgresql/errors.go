package postgresql

import (
	"errors"

	"github.com/cmlabs-hris/leave-ledger/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const invalidTextRepresentation = "22P02"

// notFound reports whether err means the row does not exist. A malformed
// uuid cannot match any row, so it counts too.
func notFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}

// translate maps a missing row to sentinel and classifies the rest.
func translate(err error, sentinel error) error {
	if err == nil {
		return nil
	}
	if notFound(err) {
		return sentinel
	}
	return database.Classify(err)
}
