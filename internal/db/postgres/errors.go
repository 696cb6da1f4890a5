package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Postgres error codes the repositories translate
const (
	pqInvalidTextRepresentation = "22P02"
	pqForeignKeyViolation       = "23503"
)

// translateError maps malformed-id and missing-reference failures to notFound,
// keeping the driver error in the chain. Other errors pass through.
func translateError(err error, notFound error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqInvalidTextRepresentation, pqForeignKeyViolation:
		return fmt.Errorf("%w: %w", notFound, err)
	default:
		return err
	}
}
