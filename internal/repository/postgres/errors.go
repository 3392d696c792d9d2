package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/jwalitptl/salon-booking/internal/repository"
)

const codeExclusionViolation pq.ErrorCode = "23P01"

// translate maps driver errors onto repository sentinels. Only the
// bookings_no_overlap exclusion constraint means a slot is taken; other
// driver errors, serialization failures included, are passed through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == codeExclusionViolation {
			return repository.ErrSlotTaken
		}
	}
	return err
}
