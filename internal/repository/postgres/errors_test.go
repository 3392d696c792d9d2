package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-booking/internal/repository"
)

func TestTranslate(t *testing.T) {
	other := errors.New("connection refused")

	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(sql.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("insert: %w", &pq.Error{Code: "23P01"})), repository.ErrSlotTaken)
	assert.Equal(t, other, translate(other))

	unique := &pq.Error{Code: "23505"}
	assert.Equal(t, error(unique), translate(unique))
}

func TestTranslateSerializationFailureIsNotSlotTaken(t *testing.T) {
	serialization := &pq.Error{Code: "40001"}

	err := translate(fmt.Errorf("insert: %w", serialization))

	assert.NotErrorIs(t, err, repository.ErrSlotTaken)
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}
