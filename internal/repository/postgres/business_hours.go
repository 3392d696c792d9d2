package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/salon-booking/internal/model"
)

func (r *businessHoursRepository) List(ctx context.Context) ([]model.DayHours, error) {
	query := `
		SELECT day_of_week, open_time, close_time, is_closed
		FROM business_hours
		ORDER BY day_of_week ASC
	`
	start := time.Now()
	var hours []model.DayHours
	err := r.db.SelectContext(ctx, &hours, query)
	r.metrics.ObserveDB("business_hours.list", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list business hours: %w", err)
	}
	return hours, nil
}
