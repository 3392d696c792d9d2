package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/salon-booking/internal/model"
)

func (r *serviceRepository) List(ctx context.Context) ([]model.Service, error) {
	query := `
		SELECT id, name, description, price, duration_minutes, created_at
		FROM services
		ORDER BY price ASC, id ASC
	`
	start := time.Now()
	var services []model.Service
	err := r.db.SelectContext(ctx, &services, query)
	r.metrics.ObserveDB("services.list", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
