package catalog

import (
	"fmt"
	"sort"

	"github.com/jwalitptl/salon-booking/internal/model"
)

// Catalog is an immutable snapshot of the offerable services.
type Catalog struct {
	byID    map[string]model.Service
	ordered []model.Service
}

func New(services []model.Service) (*Catalog, error) {
	c := &Catalog{
		byID:    make(map[string]model.Service, len(services)),
		ordered: make([]model.Service, 0, len(services)),
	}

	for _, svc := range services {
		if svc.ID == "" {
			return nil, fmt.Errorf("service %q has no id", svc.Name)
		}
		if _, dup := c.byID[svc.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %q", svc.ID)
		}
		if svc.Price < 0 {
			return nil, fmt.Errorf("service %q has negative price", svc.ID)
		}
		if svc.DurationMinutes <= 0 {
			return nil, fmt.Errorf("service %q must have a positive duration", svc.ID)
		}
		c.byID[svc.ID] = svc
		c.ordered = append(c.ordered, svc)
	}

	sort.SliceStable(c.ordered, func(i, j int) bool {
		return c.ordered[i].Price < c.ordered[j].Price
	})
	return c, nil
}

// Lookup returns a copy of the service so callers cannot mutate the snapshot.
func (c *Catalog) Lookup(id string) (*model.Service, bool) {
	svc, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &svc, true
}

// List returns the services ordered by price.
func (c *Catalog) List() []model.Service {
	out := make([]model.Service, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c *Catalog) Len() int {
	return len(c.ordered)
}

// DefaultServices is the studio's standard menu, used to seed new stores.
func DefaultServices() []model.Service {
	return []model.Service{
		{
			ID:              "1",
			Name:            "Classic Lash Extensions",
			Description:     "Natural-looking enhancement with one extension applied to each natural lash.",
			Price:           95,
			DurationMinutes: 120,
		},
		{
			ID:              "2",
			Name:            "Volume Lash Extensions",
			Description:     "Fuller, more dramatic look using multiple lightweight extensions per natural lash.",
			Price:           140,
			DurationMinutes: 150,
		},
		{
			ID:              "3",
			Name:            "Mega Volume Lash Extensions",
			Description:     "Maximum fullness and drama with ultra-fine extensions in larger fans.",
			Price:           175,
			DurationMinutes: 180,
		},
		{
			ID:              "4",
			Name:            "Lash Fill (2-3 weeks)",
			Description:     "Maintain your lash extensions with a fill appointment every 2-3 weeks.",
			Price:           50,
			DurationMinutes: 90,
		},
	}
}
