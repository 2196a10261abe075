package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
)

// orderRecord is the persisted display order of projects
type orderRecord struct {
	Order []string `json:"order"`
}

// loadOrder reads the persisted project order. A missing or corrupt file
// yields an empty order; NormalizeOrder rebuilds it from the known projects.
func (w Workspace) loadOrder() []string {
	data, err := os.ReadFile(w.orderPath())
	if err != nil {
		return nil
	}
	var record orderRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil
	}
	return record.Order
}

func (w Workspace) saveOrder(order []string) error {
	data, err := json.MarshalIndent(orderRecord{Order: order}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project order: %w", err)
	}
	if err := os.WriteFile(w.orderPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write project order: %w", err)
	}
	return nil
}

// NormalizeOrder reconciles the persisted project order against the projects
// that actually exist. IDs whose project is gone are dropped, surviving IDs
// keep their relative order, and projects missing from the order are
// appended sorted by creation time. The result is persisted only when it
// differs from what was loaded, so drift from out-of-band creation or
// deletion self-heals on every listing.
func (w Workspace) NormalizeOrder(known map[string]time.Time) ([]string, error) {
	loaded := w.loadOrder()

	order := make([]string, 0, len(known))
	seen := make(map[string]bool, len(known))
	for _, id := range loaded {
		if _, ok := known[id]; ok && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}

	var missing []string
	for id := range known {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	slices.SortFunc(missing, func(a, b string) int {
		if c := known[a].Compare(known[b]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	order = append(order, missing...)

	if !slices.Equal(order, loaded) {
		if err := w.saveOrder(order); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// ReorderProjects persists a caller-supplied display order. IDs that no
// longer exist are dropped, and existing projects omitted from the list are
// appended in their prior order. The result is always persisted.
func (w Workspace) ReorderProjects(newOrder []string, known map[string]time.Time) ([]string, error) {
	current, err := w.NormalizeOrder(known)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, len(known))
	seen := make(map[string]bool, len(known))
	for _, id := range newOrder {
		if _, ok := known[id]; ok && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	for _, id := range current {
		if !seen[id] {
			order = append(order, id)
		}
	}

	if err := w.saveOrder(order); err != nil {
		return nil, err
	}

	return order, nil
}
