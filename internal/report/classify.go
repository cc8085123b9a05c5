package report

import (
	"slices"
	"strings"

	"canteenbooks/internal/domain"
)

// DefaultRestockingTypes are the expense type ids that mean "money spent on
// inventory" out of the box.
var DefaultRestockingTypes = []string{domain.RestockingTypeID, "INVENTORY_PURCHASE", "STOCK_REPLENISHMENT"}

// Classifier splits expenses into regular operating costs and restocking.
// The split is data: a set of marker type ids.
type Classifier struct {
	markers map[string]struct{}
}

type Class struct {
	IsRestocking bool `json:"isRestocking"`
}

func NewClassifier(markers ...string) Classifier {
	if len(markers) == 0 {
		markers = DefaultRestockingTypes
	}
	c := Classifier{markers: make(map[string]struct{}, len(markers))}
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			c.markers[m] = struct{}{}
		}
	}
	return c
}

func (c Classifier) Classify(e domain.DailyExpense) Class {
	return Class{IsRestocking: c.IsMarker(e.ExpenseTypeID)}
}

func (c Classifier) IsMarker(typeID string) bool {
	if c.markers == nil {
		return slices.Contains(DefaultRestockingTypes, typeID)
	}
	_, ok := c.markers[typeID]
	return ok
}

func (c Classifier) Markers() []string {
	if c.markers == nil {
		return slices.Clone(DefaultRestockingTypes)
	}
	out := make([]string, 0, len(c.markers))
	for m := range c.markers {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}
