package repositories

import (
	"time"

	"warung/internal/models"
)

// OrderFilter selects orders for listing queries. Zero fields are ignored.
type OrderFilter struct {
	CustomerID   string
	RestaurantID string
	States       []models.OrderState
}

// Matches reports whether the order satisfies every set field of the filter.
func (f OrderFilter) Matches(o *models.Order) bool {
	if f.CustomerID != "" && (o.CustomerID == nil || *o.CustomerID != f.CustomerID) {
		return false
	}
	if f.RestaurantID != "" && o.RestaurantID != f.RestaurantID {
		return false
	}
	if len(f.States) > 0 {
		ok := false
		for _, s := range f.States {
			if o.State == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// OrderRepository defines the interface for order data access. Orders are
// never deleted; they leave circulation only through terminal states.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	// UpdateState performs a compare-and-set: the order moves from->to and the
	// timestamp column matching `to` is stamped with `at`, all in one guarded
	// write. Returns apperr.ErrNotFound for a missing order and
	// apperr.ErrInvalidTransition when the stored state no longer equals
	// `from`. Two racing transitions on one order therefore yield exactly one
	// success.
	UpdateState(id string, from, to models.OrderState, at time.Time) (*models.Order, error)
	List(filter OrderFilter) ([]models.Order, error)
}
