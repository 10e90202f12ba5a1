package repositories

import (
	"errors"
	"fmt"
	"time"

	"warung/internal/apperr"
	"warung/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create creates a new order in the database.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.State == "" {
		order.State = models.StatePlaced
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order with its foods from the database.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Foods").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// timestampColumn maps a target state to the column stamped on entering it.
func timestampColumn(to models.OrderState) string {
	switch to {
	case models.StateAccepted:
		return "accept_datetime"
	case models.StateCancelled:
		return "cancell_datetime"
	case models.StateDelivered:
		return "delivered_datetime"
	}
	return ""
}

// UpdateState transitions the order from->to with a conditional UPDATE keyed
// by the expected prior state. A lost race shows up as zero affected rows.
func (r *GORMOrderRepository) UpdateState(id string, from, to models.OrderState, at time.Time) (*models.Order, error) {
	values := map[string]interface{}{
		"state":      to,
		"updated_at": at,
	}
	if col := timestampColumn(to); col != "" {
		values[col] = at
	}

	res := r.db.Model(&models.Order{}).
		Where("id = ? AND state = ?", id, from).
		Updates(values)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update order %s state: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the order does not exist or its state moved under us.
		var current models.Order
		if err := r.db.First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to re-read order %s: %w", id, err)
		}
		return nil, fmt.Errorf("order %s is %s, not %s: %w", id, current.State, from, apperr.ErrInvalidTransition)
	}
	return r.GetByID(id)
}

// List retrieves orders matching the filter, foods included. Iteration order
// is unspecified.
func (r *GORMOrderRepository) List(filter OrderFilter) ([]models.Order, error) {
	q := r.db.Preload("Foods")
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.RestaurantID != "" {
		q = q.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if len(filter.States) > 0 {
		q = q.Where("state IN ?", filter.States)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
