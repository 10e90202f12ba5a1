package repositories

import (
	"fmt"
	"sync"
	"time"

	"warung/internal/apperr"
	"warung/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. The
// mutex makes UpdateState a true compare-and-set, so it exhibits the same
// race behavior as the GORM implementation.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.State == "" {
		order.State = models.StatePlaced
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	return &order, nil
}

// UpdateState performs the compare-and-set transition under the write lock.
func (r *MockOrderRepository) UpdateState(id string, from, to models.OrderState, at time.Time) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	if order.State != from {
		return nil, fmt.Errorf("order %s is %s, not %s: %w", id, order.State, from, apperr.ErrInvalidTransition)
	}

	order.State = to
	order.UpdatedAt = at
	switch to {
	case models.StateAccepted:
		order.AcceptDatetime = &at
	case models.StateCancelled:
		order.CancellDatetime = &at
	case models.StateDelivered:
		order.DeliveredDatetime = &at
	}
	r.orders[id] = order
	return &order, nil
}

// List returns orders matching the filter.
func (r *MockOrderRepository) List(filter OrderFilter) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, order := range r.orders {
		if filter.Matches(&order) {
			orders = append(orders, order)
		}
	}
	return orders, nil
}
