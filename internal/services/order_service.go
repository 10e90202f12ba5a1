package services

import (
	"fmt"
	"log"
	"time"

	"warung/internal/apperr"
	"warung/internal/models"
	"warung/internal/permissions"
	"warung/internal/repositories"
)

// EventPublisher publishes order lifecycle events. Satisfied by
// *rabbitmq.Client; a nil publisher disables publishing.
type EventPublisher interface {
	PublishOrderEvent(event string, payload map[string]interface{}) error
}

// CancelOrigin selects which cancellation rule set applies.
type CancelOrigin string

const (
	CancelByCustomer CancelOrigin = "customer"
	CancelByManager  CancelOrigin = "manager"
)

// ListRole selects whose orders a listing covers.
type ListRole string

const (
	RoleCustomer ListRole = "customer"
	RoleManager  ListRole = "manager"
)

// Bucket is a state-based grouping for listings.
type Bucket string

const (
	BucketActive    Bucket = "active"
	BucketCancelled Bucket = "cancelled"
	BucketDelivered Bucket = "delivered"
)

func bucketStates(b Bucket) ([]models.OrderState, error) {
	switch b {
	case BucketActive:
		return []models.OrderState{models.StatePlaced, models.StateAccepted}, nil
	case BucketCancelled:
		return []models.OrderState{models.StateCancelled}, nil
	case BucketDelivered:
		return []models.OrderState{models.StateDelivered}, nil
	default:
		return nil, fmt.Errorf("%w: unknown bucket %q", apperr.ErrValidation, b)
	}
}

// OrderService owns the order lifecycle: placement, the three transitions and
// the role-scoped listings. All state changes go through the store's
// compare-and-set, so two racing transitions on one order yield exactly one
// winner.
type OrderService struct {
	orderRepo      repositories.OrderRepository
	restaurantRepo repositories.RestaurantRepository
	events         EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, restaurantRepo repositories.RestaurantRepository, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		restaurantRepo: restaurantRepo,
		events:         events,
	}
}

// PlaceOrder creates an order in the placed state. All foods must exist and
// belong to one restaurant; timeToDeliver of 0 means "use the default".
func (s *OrderService) PlaceOrder(actor permissions.Actor, foodIDs []string, timeToDeliver int) (*models.Order, error) {
	if err := permissions.CanPlaceOrder(actor); err != nil {
		return nil, err
	}
	if len(foodIDs) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one food", apperr.ErrValidation)
	}
	if timeToDeliver == 0 {
		timeToDeliver = models.DefaultTimeToDeliver
	}
	if timeToDeliver < 1 {
		return nil, fmt.Errorf("%w: time_to_deliver must be at least 1 minute", apperr.ErrValidation)
	}

	foods, err := s.restaurantRepo.GetFoodsByIDs(foodIDs)
	if err != nil {
		return nil, err
	}
	restaurantID := foods[0].RestaurantID
	for _, food := range foods[1:] {
		if food.RestaurantID != restaurantID {
			return nil, fmt.Errorf("%w: foods must belong to a single restaurant", apperr.ErrValidation)
		}
	}

	customerID := actor.ID
	order := &models.Order{
		CustomerID:    &customerID,
		RestaurantID:  restaurantID,
		Foods:         foods,
		State:         models.StatePlaced,
		TimeToDeliver: timeToDeliver,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	s.publishEvent("order.placed", order)
	return order, nil
}

// GetOrder retrieves one order, visible to its customer, its restaurant's
// manager and staff.
func (s *OrderService) GetOrder(actor permissions.Actor, orderID string) (*models.Order, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if permissions.IsCustomerOfOrder(actor, order) || actor.IsStaff {
		return order, nil
	}
	restaurant, err := s.restaurantRepo.GetByManagerID(actor.ID)
	if err != nil {
		return nil, err
	}
	if permissions.IsManagerOfOrder(order, restaurant) {
		return order, nil
	}
	return nil, fmt.Errorf("%w: not your order", apperr.ErrPermissionDenied)
}

// Accept transitions a placed order to accepted, on behalf of the order's
// restaurant manager.
func (s *OrderService) Accept(actor permissions.Actor, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.restaurantRepo.GetByManagerID(actor.ID)
	if err != nil {
		return nil, err
	}
	if err := permissions.CanAccept(actor, order, restaurant); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.UpdateState(orderID, models.StatePlaced, models.StateAccepted, time.Now())
	if err != nil {
		return nil, err
	}
	s.publishEvent("order.accepted", updated)
	return updated, nil
}

// Cancel transitions an order to cancelled. The origin picks the rule set: a
// manager may cancel a placed or accepted order, a customer only a placed one.
func (s *OrderService) Cancel(actor permissions.Actor, orderID string, origin CancelOrigin) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	var from models.OrderState
	switch origin {
	case CancelByCustomer:
		if err := permissions.CanCustomerCancel(actor, order); err != nil {
			return nil, err
		}
		from = models.StatePlaced
	case CancelByManager:
		restaurant, err := s.restaurantRepo.GetByManagerID(actor.ID)
		if err != nil {
			return nil, err
		}
		if err := permissions.CanManagerCancel(actor, order, restaurant); err != nil {
			return nil, err
		}
		// Cancel from whatever non-terminal state we observed; the
		// compare-and-set still decides races.
		from = order.State
		if !models.CanTransition(from, models.StateCancelled) {
			return nil, fmt.Errorf("order %s is %s: %w", orderID, from, apperr.ErrInvalidTransition)
		}
	default:
		return nil, fmt.Errorf("%w: unknown cancel origin %q", apperr.ErrValidation, origin)
	}

	updated, err := s.orderRepo.UpdateState(orderID, from, models.StateCancelled, time.Now())
	if err != nil {
		return nil, err
	}
	s.publishEvent("order.cancelled", updated)
	return updated, nil
}

// ApproveDelivered transitions an accepted order to delivered, attested by
// the order's customer.
func (s *OrderService) ApproveDelivered(actor permissions.Actor, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if err := permissions.CanApproveDelivered(actor, order); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.UpdateState(orderID, models.StateAccepted, models.StateDelivered, time.Now())
	if err != nil {
		return nil, err
	}
	s.publishEvent("order.delivered", updated)
	return updated, nil
}

// ListOrders returns the actor's orders in the given bucket. Customer
// listings are scoped to orders the actor placed; manager listings to orders
// against the actor's restaurant. A manager without a restaurant gets an
// empty listing, not an error.
func (s *OrderService) ListOrders(actor permissions.Actor, role ListRole, bucket Bucket) ([]models.Order, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	states, err := bucketStates(bucket)
	if err != nil {
		return nil, err
	}

	filter := repositories.OrderFilter{States: states}
	switch role {
	case RoleCustomer:
		filter.CustomerID = actor.ID
	case RoleManager:
		restaurant, err := s.restaurantRepo.GetByManagerID(actor.ID)
		if err != nil {
			return nil, err
		}
		if restaurant == nil {
			return []models.Order{}, nil
		}
		filter.RestaurantID = restaurant.ID
	default:
		return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrValidation, role)
	}

	return s.orderRepo.List(filter)
}

func (s *OrderService) publishEvent(event string, order *models.Order) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{
		"order_id":        order.ID,
		"restaurant_id":   order.RestaurantID,
		"state":           order.State.String(),
		"food_ids":        order.FoodIDs(),
		"time_to_deliver": order.TimeToDeliver,
	}
	if order.CustomerID != nil {
		payload["customer_id"] = *order.CustomerID
	}
	if err := s.events.PublishOrderEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", event, order.ID, err)
	}
}
