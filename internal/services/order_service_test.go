package services_test

import (
	"errors"
	"sync"
	"testing"

	"warung/internal/apperr"
	"warung/internal/models"
	"warung/internal/permissions"
	"warung/internal/repositories"
	"warung/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(event string, payload map[string]interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

var (
	customer = permissions.Actor{ID: "cust-1", Username: "alice"}
	stranger = permissions.Actor{ID: "cust-2", Username: "carol"}
	manager  = permissions.Actor{ID: "mgr-1", Username: "bob", IsManager: true}
	rival    = permissions.Actor{ID: "mgr-2", Username: "dave", IsManager: true}
	staff    = permissions.Actor{ID: "staff-1", Username: "ops", IsStaff: true}
)

type fixture struct {
	service        *services.OrderService
	orderRepo      *repositories.MockOrderRepository
	restaurantRepo *repositories.MockRestaurantRepository
	rendang        *models.Food
	sate           *models.Food
	pizza          *models.Food
}

// setup seeds two restaurants: rest-1 (manager mgr-1, foods rendang+sate) and
// rest-2 (manager mgr-2, food pizza).
func setup(t *testing.T, events services.EventPublisher) *fixture {
	t.Helper()
	restaurantRepo := repositories.NewMockRestaurantRepository()

	rest1 := &models.Restaurant{ID: "rest-1", ManagerID: "mgr-1", Name: "Warung Makan Sedap"}
	rest2 := &models.Restaurant{ID: "rest-2", ManagerID: "mgr-2", Name: "Pizzeria Roma"}
	assert.NoError(t, restaurantRepo.Create(rest1))
	assert.NoError(t, restaurantRepo.Create(rest2))

	rendang := &models.Food{ID: "food-1", RestaurantID: "rest-1", Name: "Rendang", CurrentPrice: 2500}
	sate := &models.Food{ID: "food-2", RestaurantID: "rest-1", Name: "Sate Ayam", CurrentPrice: 1800}
	pizza := &models.Food{ID: "food-3", RestaurantID: "rest-2", Name: "Margherita", CurrentPrice: 3200}
	assert.NoError(t, restaurantRepo.CreateFood(rendang))
	assert.NoError(t, restaurantRepo.CreateFood(sate))
	assert.NoError(t, restaurantRepo.CreateFood(pizza))

	orderRepo := repositories.NewMockOrderRepository()
	return &fixture{
		service:        services.NewOrderService(orderRepo, restaurantRepo, events),
		orderRepo:      orderRepo,
		restaurantRepo: restaurantRepo,
		rendang:        rendang,
		sate:           sate,
		pizza:          pizza,
	}
}

func (f *fixture) place(t *testing.T, actor permissions.Actor, foodIDs ...string) *models.Order {
	t.Helper()
	order, err := f.service.PlaceOrder(actor, foodIDs, 0)
	assert.NoError(t, err)
	return order
}

func TestPlaceOrder(t *testing.T) {
	f := setup(t, nil)

	order := f.place(t, customer, "food-1", "food-2")
	assert.Equal(t, models.StatePlaced, order.State)
	assert.Equal(t, "rest-1", order.RestaurantID)
	assert.Equal(t, customer.ID, *order.CustomerID)
	assert.Equal(t, models.DefaultTimeToDeliver, order.TimeToDeliver)
	assert.Nil(t, order.AcceptDatetime)
	assert.ElementsMatch(t, []string{"food-1", "food-2"}, order.FoodIDs())
}

func TestPlaceOrderValidation(t *testing.T) {
	f := setup(t, nil)

	// Foods spanning two restaurants
	_, err := f.service.PlaceOrder(customer, []string{"food-1", "food-3"}, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Empty food list
	_, err = f.service.PlaceOrder(customer, nil, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Unknown food
	_, err = f.service.PlaceOrder(customer, []string{"food-1", "no-such-food"}, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Non-positive delivery time
	_, err = f.service.PlaceOrder(customer, []string{"food-1"}, -5)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Unauthenticated
	_, err = f.service.PlaceOrder(permissions.Actor{}, []string{"food-1"}, 0)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestPlaceOrderPublishesEvent(t *testing.T) {
	events := new(MockEventPublisher)
	f := setup(t, events)

	events.On("PublishOrderEvent", "order.placed", mock.Anything).Return(nil).Once()
	order := f.place(t, customer, "food-1")
	events.AssertExpectations(t)

	payload := events.Calls[0].Arguments.Get(1).(map[string]interface{})
	assert.Equal(t, order.ID, payload["order_id"])
	assert.Equal(t, customer.ID, payload["customer_id"])
}

// Full lifecycle: place -> accept -> delivered, then everything is frozen.
func TestOrderLifecycleHappyPath(t *testing.T) {
	events := new(MockEventPublisher)
	events.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)
	f := setup(t, events)

	order := f.place(t, customer, "food-1", "food-2")

	accepted, err := f.service.Accept(manager, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StateAccepted, accepted.State)
	assert.NotNil(t, accepted.AcceptDatetime)

	delivered, err := f.service.ApproveDelivered(customer, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StateDelivered, delivered.State)
	assert.NotNil(t, delivered.DeliveredDatetime)
	assert.NotNil(t, delivered.AcceptDatetime)

	// Terminal: no cancel from either side
	_, err = f.service.Cancel(customer, order.ID, services.CancelByCustomer)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	_, err = f.service.Cancel(manager, order.ID, services.CancelByManager)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	events.AssertCalled(t, "PublishOrderEvent", "order.accepted", mock.Anything)
	events.AssertCalled(t, "PublishOrderEvent", "order.delivered", mock.Anything)
}

func TestCustomerCancelWhilePlaced(t *testing.T) {
	f := setup(t, nil)
	order := f.place(t, customer, "food-1")

	cancelled, err := f.service.Cancel(customer, order.ID, services.CancelByCustomer)
	assert.NoError(t, err)
	assert.Equal(t, models.StateCancelled, cancelled.State)
	assert.NotNil(t, cancelled.CancellDatetime)

	// Accept after cancellation is a dead transition
	_, err = f.service.Accept(manager, order.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestCustomerCannotCancelAcceptedOrder(t *testing.T) {
	f := setup(t, nil)
	order := f.place(t, customer, "food-1")

	_, err := f.service.Accept(manager, order.ID)
	assert.NoError(t, err)

	_, err = f.service.Cancel(customer, order.ID, services.CancelByCustomer)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	assert.Contains(t, err.Error(), "order already accepted")

	// The manager still can
	cancelled, err := f.service.Cancel(manager, order.ID, services.CancelByManager)
	assert.NoError(t, err)
	assert.Equal(t, models.StateCancelled, cancelled.State)
}

func TestForeignManagerIsDenied(t *testing.T) {
	f := setup(t, nil)
	order := f.place(t, customer, "food-1")

	_, err := f.service.Accept(rival, order.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	_, err = f.service.Cancel(rival, order.ID, services.CancelByManager)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	// Still denied after acceptance: ownership holds regardless of state
	_, err = f.service.Accept(manager, order.ID)
	assert.NoError(t, err)
	_, err = f.service.Cancel(rival, order.ID, services.CancelByManager)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestApproveDeliveredRequiresAccepted(t *testing.T) {
	f := setup(t, nil)
	order := f.place(t, customer, "food-1")

	_, err := f.service.ApproveDelivered(customer, order.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = f.service.ApproveDelivered(stranger, order.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestTransitionsOnMissingOrder(t *testing.T) {
	f := setup(t, nil)

	_, err := f.service.Accept(manager, "no-such-order")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.service.Cancel(customer, "no-such-order", services.CancelByCustomer)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.service.ApproveDelivered(customer, "no-such-order")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCancelUnknownOrigin(t *testing.T) {
	f := setup(t, nil)
	order := f.place(t, customer, "food-1")

	_, err := f.service.Cancel(customer, order.ID, services.CancelOrigin("courier"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStaffBypassesRoleChecks(t *testing.T) {
	f := setup(t, nil)

	// Staff may cancel a placed order on the customer path
	order := f.place(t, customer, "food-1")
	cancelled, err := f.service.Cancel(staff, order.ID, services.CancelByCustomer)
	assert.NoError(t, err)
	assert.Equal(t, models.StateCancelled, cancelled.State)

	// But staff without a restaurant cannot take manager actions
	order = f.place(t, customer, "food-1")
	_, err = f.service.Accept(staff, order.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

// Concurrent Accept and CustomerCancel on one placed order: exactly one
// success, the loser fails with an invalid transition.
func TestConcurrentAcceptAndCustomerCancel(t *testing.T) {
	for i := 0; i < 25; i++ {
		f := setup(t, nil)
		order := f.place(t, customer, "food-1")

		var wg sync.WaitGroup
		errs := make([]error, 2)

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = f.service.Accept(manager, order.ID)
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = f.service.Cancel(customer, order.ID, services.CancelByCustomer)
		}()
		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
			} else {
				// The loser may also observe the accepted state before its
				// compare-and-set and be denied by the authorization layer.
				assert.True(t,
					errors.Is(err, apperr.ErrInvalidTransition) || errors.Is(err, apperr.ErrPermissionDenied),
					"unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, successes)

		final, err := f.orderRepo.GetByID(order.ID)
		assert.NoError(t, err)
		assert.True(t, final.State.Terminal() || final.State == models.StateAccepted)
	}
}

func TestListOrders(t *testing.T) {
	f := setup(t, nil)

	placed := f.place(t, customer, "food-1")
	accepted := f.place(t, customer, "food-2")
	_, err := f.service.Accept(manager, accepted.ID)
	assert.NoError(t, err)

	cancelled := f.place(t, customer, "food-1")
	_, err = f.service.Cancel(customer, cancelled.ID, services.CancelByCustomer)
	assert.NoError(t, err)

	foreign := f.place(t, stranger, "food-3")

	// Customer buckets
	active, err := f.service.ListOrders(customer, services.RoleCustomer, services.BucketActive)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{placed.ID, accepted.ID}, orderIDs(active))

	cancelledList, err := f.service.ListOrders(customer, services.RoleCustomer, services.BucketCancelled)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{cancelled.ID}, orderIDs(cancelledList))

	deliveredList, err := f.service.ListOrders(customer, services.RoleCustomer, services.BucketDelivered)
	assert.NoError(t, err)
	assert.Empty(t, deliveredList)

	// Manager buckets are scoped to the manager's restaurant
	managerActive, err := f.service.ListOrders(manager, services.RoleManager, services.BucketActive)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{placed.ID, accepted.ID}, orderIDs(managerActive))

	rivalActive, err := f.service.ListOrders(rival, services.RoleManager, services.BucketActive)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{foreign.ID}, orderIDs(rivalActive))

	// A manager without a restaurant fails closed with an empty listing
	lonely := permissions.Actor{ID: "mgr-3", IsManager: true}
	empty, err := f.service.ListOrders(lonely, services.RoleManager, services.BucketActive)
	assert.NoError(t, err)
	assert.Empty(t, empty)

	// Unknown role or bucket
	_, err = f.service.ListOrders(customer, services.ListRole("courier"), services.BucketActive)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.service.ListOrders(customer, services.RoleCustomer, services.Bucket("pending"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetOrderVisibility(t *testing.T) {
	f := setup(t, nil)
	order := f.place(t, customer, "food-1")

	_, err := f.service.GetOrder(customer, order.ID)
	assert.NoError(t, err)
	_, err = f.service.GetOrder(manager, order.ID)
	assert.NoError(t, err)
	_, err = f.service.GetOrder(staff, order.ID)
	assert.NoError(t, err)

	_, err = f.service.GetOrder(stranger, order.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	_, err = f.service.GetOrder(rival, order.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func orderIDs(orders []models.Order) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}
