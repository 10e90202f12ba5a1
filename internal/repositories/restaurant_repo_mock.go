package repositories

import (
	"fmt"
	"sync"

	"warung/internal/apperr"
	"warung/internal/models"

	"github.com/google/uuid"
)

// MockRestaurantRepository is an in-memory implementation of RestaurantRepository.
type MockRestaurantRepository struct {
	restaurants map[string]models.Restaurant
	foods       map[string]models.Food
	mu          sync.RWMutex
}

// NewMockRestaurantRepository creates a new instance of MockRestaurantRepository.
func NewMockRestaurantRepository() *MockRestaurantRepository {
	return &MockRestaurantRepository{
		restaurants: make(map[string]models.Restaurant),
		foods:       make(map[string]models.Food),
	}
}

// Create adds a new restaurant.
func (r *MockRestaurantRepository) Create(restaurant *models.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if restaurant.ID == "" {
		restaurant.ID = uuid.New().String()
	}
	for _, existing := range r.restaurants {
		if existing.ManagerID == restaurant.ManagerID {
			return fmt.Errorf("manager %s already owns restaurant %s", restaurant.ManagerID, existing.ID)
		}
	}
	r.restaurants[restaurant.ID] = *restaurant
	return nil
}

// GetAll returns all restaurants.
func (r *MockRestaurantRepository) GetAll() ([]models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Restaurant, 0, len(r.restaurants))
	for _, restaurant := range r.restaurants {
		list = append(list, restaurant)
	}
	return list, nil
}

// GetByID returns a restaurant by its ID.
func (r *MockRestaurantRepository) GetByID(id string) (*models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	restaurant, ok := r.restaurants[id]
	if !ok {
		return nil, fmt.Errorf("restaurant %s: %w", id, apperr.ErrNotFound)
	}
	return &restaurant, nil
}

// GetByManagerID returns the restaurant owned by the manager, or (nil, nil)
// when the manager owns none.
func (r *MockRestaurantRepository) GetByManagerID(managerID string) (*models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, restaurant := range r.restaurants {
		if restaurant.ManagerID == managerID {
			cp := restaurant
			return &cp, nil
		}
	}
	return nil, nil
}

// CreateFood adds a new food.
func (r *MockRestaurantRepository) CreateFood(food *models.Food) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if food.ID == "" {
		food.ID = uuid.New().String()
	}
	r.foods[food.ID] = *food
	return nil
}

// UpdateFood updates an existing food, leaving its owning restaurant intact.
func (r *MockRestaurantRepository) UpdateFood(food *models.Food) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.foods[food.ID]
	if !ok {
		return fmt.Errorf("food %s: %w", food.ID, apperr.ErrNotFound)
	}
	existing.Name = food.Name
	existing.CurrentPrice = food.CurrentPrice
	existing.IsOrganic = food.IsOrganic
	existing.IsVegan = food.IsVegan
	r.foods[food.ID] = existing
	return nil
}

// GetFoodByID returns a food by its ID.
func (r *MockRestaurantRepository) GetFoodByID(id string) (*models.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	food, ok := r.foods[id]
	if !ok {
		return nil, fmt.Errorf("food %s: %w", id, apperr.ErrNotFound)
	}
	return &food, nil
}

// GetFoodsByIDs returns all listed foods; every id must resolve.
func (r *MockRestaurantRepository) GetFoodsByIDs(ids []string) ([]models.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	foods := make([]models.Food, 0, len(ids))
	for _, id := range ids {
		food, ok := r.foods[id]
		if !ok {
			return nil, fmt.Errorf("food %s: %w", id, apperr.ErrNotFound)
		}
		foods = append(foods, food)
	}
	return foods, nil
}

// GetFoodsByRestaurant returns all foods of a restaurant.
func (r *MockRestaurantRepository) GetFoodsByRestaurant(restaurantID string) ([]models.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	foods := make([]models.Food, 0)
	for _, food := range r.foods {
		if food.RestaurantID == restaurantID {
			foods = append(foods, food)
		}
	}
	return foods, nil
}
