package repositories

import (
	"warung/internal/models"
)

// RestaurantRepository defines data access for restaurants and their foods.
// It doubles as the ownership index: manager->restaurant and food->restaurant
// lookups used by the authorization layer.
type RestaurantRepository interface {
	Create(restaurant *models.Restaurant) error
	GetAll() ([]models.Restaurant, error)
	GetByID(id string) (*models.Restaurant, error)
	// GetByManagerID resolves the at-most-one restaurant owned by a manager.
	// A manager without a restaurant is an expected condition: the result is
	// (nil, nil), not an error.
	GetByManagerID(managerID string) (*models.Restaurant, error)

	CreateFood(food *models.Food) error
	UpdateFood(food *models.Food) error
	GetFoodByID(id string) (*models.Food, error)
	// GetFoodsByIDs resolves every listed food; any missing id is an error.
	GetFoodsByIDs(ids []string) ([]models.Food, error)
	GetFoodsByRestaurant(restaurantID string) ([]models.Food, error)
}
