package repositories

import (
	"errors"
	"fmt"

	"warung/internal/apperr"
	"warung/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRestaurantRepository is a GORM implementation of RestaurantRepository.
type GORMRestaurantRepository struct {
	db *gorm.DB
}

// NewGORMRestaurantRepository creates a new instance of GORMRestaurantRepository.
func NewGORMRestaurantRepository(db *gorm.DB) *GORMRestaurantRepository {
	return &GORMRestaurantRepository{
		db: db,
	}
}

// Create creates a new restaurant in the database.
func (r *GORMRestaurantRepository) Create(restaurant *models.Restaurant) error {
	if restaurant.ID == "" {
		restaurant.ID = uuid.New().String()
	}
	if err := r.db.Create(restaurant).Error; err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// GetAll retrieves all restaurants from the database.
func (r *GORMRestaurantRepository) GetAll() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := r.db.Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("failed to get all restaurants: %w", err)
	}
	return restaurants, nil
}

// GetByID retrieves a single restaurant by its ID from the database.
func (r *GORMRestaurantRepository) GetByID(id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.First(&restaurant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("restaurant %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get restaurant by ID %s: %w", id, err)
	}
	return &restaurant, nil
}

// GetByManagerID retrieves the restaurant owned by the given manager.
// Returns (nil, nil) when the manager owns no restaurant.
func (r *GORMRestaurantRepository) GetByManagerID(managerID string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.First(&restaurant, "manager_id = ?", managerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get restaurant by manager %s: %w", managerID, err)
	}
	return &restaurant, nil
}

// CreateFood creates a new food in the database.
func (r *GORMRestaurantRepository) CreateFood(food *models.Food) error {
	if food.ID == "" {
		food.ID = uuid.New().String()
	}
	if err := r.db.Create(food).Error; err != nil {
		return fmt.Errorf("failed to create food: %w", err)
	}
	return nil
}

// UpdateFood updates an existing food in the database. The owning restaurant
// is never changed.
func (r *GORMRestaurantRepository) UpdateFood(food *models.Food) error {
	res := r.db.Model(&models.Food{}).Where("id = ?", food.ID).Updates(map[string]interface{}{
		"name":          food.Name,
		"current_price": food.CurrentPrice,
		"is_organic":    food.IsOrganic,
		"is_vegan":      food.IsVegan,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update food: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("food %s: %w", food.ID, apperr.ErrNotFound)
	}
	return nil
}

// GetFoodByID retrieves a single food by its ID from the database.
func (r *GORMRestaurantRepository) GetFoodByID(id string) (*models.Food, error) {
	var food models.Food
	if err := r.db.First(&food, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("food %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get food by ID %s: %w", id, err)
	}
	return &food, nil
}

// GetFoodsByIDs retrieves all listed foods; every id must resolve.
func (r *GORMRestaurantRepository) GetFoodsByIDs(ids []string) ([]models.Food, error) {
	var foods []models.Food
	if err := r.db.Find(&foods, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get foods: %w", err)
	}
	if len(foods) != len(ids) {
		found := make(map[string]bool, len(foods))
		for _, f := range foods {
			found[f.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, fmt.Errorf("food %s: %w", id, apperr.ErrNotFound)
			}
		}
	}
	return foods, nil
}

// GetFoodsByRestaurant retrieves all foods of a restaurant.
func (r *GORMRestaurantRepository) GetFoodsByRestaurant(restaurantID string) ([]models.Food, error) {
	var foods []models.Food
	if err := r.db.Find(&foods, "restaurant_id = ?", restaurantID).Error; err != nil {
		return nil, fmt.Errorf("failed to get foods of restaurant %s: %w", restaurantID, err)
	}
	return foods, nil
}
