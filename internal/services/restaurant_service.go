package services

import (
	"fmt"

	"warung/internal/apperr"
	"warung/internal/models"
	"warung/internal/permissions"
	"warung/internal/repositories"
)

// RestaurantService handles restaurant and menu management. Writes are
// manager-only and scoped to the manager's own restaurant.
type RestaurantService struct {
	repo repositories.RestaurantRepository
}

// NewRestaurantService creates a new RestaurantService.
func NewRestaurantService(repo repositories.RestaurantRepository) *RestaurantService {
	return &RestaurantService{
		repo: repo,
	}
}

// RegisterRestaurant creates the actor's restaurant. A manager owns at most
// one restaurant.
func (s *RestaurantService) RegisterRestaurant(actor permissions.Actor, restaurant *models.Restaurant) error {
	if !actor.Authenticated() {
		return apperr.ErrUnauthenticated
	}
	if !actor.IsManager && !actor.IsStaff {
		return fmt.Errorf("%w: not a manager", apperr.ErrPermissionDenied)
	}
	existing, err := s.repo.GetByManagerID(actor.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: manager already owns restaurant %s", apperr.ErrValidation, existing.ID)
	}
	restaurant.ManagerID = actor.ID
	return s.repo.Create(restaurant)
}

// GetAllRestaurants retrieves all restaurants.
func (s *RestaurantService) GetAllRestaurants() ([]models.Restaurant, error) {
	return s.repo.GetAll()
}

// GetRestaurantByID retrieves a single restaurant by its ID.
func (s *RestaurantService) GetRestaurantByID(id string) (*models.Restaurant, error) {
	return s.repo.GetByID(id)
}

// RestaurantForManager resolves the actor's owned restaurant, or (nil, nil)
// when none is owned.
func (s *RestaurantService) RestaurantForManager(actor permissions.Actor) (*models.Restaurant, error) {
	return s.repo.GetByManagerID(actor.ID)
}

// AddFood adds a food to the actor's own restaurant.
func (s *RestaurantService) AddFood(actor permissions.Actor, food *models.Food) error {
	if !actor.Authenticated() {
		return apperr.ErrUnauthenticated
	}
	restaurant, err := s.repo.GetByManagerID(actor.ID)
	if err != nil {
		return err
	}
	if !permissions.HasRestaurant(restaurant) {
		return fmt.Errorf("%w: no restaurant owned", apperr.ErrPermissionDenied)
	}
	food.RestaurantID = restaurant.ID
	return s.repo.CreateFood(food)
}

// UpdateFood updates a food of the actor's own restaurant. The owning
// restaurant of a food never changes.
func (s *RestaurantService) UpdateFood(actor permissions.Actor, food *models.Food) error {
	if !actor.Authenticated() {
		return apperr.ErrUnauthenticated
	}
	existing, err := s.repo.GetFoodByID(food.ID)
	if err != nil {
		return err
	}
	restaurant, err := s.repo.GetByManagerID(actor.ID)
	if err != nil {
		return err
	}
	if !permissions.HasRestaurant(restaurant) || existing.RestaurantID != restaurant.ID {
		return fmt.Errorf("%w: not your restaurant", apperr.ErrPermissionDenied)
	}
	return s.repo.UpdateFood(food)
}

// GetFoodsByRestaurant retrieves the menu of a restaurant.
func (s *RestaurantService) GetFoodsByRestaurant(restaurantID string) ([]models.Food, error) {
	if _, err := s.repo.GetByID(restaurantID); err != nil {
		return nil, err
	}
	return s.repo.GetFoodsByRestaurant(restaurantID)
}
