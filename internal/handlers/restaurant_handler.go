package handlers

import (
	"fmt"
	"log"

	"warung/internal/middleware"
	"warung/internal/models"
	"warung/internal/permissions"
	"warung/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RestaurantHandler handles HTTP requests for restaurants and menus.
type RestaurantHandler struct {
	service  *services.RestaurantService
	validate *validator.Validate
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(service *services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the restaurant routes with the Fiber app.
func (h *RestaurantHandler) RegisterRoutes(router fiber.Router) {
	restaurantRoutes := router.Group("/restaurants")
	restaurantRoutes.Get("/", h.HandleGetRestaurants)
	restaurantRoutes.Post("/", h.HandleRegisterRestaurant)
	restaurantRoutes.Get("/mine", h.HandleGetOwnRestaurant)
	restaurantRoutes.Get("/:id/foods", h.HandleGetFoods)

	foodRoutes := router.Group("/foods")
	foodRoutes.Post("/", h.HandleAddFood)
	foodRoutes.Put("/:id", h.HandleUpdateFood)
}

func actorFromContext(c *fiber.Ctx) (permissions.Actor, bool) {
	actor, ok := c.Locals(middleware.ActorKey).(permissions.Actor)
	return actor, ok
}

// HandleGetRestaurants retrieves all restaurants.
func (h *RestaurantHandler) HandleGetRestaurants(c *fiber.Ctx) error {
	restaurants, err := h.service.GetAllRestaurants()
	if err != nil {
		log.Printf("Error getting all restaurants: %v", err)
		return respondError(c, err)
	}
	return c.JSON(restaurants)
}

// HandleRegisterRestaurant creates the calling manager's restaurant.
func (h *RestaurantHandler) HandleRegisterRestaurant(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	var restaurant models.Restaurant
	if err := c.BodyParser(&restaurant); err != nil {
		log.Printf("Error parsing restaurant request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	restaurant.ManagerID = actor.ID

	if err := h.validate.Struct(restaurant); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.RegisterRestaurant(actor, &restaurant); err != nil {
		log.Printf("Error registering restaurant for %s: %v", actor.ID, err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(restaurant)
}

// HandleGetOwnRestaurant retrieves the calling manager's restaurant.
func (h *RestaurantHandler) HandleGetOwnRestaurant(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	restaurant, err := h.service.RestaurantForManager(actor)
	if err != nil {
		log.Printf("Error getting restaurant of manager %s: %v", actor.ID, err)
		return respondError(c, err)
	}
	if restaurant == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No restaurant owned",
		})
	}
	return c.JSON(restaurant)
}

// HandleGetFoods retrieves the menu of a restaurant.
func (h *RestaurantHandler) HandleGetFoods(c *fiber.Ctx) error {
	restaurantID := c.Params("id")
	foods, err := h.service.GetFoodsByRestaurant(restaurantID)
	if err != nil {
		log.Printf("Error getting foods of restaurant %s: %v", restaurantID, err)
		return respondError(c, err)
	}
	return c.JSON(foods)
}

// HandleAddFood adds a food to the calling manager's restaurant.
func (h *RestaurantHandler) HandleAddFood(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	var food models.Food
	if err := c.BodyParser(&food); err != nil {
		log.Printf("Error parsing food request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(food); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.AddFood(actor, &food); err != nil {
		log.Printf("Error adding food for %s: %v", actor.ID, err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(food)
}

// HandleUpdateFood updates a food of the calling manager's restaurant.
func (h *RestaurantHandler) HandleUpdateFood(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	var food models.Food
	if err := c.BodyParser(&food); err != nil {
		log.Printf("Error parsing food request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	food.ID = c.Params("id")

	if err := h.service.UpdateFood(actor, &food); err != nil {
		log.Printf("Error updating food %s for %s: %v", food.ID, actor.ID, err)
		return respondError(c, err)
	}
	return c.JSON(food)
}
