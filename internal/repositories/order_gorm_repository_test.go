package repositories_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"warung/internal/apperr"
	"warung/internal/models"
	"warung/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Restaurant{}, &models.Food{}, &models.Order{}))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, repo *repositories.GORMOrderRepository) *models.Order {
	t.Helper()
	restaurantRepo := repositories.NewGORMRestaurantRepository(db)
	restaurant := &models.Restaurant{
		ManagerID: "mgr-1",
		Name:      "Gudeg Yu Djum",
		FoodType:  "Javanese",
		City:      "Yogyakarta",
		Address:   "Jl. Wijilan 167",
		OpenTime:  "08:00",
		CloseTime: "21:00",
	}
	assert.NoError(t, restaurantRepo.Create(restaurant))

	food := &models.Food{RestaurantID: restaurant.ID, Name: "Gudeg", CurrentPrice: 1500}
	assert.NoError(t, restaurantRepo.CreateFood(food))

	order := &models.Order{
		CustomerID:    strptr("cust-1"),
		RestaurantID:  restaurant.ID,
		Foods:         []models.Food{*food},
		State:         models.StatePlaced,
		TimeToDeliver: 30,
	}
	assert.NoError(t, repo.Create(order))
	return order
}

func TestGORMOrderRepositoryUpdateState(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	order := seedOrder(t, db, repo)

	updated, err := repo.UpdateState(order.ID, models.StatePlaced, models.StateAccepted, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, models.StateAccepted, updated.State)
	assert.NotNil(t, updated.AcceptDatetime)
	assert.Nil(t, updated.CancellDatetime)
	assert.Len(t, updated.Foods, 1)

	// Conditional update keyed by the stale state affects zero rows
	_, err = repo.UpdateState(order.ID, models.StatePlaced, models.StateCancelled, time.Now())
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = repo.UpdateState("no-such-order", models.StatePlaced, models.StateAccepted, time.Now())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	delivered, err := repo.UpdateState(order.ID, models.StateAccepted, models.StateDelivered, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, models.StateDelivered, delivered.State)
	assert.NotNil(t, delivered.DeliveredDatetime)
}

func TestGORMOrderRepositoryConcurrentCompareAndSet(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	order := seedOrder(t, db, repo)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = repo.UpdateState(order.ID, models.StatePlaced, models.StateAccepted, time.Now())
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = repo.UpdateState(order.ID, models.StatePlaced, models.StateCancelled, time.Now())
	}()
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes)
}

func TestGORMOrderRepositoryList(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	order := seedOrder(t, db, repo)

	active, err := repo.List(repositories.OrderFilter{
		CustomerID: "cust-1",
		States:     []models.OrderState{models.StatePlaced, models.StateAccepted},
	})
	assert.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, order.ID, active[0].ID)
	assert.Len(t, active[0].Foods, 1)

	cancelled, err := repo.List(repositories.OrderFilter{
		CustomerID: "cust-1",
		States:     []models.OrderState{models.StateCancelled},
	})
	assert.NoError(t, err)
	assert.Empty(t, cancelled)

	foreign, err := repo.List(repositories.OrderFilter{RestaurantID: "rest-other"})
	assert.NoError(t, err)
	assert.Empty(t, foreign)
}
