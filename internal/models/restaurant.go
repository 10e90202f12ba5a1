package models

import "gorm.io/gorm"

// Restaurant is owned by exactly one manager; a manager owns at most one
// restaurant (unique index on ManagerID).
type Restaurant struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ManagerID string `json:"manager_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required,uuid"`
	Name      string `json:"name" validate:"required,min=1,max=255"`
	FoodType  string `json:"food_type" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=255"`
	Address   string `json:"address" validate:"required,max=1024"`
	OpenTime  string `json:"open_time" validate:"required,datetime=15:04"`
	CloseTime string `json:"close_time" validate:"required,datetime=15:04"`
	gorm.Model
}

// Food belongs to exactly one restaurant; the ownership never changes after
// creation. CurrentPrice is stored in minor currency units (cents).
type Food struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	RestaurantID string `json:"restaurant_id" gorm:"index;type:varchar(36)"`
	Name         string `json:"name" validate:"required,min=1,max=255"`
	CurrentPrice int64  `json:"current_price" validate:"gte=0"`
	IsOrganic    bool   `json:"is_organic"`
	IsVegan      bool   `json:"is_vegan"`
	gorm.Model
}
