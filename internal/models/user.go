package models

import "gorm.io/gorm"

// User represents an account of the service. Customers and restaurant
// managers are both users; IsManager marks the manager role and IsStaff marks
// elevated operational accounts.
type User struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Phone     string `json:"phone" gorm:"type:varchar(17)" validate:"omitempty,e164"`
	City      string `json:"city" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Gender    string `json:"gender" gorm:"type:varchar(1)" validate:"omitempty,oneof=M F"`
	BirthDate string `json:"birth_date" gorm:"type:varchar(10)" validate:"omitempty,datetime=2006-01-02"`
	IsManager bool   `json:"is_manager"`
	IsStaff   bool   `json:"is_staff"`
	gorm.Model
}
