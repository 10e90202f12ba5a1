package models

import "time"

// DefaultTimeToDeliver is the delivery estimate in minutes applied when a
// customer does not request one.
const DefaultTimeToDeliver = 30

// Order represents one placed purchase. All foods of an order belong to the
// same restaurant; RestaurantID is resolved from them at creation and never
// changes. CustomerID is nullable so orders survive account deletion.
type Order struct {
	ID                string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID        *string    `json:"customer_id" gorm:"index;type:varchar(36)"`
	RestaurantID      string     `json:"restaurant_id" gorm:"index;type:varchar(36)"`
	Foods             []Food     `json:"foods" gorm:"many2many:order_foods"`
	State             OrderState `json:"state" gorm:"index;type:varchar(16);default:placed"`
	TimeToDeliver     int        `json:"time_to_deliver" validate:"gte=1"`
	AcceptDatetime    *time.Time `json:"accept_datetime"`
	CancellDatetime   *time.Time `json:"cancell_datetime"`
	DeliveredDatetime *time.Time `json:"delivered_datetime"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// The three flags are read-only views over State; they can never contradict
// each other the way independent booleans could.

// IsAccepted reports whether the order has been accepted and not yet closed.
func (o *Order) IsAccepted() bool { return o.State == StateAccepted }

// IsCancelled reports whether the order was cancelled.
func (o *Order) IsCancelled() bool { return o.State == StateCancelled }

// IsDelivered reports whether the order was delivered.
func (o *Order) IsDelivered() bool { return o.State == StateDelivered }

// FoodIDs returns the ids of the order's foods.
func (o *Order) FoodIDs() []string {
	ids := make([]string, 0, len(o.Foods))
	for _, f := range o.Foods {
		ids = append(ids, f.ID)
	}
	return ids
}
