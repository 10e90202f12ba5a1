// Package permissions holds the authorization rules for order actions as
// composable predicates over (actor, resource, state). Each per-action check
// is the conjunction of its clauses; the first failing clause denies with a
// human-readable reason.
package permissions

import (
	"fmt"

	"warung/internal/apperr"
	"warung/internal/models"
)

// Actor is an authenticated identity plus its role flags, as decoded from the
// JWT claims. Staff actors bypass role clauses but not ownership or state
// clauses.
type Actor struct {
	ID        string
	Username  string
	IsManager bool
	IsStaff   bool
}

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool {
	return a.ID != ""
}

// IsCustomerOfOrder reports whether the actor placed the order.
func IsCustomerOfOrder(a Actor, o *models.Order) bool {
	return o.CustomerID != nil && *o.CustomerID == a.ID
}

// HasRestaurant reports whether the resolved restaurant exists.
func HasRestaurant(r *models.Restaurant) bool {
	return r != nil
}

// IsManagerOfOrder reports whether the order was placed against the given
// manager-owned restaurant.
func IsManagerOfOrder(o *models.Order, r *models.Restaurant) bool {
	return r != nil && o.RestaurantID == r.ID
}

// CanPlaceOrder permits any authenticated actor to place an order.
func CanPlaceOrder(a Actor) error {
	if !a.Authenticated() {
		return apperr.ErrUnauthenticated
	}
	return nil
}

// managerAction covers the clauses shared by Accept and manager Cancel:
// manager role (staff bypasses), an owned restaurant, and ownership of the
// order's restaurant.
func managerAction(a Actor, o *models.Order, r *models.Restaurant) error {
	if !a.Authenticated() {
		return apperr.ErrUnauthenticated
	}
	if !a.IsManager && !a.IsStaff {
		return fmt.Errorf("%w: not a manager", apperr.ErrPermissionDenied)
	}
	if !HasRestaurant(r) {
		return fmt.Errorf("%w: no restaurant owned", apperr.ErrPermissionDenied)
	}
	if !IsManagerOfOrder(o, r) {
		return fmt.Errorf("%w: not your restaurant", apperr.ErrPermissionDenied)
	}
	return nil
}

// CanAccept permits the order's restaurant manager to accept it. The
// placed-only state guard is enforced by the store's compare-and-set.
func CanAccept(a Actor, o *models.Order, r *models.Restaurant) error {
	return managerAction(a, o, r)
}

// CanManagerCancel permits the order's restaurant manager to cancel it.
// Managers may cancel up until delivery; the state guard lives in the state
// machine.
func CanManagerCancel(a Actor, o *models.Order, r *models.Restaurant) error {
	return managerAction(a, o, r)
}

// customerAction covers the identity clause shared by customer Cancel and
// ApproveDelivered. Staff bypasses the identity-match clause.
func customerAction(a Actor, o *models.Order) error {
	if !a.Authenticated() {
		return apperr.ErrUnauthenticated
	}
	if !IsCustomerOfOrder(a, o) && !a.IsStaff {
		return fmt.Errorf("%w: not your order", apperr.ErrPermissionDenied)
	}
	return nil
}

// CanCustomerCancel permits the order's customer to cancel while the order is
// still placed. Once a manager has accepted, kitchen resources are committed
// and the customer path is denied here rather than by the state machine.
func CanCustomerCancel(a Actor, o *models.Order) error {
	if err := customerAction(a, o); err != nil {
		return err
	}
	if o.State == models.StateAccepted {
		return fmt.Errorf("%w: order already accepted", apperr.ErrPermissionDenied)
	}
	return nil
}

// CanApproveDelivered permits the order's customer to attest delivery. The
// accepted-only state guard is enforced by the store's compare-and-set.
func CanApproveDelivered(a Actor, o *models.Order) error {
	return customerAction(a, o)
}
