package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RentalStatusPending   = "pending"
	RentalStatusApproved  = "approved"
	RentalStatusActive    = "active"
	RentalStatusCompleted = "completed"
	RentalStatusCancelled = "cancelled"
)

// Rental models a day-based booking of a listed product.
type Rental struct {
	gorm.Model
	ProductID  uint      `json:"productID" gorm:"not null;index"`
	RenterID   uint      `json:"renterID" gorm:"not null;index"`
	HostID     uint      `json:"hostID" gorm:"not null;index"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	TotalPrice float32   `json:"totalPrice"`
	Status     string    `json:"status" gorm:"size:20;default:'pending';index"` // pending, approved, active, completed, cancelled

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Renter  *User    `json:"renter,omitempty" gorm:"foreignKey:RenterID"`
	Host    *User    `json:"host,omitempty" gorm:"foreignKey:HostID"`
}

// RentalDays counts billable days, inclusive of both endpoints.
func RentalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
