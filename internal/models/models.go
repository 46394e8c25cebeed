package models

import (
	"time"
)

const (
	RoleFarmer   = "farmer"
	RoleCustomer = "customer"
)

// User is an account row. Passwords are stored and compared in plaintext,
// matching the behavior of the service this replaces. Known gap, see DESIGN.md.
type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"uniqueIndex;not null"     json:"name"`
	Location string `gorm:"not null"                 json:"location"`
	Password string `gorm:"not null"                 json:"password"`
	UserType string `gorm:"not null"                 json:"userType"`
}

func (u *User) IsFarmer() bool {
	return u.UserType == RoleFarmer
}

// Product is a listing owned by exactly one farmer. FarmerName and
// FarmerLocation are copied from the users row at creation time and are
// never re-synced with later profile changes.
type Product struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"not null"                 json:"name"`
	Price          float64   `gorm:"not null"                 json:"price"`
	Unit           string    `gorm:"not null"                 json:"unit"`
	Description    string    `json:"description"`
	Category       string    `gorm:"not null"                 json:"category"`
	Image          string    `json:"image"`
	FarmerID       uint      `gorm:"not null;index"           json:"farmer_id"`
	FarmerName     string    `gorm:"not null"                 json:"farmer_name"`
	FarmerLocation string    `gorm:"not null"                 json:"farmer_location"`
	CreatedAt      time.Time `json:"created_at"`
}
