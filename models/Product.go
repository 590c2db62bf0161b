package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	HostID      uint    `json:"hostID" gorm:"not null;index"`
	CategoryID  *uint   `json:"categoryID" gorm:"index"`
	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description" gorm:"type:text"`
	PricePerDay float32 `json:"pricePerDay" gorm:"not null"`
	ImageURL    string  `json:"imageURL" gorm:"size:512"`
	Location    string  `json:"location"`
	LocationURL string  `json:"locationURL" gorm:"size:512"`
	IsAvailable *bool   `json:"isAvailable" gorm:"default:true"`

	Host     User      `json:"host" gorm:"foreignKey:HostID;references:ID"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Reviews  []Review  `json:"reviews,omitempty"`
	Rentals  []Rental  `json:"rentals,omitempty"`
}
