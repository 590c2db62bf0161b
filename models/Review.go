package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	ProductID  uint   `json:"productID" gorm:"not null;index"`
	ReviewerID uint   `json:"reviewerID" gorm:"not null;index"`
	Rating     int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string `json:"comment" gorm:"type:text;not null"`

	Product  *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Reviewer User     `json:"reviewer" gorm:"foreignKey:ReviewerID"`
}
