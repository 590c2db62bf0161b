package models

import (
	"time"
)

const (
	DocumentTypePassport       = "passport"
	DocumentTypeDriversLicense = "drivers_license"
	DocumentTypeNationalID     = "national_id"
	DocumentTypeOther          = "other"
)

// KYCDocument is an append-only identity document submission. Rows are created
// by the submitting user and mutated only by an admin reviewer; the most
// recently submitted row is authoritative when several exist.
type KYCDocument struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	UserID          uint       `json:"userID" gorm:"not null;index"`
	DocumentType    string     `json:"documentType" gorm:"size:50;not null"` // passport, drivers_license, national_id, other
	DocumentURL     string     `json:"documentURL" gorm:"size:512;not null"`
	FileName        string     `json:"fileName" gorm:"size:255"`
	Status          string     `json:"status" gorm:"size:20;default:'pending';index"` // pending, approved, rejected
	RejectionReason string     `json:"rejectionReason" gorm:"type:text"`
	ReviewedBy      *uint      `json:"reviewedBy" gorm:"index"`
	ReviewedAt      *time.Time `json:"reviewedAt"`
	CreatedAt       time.Time  `json:"submittedAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}
