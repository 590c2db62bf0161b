package models

import (
	"time"
)

const (
	VerificationStatusPending  = "pending"
	VerificationStatusInReview = "in_review"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)

// KYCVerification is a singleton per user (unique index on UserID). It is
// created on the first video upload or phone-code send and updated in place
// afterwards. PhoneCodeVerifiedAt is set only after a submitted code matched
// PhoneVerificationCode byte for byte.
type KYCVerification struct {
	ID                    uint       `json:"id" gorm:"primaryKey"`
	UserID                uint       `json:"userID" gorm:"not null;uniqueIndex"`
	VideoURL              string     `json:"videoURL" gorm:"size:512"`
	VideoUploadedAt       *time.Time `json:"videoUploadedAt"`
	PhoneVerificationCode string     `json:"-" gorm:"size:6"`
	PhoneCodeSentAt       *time.Time `json:"phoneCodeSentAt"`
	PhoneCodeVerifiedAt   *time.Time `json:"phoneCodeVerifiedAt"`
	VerificationStatus    string     `json:"verificationStatus" gorm:"size:20;default:'pending';index"` // pending, in_review, approved, rejected
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}
