package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email" gorm:"uniqueIndex"`
	PhoneNumber    string         `json:"phoneNumber"`
	Password       string         `json:"-"`
	SocialLogin    bool           `json:"socialLogin"`
	SocialProvider string         `json:"socialProvider"`
	AvatarURL      string         `json:"avatarURL"`
	Bio            string         `json:"bio"`
	SavedProducts  datatypes.JSON `json:"savedProducts"`
	Role           string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin

	// KYC gate for hosting. KYCStatus is only ever written by admin handlers,
	// never by the submitting user.
	KYCStatus       string     `json:"kycStatus" gorm:"type:varchar(20);default:pending;index"` // pending, approved, rejected
	KYCSubmittedAt  *time.Time `json:"kycSubmittedAt"`
	PhoneVerified   *bool      `json:"phoneVerified"`
	PhoneVerifiedAt *time.Time `json:"phoneVerifiedAt"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:HostID;references:ID"`
}

// MarshalJSON renders SavedProducts as a plain id array instead of raw JSON bytes.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		SavedProducts []uint `json:"savedProducts"`
		*Alias
	}{
		SavedProducts: []uint{},
		Alias:         (*Alias)(u),
	}

	if u.SavedProducts != nil {
		var saved []uint
		if err := json.Unmarshal(u.SavedProducts, &saved); err == nil {
			aux.SavedProducts = saved
		}
	}

	return json.Marshal(aux)
}
