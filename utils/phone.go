package utils

import (
	"errors"
	"os"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhoneNumber parses a phone number and returns it in E.164 form.
// Numbers without a country prefix are interpreted against PHONE_DEFAULT_REGION
// (falling back to US).
func NormalizePhoneNumber(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, defaultPhoneRegion())
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", errors.New("invalid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func defaultPhoneRegion() string {
	if region := os.Getenv("PHONE_DEFAULT_REGION"); region != "" {
		return region
	}
	return "US"
}
