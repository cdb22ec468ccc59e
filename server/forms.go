package server

import (
	"strconv"
	"strings"

	"github.com/Abitto-org/user-app/api"
)

// FieldErrors maps a form field name to its first validation failure.
type FieldErrors map[string]string

func (fe FieldErrors) check(field, message string, ok bool) {
	if ok {
		return
	}
	if _, exists := fe[field]; !exists {
		fe[field] = message
	}
}

func isEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at < 1 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(s, " \t")
}

func isDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isPositiveAmount accepts a minor-unit amount string greater than zero.
func isPositiveAmount(s string) bool {
	value, err := strconv.ParseFloat(s, 64)
	return err == nil && value > 0
}

func validateCredentials(email, password string) FieldErrors {
	fe := FieldErrors{}
	fe.check("email", "a valid email is required", isEmail(email))
	fe.check("password", "password must be at least 8 characters", len(password) >= 8)
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func validateOTP(email, otp string) FieldErrors {
	fe := FieldErrors{}
	fe.check("email", "a valid email is required", isEmail(email))
	fe.check("otp", "otp must be 6 digits", isDigits(otp, 6))
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func validateOnboarding(req api.OnboardingRequest) FieldErrors {
	fe := FieldErrors{}
	fe.check("firstName", "first name is required", strings.TrimSpace(req.FirstName) != "")
	fe.check("lastName", "last name is required", strings.TrimSpace(req.LastName) != "")
	fe.check("gender", "gender is required", req.Gender == "MALE" || req.Gender == "FEMALE" || req.Gender == "OTHER")
	fe.check("phoneNumber", "phone number must be 11 digits", isDigits(req.PhoneNumber, 11))
	fe.check("nin", "nin must be 11 digits", isDigits(req.NIN, 11))
	fe.check("estateId", "estate is required", strings.TrimSpace(req.EstateID) != "")
	fe.check("houseNumber", "house number is required", strings.TrimSpace(req.HouseNumber) != "")
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func validatePurchase(amount string) FieldErrors {
	fe := FieldErrors{}
	fe.check("amount", "amount must be greater than zero", isPositiveAmount(amount))
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func validateGift(req api.GiftRequest) FieldErrors {
	fe := FieldErrors{}
	fe.check("recipientMeterNumber", "recipient meter number is required", strings.TrimSpace(req.RecipientMeterNumber) != "")
	fe.check("amountKg", "amount must be greater than zero", req.AmountKg > 0)
	fe.check("otp", "otp must be 6 digits", isDigits(req.OTP, 6))
	if len(fe) == 0 {
		return nil
	}
	return fe
}
