package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxNameLength          = 64
	MaxEmailLength         = 128
	MaxBankNameLength      = 64
	MaxAccountNameLength   = 64
	MaxAccountNumberLength = 32

	MinNameLength = 1

	// Avatar upload limits.
	MaxAvatarSizeBytes = 2 << 20 // 2 MiB
)

var (
	emailRegex         = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRegex         = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,19}$`)
	accountNumberRegex = regexp.MustCompile(`^[0-9]{6,32}$`)
)

// AllowedAvatarTypes lists the accepted avatar content types.
var AllowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ValidateName checks a display name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < MinNameLength {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name cannot exceed %d characters", MaxNameLength)
	}
	return nil
}

// ValidateEmail checks an email address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email cannot exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePhone checks a contact phone number.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone format")
	}
	return nil
}

// ValidateBankName checks a bank name.
func ValidateBankName(bankName string) error {
	bankName = strings.TrimSpace(bankName)
	if bankName == "" {
		return fmt.Errorf("bank name cannot be empty")
	}
	if len(bankName) > MaxBankNameLength {
		return fmt.Errorf("bank name cannot exceed %d characters", MaxBankNameLength)
	}
	return nil
}

// ValidateAccountName checks a bank account holder name.
func ValidateAccountName(accountName string) error {
	accountName = strings.TrimSpace(accountName)
	if accountName == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if len(accountName) > MaxAccountNameLength {
		return fmt.Errorf("account name cannot exceed %d characters", MaxAccountNameLength)
	}
	return nil
}

// ValidateAccountNumber checks a bank account number.
func ValidateAccountNumber(accountNumber string) error {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return fmt.Errorf("account number cannot be empty")
	}
	if !accountNumberRegex.MatchString(accountNumber) {
		return fmt.Errorf("account number must be 6-32 digits")
	}
	return nil
}

// ValidateAvatarUpload checks an avatar's content type and size before the
// bytes are handed to the external image host.
func ValidateAvatarUpload(contentType string, sizeBytes int64) error {
	if !AllowedAvatarTypes[contentType] {
		return fmt.Errorf("unsupported image type: %s", contentType)
	}
	if sizeBytes <= 0 {
		return fmt.Errorf("empty upload")
	}
	if sizeBytes > MaxAvatarSizeBytes {
		return fmt.Errorf("image exceeds maximum size of %d bytes", MaxAvatarSizeBytes)
	}
	return nil
}
