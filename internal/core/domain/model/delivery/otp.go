package delivery

import (
	"fmt"
	"math/rand/v2"

	"dispatch/internal/pkg/errs"
)

// OtpLength is the fixed number of digits in a confirmation code.
const OtpLength = 6

// ErrOtpIsNotConstructed indicates an Otp that bypassed its constructors.
var ErrOtpIsNotConstructed = errs.NewValueIsRequiredError("OTP must be created via NewOtp or RestoreOtp")

// Otp is the numeric confirmation code handed to the customer at order time
// and read back by the courier at drop-off to prove completion. It is
// generated exactly once when the delivery record is created and never
// regenerated; these codes gate a hand-off between two parties already known
// to each other, so they are deliberately not high-entropy secrets.
type Otp struct {
	code string
}

// NewOtp generates a fresh fixed-length numeric code.
func NewOtp() Otp {
	code := make([]byte, OtpLength)
	for i := range code {
		code[i] = byte('0' + rand.IntN(10)) //nolint:gosec // drop-off code, not a credential
	}
	return Otp{code: string(code)}
}

// RestoreOtp reconstructs the code from persistence, validating its shape.
func RestoreOtp(code string) (Otp, error) {
	if len(code) != OtpLength {
		return Otp{}, errs.NewValueIsInvalidErrorWithCause("otp",
			fmt.Errorf("code must be %d digits, got %d", OtpLength, len(code)))
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return Otp{}, errs.NewValueIsInvalidErrorWithCause("otp",
				fmt.Errorf("code must be numeric"))
		}
	}
	return Otp{code: code}, nil
}

// String returns the code for persistence and for the customer notification.
func (o Otp) String() string {
	return o.code
}

// Matches reports whether the supplied code equals the stored one exactly.
func (o Otp) Matches(supplied string) bool {
	return o.code != "" && o.code == supplied
}

// Validate returns ErrOtpIsNotConstructed for the zero value.
func (o Otp) Validate() error {
	if o.code == "" {
		return ErrOtpIsNotConstructed
	}
	return nil
}
