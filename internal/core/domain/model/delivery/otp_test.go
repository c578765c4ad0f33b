package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOtp(t *testing.T) {
	for range 50 {
		otp := NewOtp()

		require.NoError(t, otp.Validate())
		assert.Len(t, otp.String(), OtpLength)
		for _, c := range otp.String() {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}

func TestRestoreOtp(t *testing.T) {
	otp, err := RestoreOtp("042317")
	require.NoError(t, err)
	assert.Equal(t, "042317", otp.String())

	_, err = RestoreOtp("1234")
	assert.Error(t, err)

	_, err = RestoreOtp("12a456")
	assert.Error(t, err)

	_, err = RestoreOtp("")
	assert.Error(t, err)
}

func TestOtpMatches(t *testing.T) {
	otp, err := RestoreOtp("123456")
	require.NoError(t, err)

	assert.True(t, otp.Matches("123456"))
	assert.False(t, otp.Matches("123457"))
	assert.False(t, otp.Matches("12345"))
	assert.False(t, otp.Matches(""))
}

func TestOtpValidate(t *testing.T) {
	var otp Otp
	assert.Error(t, otp.Validate())
}
