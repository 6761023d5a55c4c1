package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Casey@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "casey@example.com", email)

	_, err = SanitizeEmail("not-an-email")
	assert.Error(t, err)

	_, err = SanitizeEmail("")
	assert.Error(t, err)
}

func TestSanitizePhone(t *testing.T) {
	phone, err := SanitizePhone("+91 98765-43210")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", phone)

	// Optional field: empty passes through.
	phone, err = SanitizePhone("")
	require.NoError(t, err)
	assert.Empty(t, phone)

	_, err = SanitizePhone("12")
	assert.Error(t, err)
}

func TestSanitizePincode(t *testing.T) {
	pincode, err := SanitizePincode(" 560001 ")
	require.NoError(t, err)
	assert.Equal(t, "560001", pincode)

	pincode, err = SanitizePincode("")
	require.NoError(t, err)
	assert.Empty(t, pincode)

	_, err = SanitizePincode("56001")
	assert.Error(t, err)
	_, err = SanitizePincode("56000a")
	assert.Error(t, err)
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;", SanitizeInput("<script>"))
	assert.Equal(t, "plain text", SanitizeInput("  plain text  "))
}
