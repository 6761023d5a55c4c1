// utils/codes.go
package utils

import (
	"crypto/rand"
	"math/big"
)

// Code prefixes used across the system.
const (
	EnquiryCodePrefix  = "ENQ"
	CustomerCodePrefix = "CUST"
	PartnerCodePrefix  = "PRT"
	CatalogCodePrefix  = "CAT"
)

const codeDigits = 6

// GenerateCode produces a display code of the form {PREFIX}-{DIGITS},
// e.g. ENQ-483920. Codes are random, not sequential; collision
// probability is low enough for display identifiers and the collections
// that need hard uniqueness enforce it with an index.
func GenerateCode(prefix string) (string, error) {
	digits := make([]byte, codeDigits)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return prefix + "-" + string(digits), nil
}

func GenerateEnquiryCode() (string, error) {
	return GenerateCode(EnquiryCodePrefix)
}

func GenerateCustomerCode() (string, error) {
	return GenerateCode(CustomerCodePrefix)
}

func GeneratePartnerCode() (string, error) {
	return GenerateCode(PartnerCodePrefix)
}

func GenerateCatalogCode() (string, error) {
	return GenerateCode(CatalogCodePrefix)
}
