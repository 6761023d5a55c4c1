package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnquiryStatusValid(t *testing.T) {
	for _, s := range []EnquiryStatus{EnquiryNew, EnquiryContacted, EnquiryConfirmed, EnquiryClosed} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, EnquiryStatus("Pending").Valid())
	assert.False(t, EnquiryStatus("").Valid())
}

func TestEnquiryStatusTransitions(t *testing.T) {
	tests := []struct {
		from EnquiryStatus
		to   EnquiryStatus
		ok   bool
	}{
		{EnquiryNew, EnquiryContacted, true},
		{EnquiryNew, EnquiryConfirmed, true},
		{EnquiryNew, EnquiryClosed, true},
		{EnquiryContacted, EnquiryClosed, true},
		{EnquiryConfirmed, EnquiryClosed, true},
		// No going backwards or sideways.
		{EnquiryContacted, EnquiryNew, false},
		{EnquiryContacted, EnquiryConfirmed, false},
		{EnquiryClosed, EnquiryContacted, false},
		{EnquiryClosed, EnquiryNew, false},
		{EnquiryNew, EnquiryNew, false},
		{EnquiryNew, EnquiryStatus("bogus"), false},
		{EnquiryStatus("bogus"), EnquiryClosed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestUserLedgerID(t *testing.T) {
	u := User{PartnerCode: "PRT-123456"}
	assert.Equal(t, "PRT-123456", u.LedgerID())
}
