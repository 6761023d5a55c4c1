// models/enquiry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnquiryStatus is the lifecycle state of a lead. Transitions only move
// forward: New -> Contacted/Confirmed -> Closed.
type EnquiryStatus string

const (
	EnquiryNew       EnquiryStatus = "New"
	EnquiryContacted EnquiryStatus = "Contacted"
	EnquiryConfirmed EnquiryStatus = "Confirmed"
	EnquiryClosed    EnquiryStatus = "Closed"
)

// enquiryStatusRank orders statuses for the monotonic-transition check.
var enquiryStatusRank = map[EnquiryStatus]int{
	EnquiryNew:       0,
	EnquiryContacted: 1,
	EnquiryConfirmed: 1,
	EnquiryClosed:    2,
}

// Valid reports whether s is a known enquiry status.
func (s EnquiryStatus) Valid() bool {
	_, ok := enquiryStatusRank[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next keeps the status
// sequence monotonic.
func (s EnquiryStatus) CanTransitionTo(next EnquiryStatus) bool {
	from, ok := enquiryStatusRank[s]
	if !ok {
		return false
	}
	to, ok := enquiryStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Submitter records who filed the enquiry.
type Submitter struct {
	ID   primitive.ObjectID `json:"id" bson:"id"`
	Name string             `json:"name" bson:"name"`
	Role Role               `json:"role" bson:"role"`
}

// Enquiry represents a customer's interest in a catalog item.
// CatalogCode and CatalogTitle are copied from the catalog at submission
// time for display; they are never re-synced and may drift from the
// catalog's current values.
type Enquiry struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EnquiryCode   string             `json:"enquiryCode" bson:"enquiryCode"`
	CatalogID     primitive.ObjectID `json:"catalogId" bson:"catalogId"`
	CatalogCode   string             `json:"catalogCode" bson:"catalogCode"`
	CatalogTitle  string             `json:"catalogTitle" bson:"catalogTitle"`
	CustomerName  string             `json:"customerName" bson:"customerName"`
	CustomerPhone string             `json:"customerPhone" bson:"customerPhone"`
	CustomerEmail string             `json:"customerEmail" bson:"customerEmail"`
	Pincode       string             `json:"pincode,omitempty" bson:"pincode,omitempty"`
	SubmittedBy   Submitter          `json:"submittedBy" bson:"submittedBy"`
	Status        EnquiryStatus      `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// EnquiryRequest is the payload of the public enquiry-submission
// endpoint. PartnerCode attributes the lead to the submitting partner.
type EnquiryRequest struct {
	CatalogID     string `json:"catalogId" validate:"required"`
	PartnerCode   string `json:"partnerCode" validate:"required"`
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerPhone string `json:"customerPhone" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	Pincode       string `json:"pincode,omitempty"`
}

type EnquiryStatusRequest struct {
	Status EnquiryStatus `json:"status" validate:"required"`
}

// ConfirmEnquiryRequest triggers settlement of a lead.
type ConfirmEnquiryRequest struct {
	EnquiryID string `json:"enquiryId"`
}
