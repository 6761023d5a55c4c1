// models/ledger.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payable is money the platform owes a partner.
type Payable struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Date          time.Time          `json:"date" bson:"date"`
	RecipientName string             `json:"recipientName" bson:"recipientName"`
	RecipientID   string             `json:"recipientId" bson:"recipientId"` // partner code, else user id
	PayableAmount float64            `json:"payableAmount" bson:"payableAmount"`
	Status        string             `json:"status" bson:"status"` // "Pending" or "Paid"
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	PaidAt        *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// Receivable is money owed to the platform by a customer/sale.
type Receivable struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Date          time.Time          `json:"date" bson:"date"`
	PartnerName   string             `json:"partnerName" bson:"partnerName"`
	PartnerID     string             `json:"partnerId" bson:"partnerId"`
	PendingAmount float64            `json:"pendingAmount" bson:"pendingAmount"`
	Status        string             `json:"status" bson:"status"` // "Pending" or "Received"
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	ReceivedAt    *time.Time         `json:"receivedAt,omitempty" bson:"receivedAt,omitempty"`
}

const (
	LedgerPending  = "Pending"
	LedgerPaid     = "Paid"
	LedgerReceived = "Received"
)

// WalletSummaryID is the well-known key of the singleton wallet document.
const WalletSummaryID = "summary"

// WalletSummary is the platform-wide aggregate of balance and revenue.
// Every settlement increments Revenue; TotalBalance is only touched by
// top-up and payout flows. It must never be cached across requests.
type WalletSummary struct {
	ID           string  `json:"id" bson:"_id"`
	TotalBalance float64 `json:"totalBalance" bson:"totalBalance"`
	Revenue      float64 `json:"revenue" bson:"revenue"`
}

type TopUpRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
