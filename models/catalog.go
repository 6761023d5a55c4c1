// models/catalog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EarningType describes how a catalog pays the submitting partner.
type EarningType string

const (
	EarningFixedRate       EarningType = "Fixed rate"
	EarningCommission      EarningType = "commission"
	EarningRewardPoint     EarningType = "reward point"
	EarningCategoryPercent EarningType = "partner-category commission"
)

// Catalog is a sellable listing.
type Catalog struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Code         string             `json:"code" bson:"code"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	SellingPrice float64            `json:"sellingPrice" bson:"sellingPrice"`
	Currency     string             `json:"currency" bson:"currency"`
	EarningType  EarningType        `json:"earningType" bson:"earningType"`
	// Earning is a flat amount for EarningFixedRate and a percentage of
	// the selling price for EarningCommission.
	Earning float64 `json:"earning" bson:"earning"`
	// CategoryCommissions maps a partner tier to a commission percentage.
	// A non-zero entry for the submitting partner's tier overrides
	// EarningType/Earning entirely.
	CategoryCommissions map[PartnerCategory]float64 `json:"categoryCommissions,omitempty" bson:"categoryCommissions,omitempty"`
	CreatedBy           primitive.ObjectID          `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt           time.Time                   `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time                   `json:"updatedAt" bson:"updatedAt"`
}

// CatalogRequest is the payload for creating or updating a catalog.
type CatalogRequest struct {
	Title               string                      `json:"title" validate:"required"`
	Description         string                      `json:"description,omitempty"`
	SellingPrice        float64                     `json:"sellingPrice" validate:"required,gt=0"`
	Currency            string                      `json:"currency,omitempty"`
	EarningType         EarningType                 `json:"earningType" validate:"required"`
	Earning             float64                     `json:"earning"`
	CategoryCommissions map[PartnerCategory]float64 `json:"categoryCommissions,omitempty"`
}
