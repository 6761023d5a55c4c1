// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role identifies what a user account is allowed to do.
type Role string

const (
	RoleAdmin   Role = "admin"
	RolePartner Role = "partner"
	RoleSeller  Role = "seller"
)

// User model
type User struct {
	ID               primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Email            string              `json:"email" bson:"email"`
	Password         string              `json:"password,omitempty" bson:"password"`
	FullName         string              `json:"fullName" bson:"fullName"`
	Role             Role                `json:"role" bson:"role"`
	Phone            string              `json:"phone,omitempty" bson:"phone,omitempty"`
	PartnerCode      string              `json:"partnerCode,omitempty" bson:"partnerCode,omitempty"`
	PartnerProfileID *primitive.ObjectID `json:"partnerProfileId,omitempty" bson:"partnerProfileId,omitempty"`
	IsActive         bool                `json:"isActive" bson:"isActive"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// LedgerID returns the identifier ledger entries carry for this user:
// the human-readable partner code when one was assigned, otherwise the
// raw document id.
func (u *User) LedgerID() string {
	if u.PartnerCode != "" {
		return u.PartnerCode
	}
	return u.ID.Hex()
}

// PartnerCategory is the commission tier a partner belongs to.
type PartnerCategory string

const (
	CategoryAffiliate      PartnerCategory = "Affiliate Partner"
	CategorySuperAffiliate PartnerCategory = "Super Affiliate Partner"
	CategoryAssociate      PartnerCategory = "Associate Partner"
	CategoryChannel        PartnerCategory = "Channel Partner"
)

// PartnerCategories lists every valid tier, in display order.
var PartnerCategories = []PartnerCategory{
	CategoryAffiliate,
	CategorySuperAffiliate,
	CategoryAssociate,
	CategoryChannel,
}

// Valid reports whether c is one of the known partner tiers.
func (c PartnerCategory) Valid() bool {
	for _, known := range PartnerCategories {
		if c == known {
			return true
		}
	}
	return false
}

// PartnerProfile holds the extended partner attributes kept out of the
// users collection.
type PartnerProfile struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	PartnerCategory PartnerCategory    `json:"partnerCategory" bson:"partnerCategory"`
	BusinessName    string             `json:"businessName,omitempty" bson:"businessName,omitempty"`
	GSTNumber       string             `json:"gstNumber,omitempty" bson:"gstNumber,omitempty"`
	Address         string             `json:"address,omitempty" bson:"address,omitempty"`
	Pincode         string             `json:"pincode,omitempty" bson:"pincode,omitempty"`
	Activated       bool               `json:"activated" bson:"activated"`
	ActivatedAt     *time.Time         `json:"activatedAt,omitempty" bson:"activatedAt,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SignupRequest is the payload for partner signup.
type SignupRequest struct {
	Email        string          `json:"email" validate:"required,email"`
	Password     string          `json:"password" validate:"required,min=8"`
	FullName     string          `json:"fullName" validate:"required"`
	Phone        string          `json:"phone,omitempty"`
	BusinessName string          `json:"businessName,omitempty"`
	Category     PartnerCategory `json:"partnerCategory,omitempty"`
}

// ProfileUpdateRequest carries the partner-editable profile fields.
type ProfileUpdateRequest struct {
	BusinessName string `json:"businessName,omitempty"`
	GSTNumber    string `json:"gstNumber,omitempty"`
	Address      string `json:"address,omitempty"`
	Pincode      string `json:"pincode,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// SetCategoryRequest moves a partner to another commission tier.
type SetCategoryRequest struct {
	Category PartnerCategory `json:"partnerCategory" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
