// models/customer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is a confirmed buyer, deduplicated by email across all
// settlements.
type Customer struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CustomerCode string             `json:"customerCode" bson:"customerCode"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Pincode      string             `json:"pincode,omitempty" bson:"pincode,omitempty"`
	CreatedBy    primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}
