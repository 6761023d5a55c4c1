// models/support.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SupportTicket struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Subject   string             `json:"subject" bson:"subject"`
	Status    string             `json:"status" bson:"status"` // "open" or "closed"
	CreatedBy primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	Messages  []TicketMessage    `json:"messages" bson:"messages"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
	ClosedAt  *time.Time         `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
}

type TicketMessage struct {
	SenderID   primitive.ObjectID `json:"senderId" bson:"senderId"`
	SenderName string             `json:"senderName" bson:"senderName"`
	Body       string             `json:"body" bson:"body"`
	SentAt     time.Time          `json:"sentAt" bson:"sentAt"`
}

type TicketRequest struct {
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type TicketMessageRequest struct {
	Body string `json:"body" validate:"required"`
}
