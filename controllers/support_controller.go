// controllers/support_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xn-coder/EstateFlow-sub000/middleware"
	"github.com/xn-coder/EstateFlow-sub000/models"
	"github.com/xn-coder/EstateFlow-sub000/realtime"
	"github.com/xn-coder/EstateFlow-sub000/utils"
)

type SupportController struct {
	db  *mongo.Database
	hub *realtime.Hub
}

func NewSupportController(db *mongo.Database, hub *realtime.Hub) *SupportController {
	return &SupportController{db: db, hub: hub}
}

// CreateTicket opens a support ticket with its first message.
func (sc *SupportController) CreateTicket(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.TicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	userID, name, err := sc.caller(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	now := time.Now()
	ticket := models.SupportTicket{
		Subject:   utils.SanitizeInput(req.Subject),
		Status:    "open",
		CreatedBy: userID,
		Messages: []models.TicketMessage{{
			SenderID:   userID,
			SenderName: name,
			Body:       utils.SanitizeInput(req.Message),
			SentAt:     now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := sc.db.Collection("supportTickets").InsertOne(ctx, ticket)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create ticket",
			Data:    err.Error(),
		})
	}
	ticket.ID = result.InsertedID.(primitive.ObjectID)

	if sc.hub != nil {
		sc.hub.Broadcast(realtime.Event{
			Type:    realtime.EventTicketUpdated,
			Message: "New support ticket: " + ticket.Subject,
			Data:    ticket,
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Ticket created successfully",
		Data:    ticket,
	})
}

// ListTickets returns tickets. Admins see all, everyone else their own.
func (sc *SupportController) ListTickets(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if middleware.ExtractRole(c) != models.RoleAdmin {
		userID, err := middleware.ExtractUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid token",
			})
		}
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID format",
			})
		}
		filter["createdBy"] = objID
	}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := sc.db.Collection("supportTickets").Find(ctx, filter, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch tickets",
			Data:    err.Error(),
		})
	}
	defer cursor.Close(ctx)

	tickets := []models.SupportTicket{}
	if err := cursor.All(ctx, &tickets); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode tickets",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tickets fetched successfully",
		Data:    tickets,
	})
}

// AddMessage appends a reply to an open ticket. The creator and admins
// can post.
func (sc *SupportController) AddMessage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid ticket ID format",
		})
	}

	var req models.TicketMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	userID, name, err := sc.caller(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var ticket models.SupportTicket
	err = sc.db.Collection("supportTickets").FindOne(ctx, bson.M{"_id": objID}).Decode(&ticket)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Ticket not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}
	if ticket.Status != "open" {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Ticket is closed",
		})
	}
	if middleware.ExtractRole(c) != models.RoleAdmin && ticket.CreatedBy != userID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Not your ticket",
		})
	}

	now := time.Now()
	message := models.TicketMessage{
		SenderID:   userID,
		SenderName: name,
		Body:       utils.SanitizeInput(req.Body),
		SentAt:     now,
	}

	if _, err := sc.db.Collection("supportTickets").UpdateByID(ctx, objID, bson.M{
		"$push": bson.M{"messages": message},
		"$set":  bson.M{"updatedAt": now},
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to add message",
			Data:    err.Error(),
		})
	}

	if sc.hub != nil {
		sc.hub.Broadcast(realtime.Event{
			Type:    realtime.EventTicketUpdated,
			Message: "New reply on ticket: " + ticket.Subject,
			Data:    map[string]string{"ticketId": objID.Hex()},
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Message added successfully",
	})
}

// CloseTicket marks a ticket resolved. Admin only.
func (sc *SupportController) CloseTicket(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid ticket ID format",
		})
	}

	now := time.Now()
	result, err := sc.db.Collection("supportTickets").UpdateOne(ctx,
		bson.M{"_id": objID, "status": "open"},
		bson.M{"$set": bson.M{"status": "closed", "closedAt": now, "updatedAt": now}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to close ticket",
			Data:    err.Error(),
		})
	}
	if result.ModifiedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Ticket not found or already closed",
		})
	}

	if sc.hub != nil {
		sc.hub.Broadcast(realtime.Event{
			Type:    realtime.EventTicketUpdated,
			Message: "Ticket closed",
			Data:    map[string]string{"ticketId": objID.Hex()},
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Ticket closed successfully",
	})
}

// caller resolves the token holder's id and display name.
func (sc *SupportController) caller(ctx context.Context, c echo.Context) (primitive.ObjectID, string, error) {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return primitive.NilObjectID, "", err
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, "", err
	}

	var user models.User
	if err := sc.db.Collection("users").FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return primitive.NilObjectID, "", err
	}
	return objID, user.FullName, nil
}
