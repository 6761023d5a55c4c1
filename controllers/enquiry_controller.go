// controllers/enquiry_controller.go
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

type EnquiryController struct {
	db  *mongo.Database
	hub *realtime.Hub
}

func NewEnquiryController(db *mongo.Database, hub *realtime.Hub) *EnquiryController {
	return &EnquiryController{db: db, hub: hub}
}

// SubmitEnquiry is the public lead-intake endpoint. The partner code in
// the payload attributes the lead; the catalog's display fields are
// copied onto the enquiry so lists render without a join.
func (ec *EnquiryController) SubmitEnquiry(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.EnquiryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Data:    err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	email, err := utils.SanitizeEmail(req.CustomerEmail)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid customer email",
		})
	}
	phone, err := utils.SanitizePhone(req.CustomerPhone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid customer phone",
		})
	}
	pincode, err := utils.SanitizePincode(req.Pincode)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid pincode",
		})
	}

	catalogID, err := primitive.ObjectIDFromHex(req.CatalogID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid catalog ID format",
		})
	}

	var catalog models.Catalog
	err = ec.db.Collection("catalogs").FindOne(ctx, bson.M{"_id": catalogID}).Decode(&catalog)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Catalog not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	var partner models.User
	err = ec.db.Collection("users").FindOne(ctx, bson.M{"partnerCode": req.PartnerCode}).Decode(&partner)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Partner code not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	enquiryCode, err := utils.GenerateEnquiryCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate enquiry code",
		})
	}

	enquiry := models.Enquiry{
		EnquiryCode:   enquiryCode,
		CatalogID:     catalog.ID,
		CatalogCode:   catalog.Code,
		CatalogTitle:  catalog.Title,
		CustomerName:  utils.SanitizeInput(req.CustomerName),
		CustomerPhone: phone,
		CustomerEmail: email,
		Pincode:       pincode,
		SubmittedBy: models.Submitter{
			ID:   partner.ID,
			Name: partner.FullName,
			Role: partner.Role,
		},
		Status:    models.EnquiryNew,
		CreatedAt: time.Now(),
	}

	result, err := ec.db.Collection("enquiries").InsertOne(ctx, enquiry)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create enquiry",
			Data:    err.Error(),
		})
	}
	enquiry.ID = result.InsertedID.(primitive.ObjectID)

	go utils.SendEnquiryReceivedEmail(email, enquiry.CustomerName, enquiryCode, catalog.Title)

	if ec.hub != nil {
		ec.hub.Broadcast(realtime.Event{
			Type:    realtime.EventEnquiryCreated,
			Message: "New enquiry " + enquiryCode + " for " + catalog.Title,
			Data:    enquiry,
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Enquiry submitted successfully",
		Data:    enquiry,
	})
}

// GetEnquiries lists enquiries. Admins see everything; partners and
// sellers only see their own leads. An optional ?status= filter narrows
// the list.
func (ec *EnquiryController) GetEnquiries(c echo.Context) error {
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
		filter["submittedBy.id"] = objID
	}

	if status := c.QueryParam("status"); status != "" {
		if !models.EnquiryStatus(status).Valid() {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown enquiry status",
			})
		}
		filter["status"] = status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ec.db.Collection("enquiries").Find(ctx, filter, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch enquiries",
			Data:    err.Error(),
		})
	}
	defer cursor.Close(ctx)

	enquiries := []models.Enquiry{}
	if err := cursor.All(ctx, &enquiries); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode enquiries",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Enquiries fetched successfully",
		Data:    enquiries,
	})
}

// GetEnquiry returns one enquiry by id.
func (ec *EnquiryController) GetEnquiry(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid enquiry ID format",
		})
	}

	var enquiry models.Enquiry
	err = ec.db.Collection("enquiries").FindOne(ctx, bson.M{"_id": objID}).Decode(&enquiry)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Enquiry not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Enquiry fetched successfully",
		Data:    enquiry,
	})
}

// UpdateEnquiryStatus moves an enquiry along its lifecycle. Transitions
// only go forward; settlement is the only writer of the New->Contacted
// step, so this endpoint rejects it.
func (ec *EnquiryController) UpdateEnquiryStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid enquiry ID format",
		})
	}

	var req models.EnquiryStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if !req.Status.Valid() {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown enquiry status",
		})
	}
	if req.Status == models.EnquiryContacted {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Use order confirmation to move an enquiry to Contacted",
		})
	}

	var enquiry models.Enquiry
	err = ec.db.Collection("enquiries").FindOne(ctx, bson.M{"_id": objID}).Decode(&enquiry)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Enquiry not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	if !enquiry.Status.CanTransitionTo(req.Status) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Cannot move enquiry from " + string(enquiry.Status) + " to " + string(req.Status),
		})
	}

	// Guard on the old status so a concurrent settlement or status
	// change loses cleanly instead of being overwritten.
	result, err := ec.db.Collection("enquiries").UpdateOne(ctx,
		bson.M{"_id": objID, "status": enquiry.Status},
		bson.M{"$set": bson.M{"status": req.Status}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update enquiry",
			Data:    err.Error(),
		})
	}
	if result.ModifiedCount == 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Enquiry status changed concurrently, refresh and retry",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Enquiry status updated successfully",
	})
}
