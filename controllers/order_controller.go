// controllers/order_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xn-coder/EstateFlow-sub000/models"
	"github.com/xn-coder/EstateFlow-sub000/realtime"
	"github.com/xn-coder/EstateFlow-sub000/services"
	"github.com/xn-coder/EstateFlow-sub000/utils"
)

// Confirmer settles a confirmed enquiry. Satisfied by
// services.Settlement.
type Confirmer interface {
	ConfirmEnquiry(ctx context.Context, enquiryID string) (*services.Result, error)
}

type OrderController struct {
	settlement Confirmer
	db         *mongo.Database
	hub        *realtime.Hub
}

func NewOrderController(settlement Confirmer, db *mongo.Database, hub *realtime.Hub) *OrderController {
	return &OrderController{settlement: settlement, db: db, hub: hub}
}

// ConfirmEnquiry runs settlement for a lead: commission payable,
// receivable, revenue increment, customer record and the status move to
// Contacted, all in one transaction. Re-confirming is a no-op success.
func (oc *OrderController) ConfirmEnquiry(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ConfirmEnquiryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Data:    err.Error(),
		})
	}

	result, err := oc.settlement.ConfirmEnquiry(ctx, req.EnquiryID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrEnquiryIDRequired):
			status = http.StatusBadRequest
		case errors.Is(err, services.ErrEnquiryNotFound),
			errors.Is(err, services.ErrCatalogNotFound),
			errors.Is(err, services.ErrPartnerNotFound),
			errors.Is(err, services.ErrPartnerProfileNotFound):
			status = http.StatusNotFound
		case errors.Is(err, services.ErrMissingPartnerProfile):
			status = http.StatusPreconditionFailed
		}
		return c.JSON(status, models.Response{
			Status:  status,
			Message: err.Error(),
		})
	}

	if !result.AlreadyProcessed {
		if oc.hub != nil {
			oc.hub.Broadcast(realtime.Event{
				Type:    realtime.EventEnquiryConfirmed,
				Message: result.Message,
				Data:    map[string]string{"enquiryId": req.EnquiryID},
			})
		}
		oc.notifyCustomer(req.EnquiryID)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: result.Message,
		Data:    result,
	})
}

// notifyCustomer emails the enquiry's customer after a successful
// settlement. The db is nil in tests, where no email goes out anyway.
func (oc *OrderController) notifyCustomer(enquiryID string) {
	if oc.db == nil {
		return
	}
	objID, err := primitive.ObjectIDFromHex(enquiryID)
	if err != nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var enquiry models.Enquiry
		if err := oc.db.Collection("enquiries").FindOne(ctx, bson.M{"_id": objID}).Decode(&enquiry); err != nil {
			return
		}
		utils.SendEnquiryConfirmedEmail(enquiry.CustomerEmail, enquiry.CustomerName, enquiry.CatalogTitle)
	}()
}
