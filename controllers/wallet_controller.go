// controllers/wallet_controller.go
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
)

type WalletController struct {
	db *mongo.Database
}

func NewWalletController(db *mongo.Database) *WalletController {
	return &WalletController{db: db}
}

// GetSummary returns the platform wallet. Before the first settlement or
// top-up no document exists yet, which reads as zeros.
func (wc *WalletController) GetSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary := models.WalletSummary{ID: models.WalletSummaryID}
	err := wc.db.Collection("wallet").FindOne(ctx, bson.M{"_id": models.WalletSummaryID}).Decode(&summary)
	if err != nil && err != mongo.ErrNoDocuments {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Wallet summary fetched successfully",
		Data:    summary,
	})
}

// TopUp adds funds to the platform balance.
func (wc *WalletController) TopUp(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.TopUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Amount must be greater than zero",
		})
	}

	opts := options.Update().SetUpsert(true)
	_, err := wc.db.Collection("wallet").UpdateByID(ctx, models.WalletSummaryID,
		bson.M{"$inc": bson.M{"totalBalance": req.Amount}}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to top up wallet",
			Data:    err.Error(),
		})
	}

	var summary models.WalletSummary
	if err := wc.db.Collection("wallet").FindOne(ctx, bson.M{"_id": models.WalletSummaryID}).Decode(&summary); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Wallet topped up successfully",
		Data:    summary,
	})
}

// ListPayables returns commission payables. Admins see all; partners see
// entries addressed to their own ledger id.
func (wc *WalletController) ListPayables(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	if middleware.ExtractRole(c) != models.RoleAdmin {
		ledgerID, err := wc.callerLedgerID(ctx, c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid token",
			})
		}
		filter["recipientId"] = ledgerID
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := wc.db.Collection("payables").Find(ctx, filter, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch payables",
			Data:    err.Error(),
		})
	}
	defer cursor.Close(ctx)

	payables := []models.Payable{}
	if err := cursor.All(ctx, &payables); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode payables",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payables fetched successfully",
		Data:    payables,
	})
}

// ListReceivables returns sale receivables. Admins see all; partners see
// their own.
func (wc *WalletController) ListReceivables(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	if middleware.ExtractRole(c) != models.RoleAdmin {
		ledgerID, err := wc.callerLedgerID(ctx, c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid token",
			})
		}
		filter["partnerId"] = ledgerID
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := wc.db.Collection("receivables").Find(ctx, filter, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch receivables",
			Data:    err.Error(),
		})
	}
	defer cursor.Close(ctx)

	receivables := []models.Receivable{}
	if err := cursor.All(ctx, &receivables); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode receivables",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Receivables fetched successfully",
		Data:    receivables,
	})
}

// MarkPayablePaid settles a pending payable and deducts the amount from
// the platform balance.
func (wc *WalletController) MarkPayablePaid(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payable ID format",
		})
	}

	var payable models.Payable
	err = wc.db.Collection("payables").FindOne(ctx, bson.M{"_id": objID}).Decode(&payable)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Payable not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	now := time.Now()
	// Status guard makes the payout idempotent under double clicks.
	result, err := wc.db.Collection("payables").UpdateOne(ctx,
		bson.M{"_id": objID, "status": models.LedgerPending},
		bson.M{"$set": bson.M{"status": models.LedgerPaid, "paidAt": now}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update payable",
			Data:    err.Error(),
		})
	}
	if result.ModifiedCount == 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Payable is already paid",
		})
	}

	opts := options.Update().SetUpsert(true)
	if _, err := wc.db.Collection("wallet").UpdateByID(ctx, models.WalletSummaryID,
		bson.M{"$inc": bson.M{"totalBalance": -payable.PayableAmount}}, opts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Payable marked paid but balance update failed",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payable marked as paid",
	})
}

// MarkReceivableReceived settles a pending receivable and credits the
// platform balance.
func (wc *WalletController) MarkReceivableReceived(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid receivable ID format",
		})
	}

	var receivable models.Receivable
	err = wc.db.Collection("receivables").FindOne(ctx, bson.M{"_id": objID}).Decode(&receivable)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Receivable not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	now := time.Now()
	result, err := wc.db.Collection("receivables").UpdateOne(ctx,
		bson.M{"_id": objID, "status": models.LedgerPending},
		bson.M{"$set": bson.M{"status": models.LedgerReceived, "receivedAt": now}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update receivable",
			Data:    err.Error(),
		})
	}
	if result.ModifiedCount == 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Receivable is already received",
		})
	}

	opts := options.Update().SetUpsert(true)
	if _, err := wc.db.Collection("wallet").UpdateByID(ctx, models.WalletSummaryID,
		bson.M{"$inc": bson.M{"totalBalance": receivable.PendingAmount}}, opts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Receivable marked received but balance update failed",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Receivable marked as received",
	})
}

// callerLedgerID resolves the token holder's ledger identity, the same
// value settlement writes into recipientId/partnerId.
func (wc *WalletController) callerLedgerID(ctx context.Context, c echo.Context) (string, error) {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return "", err
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", err
	}

	var user models.User
	if err := wc.db.Collection("users").FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return "", err
	}
	return user.LedgerID(), nil
}
