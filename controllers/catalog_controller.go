// controllers/catalog_controller.go
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
	"github.com/xn-coder/EstateFlow-sub000/utils"
)

type CatalogController struct {
	db *mongo.Database
}

func NewCatalogController(db *mongo.Database) *CatalogController {
	return &CatalogController{db: db}
}

var knownEarningTypes = map[models.EarningType]bool{
	models.EarningFixedRate:       true,
	models.EarningCommission:      true,
	models.EarningRewardPoint:     true,
	models.EarningCategoryPercent: true,
}

// CreateCatalog adds a new sellable listing.
func (cc *CatalogController) CreateCatalog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CatalogRequest
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

	if !knownEarningTypes[req.EarningType] {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown earning type",
		})
	}
	for category := range req.CategoryCommissions {
		if !category.Valid() {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown partner category in commission map",
			})
		}
	}

	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}
	creatorID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID format",
		})
	}

	code, err := utils.GenerateCatalogCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate catalog code",
		})
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	now := time.Now()
	catalog := models.Catalog{
		Code:                code,
		Title:               utils.SanitizeInput(req.Title),
		Description:         utils.SanitizeInput(req.Description),
		SellingPrice:        req.SellingPrice,
		Currency:            currency,
		EarningType:         req.EarningType,
		Earning:             req.Earning,
		CategoryCommissions: req.CategoryCommissions,
		CreatedBy:           creatorID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	result, err := cc.db.Collection("catalogs").InsertOne(ctx, catalog)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create catalog",
			Data:    err.Error(),
		})
	}
	catalog.ID = result.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Catalog created successfully",
		Data:    catalog,
	})
}

// GetCatalogs lists catalogs, newest first.
func (cc *CatalogController) GetCatalogs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := cc.db.Collection("catalogs").Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch catalogs",
			Data:    err.Error(),
		})
	}
	defer cursor.Close(ctx)

	catalogs := []models.Catalog{}
	if err := cursor.All(ctx, &catalogs); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode catalogs",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Catalogs fetched successfully",
		Data:    catalogs,
	})
}

// GetCatalog returns one catalog by id.
func (cc *CatalogController) GetCatalog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid catalog ID format",
		})
	}

	var catalog models.Catalog
	err = cc.db.Collection("catalogs").FindOne(ctx, bson.M{"_id": objID}).Decode(&catalog)
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

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Catalog fetched successfully",
		Data:    catalog,
	})
}

// UpdateCatalog replaces the editable fields of a catalog.
func (cc *CatalogController) UpdateCatalog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid catalog ID format",
		})
	}

	var req models.CatalogRequest
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
	if !knownEarningTypes[req.EarningType] {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown earning type",
		})
	}

	update := bson.M{"$set": bson.M{
		"title":               utils.SanitizeInput(req.Title),
		"description":         utils.SanitizeInput(req.Description),
		"sellingPrice":        req.SellingPrice,
		"earningType":         req.EarningType,
		"earning":             req.Earning,
		"categoryCommissions": req.CategoryCommissions,
		"updatedAt":           time.Now(),
	}}

	result, err := cc.db.Collection("catalogs").UpdateByID(ctx, objID, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update catalog",
			Data:    err.Error(),
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Catalog not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Catalog updated successfully",
	})
}

// DeleteCatalog removes a catalog. Existing enquiries keep their
// denormalized catalog fields but can no longer be settled.
func (cc *CatalogController) DeleteCatalog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid catalog ID format",
		})
	}

	result, err := cc.db.Collection("catalogs").DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete catalog",
			Data:    err.Error(),
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Catalog not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Catalog deleted successfully",
	})
}
