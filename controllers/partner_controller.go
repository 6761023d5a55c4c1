// controllers/partner_controller.go
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
	"github.com/xn-coder/EstateFlow-sub000/repositories"
	"github.com/xn-coder/EstateFlow-sub000/utils"
)

type PartnerController struct {
	db       *mongo.Database
	userRepo *repositories.UserRepository
}

func NewPartnerController(db *mongo.Database, userRepo *repositories.UserRepository) *PartnerController {
	return &PartnerController{db: db, userRepo: userRepo}
}

// partnerView is the combined account + profile shape list and detail
// endpoints return.
type partnerView struct {
	User    models.User            `json:"user"`
	Profile *models.PartnerProfile `json:"profile,omitempty"`
}

// GetProfile returns the caller's own partner profile.
func (pc *PartnerController) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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

	user, err := pc.userRepo.FindByID(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	profile, err := pc.userRepo.FindProfileByUserID(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile fetched successfully",
		Data:    partnerView{User: *user, Profile: profile},
	})
}

// UpdateProfile lets a partner edit their own business details. The
// commission tier is admin-only and deliberately not editable here.
func (pc *PartnerController) UpdateProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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

	var req models.ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	pincode, err := utils.SanitizePincode(req.Pincode)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid pincode",
		})
	}

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"businessName": utils.SanitizeInput(req.BusinessName),
		"gstNumber":    utils.SanitizeInput(req.GSTNumber),
		"address":      utils.SanitizeInput(req.Address),
		"pincode":      pincode,
		"updatedAt":    now,
	}}

	result, err := pc.db.Collection("partnerProfiles").UpdateOne(ctx, bson.M{"userId": objID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update profile",
			Data:    err.Error(),
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Partner profile not found",
		})
	}

	if req.Phone != "" {
		phone, err := utils.SanitizePhone(req.Phone)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid phone number",
			})
		}
		if _, err := pc.db.Collection("users").UpdateByID(ctx, objID,
			bson.M{"$set": bson.M{"phone": phone, "updatedAt": now}}); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to update phone",
				Data:    err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated successfully",
	})
}

// ListPartners returns all partner accounts with their profiles. Admin
// only.
func (pc *PartnerController) ListPartners(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := pc.db.Collection("users").Find(ctx, bson.M{"role": models.RolePartner}, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch partners",
			Data:    err.Error(),
		})
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode partners",
			Data:    err.Error(),
		})
	}

	partners := make([]partnerView, 0, len(users))
	for _, user := range users {
		profile, err := pc.userRepo.FindProfileByUserID(ctx, user.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Database error",
				Data:    err.Error(),
			})
		}
		user.Password = ""
		partners = append(partners, partnerView{User: user, Profile: profile})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Partners fetched successfully",
		Data:    partners,
	})
}

// ActivatePartner flips a pending partner account live. Admin only.
func (pc *PartnerController) ActivatePartner(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid partner ID format",
		})
	}

	user, err := pc.userRepo.FindByID(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}
	if user == nil || user.Role != models.RolePartner {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Partner not found",
		})
	}

	now := time.Now()
	if _, err := pc.db.Collection("users").UpdateByID(ctx, objID,
		bson.M{"$set": bson.M{"isActive": true, "updatedAt": now}}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to activate partner",
			Data:    err.Error(),
		})
	}
	if _, err := pc.db.Collection("partnerProfiles").UpdateOne(ctx, bson.M{"userId": objID},
		bson.M{"$set": bson.M{"activated": true, "activatedAt": now, "updatedAt": now}}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to activate partner profile",
			Data:    err.Error(),
		})
	}

	go utils.SendEmail(user.Email, "Your EstateFlow account is active",
		"Dear "+user.FullName+",\n\nYour partner account "+user.PartnerCode+" has been activated. You can now log in.\n\nBest regards,\nEstateFlow")

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Partner activated successfully",
	})
}

// SetCategory moves a partner to another commission tier. Admin only;
// takes effect on the next settlement.
func (pc *PartnerController) SetCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid partner ID format",
		})
	}

	var req models.SetCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if !req.Category.Valid() {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown partner category",
		})
	}

	result, err := pc.db.Collection("partnerProfiles").UpdateOne(ctx, bson.M{"userId": objID},
		bson.M{"$set": bson.M{"partnerCategory": req.Category, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update partner category",
			Data:    err.Error(),
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Partner profile not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Partner category updated successfully",
	})
}
