// controllers/auth_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/xn-coder/EstateFlow-sub000/config"
	"github.com/xn-coder/EstateFlow-sub000/middleware"
	"github.com/xn-coder/EstateFlow-sub000/models"
	"github.com/xn-coder/EstateFlow-sub000/repositories"
	"github.com/xn-coder/EstateFlow-sub000/utils"
)

type AuthController struct {
	db       *mongo.Database
	userRepo *repositories.UserRepository
}

func NewAuthController(db *mongo.Database, userRepo *repositories.UserRepository) *AuthController {
	return &AuthController{db: db, userRepo: userRepo}
}

// Signup registers a new partner account with a linked partner profile.
// Accounts start inactive and need admin activation before login.
func (ac *AuthController) Signup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.SignupRequest
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

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}
	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid phone number",
		})
	}

	category := req.Category
	if category == "" {
		category = models.CategoryAffiliate
	}
	if !category.Valid() {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown partner category",
		})
	}

	existing, err := ac.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}
	if existing != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An account with this email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	partnerCode, err := utils.GeneratePartnerCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate partner code",
		})
	}

	user := &models.User{
		Email:       email,
		Password:    string(hashedPassword),
		FullName:    utils.SanitizeInput(req.FullName),
		Role:        models.RolePartner,
		Phone:       phone,
		PartnerCode: partnerCode,
		IsActive:    false, // pending admin activation
	}
	profile := &models.PartnerProfile{
		PartnerCategory: category,
		BusinessName:    utils.SanitizeInput(req.BusinessName),
	}

	if err := ac.userRepo.CreatePartner(ctx, user, profile); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
			Data:    err.Error(),
		})
	}

	go utils.SendEmail(email, "Welcome to EstateFlow",
		"Dear "+user.FullName+",\n\nYour partner account "+partnerCode+" has been created and is awaiting activation.\n\nBest regards,\nEstateFlow")

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created, awaiting activation",
		Data:    user,
	})
}

// Login authenticates a user and issues a JWT pair.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
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

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	if err := utils.ValidateLoginAttempts(ctx, config.RedisClient, email); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: err.Error(),
		})
	}

	user, err := ac.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}
	if user == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is not activated yet",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	utils.ResetLoginAttempts(ctx, config.RedisClient, email)

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginResponse{
			Token:        token,
			RefreshToken: refreshToken,
			User:         *user,
		},
	})
}

// Logout invalidates the presented token until it expires on its own.
func (ac *AuthController) Logout(c echo.Context) error {
	user, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "No token provided",
		})
	}

	expiry := time.Now().Add(24 * time.Hour)
	if claims, ok := user.Claims.(*middleware.JwtCustomClaims); ok && claims.ExpiresAt > 0 {
		expiry = time.Unix(claims.ExpiresAt, 0)
	}
	middleware.BlacklistToken(user.Raw, expiry)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// ValidateToken reports the authenticated user behind the presented
// token; the JWT middleware has already rejected invalid ones.
func (ac *AuthController) ValidateToken(c echo.Context) error {
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

	user, err := ac.userRepo.FindByID(ctx, objID)
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

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token is valid",
		Data:    user,
	})
}
