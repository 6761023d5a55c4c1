// repositories/user_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xn-coder/EstateFlow-sub000/models"
)

type UserRepository struct {
	users    *mongo.Collection
	profiles *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection("users"),
		profiles: db.Collection("partnerProfiles"),
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreatePartner inserts the user and its partner profile and links the
// two. Signup is the only writer of new partner accounts, so the two
// inserts do not need a transaction; a crash between them leaves a user
// without a profile, which activation rejects.
func (r *UserRepository) CreatePartner(ctx context.Context, user *models.User, profile *models.PartnerProfile) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	profile.CreatedAt = now
	profile.UpdatedAt = now

	userRes, err := r.users.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = userRes.InsertedID.(primitive.ObjectID)

	profile.UserID = user.ID
	profileRes, err := r.profiles.InsertOne(ctx, profile)
	if err != nil {
		return err
	}
	profile.ID = profileRes.InsertedID.(primitive.ObjectID)

	_, err = r.users.UpdateByID(ctx, user.ID, bson.M{
		"$set": bson.M{"partnerProfileId": profile.ID, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	user.PartnerProfileID = &profile.ID
	return nil
}

func (r *UserRepository) FindProfileByUserID(ctx context.Context, userID primitive.ObjectID) (*models.PartnerProfile, error) {
	var profile models.PartnerProfile
	err := r.profiles.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
