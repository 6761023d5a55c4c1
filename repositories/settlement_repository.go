// repositories/settlement_repository.go
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xn-coder/EstateFlow-sub000/models"
	"github.com/xn-coder/EstateFlow-sub000/services"
)

// SettlementRepository implements services.Store on MongoDB. The
// transaction body runs inside a session via WithTransaction, so the
// driver retries transient commit conflicts and every write in the body
// commits atomically or not at all.
type SettlementRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewSettlementRepository(client *mongo.Client, db *mongo.Database) *SettlementRepository {
	return &SettlementRepository{client: client, db: db}
}

func (r *SettlementRepository) FindEnquiry(ctx context.Context, id primitive.ObjectID) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	err := r.db.Collection("enquiries").FindOne(ctx, bson.M{"_id": id}).Decode(&enquiry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// FindCustomerByEmail is an equality query on the customers secondary
// index; Mongo does not allow it inside the settlement transaction, which
// is why services.Store keeps it outside RunSettlement.
func (r *SettlementRepository) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Collection("customers").FindOne(ctx, bson.M{"email": email}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *SettlementRepository) RunSettlement(ctx context.Context, fn func(ctx context.Context, tx services.SettlementTx) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, &settlementTx{db: r.db})
	})
	return err
}

// settlementTx issues every operation with the session context it
// receives, so reads observe the transaction snapshot and writes join
// the transaction.
type settlementTx struct {
	db *mongo.Database
}

func (t *settlementTx) Enquiry(ctx context.Context, id primitive.ObjectID) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	err := t.db.Collection("enquiries").FindOne(ctx, bson.M{"_id": id}).Decode(&enquiry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enquiry, nil
}

func (t *settlementTx) Catalog(ctx context.Context, id primitive.ObjectID) (*models.Catalog, error) {
	var catalog models.Catalog
	err := t.db.Collection("catalogs").FindOne(ctx, bson.M{"_id": id}).Decode(&catalog)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (t *settlementTx) User(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := t.db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (t *settlementTx) PartnerProfile(ctx context.Context, id primitive.ObjectID) (*models.PartnerProfile, error) {
	var profile models.PartnerProfile
	err := t.db.Collection("partnerProfiles").FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (t *settlementTx) WalletSummary(ctx context.Context) (*models.WalletSummary, error) {
	var summary models.WalletSummary
	err := t.db.Collection("wallet").FindOne(ctx, bson.M{"_id": models.WalletSummaryID}).Decode(&summary)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (t *settlementTx) CreatePayable(ctx context.Context, p *models.Payable) error {
	_, err := t.db.Collection("payables").InsertOne(ctx, p)
	return err
}

func (t *settlementTx) CreateReceivable(ctx context.Context, r *models.Receivable) error {
	_, err := t.db.Collection("receivables").InsertOne(ctx, r)
	return err
}

func (t *settlementTx) CreateCustomer(ctx context.Context, c *models.Customer) error {
	_, err := t.db.Collection("customers").InsertOne(ctx, c)
	return err
}

func (t *settlementTx) SaveWalletSummary(ctx context.Context, w *models.WalletSummary) error {
	_, err := t.db.Collection("wallet").ReplaceOne(
		ctx,
		bson.M{"_id": models.WalletSummaryID},
		w,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (t *settlementTx) SetEnquiryStatus(ctx context.Context, id primitive.ObjectID, status models.EnquiryStatus) error {
	_, err := t.db.Collection("enquiries").UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": status},
	})
	return err
}
