package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xn-coder/EstateFlow-sub000/models"
)

// memStore is an in-memory Store with transaction semantics: writes are
// staged inside RunSettlement and applied only when the body returns nil,
// and customer inserts enforce the unique-email index the real store
// carries.
type memStore struct {
	enquiries   map[primitive.ObjectID]*models.Enquiry
	catalogs    map[primitive.ObjectID]*models.Catalog
	users       map[primitive.ObjectID]*models.User
	profiles    map[primitive.ObjectID]*models.PartnerProfile
	summary     *models.WalletSummary
	payables    []*models.Payable
	receivables []*models.Receivable
	customers   []*models.Customer
}

func newMemStore() *memStore {
	return &memStore{
		enquiries: make(map[primitive.ObjectID]*models.Enquiry),
		catalogs:  make(map[primitive.ObjectID]*models.Catalog),
		users:     make(map[primitive.ObjectID]*models.User),
		profiles:  make(map[primitive.ObjectID]*models.PartnerProfile),
	}
}

func (s *memStore) FindEnquiry(ctx context.Context, id primitive.ObjectID) (*models.Enquiry, error) {
	if e, ok := s.enquiries[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, nil
}

func (s *memStore) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	for _, c := range s.customers {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) RunSettlement(ctx context.Context, fn func(ctx context.Context, tx SettlementTx) error) error {
	tx := &memTx{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.apply()
}

type statusChange struct {
	id     primitive.ObjectID
	status models.EnquiryStatus
}

type memTx struct {
	store       *memStore
	payables    []*models.Payable
	receivables []*models.Receivable
	customers   []*models.Customer
	summary     *models.WalletSummary
	statuses    []statusChange
}

func (t *memTx) Enquiry(ctx context.Context, id primitive.ObjectID) (*models.Enquiry, error) {
	return t.store.FindEnquiry(ctx, id)
}

func (t *memTx) Catalog(ctx context.Context, id primitive.ObjectID) (*models.Catalog, error) {
	if c, ok := t.store.catalogs[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (t *memTx) User(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := t.store.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (t *memTx) PartnerProfile(ctx context.Context, id primitive.ObjectID) (*models.PartnerProfile, error) {
	if p, ok := t.store.profiles[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (t *memTx) WalletSummary(ctx context.Context) (*models.WalletSummary, error) {
	if t.store.summary == nil {
		return nil, nil
	}
	copied := *t.store.summary
	return &copied, nil
}

func (t *memTx) CreatePayable(ctx context.Context, p *models.Payable) error {
	t.payables = append(t.payables, p)
	return nil
}

func (t *memTx) CreateReceivable(ctx context.Context, r *models.Receivable) error {
	t.receivables = append(t.receivables, r)
	return nil
}

func (t *memTx) CreateCustomer(ctx context.Context, c *models.Customer) error {
	t.customers = append(t.customers, c)
	return nil
}

func (t *memTx) SaveWalletSummary(ctx context.Context, w *models.WalletSummary) error {
	copied := *w
	t.summary = &copied
	return nil
}

func (t *memTx) SetEnquiryStatus(ctx context.Context, id primitive.ObjectID, status models.EnquiryStatus) error {
	t.statuses = append(t.statuses, statusChange{id: id, status: status})
	return nil
}

func (t *memTx) apply() error {
	for _, c := range t.customers {
		for _, existing := range t.store.customers {
			if existing.Email == c.Email {
				return fmt.Errorf("duplicate key error on customers.email: %s", c.Email)
			}
		}
	}
	t.store.payables = append(t.store.payables, t.payables...)
	t.store.receivables = append(t.store.receivables, t.receivables...)
	t.store.customers = append(t.store.customers, t.customers...)
	if t.summary != nil {
		t.store.summary = t.summary
	}
	for _, sc := range t.statuses {
		if e, ok := t.store.enquiries[sc.id]; ok {
			e.Status = sc.status
		}
	}
	return nil
}

// fixture wires one enquiry, its catalog, the submitting partner and the
// partner's profile into a fresh store.
type fixture struct {
	store     *memStore
	svc       *Settlement
	enquiryID primitive.ObjectID
	catalog   *models.Catalog
	partner   *models.User
	profile   *models.PartnerProfile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()

	profileID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	catalogID := primitive.NewObjectID()
	enquiryID := primitive.NewObjectID()

	profile := &models.PartnerProfile{
		ID:              profileID,
		UserID:          userID,
		PartnerCategory: models.CategoryAffiliate,
		Activated:       true,
	}
	partner := &models.User{
		ID:               userID,
		Email:            "partner@example.com",
		FullName:         "Pat Partner",
		Role:             models.RolePartner,
		PartnerCode:      "PRT-100200",
		PartnerProfileID: &profileID,
		IsActive:         true,
	}
	catalog := &models.Catalog{
		ID:           catalogID,
		Code:         "CAT-555001",
		Title:        "Lakeside Villa Plot",
		SellingPrice: 20000,
		Currency:     "INR",
		EarningType:  models.EarningFixedRate,
		Earning:      500,
		CategoryCommissions: map[models.PartnerCategory]float64{
			models.CategoryAffiliate: 5,
		},
	}
	enquiry := &models.Enquiry{
		ID:            enquiryID,
		EnquiryCode:   "ENQ-908070",
		CatalogID:     catalogID,
		CatalogCode:   catalog.Code,
		CatalogTitle:  catalog.Title,
		CustomerName:  "Casey Customer",
		CustomerPhone: "+911234567890",
		CustomerEmail: "casey@example.com",
		Pincode:       "560001",
		SubmittedBy:   models.Submitter{ID: userID, Name: partner.FullName, Role: models.RolePartner},
		Status:        models.EnquiryNew,
	}

	store.profiles[profileID] = profile
	store.users[userID] = partner
	store.catalogs[catalogID] = catalog
	store.enquiries[enquiryID] = enquiry

	return &fixture{
		store:     store,
		svc:       NewSettlement(store),
		enquiryID: enquiryID,
		catalog:   catalog,
		partner:   partner,
		profile:   profile,
	}
}

func (f *fixture) confirm(t *testing.T) *Result {
	t.Helper()
	res, err := f.svc.ConfirmEnquiry(context.Background(), f.enquiryID.Hex())
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func TestConfirmEnquiry_EmptyID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ConfirmEnquiry(context.Background(), "  ")
	require.ErrorIs(t, err, ErrEnquiryIDRequired)
	require.Empty(t, f.store.payables)
	require.Empty(t, f.store.receivables)
}

func TestConfirmEnquiry_UnknownID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ConfirmEnquiry(context.Background(), primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, ErrEnquiryNotFound)

	_, err = f.svc.ConfirmEnquiry(context.Background(), "not-a-hex-id")
	require.ErrorIs(t, err, ErrEnquiryNotFound)
}

func TestConfirmEnquiry_WriteSet(t *testing.T) {
	f := newFixture(t)

	res := f.confirm(t)
	require.False(t, res.AlreadyProcessed)

	require.Len(t, f.store.payables, 1)
	payable := f.store.payables[0]
	// Category override: 20000 * 5% = 1000, not the flat 500.
	require.Equal(t, 1000.0, payable.PayableAmount)
	require.Equal(t, "PRT-100200", payable.RecipientID)
	require.Equal(t, "Pat Partner", payable.RecipientName)
	require.Equal(t, models.LedgerPending, payable.Status)
	require.Contains(t, payable.Description, "Lakeside Villa Plot")

	require.Len(t, f.store.receivables, 1)
	receivable := f.store.receivables[0]
	require.Equal(t, 20000.0, receivable.PendingAmount)
	require.Equal(t, "PRT-100200", receivable.PartnerID)
	require.Equal(t, models.LedgerPending, receivable.Status)

	require.NotNil(t, f.store.summary)
	require.Equal(t, 20000.0, f.store.summary.Revenue)
	require.Equal(t, 0.0, f.store.summary.TotalBalance)

	require.Len(t, f.store.customers, 1)
	customer := f.store.customers[0]
	require.Equal(t, "casey@example.com", customer.Email)
	require.Equal(t, f.partner.ID, customer.CreatedBy)
	require.Regexp(t, `^CUST-\d{6}$`, customer.CustomerCode)

	require.Equal(t, models.EnquiryContacted, f.store.enquiries[f.enquiryID].Status)
}

func TestConfirmEnquiry_Idempotent(t *testing.T) {
	f := newFixture(t)

	first := f.confirm(t)
	require.False(t, first.AlreadyProcessed)

	second := f.confirm(t)
	require.True(t, second.AlreadyProcessed)

	require.Len(t, f.store.payables, 1)
	require.Len(t, f.store.receivables, 1)
	require.Len(t, f.store.customers, 1)
	require.Equal(t, 20000.0, f.store.summary.Revenue)
}

func TestConfirmEnquiry_StatusGuard(t *testing.T) {
	f := newFixture(t)
	f.store.enquiries[f.enquiryID].Status = models.EnquiryContacted

	res := f.confirm(t)
	require.True(t, res.AlreadyProcessed)
	require.Empty(t, f.store.payables)
	require.Empty(t, f.store.receivables)
	require.Empty(t, f.store.customers)
	require.Nil(t, f.store.summary)
}

func TestConfirmEnquiry_ZeroCommissionSkipsPayable(t *testing.T) {
	f := newFixture(t)
	f.catalog.EarningType = models.EarningRewardPoint
	f.catalog.CategoryCommissions = nil

	f.confirm(t)

	require.Empty(t, f.store.payables)
	require.Len(t, f.store.receivables, 1)
	require.Equal(t, 20000.0, f.store.receivables[0].PendingAmount)
}

func TestConfirmEnquiry_RevenueAccumulation(t *testing.T) {
	f := newFixture(t)
	f.store.summary = &models.WalletSummary{ID: models.WalletSummaryID, TotalBalance: 250, Revenue: 1000}
	f.catalog.SellingPrice = 5000

	f.confirm(t)

	require.Equal(t, 6000.0, f.store.summary.Revenue)
	require.Equal(t, 250.0, f.store.summary.TotalBalance)
}

func TestConfirmEnquiry_MissingCatalogLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	delete(f.store.catalogs, f.catalog.ID)

	_, err := f.svc.ConfirmEnquiry(context.Background(), f.enquiryID.Hex())
	require.ErrorIs(t, err, ErrCatalogNotFound)

	require.Empty(t, f.store.payables)
	require.Empty(t, f.store.receivables)
	require.Empty(t, f.store.customers)
	require.Nil(t, f.store.summary)
	require.Equal(t, models.EnquiryNew, f.store.enquiries[f.enquiryID].Status)
}

func TestConfirmEnquiry_PartnerPreconditions(t *testing.T) {
	t.Run("user missing", func(t *testing.T) {
		f := newFixture(t)
		delete(f.store.users, f.partner.ID)
		_, err := f.svc.ConfirmEnquiry(context.Background(), f.enquiryID.Hex())
		require.ErrorIs(t, err, ErrPartnerNotFound)
	})

	t.Run("profile reference missing", func(t *testing.T) {
		f := newFixture(t)
		f.store.users[f.partner.ID].PartnerProfileID = nil
		_, err := f.svc.ConfirmEnquiry(context.Background(), f.enquiryID.Hex())
		require.ErrorIs(t, err, ErrMissingPartnerProfile)
		require.Equal(t, models.EnquiryNew, f.store.enquiries[f.enquiryID].Status)
	})

	t.Run("profile document missing", func(t *testing.T) {
		f := newFixture(t)
		delete(f.store.profiles, f.profile.ID)
		_, err := f.svc.ConfirmEnquiry(context.Background(), f.enquiryID.Hex())
		require.ErrorIs(t, err, ErrPartnerProfileNotFound)
	})
}

func TestConfirmEnquiry_CustomerDedup(t *testing.T) {
	f := newFixture(t)

	// A second lead from the same customer against the same catalog.
	secondID := primitive.NewObjectID()
	second := *f.store.enquiries[f.enquiryID]
	second.ID = secondID
	second.EnquiryCode = "ENQ-908071"
	second.Status = models.EnquiryNew
	f.store.enquiries[secondID] = &second

	f.confirm(t)

	res, err := f.svc.ConfirmEnquiry(context.Background(), secondID.Hex())
	require.NoError(t, err)
	require.False(t, res.AlreadyProcessed)

	require.Len(t, f.store.customers, 1)
	require.Len(t, f.store.payables, 2)
	require.Len(t, f.store.receivables, 2)
	require.Equal(t, 40000.0, f.store.summary.Revenue)
}

func TestConfirmEnquiry_RecipientFallsBackToUserID(t *testing.T) {
	f := newFixture(t)
	f.store.users[f.partner.ID].PartnerCode = ""

	f.confirm(t)

	require.Len(t, f.store.payables, 1)
	require.Equal(t, f.partner.ID.Hex(), f.store.payables[0].RecipientID)
	require.Equal(t, f.partner.ID.Hex(), f.store.receivables[0].PartnerID)
}

func TestConfirmEnquiry_CodeGeneratorFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.svc.newCode = func(prefix string) (string, error) {
		return "", errors.New("entropy exhausted")
	}

	_, err := f.svc.ConfirmEnquiry(context.Background(), f.enquiryID.Hex())
	require.Error(t, err)
	require.Empty(t, f.store.customers)
	require.Empty(t, f.store.payables)
	require.Equal(t, models.EnquiryNew, f.store.enquiries[f.enquiryID].Status)
}

func TestResolveCommission(t *testing.T) {
	base := func() *models.Catalog {
		return &models.Catalog{SellingPrice: 20000, Earning: 500, EarningType: models.EarningFixedRate}
	}

	tests := []struct {
		name     string
		mutate   func(c *models.Catalog)
		category models.PartnerCategory
		want     float64
	}{
		{
			name: "category override beats fixed rate",
			mutate: func(c *models.Catalog) {
				c.CategoryCommissions = map[models.PartnerCategory]float64{models.CategoryAffiliate: 5}
			},
			category: models.CategoryAffiliate,
			want:     1000,
		},
		{
			name: "zero category entry is ignored",
			mutate: func(c *models.Catalog) {
				c.CategoryCommissions = map[models.PartnerCategory]float64{models.CategoryAffiliate: 0}
			},
			category: models.CategoryAffiliate,
			want:     500,
		},
		{
			name: "other tier's override does not apply",
			mutate: func(c *models.Catalog) {
				c.CategoryCommissions = map[models.PartnerCategory]float64{models.CategoryChannel: 5}
			},
			category: models.CategoryAffiliate,
			want:     500,
		},
		{
			name: "percentage earning type",
			mutate: func(c *models.Catalog) {
				c.EarningType = models.EarningCommission
				c.Earning = 2.5
			},
			category: models.CategoryAffiliate,
			want:     500,
		},
		{
			name:     "fixed rate ignores price",
			mutate:   func(c *models.Catalog) {},
			category: models.CategoryAffiliate,
			want:     500,
		},
		{
			name: "reward point pays nothing",
			mutate: func(c *models.Catalog) {
				c.EarningType = models.EarningRewardPoint
			},
			category: models.CategoryAffiliate,
			want:     0,
		},
		{
			name: "category type without entry pays nothing",
			mutate: func(c *models.Catalog) {
				c.EarningType = models.EarningCategoryPercent
			},
			category: models.CategoryAffiliate,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			require.Equal(t, tt.want, ResolveCommission(c, tt.category))
		})
	}
}
