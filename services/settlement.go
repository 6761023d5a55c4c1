// services/settlement.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xn-coder/EstateFlow-sub000/models"
	"github.com/xn-coder/EstateFlow-sub000/utils"
)

// Settlement failure reasons. Everything else that comes out of
// ConfirmEnquiry is a store error and is passed through unchanged.
var (
	ErrEnquiryIDRequired      = errors.New("enquiry id is required")
	ErrEnquiryNotFound        = errors.New("enquiry not found")
	ErrCatalogNotFound        = errors.New("catalog not found")
	ErrPartnerNotFound        = errors.New("partner user not found")
	ErrMissingPartnerProfile  = errors.New("partner user has no linked partner profile")
	ErrPartnerProfileNotFound = errors.New("partner profile not found")
)

// SettlementTx is the handle the store hands to the transaction body.
// Reads observe the transaction snapshot; writes are committed atomically
// only if the whole body returns nil. The store rejects reads issued
// after the first write.
type SettlementTx interface {
	Enquiry(ctx context.Context, id primitive.ObjectID) (*models.Enquiry, error)
	Catalog(ctx context.Context, id primitive.ObjectID) (*models.Catalog, error)
	User(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	PartnerProfile(ctx context.Context, id primitive.ObjectID) (*models.PartnerProfile, error)
	WalletSummary(ctx context.Context) (*models.WalletSummary, error)
	CreatePayable(ctx context.Context, p *models.Payable) error
	CreateReceivable(ctx context.Context, r *models.Receivable) error
	CreateCustomer(ctx context.Context, c *models.Customer) error
	SaveWalletSummary(ctx context.Context, w *models.WalletSummary) error
	SetEnquiryStatus(ctx context.Context, id primitive.ObjectID, status models.EnquiryStatus) error
}

// Store is the document-store access the settlement engine needs. Lookup
// methods return (nil, nil) when no document matches. FindCustomerByEmail
// is a secondary-index query and therefore cannot run inside
// RunSettlement; see the dedup note on ConfirmEnquiry.
type Store interface {
	FindEnquiry(ctx context.Context, id primitive.ObjectID) (*models.Enquiry, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	RunSettlement(ctx context.Context, fn func(ctx context.Context, tx SettlementTx) error) error
}

// Result is the outcome of a settlement attempt that did not fail.
type Result struct {
	Message string `json:"message"`
	// AlreadyProcessed is set when the enquiry had left the New state
	// before this call; nothing was written.
	AlreadyProcessed bool `json:"alreadyProcessed,omitempty"`
}

// Settlement converts a New enquiry into ledger entries, a customer
// record and a revenue increment, all inside one store transaction.
type Settlement struct {
	store   Store
	newCode func(prefix string) (string, error)
}

func NewSettlement(store Store) *Settlement {
	return &Settlement{
		store:   store,
		newCode: utils.GenerateCode,
	}
}

// ConfirmEnquiry settles the enquiry with the given id.
//
// All precondition reads and all writes happen inside one transaction, so
// either the full write set commits or nothing does, and concurrent calls
// for the same enquiry race on the fresh in-transaction status read: one
// wins, the rest no-op.
//
// The only read outside the transaction is the customer-by-email lookup,
// because the store does not allow secondary-index queries in a
// transaction. Two settlements for the same email can both pass that
// check; the unique index on customers.email then fails the second
// insert, aborting its transaction, and a retry no-ops the creation.
func (s *Settlement) ConfirmEnquiry(ctx context.Context, enquiryID string) (*Result, error) {
	if strings.TrimSpace(enquiryID) == "" {
		return nil, ErrEnquiryIDRequired
	}

	id, err := primitive.ObjectIDFromHex(enquiryID)
	if err != nil {
		return nil, ErrEnquiryNotFound
	}

	// Preliminary read to learn the customer email for the dedup query.
	// The authoritative enquiry read happens again inside the transaction.
	preview, err := s.store.FindEnquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	if preview == nil {
		return nil, ErrEnquiryNotFound
	}

	existing, err := s.store.FindCustomerByEmail(ctx, preview.CustomerEmail)
	if err != nil {
		return nil, err
	}
	customerExists := existing != nil

	result := &Result{}
	err = s.store.RunSettlement(ctx, func(ctx context.Context, tx SettlementTx) error {
		// Reads first; the store rejects read-after-write ordering.
		enquiry, err := tx.Enquiry(ctx, id)
		if err != nil {
			return err
		}
		if enquiry == nil {
			return ErrEnquiryNotFound
		}
		if enquiry.Status != models.EnquiryNew {
			result.Message = "Enquiry already processed"
			result.AlreadyProcessed = true
			return nil
		}

		catalog, err := tx.Catalog(ctx, enquiry.CatalogID)
		if err != nil {
			return err
		}
		if catalog == nil {
			return ErrCatalogNotFound
		}

		partner, err := tx.User(ctx, enquiry.SubmittedBy.ID)
		if err != nil {
			return err
		}
		if partner == nil {
			return ErrPartnerNotFound
		}
		if partner.PartnerProfileID == nil {
			return ErrMissingPartnerProfile
		}

		profile, err := tx.PartnerProfile(ctx, *partner.PartnerProfileID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrPartnerProfileNotFound
		}

		summary, err := tx.WalletSummary(ctx)
		if err != nil {
			return err
		}

		commission := ResolveCommission(catalog, profile.PartnerCategory)
		now := time.Now()

		if commission > 0 {
			payable := &models.Payable{
				Date:          now,
				RecipientName: partner.FullName,
				RecipientID:   partner.LedgerID(),
				PayableAmount: commission,
				Status:        models.LedgerPending,
				Description:   "Commission for " + catalog.Title,
			}
			if err := tx.CreatePayable(ctx, payable); err != nil {
				return err
			}
		}

		receivable := &models.Receivable{
			Date:          now,
			PartnerName:   partner.FullName,
			PartnerID:     partner.LedgerID(),
			PendingAmount: catalog.SellingPrice,
			Status:        models.LedgerPending,
			Description:   "Sale of " + catalog.Title,
		}
		if err := tx.CreateReceivable(ctx, receivable); err != nil {
			return err
		}

		if summary == nil {
			summary = &models.WalletSummary{ID: models.WalletSummaryID}
		}
		summary.Revenue += catalog.SellingPrice
		if err := tx.SaveWalletSummary(ctx, summary); err != nil {
			return err
		}

		if !customerExists {
			code, err := s.newCode("CUST")
			if err != nil {
				return err
			}
			customer := &models.Customer{
				CustomerCode: code,
				Name:         enquiry.CustomerName,
				Email:        enquiry.CustomerEmail,
				Phone:        enquiry.CustomerPhone,
				Pincode:      enquiry.Pincode,
				CreatedBy:    enquiry.SubmittedBy.ID,
				CreatedAt:    now,
			}
			if err := tx.CreateCustomer(ctx, customer); err != nil {
				return err
			}
		}

		return tx.SetEnquiryStatus(ctx, enquiry.ID, models.EnquiryContacted)
	})
	if err != nil {
		return nil, err
	}

	if result.Message == "" {
		result.Message = "Enquiry confirmed and ledger entries created"
	}
	return result, nil
}

// ResolveCommission computes the partner's commission for one sale of
// the catalog, in this priority order: a non-zero per-category percentage
// for the partner's tier, then a percentage earning type, then a flat
// fixed-rate amount, else zero.
func ResolveCommission(catalog *models.Catalog, category models.PartnerCategory) float64 {
	if pct, ok := catalog.CategoryCommissions[category]; ok && pct > 0 {
		return catalog.SellingPrice * pct / 100
	}

	switch catalog.EarningType {
	case models.EarningCommission:
		return catalog.SellingPrice * catalog.Earning / 100
	case models.EarningFixedRate:
		return catalog.Earning
	case models.EarningRewardPoint, models.EarningCategoryPercent:
		// Reward points are not money; a category-commission catalog
		// without an entry for this tier pays nothing.
		return 0
	default:
		return 0
	}
}
