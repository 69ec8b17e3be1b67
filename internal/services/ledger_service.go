package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"npu-collective/sabha/internal/apperrors"
	"npu-collective/sabha/internal/auth"
	"npu-collective/sabha/internal/authz"
	"npu-collective/sabha/internal/constants"
	"npu-collective/sabha/internal/models/entities"
	gormModels "npu-collective/sabha/internal/models/gorm"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const overviewCacheTTL = 30 * time.Second

// LedgerService owns all FinanceRecord mutations. Every mutation and its
// audit entry commit as one transaction.
type LedgerService struct {
	db    *gorm.DB
	audit *AuditService
	cache *cache.Cache
	group singleflight.Group
}

func NewLedgerService(db *gorm.DB, audit *AuditService) *LedgerService {
	return &LedgerService{
		db:    db,
		audit: audit,
		cache: cache.New(overviewCacheTTL, 5*time.Minute),
	}
}

// CreateFinanceRecordInput is the validated-on-entry shape for CreateRecord.
// Amount is integer paise; decimals never touch the ledger.
type CreateFinanceRecordInput struct {
	UserID          string
	Amount          int64
	TransactionType constants.TransactionType
	PaymentStatus   constants.PaymentStatus
	TransactionDate time.Time
	DueDate         *time.Time
	PaymentMethod   *string
	Description     *string
}

// FinanceRecordPatch is a partial update. Nil means "unchanged"; the
// Clear flags null out the optional fields, since a nil pointer cannot
// say "set to null". The UserID field exists only so an attempted
// ownership change can be rejected explicitly.
type FinanceRecordPatch struct {
	UserID           *string
	Amount           *int64
	TransactionType  *constants.TransactionType
	TransactionDate  *time.Time
	DueDate          *time.Time
	ClearDueDate     bool
	PaymentMethod    *string
	Description      *string
	ClearDescription bool
}

// RecordFilter narrows ListRecords.
type RecordFilter struct {
	UserID          string
	TransactionType constants.TransactionType
	PaymentStatus   constants.PaymentStatus
	Limit           int
}

// OverviewScope selects global or per-user aggregation.
type OverviewScope struct {
	UserID string // empty = global
}

func actorOf(p auth.PrincipalClaims) authz.Actor {
	if p == nil {
		return authz.Actor{}
	}
	return authz.Actor{UserID: p.UserID(), Role: p.Role()}
}

func (s *LedgerService) CreateRecord(ctx context.Context, principal auth.PrincipalClaims, input CreateFinanceRecordInput) (*gormModels.FinanceRecord, error) {
	if err := authz.Check(actorOf(principal), authz.ActionFinanceCreate, authz.Target{}); err != nil {
		return nil, err
	}

	if input.Amount <= 0 {
		return nil, apperrors.NewValidation("amount", "must be a positive amount in paise")
	}
	if !input.TransactionType.Valid() {
		return nil, apperrors.NewValidation("transaction_type", "unknown transaction type "+input.TransactionType.String())
	}
	if input.PaymentStatus == "" {
		input.PaymentStatus = constants.PaymentPending
	}
	if !input.PaymentStatus.Valid() {
		return nil, apperrors.NewValidation("payment_status", "unknown payment status "+input.PaymentStatus.String())
	}
	if input.UserID == "" {
		return nil, apperrors.NewValidation("user_id", "owner is required")
	}
	if input.TransactionDate.IsZero() {
		input.TransactionDate = time.Now().Truncate(24 * time.Hour)
	}

	record := gormModels.FinanceRecord{
		ID:              uuid.New().String(),
		UserID:          input.UserID,
		Amount:          input.Amount,
		TransactionType: input.TransactionType,
		PaymentStatus:   input.PaymentStatus,
		TransactionDate: input.TransactionDate,
		DueDate:         input.DueDate,
		PaymentMethod:   input.PaymentMethod,
		Description:     input.Description,
	}

	// A record created directly as paid still gets its receipt.
	if record.PaymentStatus == constants.PaymentPaid {
		receipt := newReceiptNumber()
		record.ReceiptNumber = &receipt
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner gormModels.User
		if err := tx.Where("id = ?", input.UserID).First(&owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewValidation("user_id", "user does not exist")
			}
			return apperrors.WrapStorage("ledger.create", err)
		}

		if err := tx.Create(&record).Error; err != nil {
			return apperrors.WrapStorage("ledger.create", err)
		}

		actorID := principal.UserID()
		return s.audit.Record(tx, &actorID,
			constants.ActionFinanceRecordCreated, constants.ResourceFinance,
			&record.ID, ChangeDetails(nil, record))
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOverview()
	return &record, nil
}

func (s *LedgerService) UpdateRecord(ctx context.Context, principal auth.PrincipalClaims, id string, patch FinanceRecordPatch) (*gormModels.FinanceRecord, error) {
	if err := authz.Check(actorOf(principal), authz.ActionFinanceUpdate, authz.Target{}); err != nil {
		return nil, err
	}

	if patch.UserID != nil {
		// Ownership is immutable for the life of the record.
		return nil, apperrors.NewInvariant("finance record user_id cannot be changed")
	}
	if patch.Amount != nil && *patch.Amount <= 0 {
		return nil, apperrors.NewValidation("amount", "must be a positive amount in paise")
	}
	if patch.TransactionType != nil && !patch.TransactionType.Valid() {
		return nil, apperrors.NewValidation("transaction_type", "unknown transaction type "+patch.TransactionType.String())
	}

	var updated gormModels.FinanceRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.lockRecord(tx, id)
		if err != nil {
			return err
		}
		before := *record

		if patch.Amount != nil {
			record.Amount = *patch.Amount
		}
		if patch.TransactionType != nil {
			record.TransactionType = *patch.TransactionType
		}
		if patch.TransactionDate != nil {
			record.TransactionDate = *patch.TransactionDate
		}
		if patch.ClearDueDate {
			record.DueDate = nil
		} else if patch.DueDate != nil {
			record.DueDate = patch.DueDate
		}
		if patch.PaymentMethod != nil {
			record.PaymentMethod = patch.PaymentMethod
		}
		if patch.ClearDescription {
			record.Description = nil
		} else if patch.Description != nil {
			record.Description = patch.Description
		}

		if err := tx.Save(record).Error; err != nil {
			return apperrors.WrapStorage("ledger.update", err)
		}

		actorID := principal.UserID()
		if err := s.audit.Record(tx, &actorID,
			constants.ActionFinanceRecordUpdated, constants.ResourceFinance,
			&record.ID, ChangeDetails(before, *record)); err != nil {
			return err
		}

		updated = *record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOverview()
	return &updated, nil
}

func (s *LedgerService) DeleteRecord(ctx context.Context, principal auth.PrincipalClaims, id string) error {
	if err := authz.Check(actorOf(principal), authz.ActionFinanceDelete, authz.Target{}); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.lockRecord(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Delete(&gormModels.FinanceRecord{}, "id = ?", id).Error; err != nil {
			return apperrors.WrapStorage("ledger.delete", err)
		}

		// The row is gone, so the audit entry carries the full pre-image.
		actorID := principal.UserID()
		return s.audit.Record(tx, &actorID,
			constants.ActionFinanceRecordDeleted, constants.ResourceFinance,
			&id, ChangeDetails(*record, nil))
	})
	if err != nil {
		return err
	}

	s.invalidateOverview()
	return nil
}

// paymentTransitions is the closed table of legal payment status hops.
var paymentTransitions = map[constants.PaymentStatus][]constants.PaymentStatus{
	constants.PaymentPending: {constants.PaymentPaid, constants.PaymentOverdue, constants.PaymentCancelled},
	constants.PaymentPaid:    {constants.PaymentPending},
	constants.PaymentOverdue: {constants.PaymentPaid},
}

func paymentTransitionAllowed(from, to constants.PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *LedgerService) TransitionPaymentStatus(ctx context.Context, principal auth.PrincipalClaims, id string, newStatus constants.PaymentStatus) (*gormModels.FinanceRecord, error) {
	if err := authz.Check(actorOf(principal), authz.ActionFinanceTransition, authz.Target{}); err != nil {
		return nil, err
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidation("new_status", "unknown payment status "+newStatus.String())
	}

	var updated gormModels.FinanceRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.lockRecord(tx, id)
		if err != nil {
			return err
		}

		if !paymentTransitionAllowed(record.PaymentStatus, newStatus) {
			return apperrors.NewPaymentTransition(record.PaymentStatus, newStatus)
		}

		before := *record
		record.PaymentStatus = newStatus

		// The first entry to paid mints the receipt; reversals keep it so
		// the number stays stable for the record's lifetime.
		if newStatus == constants.PaymentPaid && record.ReceiptNumber == nil {
			receipt := newReceiptNumber()
			record.ReceiptNumber = &receipt
		}

		if err := tx.Save(record).Error; err != nil {
			return apperrors.WrapStorage("ledger.transition", err)
		}

		actorID := principal.UserID()
		details := ChangeDetails(before, *record)
		details["old_status"] = before.PaymentStatus.String()
		details["new_status"] = newStatus.String()
		if err := s.audit.Record(tx, &actorID,
			constants.ActionPaymentStatusUpdated, constants.ResourceFinance,
			&record.ID, details); err != nil {
			return err
		}

		updated = *record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOverview()
	return &updated, nil
}

func (s *LedgerService) GetRecord(ctx context.Context, principal auth.PrincipalClaims, id string) (*gormModels.FinanceRecord, error) {
	var record gormModels.FinanceRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidation("id", "finance record not found")
		}
		return nil, apperrors.WrapStorage("ledger.get", err)
	}

	if err := authz.Check(actorOf(principal), authz.ActionFinanceReadOwn, authz.Target{OwnerID: record.UserID}); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListRecords returns the ledger slice the principal may see: staff see
// everything, members only their own rows.
func (s *LedgerService) ListRecords(ctx context.Context, principal auth.PrincipalClaims, filter RecordFilter) ([]gormModels.FinanceRecord, error) {
	actor := actorOf(principal)

	if d := authz.Authorize(actor, authz.ActionFinanceReadAll, authz.Target{}); !d.Allowed {
		// Not staff: restrict to the caller's own records.
		if err := authz.Check(actor, authz.ActionFinanceReadOwn, authz.Target{OwnerID: actor.UserID}); err != nil {
			return nil, err
		}
		filter.UserID = actor.UserID
	}

	q := s.db.WithContext(ctx).Model(&gormModels.FinanceRecord{}).
		Preload("User").
		Order("transaction_date DESC, created_at DESC")
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.TransactionType != "" {
		q = q.Where("transaction_type = ?", filter.TransactionType)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	var records []gormModels.FinanceRecord
	if err := q.Limit(limit).Find(&records).Error; err != nil {
		return nil, apperrors.WrapStorage("ledger.list", err)
	}
	return records, nil
}

// overviewQuery computes the six aggregates in one pass. CASE WHEN keeps
// it portable between Postgres and the sqlite test database.
const overviewQuery = `
SELECT
	COALESCE(SUM(CASE WHEN transaction_type = 'contribution' THEN amount ELSE 0 END), 0) AS total_contributions,
	COALESCE(SUM(CASE WHEN transaction_type = 'donation' THEN amount ELSE 0 END), 0) AS total_donations,
	COALESCE(SUM(CASE WHEN transaction_type IN ('dues','fine') AND payment_status = 'paid' THEN amount ELSE 0 END), 0) AS total_dues_collected,
	COALESCE(SUM(CASE WHEN transaction_type IN ('dues','fine') AND payment_status = 'pending' THEN amount ELSE 0 END), 0) AS total_outstanding_dues,
	COALESCE(SUM(CASE WHEN transaction_type = 'fine' THEN amount ELSE 0 END), 0) AS total_fines,
	COALESCE(SUM(CASE WHEN transaction_type = 'adjustment' THEN amount ELSE 0 END), 0) AS total_expenses
FROM finance_records
`

// ComputeOverview aggregates the live ledger. The result is cached
// briefly and concurrent recomputes collapse into one query; every
// mutation flushes the cache so the summary never lags a committed write.
func (s *LedgerService) ComputeOverview(ctx context.Context, scope OverviewScope) (*entities.FinanceOverview, error) {
	key := "overview:global"
	if scope.UserID != "" {
		key = "overview:user:" + scope.UserID
	}

	if cached, found := s.cache.Get(key); found {
		overview := cached.(entities.FinanceOverview)
		return &overview, nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		var overview entities.FinanceOverview
		q := s.db.WithContext(ctx)
		if scope.UserID != "" {
			err := q.Raw(overviewQuery+" WHERE user_id = ?", scope.UserID).Scan(&overview).Error
			if err != nil {
				return nil, apperrors.WrapStorage("ledger.overview", err)
			}
		} else {
			if err := q.Raw(overviewQuery).Scan(&overview).Error; err != nil {
				return nil, apperrors.WrapStorage("ledger.overview", err)
			}
		}
		s.cache.Set(key, overview, overviewCacheTTL)
		return overview, nil
	})
	if err != nil {
		return nil, err
	}

	overview := result.(entities.FinanceOverview)
	return &overview, nil
}

// UserOutstandingDues sums pending due-like amounts for one member.
func (s *LedgerService) UserOutstandingDues(ctx context.Context, principal auth.PrincipalClaims, userID string) (int64, error) {
	if err := authz.Check(actorOf(principal), authz.ActionFinanceReadOwn, authz.Target{OwnerID: userID}); err != nil {
		return 0, err
	}

	var total int64
	err := s.db.WithContext(ctx).Model(&gormModels.FinanceRecord{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND transaction_type IN ? AND payment_status = ?",
			userID,
			[]constants.TransactionType{constants.TxDues, constants.TxFine},
			constants.PaymentPending).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.WrapStorage("ledger.outstanding_dues", err)
	}
	return total, nil
}

// lockRecord loads one row for mutation, serialized per record so racing
// transitions cannot both observe the same starting state.
func (s *LedgerService) lockRecord(tx *gorm.DB, id string) (*gormModels.FinanceRecord, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var record gormModels.FinanceRecord
	if err := q.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidation("id", "finance record not found")
		}
		return nil, apperrors.WrapStorage("ledger.lock", err)
	}
	return &record, nil
}

func (s *LedgerService) invalidateOverview() {
	s.cache.Flush()
}

func newReceiptNumber() string {
	return fmt.Sprintf("REC-%s", uuid.New().String())
}
