package services

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finpilot/internal/billing"
	apperrors "finpilot/internal/errors"
	"finpilot/internal/models"
)

// paymentService persists the payment ledger and builds the views that
// depend on it.
type paymentService struct {
	db          *gorm.DB
	clock       Clock
	dueSoonDays int
}

// NewPaymentService creates a new PaymentServicer. dueSoonDays is the window
// in which an unpaid invoice or bill is reported as due soon.
func NewPaymentService(db *gorm.DB, clock Clock, dueSoonDays int) PaymentServicer {
	if dueSoonDays < 0 {
		dueSoonDays = billing.DefaultDueSoonDays
	}
	return &paymentService{db: db, clock: clock, dueSoonDays: dueSoonDays}
}

// MarkPaid records key as paid. Marking an already paid key replaces the
// stored amount and date.
func (s *paymentService) MarkPaid(userID string, key billing.PaymentKey, amount float64, paidDate *civil.Date) (*models.PaymentRecord, error) {
	if err := s.checkKey(userID, key); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "paid amount cannot be negative")
	}
	date := s.clock.Today()
	if paidDate != nil {
		date = *paidDate
	}

	record := &models.PaymentRecord{
		UserID:      userID,
		Kind:        string(key.Kind),
		ReferenceID: key.ReferenceID,
		Month:       int(key.Month),
		Year:        key.Year,
		PaidAmount:  amount,
		PaidDate:    models.TimeOf(date),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "kind"}, {Name: "reference_id"}, {Name: "month"}, {Name: "year"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"paid_amount", "paid_date", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// On conflict the stored row keeps its original id.
	stored, err := s.findRecord(userID, key)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Unmark deletes the record of key. It reports whether a record existed.
func (s *paymentService) Unmark(userID string, key billing.PaymentKey) (bool, error) {
	if err := key.Validate(); err != nil {
		return false, apperrors.Wrap(apperrors.ErrInvalidPaymentKey, err)
	}
	res := s.db.Where("user_id = ? AND kind = ? AND reference_id = ? AND month = ? AND year = ?",
		userID, string(key.Kind), key.ReferenceID, int(key.Month), key.Year).
		Delete(&models.PaymentRecord{})
	if res.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetStatus reports whether key is paid.
func (s *paymentService) GetStatus(userID string, key billing.PaymentKey) (*PaymentStatus, error) {
	if err := key.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidPaymentKey, err)
	}
	record, err := s.findRecord(userID, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &PaymentStatus{Paid: false}, nil
		}
		return nil, err
	}
	return &PaymentStatus{Paid: true, Record: record}, nil
}

// LoadLedger reads every payment record of the user into a ledger.
func (s *paymentService) LoadLedger(userID string) (*billing.Ledger, error) {
	return loadLedger(s.db, userID)
}

// GetOverview lists this month's card invoices and recurring bills with their
// status, plus any unpaid invoice of the previous month.
func (s *paymentService) GetOverview(userID string) (*PaymentsOverview, error) {
	today := s.clock.Today()
	period := billing.PeriodOf(today)

	var cards []models.Card
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	purchases, subs, err := loadCardActivity(s.db, userID, nil)
	if err != nil {
		return nil, err
	}
	ledger, err := loadLedger(s.db, userID)
	if err != nil {
		return nil, err
	}

	overview := &PaymentsOverview{
		Today:    today,
		Invoices: make([]billing.UpcomingInvoice, 0),
		Overdue:  make([]billing.UpcomingInvoice, 0),
		Bills:    make([]RecurringBill, 0),
	}

	for i := range cards {
		card := cards[i].Billing()

		up := billing.Upcoming(card, purchases, subs, ledger, today, s.dueSoonDays)
		if up.Amount > 0 || up.Paid {
			overview.Invoices = append(overview.Invoices, up)
			overview.count(up.Status, up.Amount)
		}

		prev := billing.SynthesizeInvoice(card, period.AddMonths(-1), purchases, subs, ledger)
		if prev.Amount > 0 && !prev.Paid && prev.DueDate.Before(today) {
			late := billing.UpcomingInvoice{Invoice: prev, CardName: card.Name, Status: billing.StatusOverdue}
			overview.Overdue = append(overview.Overdue, late)
			overview.count(late.Status, late.Amount)
		}
	}

	var recurring []models.Transaction
	if err := s.db.Where("user_id = ? AND kind = ? AND is_recurring = ? AND date <= ?",
		userID, models.TransactionKindExpense, true, models.TimeOf(period.Day(31))).
		Where("category IS NULL OR category <> ?", models.CategoryCreditCardInvoice).
		Order("date ASC").Find(&recurring).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, tx := range recurring {
		due := period.Day(models.DateOf(tx.Date).Day)
		paid := ledger.IsPaid(billing.TransactionKey(tx.ID, period))
		bill := RecurringBill{
			TransactionID: tx.ID,
			Description:   tx.Description,
			Category:      tx.Category,
			Amount:        tx.Amount,
			DueDate:       due,
			Status:        billing.StatusOf(due, paid, today, s.dueSoonDays),
		}
		overview.Bills = append(overview.Bills, bill)
		overview.count(bill.Status, bill.Amount)
	}

	return overview, nil
}

func (o *PaymentsOverview) count(status billing.Status, amount float64) {
	switch status {
	case billing.StatusPaid:
		o.PaidCount++
		return
	case billing.StatusOverdue:
		o.OverdueCount++
		o.TotalOverdue += amount
	case billing.StatusDueSoon:
		o.DueSoonCount++
	default:
		o.PendingCount++
	}
	o.TotalPending += amount
}

// GenerateInvoiceTransactions books the current invoice of every card as an
// expense dated on its next due date. Invoices that already have a generated
// expense are skipped, so calling it twice, even concurrently, creates nothing
// new.
func (s *paymentService) GenerateInvoiceTransactions(userID string) ([]models.Transaction, error) {
	today := s.clock.Today()
	period := billing.PeriodOf(today)

	var cards []models.Card
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	purchases, subs, err := loadCardActivity(s.db, userID, nil)
	if err != nil {
		return nil, err
	}

	created := make([]models.Transaction, 0)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range cards {
			card := cards[i].Billing()
			inv := billing.SynthesizeInvoice(card, period, purchases, subs, nil)
			if inv.Amount <= 0 {
				continue
			}

			var existing int64
			if err := tx.Model(&models.Transaction{}).
				Where("user_id = ? AND related_invoice_id = ?", userID, inv.ID).
				Count(&existing).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if existing > 0 {
				continue
			}

			ref := inv.ID
			expense := models.Transaction{
				UserID:           userID,
				Kind:             models.TransactionKindExpense,
				Amount:           inv.Amount,
				Description:      fmt.Sprintf("Card invoice %s %s", card.Name, period),
				Date:             models.TimeOf(billing.NextDueDate(card, today)),
				Category:         models.CategoryCreditCardInvoice,
				RelatedInvoiceID: &ref,
			}
			// A concurrent run may insert the same reference after the count
			// above; the unique index turns that insert into a no-op.
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&expense)
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
			}
			if res.RowsAffected == 0 {
				continue
			}
			created = append(created, expense)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// checkKey validates key and that the thing it refers to belongs to the user.
func (s *paymentService) checkKey(userID string, key billing.PaymentKey) error {
	if err := key.Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidPaymentKey, err)
	}

	switch key.Kind {
	case billing.PaymentKindInvoice:
		cardID, period, err := billing.ParseInvoiceReference(key.ReferenceID)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInvalidPaymentKey, err)
		}
		if period != key.Period() {
			return apperrors.WithMessage(apperrors.ErrInvalidPaymentKey, "invoice reference does not match month and year")
		}
		if _, err := findCard(s.db, userID, cardID); err != nil {
			return err
		}
	case billing.PaymentKindTransaction:
		var count int64
		if err := s.db.Model(&models.Transaction{}).
			Where("id = ? AND user_id = ?", key.ReferenceID, userID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrTransactionNotFound
		}
	}
	return nil
}

func (s *paymentService) findRecord(userID string, key billing.PaymentKey) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := s.db.Where("user_id = ? AND kind = ? AND reference_id = ? AND month = ? AND year = ?",
		userID, string(key.Kind), key.ReferenceID, int(key.Month), key.Year).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// loadLedger reads every payment record of the user into a ledger.
func loadLedger(db *gorm.DB, userID string) (*billing.Ledger, error) {
	var records []models.PaymentRecord
	if err := db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	entries := make([]billing.PaymentRecord, len(records))
	for i := range records {
		entries[i] = records[i].Billing()
	}
	return billing.NewLedger(entries...), nil
}
