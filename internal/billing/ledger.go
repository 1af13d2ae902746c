package billing

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"
)

// PaymentKind tells what a payment acknowledgement refers to.
type PaymentKind string

const (
	PaymentKindInvoice     PaymentKind = "invoice"
	PaymentKindTransaction PaymentKind = "transaction"
)

// Valid reports whether k is a known kind.
func (k PaymentKind) Valid() bool {
	return k == PaymentKindInvoice || k == PaymentKindTransaction
}

// ErrInvalidPaymentKey is returned for keys with an unknown kind, an empty
// reference or a month outside 1-12.
var ErrInvalidPaymentKey = errors.New("billing: invalid payment key")

// PaymentKey is the natural key of a payment acknowledgement. Invoices are
// never stored, so this key is the only link between a record and the thing
// it marks paid.
type PaymentKey struct {
	Kind        PaymentKind
	ReferenceID string
	Month       time.Month
	Year        int
}

// InvoiceKey returns the ledger key of the invoice for card in period.
func InvoiceKey(cardID string, period Period) PaymentKey {
	return PaymentKey{
		Kind:        PaymentKindInvoice,
		ReferenceID: InvoiceReference(cardID, period),
		Month:       period.Month,
		Year:        period.Year,
	}
}

// TransactionKey returns the ledger key of a recurring transaction in period.
func TransactionKey(transactionID string, period Period) PaymentKey {
	return PaymentKey{
		Kind:        PaymentKindTransaction,
		ReferenceID: transactionID,
		Month:       period.Month,
		Year:        period.Year,
	}
}

// Validate checks the key's fields.
func (k PaymentKey) Validate() error {
	switch {
	case !k.Kind.Valid():
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPaymentKey, k.Kind)
	case k.ReferenceID == "":
		return fmt.Errorf("%w: empty reference", ErrInvalidPaymentKey)
	case k.Month < time.January || k.Month > time.December:
		return fmt.Errorf("%w: month %d", ErrInvalidPaymentKey, k.Month)
	}
	return nil
}

// Period returns the month the key refers to.
func (k PaymentKey) Period() Period {
	return Period{Year: k.Year, Month: k.Month}
}

// PaymentRecord is one acknowledgement in the ledger.
type PaymentRecord struct {
	Key        PaymentKey
	PaidAmount float64
	PaidDate   civil.Date
}

// PaidChecker answers whether a key has been acknowledged.
type PaidChecker interface {
	IsPaid(key PaymentKey) bool
}

// Ledger holds at most one PaymentRecord per key. Marking a key that is
// already present replaces the stored amount and date.
//
// A Ledger is safe for concurrent use. Calls on different keys never
// interfere with each other.
type Ledger struct {
	mu      sync.RWMutex
	records map[PaymentKey]PaymentRecord
}

// NewLedger builds a ledger from existing records. Later records win when two
// share a key.
func NewLedger(records ...PaymentRecord) *Ledger {
	l := &Ledger{records: make(map[PaymentKey]PaymentRecord, len(records))}
	for _, r := range records {
		l.records[r.Key] = r
	}
	return l
}

// MarkPaid records key as paid with amount on paidDate.
func (l *Ledger) MarkPaid(key PaymentKey, amount float64, paidDate civil.Date) error {
	if err := key.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.records == nil {
		l.records = make(map[PaymentKey]PaymentRecord)
	}
	l.records[key] = PaymentRecord{Key: key, PaidAmount: amount, PaidDate: paidDate}
	return nil
}

// Unmark removes the record for key and reports whether one existed.
func (l *Ledger) Unmark(key PaymentKey) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.records[key]; !ok {
		return false
	}
	delete(l.records, key)
	return true
}

// IsPaid reports whether key has a record. A nil ledger has none.
func (l *Ledger) IsPaid(key PaymentKey) bool {
	if l == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.records[key]
	return ok
}

// Record returns the record stored for key.
func (l *Ledger) Record(key PaymentKey) (PaymentRecord, bool) {
	if l == nil {
		return PaymentRecord{}, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.records[key]
	return r, ok
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Records returns a snapshot ordered by year, month, kind and reference.
func (l *Ledger) Records() []PaymentRecord {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	out := make([]PaymentRecord, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ReferenceID < b.ReferenceID
	})
	return out
}
