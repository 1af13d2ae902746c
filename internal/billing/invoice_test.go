package billing

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

const tolerance = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestInvoiceReference(t *testing.T) {
	got := InvoiceReference("card-1", Period{2025, 3})
	if got != "card-1:2025:3" {
		t.Errorf("expected card-1:2025:3, got %s", got)
	}
	key := InvoiceKey("card-1", Period{2025, 3})
	if key.ReferenceID != got || key.Kind != PaymentKindInvoice || key.Month != 3 || key.Year != 2025 {
		t.Errorf("invoice key does not match reference: %+v", key)
	}
}

func TestParseInvoiceReference(t *testing.T) {
	cardID, period, err := ParseInvoiceReference(InvoiceReference("0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b", Period{2024, 12}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cardID != "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b" || period != (Period{2024, 12}) {
		t.Errorf("round trip failed: %s %v", cardID, period)
	}

	for _, ref := range []string{"", "c1", "c1:2025", ":2025:3", "c1:year:3", "c1:2025:13", "c1:2025:0", "a:b:2025:3"} {
		if _, _, err := ParseInvoiceReference(ref); !errors.Is(err, ErrInvalidPaymentKey) {
			t.Errorf("%q: expected ErrInvalidPaymentKey, got %v", ref, err)
		}
	}
}

func TestSynthesizeInvoice_InstallmentScenario(t *testing.T) {
	card := Card{ID: "c1", CreditLimit: 1000, DueDay: 10}
	purchases := []Purchase{{
		ID: "p1", CardID: "c1", Description: "Phone", Amount: 300,
		InstallmentCount: 3, PurchaseDate: date(2025, 1, 15),
	}}

	start := Period{2025, 1}
	for i, want := range []float64{100, 100, 100, 0} {
		period := start.AddMonths(i)
		inv := SynthesizeInvoice(card, period, purchases, nil, nil)
		if !approx(inv.PurchasesAmount, want) {
			t.Errorf("month %v: expected purchases amount %.2f, got %.2f", period, want, inv.PurchasesAmount)
		}
		if want > 0 {
			if len(inv.Lines) != 1 {
				t.Fatalf("month %v: expected 1 line, got %d", period, len(inv.Lines))
			}
			if inv.Lines[0].InstallmentNumber != i+1 || inv.Lines[0].InstallmentCount != 3 {
				t.Errorf("month %v: expected installment %d/3, got %d/%d",
					period, i+1, inv.Lines[0].InstallmentNumber, inv.Lines[0].InstallmentCount)
			}
		} else if len(inv.Lines) != 0 {
			t.Errorf("month %v: expected no lines, got %d", period, len(inv.Lines))
		}
	}
}

func TestSynthesizeInvoice_AmortizationIsPartition(t *testing.T) {
	card := Card{ID: "c1", CreditLimit: 5000, DueDay: 5}
	cases := []Purchase{
		{ID: "a", CardID: "c1", Amount: 100, InstallmentCount: 3, PurchaseDate: date(2025, 11, 2)},
		{ID: "b", CardID: "c1", Amount: 999.99, InstallmentCount: 7, PurchaseDate: date(2024, 6, 30)},
		{ID: "c", CardID: "c1", Amount: 12.34, InstallmentCount: 1, PurchaseDate: date(2025, 2, 28)},
		{ID: "d", CardID: "c1", Amount: 1234.56, InstallmentCount: 12, PurchaseDate: date(2023, 12, 31)},
	}

	for _, p := range cases {
		t.Run(p.ID, func(t *testing.T) {
			start := PeriodOf(p.PurchaseDate)
			var sum float64
			for i := 0; i < p.InstallmentCount; i++ {
				sum += SynthesizeInvoice(card, start.AddMonths(i), []Purchase{p}, nil, nil).Amount
			}
			if math.Abs(sum-p.Amount) > 1e-6 {
				t.Errorf("installments sum to %.10f, want %.2f", sum, p.Amount)
			}
			if got := SynthesizeInvoice(card, start.AddMonths(-1), []Purchase{p}, nil, nil).Amount; got != 0 {
				t.Errorf("expected nothing before purchase month, got %.2f", got)
			}
			if got := SynthesizeInvoice(card, start.AddMonths(p.InstallmentCount), []Purchase{p}, nil, nil).Amount; got != 0 {
				t.Errorf("expected nothing after last installment, got %.2f", got)
			}
		})
	}
}

func TestSynthesizeInvoice_Subscriptions(t *testing.T) {
	card := Card{ID: "c1", CreditLimit: 1000, DueDay: 10}
	subs := []Subscription{
		{ID: "s1", CardID: "c1", Description: "Music", MonthlyAmount: 50, StartDate: date(2025, 3, 20), Active: true},
		{ID: "s2", CardID: "c1", Description: "Old", MonthlyAmount: 30, StartDate: date(2024, 1, 1), Active: false},
		{ID: "s3", CardID: "other", Description: "Elsewhere", MonthlyAmount: 70, StartDate: date(2024, 1, 1), Active: true},
	}

	t.Run("before start month", func(t *testing.T) {
		inv := SynthesizeInvoice(card, Period{2025, 2}, nil, subs, nil)
		if inv.SubscriptionsAmount != 0 {
			t.Errorf("expected 0, got %.2f", inv.SubscriptionsAmount)
		}
	})

	t.Run("from start month on", func(t *testing.T) {
		for _, period := range []Period{{2025, 3}, {2025, 4}, {2027, 1}} {
			inv := SynthesizeInvoice(card, period, nil, subs, nil)
			if inv.SubscriptionsAmount != 50 || inv.Amount != 50 {
				t.Errorf("%v: expected 50, got subscriptions %.2f total %.2f", period, inv.SubscriptionsAmount, inv.Amount)
			}
		}
	})
}

func TestSynthesizeInvoice_IgnoresOtherCards(t *testing.T) {
	card := Card{ID: "c1", CreditLimit: 1000, DueDay: 10}
	purchases := []Purchase{
		{ID: "p1", CardID: "c1", Amount: 100, InstallmentCount: 1, PurchaseDate: date(2025, 5, 1)},
		{ID: "p2", CardID: "missing", Amount: 900, InstallmentCount: 1, PurchaseDate: date(2025, 5, 1)},
	}
	inv := SynthesizeInvoice(card, Period{2025, 5}, purchases, nil, nil)
	if inv.Amount != 100 {
		t.Errorf("expected 100, got %.2f", inv.Amount)
	}
}

func TestSynthesizeInvoice_PaidFromLedger(t *testing.T) {
	card := Card{ID: "c1", CreditLimit: 1000, DueDay: 31}
	period := Period{2025, 2}
	ledger := NewLedger()

	inv := SynthesizeInvoice(card, period, nil, nil, ledger)
	if inv.Paid {
		t.Fatal("expected unpaid invoice")
	}
	if inv.ID != "c1:2025:2" {
		t.Errorf("expected id c1:2025:2, got %s", inv.ID)
	}
	if inv.DueDate != date(2025, 2, 28) {
		t.Errorf("expected due date 2025-02-28, got %v", inv.DueDate)
	}

	if err := ledger.MarkPaid(InvoiceKey(card.ID, period), 0, date(2025, 2, 20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !SynthesizeInvoice(card, period, nil, nil, ledger).Paid {
		t.Error("expected invoice to be paid after MarkPaid")
	}
	if SynthesizeInvoice(card, period.Next(), nil, nil, ledger).Paid {
		t.Error("payment must not leak into the next month")
	}
}

func TestSynthesizeInvoice_Idempotent(t *testing.T) {
	card := Card{ID: "c1", CreditLimit: 1000, DueDay: 15}
	purchases := []Purchase{
		{ID: "p1", CardID: "c1", Amount: 250, InstallmentCount: 4, PurchaseDate: date(2025, 1, 10)},
		{ID: "p2", CardID: "c1", Amount: 80, InstallmentCount: 1, PurchaseDate: date(2025, 2, 3)},
	}
	subs := []Subscription{{ID: "s1", CardID: "c1", MonthlyAmount: 19.9, StartDate: date(2024, 1, 1), Active: true}}
	ledger := NewLedger()

	first := SynthesizeInvoice(card, Period{2025, 2}, purchases, subs, ledger)
	second := SynthesizeInvoice(card, Period{2025, 2}, purchases, subs, ledger)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical invoices:\n%+v\n%+v", first, second)
	}
}

func TestInvoicesForYear(t *testing.T) {
	card := Card{ID: "c1", CreditLimit: 1000, DueDay: 10}
	purchases := []Purchase{{ID: "p1", CardID: "c1", Amount: 120, InstallmentCount: 2, PurchaseDate: date(2025, 12, 1)}}

	invoices := InvoicesForYear(card, 2025, purchases, nil, nil)
	if len(invoices) != 12 {
		t.Fatalf("expected 12 invoices, got %d", len(invoices))
	}
	for i, inv := range invoices {
		if inv.Month != i+1 || inv.Year != 2025 {
			t.Errorf("invoice %d has period %d/%d", i, inv.Month, inv.Year)
		}
	}
	if invoices[11].Amount != 60 {
		t.Errorf("expected December amount 60, got %.2f", invoices[11].Amount)
	}
	if invoices[10].Amount != 0 {
		t.Errorf("expected November amount 0, got %.2f", invoices[10].Amount)
	}
}
