package forecast

import (
	"strings"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestAssessPurchaseViability(t *testing.T) {
	t.Run("cash when price fits half the balance", func(t *testing.T) {
		s := Summary{CurrentBalance: 1000, MonthlyIncome: 3000, MonthlyExpenses: 2000}
		v := AssessPurchaseViability(PurchaseRequest{Price: 500}, s)
		if v.Verdict != BuyNow || v.BestOption != Cash || !v.CanBuy {
			t.Errorf("expected buy_now/cash, got %+v", v)
		}
	})

	t.Run("price above half the balance falls through to installments", func(t *testing.T) {
		s := Summary{CurrentBalance: 1000, MonthlyIncome: 3000, MonthlyExpenses: 2000}
		v := AssessPurchaseViability(PurchaseRequest{Price: 600, InstallmentCount: intPtr(3)}, s)
		if v.CanBuyCash {
			t.Error("600 > 500 must not be affordable in cash")
		}
		if !v.CanBuyInstallments {
			t.Errorf("expected 200/month to fit 0.2*1000, got %+v", v)
		}
		if v.Verdict != BuyNow || v.BestOption != Installments {
			t.Errorf("expected buy_now/installments, got %s/%s", v.Verdict, v.BestOption)
		}
		if !strings.Contains(v.Recommendation, "3 installments") {
			t.Errorf("recommendation should name the installment count: %q", v.Recommendation)
		}
		if v.MonthlyInstallment != 200 {
			t.Errorf("expected monthly installment 200, got %.2f", v.MonthlyInstallment)
		}
	})

	t.Run("wait when neither option fits", func(t *testing.T) {
		s := Summary{CurrentBalance: 1000, MonthlyIncome: 3000, MonthlyExpenses: 2000}
		v := AssessPurchaseViability(PurchaseRequest{Price: 600}, s)
		if v.Verdict != Wait || v.CanBuy {
			t.Errorf("expected wait, got %+v", v)
		}
		if v.BestOption != Cash {
			t.Errorf("expected informational cash option, got %s", v.BestOption)
		}
		if v.Recommendation == "" {
			t.Error("expected a recommendation")
		}
	})

	t.Run("zero income degrades to wait", func(t *testing.T) {
		v := AssessPurchaseViability(PurchaseRequest{Price: 10, InstallmentCount: intPtr(10)}, Summary{})
		if v.Verdict != Wait {
			t.Errorf("expected wait with no income, got %s", v.Verdict)
		}
	})

	t.Run("negative disposable income degrades to wait", func(t *testing.T) {
		s := Summary{CurrentBalance: -500, MonthlyIncome: 1000, MonthlyExpenses: 1500}
		v := AssessPurchaseViability(PurchaseRequest{Price: 100, InstallmentCount: intPtr(12)}, s)
		if v.Verdict != Wait {
			t.Errorf("expected wait, got %s", v.Verdict)
		}
		if v.DisposableIncome != -500 {
			t.Errorf("expected disposable -500, got %.2f", v.DisposableIncome)
		}
	})

	t.Run("single installment uses full price", func(t *testing.T) {
		s := Summary{CurrentBalance: 0, MonthlyIncome: 1000, MonthlyExpenses: 0}
		v := AssessPurchaseViability(PurchaseRequest{Price: 150, InstallmentCount: intPtr(1)}, s)
		if v.MonthlyInstallment != 150 {
			t.Errorf("expected monthly 150, got %.2f", v.MonthlyInstallment)
		}
		if v.BestOption != Installments || !v.CanBuy {
			t.Errorf("expected 150 <= 200 to be affordable, got %+v", v)
		}
	})

	t.Run("single payment out of income is not worded as installments", func(t *testing.T) {
		s := Summary{CurrentBalance: 0, MonthlyIncome: 1000, MonthlyExpenses: 0}
		for _, count := range []*int{nil, intPtr(1), intPtr(0)} {
			v := AssessPurchaseViability(PurchaseRequest{Price: 150, InstallmentCount: count}, s)
			if v.BestOption != Installments || v.MonthlyInstallment != 150 {
				t.Fatalf("expected a single 150 payment, got %+v", v)
			}
			if strings.Contains(v.Recommendation, "installments") {
				t.Errorf("unexpected installment wording: %q", v.Recommendation)
			}
			if !strings.Contains(v.Recommendation, "this month's income (150.00)") {
				t.Errorf("expected the income wording, got %q", v.Recommendation)
			}
		}
	})
}
