package forecast

import "fmt"

// Verdict is the buy-now/wait decision for a prospective purchase.
type Verdict string

const (
	BuyNow Verdict = "buy_now"
	Wait   Verdict = "wait"
)

// PaymentOption is how the purchase should be paid.
type PaymentOption string

const (
	Cash         PaymentOption = "cash"
	Installments PaymentOption = "installments"
)

// Affordability thresholds.
const (
	cashBalanceShare       = 0.5
	installmentIncomeShare = 0.2
)

// PurchaseRequest describes a purchase being considered. InstallmentCount is
// optional; nil or a value below 1 means a single payment.
type PurchaseRequest struct {
	Price            float64 `json:"price"`
	InstallmentCount *int    `json:"installment_count,omitempty"`
}

// Viability is the advisor's answer.
type Viability struct {
	Verdict            Verdict       `json:"verdict"`
	CanBuy             bool          `json:"can_buy"`
	BestOption         PaymentOption `json:"best_option"`
	CanBuyCash         bool          `json:"can_buy_cash"`
	CanBuyInstallments bool          `json:"can_buy_installments"`
	MonthlyInstallment float64       `json:"monthly_installment"`
	DisposableIncome   float64       `json:"disposable_income"`
	Recommendation     string        `json:"recommendation"`
}

// AssessPurchaseViability decides whether req is affordable under s. Paying
// cash is preferred when it takes at most half of the current balance;
// otherwise installments are accepted when each one fits in a fifth of the
// disposable income. Non-positive income naturally yields Wait.
func AssessPurchaseViability(req PurchaseRequest, s Summary) Viability {
	disposable := s.MonthlyIncome - s.MonthlyExpenses

	count := 1
	if req.InstallmentCount != nil && *req.InstallmentCount > 1 {
		count = *req.InstallmentCount
	}
	monthly := req.Price / float64(count)

	v := Viability{
		CanBuyCash:         req.Price <= cashBalanceShare*s.CurrentBalance,
		CanBuyInstallments: monthly <= installmentIncomeShare*disposable,
		MonthlyInstallment: monthly,
		DisposableIncome:   disposable,
	}

	switch {
	case v.CanBuyCash:
		v.Verdict, v.CanBuy, v.BestOption = BuyNow, true, Cash
		v.Recommendation = "You can pay in cash without compromising your balance."
	case v.CanBuyInstallments:
		v.Verdict, v.CanBuy, v.BestOption = BuyNow, true, Installments
		if count == 1 {
			v.Recommendation = fmt.Sprintf(
				"Pay it from this month's income (%.2f) and keep your balance untouched.", monthly)
		} else {
			v.Recommendation = fmt.Sprintf(
				"Split the purchase into %d installments of %.2f to protect your cash flow.", count, monthly)
		}
	default:
		v.Verdict, v.CanBuy, v.BestOption = Wait, false, Cash
		v.Recommendation = "Wait a few months and save more, or consider a cheaper alternative."
	}
	return v
}
