// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var (
	transactionKinds  = set("income", "expense")
	recurringPatterns = set("monthly", "weekly", "yearly")
	goalCategories    = set("emergency", "investment", "purchase", "debt", "other")
	priorities        = set("high", "medium", "low")
	paymentKinds      = set("invoice", "transaction")
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the custom validators to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("transaction_kind", oneOf(transactionKinds))
	_ = v.RegisterValidation("recurring_pattern", oneOf(recurringPatterns))
	_ = v.RegisterValidation("goal_category", oneOf(goalCategories))
	_ = v.RegisterValidation("goal_priority", oneOf(priorities))
	_ = v.RegisterValidation("urgency", oneOf(priorities))
	_ = v.RegisterValidation("payment_kind", oneOf(paymentKinds))
	_ = v.RegisterValidation("billing_day", validateBillingDay)
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateBillingDay(fl validator.FieldLevel) bool {
	d := fl.Field().Int()
	return d >= 1 && d <= 31
}

func oneOf(allowed map[string]bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return allowed[fl.Field().String()]
	}
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
