package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"finpilot/internal/billing"
	"finpilot/internal/services"
)

type mockCategoryService struct {
	getSpendingBreakdownFn func(userID string, period *billing.Period) (*services.SpendingBreakdown, error)
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func (m *mockCategoryService) GetSpendingBreakdown(userID string, period *billing.Period) (*services.SpendingBreakdown, error) {
	return m.getSpendingBreakdownFn(userID, period)
}

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/insights/categories", handler.GetSpendingBreakdown)
	return r
}

func TestCategoryHandler_GetSpendingBreakdown(t *testing.T) {
	t.Run("current month by default", func(t *testing.T) {
		svc := &mockCategoryService{
			getSpendingBreakdownFn: func(userID string, period *billing.Period) (*services.SpendingBreakdown, error) {
				if userID != testUserID {
					t.Errorf("expected user %s, got %s", testUserID, userID)
				}
				if period != nil {
					t.Errorf("expected no period, got %v", period)
				}
				return &services.SpendingBreakdown{
					Month: "2025-05",
					Total: 400,
					Categories: []services.CategorySpending{
						{Category: "food", Transactions: 100, Cards: 200, Total: 300, Share: 75},
						{Category: services.Uncategorized, Transactions: 100, Total: 100, Share: 25},
					},
				}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "GET", "/insights/categories", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["month"] != "2025-05" {
			t.Errorf("expected month 2025-05, got %v", result["month"])
		}
		categories := result["categories"].([]interface{})
		if len(categories) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(categories))
		}
		if categories[0].(map[string]interface{})["share"].(float64) != 75 {
			t.Errorf("unexpected first category %v", categories[0])
		}
	})

	t.Run("explicit period", func(t *testing.T) {
		var got *billing.Period
		svc := &mockCategoryService{
			getSpendingBreakdownFn: func(_ string, period *billing.Period) (*services.SpendingBreakdown, error) {
				got = period
				return &services.SpendingBreakdown{Month: period.String()}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "GET", "/insights/categories?year=2024&month=2", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got == nil || got.Year != 2024 || got.Month != time.February {
			t.Errorf("expected 2024-02, got %v", got)
		}
	})

	tests := []struct {
		name  string
		query string
	}{
		{"year without month", "?year=2024"},
		{"month without year", "?month=3"},
		{"month out of range", "?year=2024&month=13"},
		{"not a number", "?year=abc&month=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCategoryService{
				getSpendingBreakdownFn: func(string, *billing.Period) (*services.SpendingBreakdown, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}
			r := setupCategoryRouter(NewCategoryHandler(svc))

			rec := doRequest(r, "GET", "/insights/categories"+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		r := gin.New()
		r.GET("/insights/categories", NewCategoryHandler(&mockCategoryService{}).GetSpendingBreakdown)
		rec := doRequest(r, "GET", "/insights/categories", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}
