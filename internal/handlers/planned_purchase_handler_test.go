package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finpilot/internal/errors"
	"finpilot/internal/forecast"
	"finpilot/internal/models"
	"finpilot/internal/services"
)

// --- mock planned purchase and insight services ---

type mockPlannedPurchaseService struct {
	createPlannedPurchaseFn   func(userID string, input services.PlannedPurchaseInput) (*models.PlannedPurchase, error)
	getUserPlannedPurchasesFn func(userID string) ([]models.PlannedPurchase, error)
	getPlannedPurchaseByIDFn  func(userID, plannedPurchaseID string) (*models.PlannedPurchase, error)
	deletePlannedPurchaseFn   func(userID, plannedPurchaseID string) error
}

func (m *mockPlannedPurchaseService) CreatePlannedPurchase(userID string, input services.PlannedPurchaseInput) (*models.PlannedPurchase, error) {
	if m.createPlannedPurchaseFn != nil {
		return m.createPlannedPurchaseFn(userID, input)
	}
	return &models.PlannedPurchase{}, nil
}

func (m *mockPlannedPurchaseService) GetUserPlannedPurchases(userID string) ([]models.PlannedPurchase, error) {
	if m.getUserPlannedPurchasesFn != nil {
		return m.getUserPlannedPurchasesFn(userID)
	}
	return []models.PlannedPurchase{}, nil
}

func (m *mockPlannedPurchaseService) GetPlannedPurchaseByID(userID, plannedPurchaseID string) (*models.PlannedPurchase, error) {
	if m.getPlannedPurchaseByIDFn != nil {
		return m.getPlannedPurchaseByIDFn(userID, plannedPurchaseID)
	}
	return &models.PlannedPurchase{}, nil
}

func (m *mockPlannedPurchaseService) DeletePlannedPurchase(userID, plannedPurchaseID string) error {
	if m.deletePlannedPurchaseFn != nil {
		return m.deletePlannedPurchaseFn(userID, plannedPurchaseID)
	}
	return nil
}

type mockInsightService struct {
	getReportFn             func(userID string) (*forecast.Report, error)
	assessPurchaseFn        func(userID string, req forecast.PurchaseRequest) (*forecast.Viability, error)
	assessPlannedPurchaseFn func(userID, plannedPurchaseID string) (*services.PlannedPurchaseAssessment, error)
}

func (m *mockInsightService) GetReport(userID string) (*forecast.Report, error) {
	if m.getReportFn != nil {
		return m.getReportFn(userID)
	}
	return &forecast.Report{}, nil
}

func (m *mockInsightService) AssessPurchase(userID string, req forecast.PurchaseRequest) (*forecast.Viability, error) {
	if m.assessPurchaseFn != nil {
		return m.assessPurchaseFn(userID, req)
	}
	return &forecast.Viability{}, nil
}

func (m *mockInsightService) AssessPlannedPurchase(userID, plannedPurchaseID string) (*services.PlannedPurchaseAssessment, error) {
	if m.assessPlannedPurchaseFn != nil {
		return m.assessPlannedPurchaseFn(userID, plannedPurchaseID)
	}
	return &services.PlannedPurchaseAssessment{}, nil
}

var (
	_ services.PlannedPurchaseServicer = (*mockPlannedPurchaseService)(nil)
	_ services.InsightServicer         = (*mockInsightService)(nil)
)

func setupPlannedPurchaseRouter(handler *PlannedPurchaseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/planned-purchases", handler.CreatePlannedPurchase)
	auth.GET("/planned-purchases", handler.GetUserPlannedPurchases)
	auth.GET("/planned-purchases/:id/viability", handler.GetPlannedPurchaseViability)
	auth.DELETE("/planned-purchases/:id", handler.DeletePlannedPurchase)
	return r
}

func TestPlannedPurchaseHandler_Create(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.PlannedPurchaseInput
		svc := &mockPlannedPurchaseService{
			createPlannedPurchaseFn: func(_ string, input services.PlannedPurchaseInput) (*models.PlannedPurchase, error) {
				got = input
				return &models.PlannedPurchase{Base: models.Base{ID: testID}, Item: input.Item}, nil
			},
		}
		r := setupPlannedPurchaseRouter(NewPlannedPurchaseHandler(svc, &mockInsightService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/planned-purchases",
			`{"item":"Laptop","estimated_price":4000,"urgency":"low","can_install":true,"max_installments":10}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Urgency != models.UrgencyLow || !got.CanInstall || got.MaxInstallments != 10 {
			t.Errorf("unexpected input: %+v", got)
		}
	})

	t.Run("returns 400 on unknown urgency", func(t *testing.T) {
		r := setupPlannedPurchaseRouter(NewPlannedPurchaseHandler(&mockPlannedPurchaseService{}, &mockInsightService{}, &mockAuditService{}))
		rec := doRequest(r, "POST", "/planned-purchases", `{"item":"Laptop","estimated_price":4000,"urgency":"asap"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPlannedPurchaseHandler_Viability(t *testing.T) {
	t.Run("returns the assessment", func(t *testing.T) {
		insight := &mockInsightService{
			assessPlannedPurchaseFn: func(_, id string) (*services.PlannedPurchaseAssessment, error) {
				return &services.PlannedPurchaseAssessment{
					PlannedPurchase: models.PlannedPurchase{Base: models.Base{ID: id}, Item: "Laptop"},
					Viability:       forecast.Viability{Verdict: forecast.Wait},
				}, nil
			},
		}
		r := setupPlannedPurchaseRouter(NewPlannedPurchaseHandler(&mockPlannedPurchaseService{}, insight, &mockAuditService{}))

		rec := doRequest(r, "GET", "/planned-purchases/"+testID+"/viability", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		v := parseJSON(t, rec)["viability"].(map[string]interface{})
		if v["verdict"] != "wait" {
			t.Errorf("expected wait, got %v", v["verdict"])
		}
	})

	t.Run("returns 404 for unknown item", func(t *testing.T) {
		insight := &mockInsightService{
			assessPlannedPurchaseFn: func(_, _ string) (*services.PlannedPurchaseAssessment, error) {
				return nil, apperrors.ErrPlannedPurchaseNotFound
			},
		}
		r := setupPlannedPurchaseRouter(NewPlannedPurchaseHandler(&mockPlannedPurchaseService{}, insight, &mockAuditService{}))

		rec := doRequest(r, "GET", "/planned-purchases/"+testID+"/viability", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PLANNED_PURCHASE_NOT_FOUND")
	})
}

func TestPlannedPurchaseHandler_ListAndDelete(t *testing.T) {
	svc := &mockPlannedPurchaseService{
		getUserPlannedPurchasesFn: func(_ string) ([]models.PlannedPurchase, error) {
			return []models.PlannedPurchase{{Item: "Bike"}}, nil
		},
	}
	r := setupPlannedPurchaseRouter(NewPlannedPurchaseHandler(svc, &mockInsightService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/planned-purchases", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if n := len(parseJSON(t, rec)["planned_purchases"].([]interface{})); n != 1 {
		t.Errorf("expected 1 item, got %d", n)
	}

	rec = doRequest(r, "DELETE", "/planned-purchases/"+testID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
