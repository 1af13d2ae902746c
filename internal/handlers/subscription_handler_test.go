package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finpilot/internal/errors"
	"finpilot/internal/models"
	"finpilot/internal/services"
)

// --- mock subscription service ---

type mockSubscriptionService struct {
	createSubscriptionFn    func(userID string, input services.SubscriptionInput) (*models.Subscription, error)
	getUserSubscriptionsFn  func(userID string, cardID *string) ([]models.Subscription, error)
	getSubscriptionByIDFn   func(userID, subscriptionID string) (*models.Subscription, error)
	setSubscriptionActiveFn func(userID, subscriptionID string, active bool) (*models.Subscription, error)
	deleteSubscriptionFn    func(userID, subscriptionID string) error
}

func (m *mockSubscriptionService) CreateSubscription(userID string, input services.SubscriptionInput) (*models.Subscription, error) {
	if m.createSubscriptionFn != nil {
		return m.createSubscriptionFn(userID, input)
	}
	return &models.Subscription{}, nil
}

func (m *mockSubscriptionService) GetUserSubscriptions(userID string, cardID *string) ([]models.Subscription, error) {
	if m.getUserSubscriptionsFn != nil {
		return m.getUserSubscriptionsFn(userID, cardID)
	}
	return []models.Subscription{}, nil
}

func (m *mockSubscriptionService) GetSubscriptionByID(userID, subscriptionID string) (*models.Subscription, error) {
	if m.getSubscriptionByIDFn != nil {
		return m.getSubscriptionByIDFn(userID, subscriptionID)
	}
	return &models.Subscription{}, nil
}

func (m *mockSubscriptionService) SetSubscriptionActive(userID, subscriptionID string, active bool) (*models.Subscription, error) {
	if m.setSubscriptionActiveFn != nil {
		return m.setSubscriptionActiveFn(userID, subscriptionID, active)
	}
	return &models.Subscription{}, nil
}

func (m *mockSubscriptionService) DeleteSubscription(userID, subscriptionID string) error {
	if m.deleteSubscriptionFn != nil {
		return m.deleteSubscriptionFn(userID, subscriptionID)
	}
	return nil
}

var _ services.SubscriptionServicer = (*mockSubscriptionService)(nil)

func setupSubscriptionRouter(handler *SubscriptionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/subscriptions", handler.CreateSubscription)
	auth.GET("/subscriptions", handler.GetUserSubscriptions)
	auth.GET("/subscriptions/:id", handler.GetSubscriptionByID)
	auth.PUT("/subscriptions/:id/active", handler.SetSubscriptionActive)
	auth.DELETE("/subscriptions/:id", handler.DeleteSubscription)
	return r
}

func TestSubscriptionHandler_CreateSubscription(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.SubscriptionInput
		svc := &mockSubscriptionService{
			createSubscriptionFn: func(_ string, input services.SubscriptionInput) (*models.Subscription, error) {
				got = input
				return &models.Subscription{Base: models.Base{ID: testID}, MonthlyAmount: input.MonthlyAmount, IsActive: true}, nil
			},
		}
		r := setupSubscriptionRouter(NewSubscriptionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/subscriptions",
			`{"card_id":"`+testID+`","description":"Music","monthly_amount":20,"start_date":"2025-01-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.StartDate.String() != "2025-01-01" || got.MonthlyAmount != 20 {
			t.Errorf("unexpected input: %+v", got)
		}
		sub := parseJSON(t, rec)["subscription"].(map[string]interface{})
		if sub["is_active"] != true {
			t.Errorf("expected active subscription, got %v", sub["is_active"])
		}
	})

	t.Run("returns 400 on zero monthly amount", func(t *testing.T) {
		r := setupSubscriptionRouter(NewSubscriptionHandler(&mockSubscriptionService{}, &mockAuditService{}))
		rec := doRequest(r, "POST", "/subscriptions",
			`{"card_id":"`+testID+`","description":"Music","monthly_amount":0,"start_date":"2025-01-01"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSubscriptionHandler_GetUserSubscriptions(t *testing.T) {
	t.Run("without filter passes nil card", func(t *testing.T) {
		svc := &mockSubscriptionService{
			getUserSubscriptionsFn: func(_ string, cardID *string) ([]models.Subscription, error) {
				if cardID != nil {
					t.Errorf("expected nil card filter, got %s", *cardID)
				}
				return []models.Subscription{{Description: "Music"}, {Description: "Cloud"}}, nil
			},
		}
		r := setupSubscriptionRouter(NewSubscriptionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/subscriptions", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if n := len(parseJSON(t, rec)["subscriptions"].([]interface{})); n != 2 {
			t.Errorf("expected 2 subscriptions, got %d", n)
		}
	})
}

func TestSubscriptionHandler_SetSubscriptionActive(t *testing.T) {
	t.Run("deactivates", func(t *testing.T) {
		svc := &mockSubscriptionService{
			setSubscriptionActiveFn: func(_, id string, active bool) (*models.Subscription, error) {
				return &models.Subscription{Base: models.Base{ID: id}, IsActive: active}, nil
			},
		}
		r := setupSubscriptionRouter(NewSubscriptionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/subscriptions/"+testID+"/active", `{"is_active":false}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		sub := parseJSON(t, rec)["subscription"].(map[string]interface{})
		if sub["is_active"] != false {
			t.Errorf("expected inactive, got %v", sub["is_active"])
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockSubscriptionService{
			setSubscriptionActiveFn: func(_, _ string, _ bool) (*models.Subscription, error) {
				return nil, apperrors.ErrSubscriptionNotFound
			},
		}
		r := setupSubscriptionRouter(NewSubscriptionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/subscriptions/"+testID+"/active", `{"is_active":true}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSubscriptionHandler_DeleteSubscription(t *testing.T) {
	r := setupSubscriptionRouter(NewSubscriptionHandler(&mockSubscriptionService{}, &mockAuditService{}))
	rec := doRequest(r, "DELETE", "/subscriptions/"+testID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
