package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"finpilot/internal/config"
	"finpilot/internal/logger"
	"finpilot/internal/services"
	"finpilot/internal/testutil"
)

const jobsKey = "scheduler-key"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "error")
}

type testApp struct {
	router *gin.Engine
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	clock := services.FixedClock(time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC))
	cfg := &config.Config{
		Timezone:    time.UTC,
		DueSoonDays: 7,
		JobsAPIKey:  jobsKey,
	}
	return &testApp{router: New(db, cfg, Options{Clock: &clock})}
}

func (app *testApp) request(method, path, body, token string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// expect fails the test unless rec has the given status and returns the body.
func expect(t *testing.T, rec *httptest.ResponseRecorder, status int) map[string]interface{} {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

func (app *testApp) register(t *testing.T, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"Str0ng!Passw0rd","first_name":"Test"}`, email)
	result := expect(t, app.request("POST", "/api/v1/auth/register", body, ""), http.StatusCreated)
	return result["access_token"].(string)
}

func TestHealth(t *testing.T) {
	app := setupApp(t)
	result := expect(t, app.request("GET", "/api/health", "", ""), http.StatusOK)
	if result["status"] != "ok" {
		t.Errorf("expected ok, got %v", result["status"])
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)
	for _, path := range []string{"/api/v1/cards", "/api/v1/payments/overview", "/api/v1/insights/summary"} {
		rec := app.request("GET", path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestCardBillingFlow(t *testing.T) {
	app := setupApp(t)
	token := app.register(t, "flow@example.com")

	card := expect(t, app.request("POST", "/api/v1/cards",
		`{"name":"Visa","credit_limit":1000,"closing_day":5,"due_day":10}`, token), http.StatusCreated)["card"].(map[string]interface{})
	cardID := card["id"].(string)

	expect(t, app.request("POST", "/api/v1/purchases",
		`{"card_id":"`+cardID+`","description":"TV","amount":600,"installment_count":3,"purchase_date":"2025-04-10"}`, token), http.StatusCreated)
	expect(t, app.request("POST", "/api/v1/subscriptions",
		`{"card_id":"`+cardID+`","description":"Music","monthly_amount":50,"start_date":"2025-01-01"}`, token), http.StatusCreated)

	t.Run("financials", func(t *testing.T) {
		fin := expect(t, app.request("GET", "/api/v1/cards/"+cardID+"/financials", "", token), http.StatusOK)["financials"].(map[string]interface{})
		if fin["committed_amount"].(float64) != 450 {
			t.Errorf("expected committed 450, got %v", fin["committed_amount"])
		}
		if fin["available_limit"].(float64) != 550 {
			t.Errorf("expected available 550, got %v", fin["available_limit"])
		}
		if fin["current_invoice_amount"].(float64) != 250 {
			t.Errorf("expected invoice 250, got %v", fin["current_invoice_amount"])
		}
	})

	t.Run("mark invoice paid", func(t *testing.T) {
		body := `{"kind":"invoice","reference_id":"` + cardID + `:2025:5","month":5,"year":2025,"amount":250}`
		expect(t, app.request("POST", "/api/v1/payments", body, token), http.StatusOK)

		inv := expect(t, app.request("GET", "/api/v1/cards/"+cardID+"/invoices/2025/5", "", token), http.StatusOK)["invoice"].(map[string]interface{})
		if inv["paid"] != true {
			t.Errorf("expected May invoice to be paid, got %v", inv)
		}
		if inv["amount"].(float64) != 250 {
			t.Errorf("expected amount 250, got %v", inv["amount"])
		}

		status := expect(t, app.request("GET",
			"/api/v1/payments/status?kind=invoice&reference_id="+cardID+":2025:5&month=5&year=2025", "", token), http.StatusOK)
		if status["paid"] != true {
			t.Errorf("expected paid status, got %v", status)
		}
	})

	t.Run("year invoices", func(t *testing.T) {
		result := expect(t, app.request("GET", "/api/v1/cards/"+cardID+"/invoices?year=2025", "", token), http.StatusOK)
		if n := len(result["invoices"].([]interface{})); n != 12 {
			t.Errorf("expected 12 invoices, got %d", n)
		}
	})

	t.Run("overview", func(t *testing.T) {
		result := expect(t, app.request("GET", "/api/v1/payments/overview", "", token), http.StatusOK)
		if result["today"] != "2025-05-15" {
			t.Errorf("expected today 2025-05-15, got %v", result["today"])
		}
	})

	t.Run("generate invoice expenses is idempotent", func(t *testing.T) {
		first := expect(t, app.request("POST", "/api/v1/payments/invoices/generate", "", token), http.StatusOK)
		if first["created"].(float64) != 1 {
			t.Fatalf("expected one generated expense, got %v", first["created"])
		}
		second := expect(t, app.request("POST", "/api/v1/payments/invoices/generate", "", token), http.StatusOK)
		if second["created"].(float64) != 0 {
			t.Errorf("expected no duplicates, got %v", second["created"])
		}
	})

	t.Run("activity records the payment", func(t *testing.T) {
		page := expect(t, app.request("GET", "/api/v1/activity?resource_type=payment&action=MARK_PAID", "", token), http.StatusOK)
		data := page["data"].([]interface{})
		if len(data) != 1 || data[0].(map[string]interface{})["action"] != "MARK_PAID" {
			t.Errorf("expected the invoice payment entry, got %v", data)
		}
	})

	t.Run("other users cannot see the card", func(t *testing.T) {
		other := app.register(t, "other@example.com")
		rec := app.request("GET", "/api/v1/cards/"+cardID, "", other)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestInsightsFlow(t *testing.T) {
	app := setupApp(t)
	token := app.register(t, "insights@example.com")

	expect(t, app.request("POST", "/api/v1/transactions",
		`{"kind":"income","amount":3000,"date":"2025-05-01","is_recurring":true}`, token), http.StatusCreated)
	expect(t, app.request("POST", "/api/v1/transactions",
		`{"kind":"expense","amount":2000,"date":"2025-05-03","category":"housing"}`, token), http.StatusCreated)

	report := expect(t, app.request("GET", "/api/v1/insights/summary", "", token), http.StatusOK)
	summary := report["summary"].(map[string]interface{})
	if summary["current_balance"].(float64) != 1000 {
		t.Errorf("expected balance 1000, got %v", summary["current_balance"])
	}
	if report["month"] != "2025-05" {
		t.Errorf("expected month 2025-05, got %v", report["month"])
	}

	breakdown := expect(t, app.request("GET", "/api/v1/insights/categories", "", token), http.StatusOK)
	categories := breakdown["categories"].([]interface{})
	if len(categories) != 1 || categories[0].(map[string]interface{})["category"] != "housing" {
		t.Errorf("expected only housing spending, got %v", categories)
	}

	v := expect(t, app.request("POST", "/api/v1/insights/viability", `{"price":500}`, token), http.StatusOK)
	if v["verdict"] != "buy_now" || v["best_option"] != "cash" {
		t.Errorf("expected buy_now/cash, got %v", v)
	}

	pp := expect(t, app.request("POST", "/api/v1/planned-purchases",
		`{"item":"Laptop","estimated_price":600,"can_install":true,"max_installments":3}`, token), http.StatusCreated)["planned_purchase"].(map[string]interface{})
	assessment := expect(t, app.request("GET", "/api/v1/planned-purchases/"+pp["id"].(string)+"/viability", "", token), http.StatusOK)
	if assessment["viability"].(map[string]interface{})["best_option"] != "installments" {
		t.Errorf("expected installments for the planned laptop, got %v", assessment["viability"])
	}
}

func TestJobsRoute(t *testing.T) {
	app := setupApp(t)
	app.register(t, "jobs@example.com")

	t.Run("rejects a wrong key", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/jobs/invoice-expenses", "", "", "X-API-Key", "nope")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("runs with the scheduler key", func(t *testing.T) {
		result := expect(t, app.request("POST", "/api/v1/jobs/invoice-expenses", "", "", "X-API-Key", jobsKey), http.StatusOK)
		if result["users"].(float64) != 1 {
			t.Errorf("expected one active user, got %v", result["users"])
		}
	})
}
