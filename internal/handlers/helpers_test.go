package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"finpilot/internal/models"
	"finpilot/internal/pagination"
	"finpilot/internal/services"
	"finpilot/internal/validator"
)

// testUserID is the id injected as the authenticated user.
const testUserID = "0190a6e4-0000-7000-8000-0000000000aa"

// testID is a well-formed path id for resources in handler tests.
const testID = "0190a6e4-0000-7000-8000-0000000000bb"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// auditEntry is one recorded call to the audit service.
type auditEntry struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
}

// mockAuditService records audit calls so tests can check mutations were logged.
type mockAuditService struct {
	entries           []auditEntry
	getUserActivityFn func(userID string, page pagination.PageRequest, filter services.AuditFilter) (*pagination.PageResponse[models.AuditLog], error)
}

var _ services.AuditServicer = (*mockAuditService)(nil)

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, _ string, _ map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	})
}

func (m *mockAuditService) GetUserActivity(userID string, page pagination.PageRequest, filter services.AuditFilter) (*pagination.PageResponse[models.AuditLog], error) {
	if m.getUserActivityFn != nil {
		return m.getUserActivityFn(userID, page, filter)
	}
	result := pagination.NewPageResponse[models.AuditLog](nil, page, 0)
	return &result, nil
}

// assertAudited fails unless exactly one entry with action was recorded.
func (m *mockAuditService) assertAudited(t *testing.T, action, resourceType string) {
	t.Helper()
	var matched int
	for _, e := range m.entries {
		if e.Action == action && e.ResourceType == resourceType {
			matched++
		}
	}
	if matched != 1 {
		t.Errorf("expected one %s audit on %s, got %+v", action, resourceType, m.entries)
	}
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// assertTokens checks an auth response carries both tokens.
func assertTokens(t *testing.T, result map[string]interface{}) {
	t.Helper()
	for _, key := range []string{"access_token", "refresh_token"} {
		if s, _ := result[key].(string); s == "" {
			t.Errorf("expected non-empty %s", key)
		}
	}
}
