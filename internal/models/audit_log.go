package models

import "encoding/json"

// Audited resource types.
const (
	ResourceUser            = "user"
	ResourceCard            = "card"
	ResourcePurchase        = "purchase"
	ResourceSubscription    = "subscription"
	ResourceTransaction     = "transaction"
	ResourceGoal            = "goal"
	ResourcePlannedPurchase = "planned_purchase"
	ResourcePayment         = "payment"
)

// AuditLog is one entry of a user's activity trail. Changes holds the JSON
// encoding of the request fields that were applied, when there were any.
type AuditLog struct {
	Base
	UserID       string `gorm:"size:36;not null;index" json:"user_id"`
	Action       string `gorm:"size:50;not null" json:"action"`
	ResourceType string `gorm:"size:50;not null" json:"resource_type"`
	ResourceID   string `gorm:"size:100" json:"resource_id"`
	IPAddress    string `gorm:"size:45" json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}

// ChangeSet decodes Changes. An empty or undecodable value yields nil.
func (a *AuditLog) ChangeSet() map[string]interface{} {
	if a.Changes == "" {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(a.Changes), &out); err != nil {
		return nil
	}
	return out
}
