package services

import (
	"encoding/json"

	"gorm.io/gorm"

	apperrors "finpilot/internal/errors"
	"finpilot/internal/logger"
	"finpilot/internal/models"
	"finpilot/internal/pagination"
)

// Audit actions recorded by the handlers.
const (
	AuditActionCreate   = "CREATE"
	AuditActionUpdate   = "UPDATE"
	AuditActionDelete   = "DELETE"
	AuditActionMarkPaid = "MARK_PAID"
	AuditActionUnmark   = "UNMARK_PAID"
	AuditActionGenerate = "GENERATE"
	AuditActionLogin    = "LOGIN"
	AuditActionRegister = "REGISTER"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log stores an activity entry. It never fails the caller: an entry that
// cannot be written is logged and dropped, and changes that cannot be encoded
// are stored as an empty object.
func (s *auditService) Log(userID string, action, resourceType string, resourceID string, ipAddress string, changes map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("audit changes not encodable", "error", err, "action", action, "resource_type", resourceType)
			data = []byte("{}")
		}
		entry.Changes = string(data)
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("audit entry dropped",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// GetUserActivity lists the user's entries, newest first.
func (s *auditService) GetUserActivity(userID string, page pagination.PageRequest, filter AuditFilter) (*pagination.PageResponse[models.AuditLog], error) {
	page.Defaults()

	base := s.db.Model(&models.AuditLog{}).Where("user_id = ?", userID)
	if filter.ResourceType != nil {
		base = base.Where("resource_type = ?", *filter.ResourceType)
	}
	if filter.Action != nil {
		base = base.Where("action = ?", *filter.Action)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.AuditLog
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page, total)
	return &result, nil
}
