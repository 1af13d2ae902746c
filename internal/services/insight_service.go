package services

import (
	"gorm.io/gorm"

	apperrors "finpilot/internal/errors"
	"finpilot/internal/forecast"
	"finpilot/internal/models"
)

// insightService derives the monthly report and purchase viability from the
// user's transactions and goals.
type insightService struct {
	db    *gorm.DB
	clock Clock
}

// NewInsightService creates a new InsightServicer.
func NewInsightService(db *gorm.DB, clock Clock) InsightServicer {
	return &insightService{db: db, clock: clock}
}

// GetReport builds the summary, light and recommendations for this month.
func (s *insightService) GetReport(userID string) (*forecast.Report, error) {
	txs, err := s.loadTransactions(userID)
	if err != nil {
		return nil, err
	}

	var goals []models.FinancialGoal
	if err := s.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := forecast.BuildReport(txs, models.ForecastGoals(goals), s.clock.Today())
	return &report, nil
}

// AssessPurchase decides whether req is affordable this month.
func (s *insightService) AssessPurchase(userID string, req forecast.PurchaseRequest) (*forecast.Viability, error) {
	if req.Price <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if req.InstallmentCount != nil && *req.InstallmentCount < 1 {
		return nil, apperrors.ErrInvalidInstallmentCount
	}

	txs, err := s.loadTransactions(userID)
	if err != nil {
		return nil, err
	}
	v := forecast.AssessPurchaseViability(req, forecast.Summarize(txs, s.clock.Today()))
	return &v, nil
}

// AssessPlannedPurchase runs the viability check for a wish-list item.
func (s *insightService) AssessPlannedPurchase(userID, plannedPurchaseID string) (*PlannedPurchaseAssessment, error) {
	pp, err := NewPlannedPurchaseService(s.db).GetPlannedPurchaseByID(userID, plannedPurchaseID)
	if err != nil {
		return nil, err
	}
	v, err := s.AssessPurchase(userID, pp.Request())
	if err != nil {
		return nil, err
	}
	return &PlannedPurchaseAssessment{PlannedPurchase: *pp, Viability: *v}, nil
}

func (s *insightService) loadTransactions(userID string) ([]forecast.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return models.ForecastTransactions(txs), nil
}
