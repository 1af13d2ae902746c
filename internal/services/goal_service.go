package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "finpilot/internal/errors"
	"finpilot/internal/models"
)

// goalService handles financial goal business logic.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a savings goal.
func (s *goalService) CreateGoal(userID string, input GoalInput) (*models.FinancialGoal, error) {
	if input.Title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal title is required")
	}
	if input.TargetAmount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if input.CurrentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount cannot be negative")
	}

	goal := &models.FinancialGoal{
		UserID:        userID,
		Title:         input.Title,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Priority:      input.Priority,
		Category:      input.Category,
	}
	if goal.Priority == "" {
		goal.Priority = models.GoalPriorityMedium
	}
	if goal.Category == "" {
		goal.Category = models.GoalCategoryOther
	}
	if input.Deadline != nil {
		deadline := models.TimeOf(*input.Deadline)
		goal.Deadline = &deadline
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetUserGoals lists the user's goals, highest priority first.
func (s *goalService) GetUserGoals(userID string) ([]models.FinancialGoal, error) {
	goals := make([]models.FinancialGoal, 0)
	order := "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at ASC"
	if err := s.db.Where("user_id = ?", userID).Order(order).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// GetGoalByID retrieves a goal by ID for a specific user
func (s *goalService) GetGoalByID(userID, goalID string) (*models.FinancialGoal, error) {
	var goal models.FinancialGoal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoalProgress sets how much has been saved towards the goal.
func (s *goalService) UpdateGoalProgress(userID, goalID string, currentAmount float64) (*models.FinancialGoal, error) {
	if currentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount cannot be negative")
	}
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(goal).Update("current_amount", currentAmount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	goal.CurrentAmount = currentAmount
	return goal, nil
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
