package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finpilot/internal/models"
	"finpilot/internal/services"
)

// GoalHandler handles financial goal requests.
type GoalHandler struct {
	goalService  services.GoalServicer
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for a goal.
type CreateGoalRequest struct {
	Title         string  `json:"title" binding:"required,min=1,max=100"`
	TargetAmount  float64 `json:"target_amount" binding:"required,gt=0"`
	CurrentAmount float64 `json:"current_amount" binding:"gte=0"`
	Deadline      *string `json:"deadline"`
	Priority      string  `json:"priority" binding:"omitempty,goal_priority"`
	Category      string  `json:"category" binding:"omitempty,goal_category"`
}

// UpdateGoalProgressRequest sets the amount saved so far.
type UpdateGoalProgressRequest struct {
	CurrentAmount *float64 `json:"current_amount" binding:"required,gte=0"`
}

// GoalResponse is a goal with its progress percentage.
type GoalResponse struct {
	models.FinancialGoal
	Progress float64 `json:"progress"`
}

func toGoalResponse(g models.FinancialGoal) GoalResponse {
	return GoalResponse{FinancialGoal: g, Progress: g.Progress()}
}

// CreateGoal creates a savings goal
// @Summary     Create a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} GoalResponse "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	deadline, err := parseOptionalDate(req.Deadline, "deadline")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.CreateGoal(userID, services.GoalInput{
		Title:         req.Title,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      deadline,
		Priority:      models.GoalPriority(req.Priority),
		Category:      req.Category,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, models.ResourceGoal, goal.ID, c.ClientIP(),
		map[string]interface{}{"title": req.Title, "target_amount": req.TargetAmount})

	c.JSON(http.StatusCreated, gin.H{"goal": toGoalResponse(*goal)})
}

// GetUserGoals lists goals, highest priority first
// @Summary     List goals
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} GoalResponse "Goals"
// @Router      /goals [get]
func (h *GoalHandler) GetUserGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetUserGoals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	out := make([]GoalResponse, len(goals))
	for i := range goals {
		out[i] = toGoalResponse(goals[i])
	}
	c.JSON(http.StatusOK, gin.H{"goals": out})
}

// GetGoalByID returns one goal
// @Summary     Get a goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} GoalResponse "Goal"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoalByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": toGoalResponse(*goal)})
}

// UpdateGoalProgress records how much has been saved
// @Summary     Update goal progress
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Goal ID"
// @Param       request body UpdateGoalProgressRequest true "Saved amount"
// @Success     200 {object} GoalResponse "Goal updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id}/progress [put]
func (h *GoalHandler) UpdateGoalProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	goal, err := h.goalService.UpdateGoalProgress(userID, id, *req.CurrentAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, models.ResourceGoal, id, c.ClientIP(),
		map[string]interface{}{"current_amount": *req.CurrentAmount})
	c.JSON(http.StatusOK, gin.H{"goal": toGoalResponse(*goal)})
}

// DeleteGoal removes a goal
// @Summary     Delete a goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} map[string]string "Goal deleted"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, models.ResourceGoal, id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}
