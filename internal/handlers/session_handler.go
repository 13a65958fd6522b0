package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/stresszero/quizbot-service/internal/errors"
	"github.com/stresszero/quizbot-service/internal/models"
	"github.com/stresszero/quizbot-service/internal/services"
	"github.com/stresszero/quizbot-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	exportService  services.ExportService
	validator      *utils.Validator
}

// GenerateQuizRequest is the client payload for one generation attempt.
// Count is validated, not clamped; out-of-range values are rejected.
type GenerateQuizRequest struct {
	Material     string                 `json:"material" validate:"required"`
	IsFile       bool                   `json:"is_file"`
	Language     models.QuizLanguage    `json:"language" validate:"required,quiz_language"`
	Count        int                    `json:"count" validate:"required,min=1,max=10"`
	QuestionType models.QuestionType    `json:"question_type" validate:"required,question_type"`
	Difficulty   models.DifficultyLevel `json:"difficulty" validate:"required,difficulty_level"`
	ModelName    string                 `json:"model_name" validate:"omitempty,oneof=gpt-4o gpt-4o-mini o1-preview o1-mini"`
}

// SubmitAnswersRequest maps question index to the submitted answer string
type SubmitAnswersRequest struct {
	Answers map[int]string `json:"answers" validate:"required"`
}

func NewSessionHandler(
	sessionService services.SessionService,
	exportService services.ExportService,
	validator *utils.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		exportService:  exportService,
		validator:      validator,
	}
}

// GetSession returns the current session state for rendering
func (h *SessionHandler) GetSession(c *gin.Context) {
	state, err := h.sessionService.Get(c.Request.Context(), SessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GenerateQuiz builds a quiz request and runs one generation attempt
func (h *SessionHandler) GenerateQuiz(c *gin.Context) {
	h.LogRequest(c, "Generating quiz")

	var req GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: apperrors.ToValidationErrors(err),
		})
		return
	}

	quizReq, err := services.BuildQuizRequest(
		req.Material, req.IsFile, req.Language, req.Count, req.QuestionType, req.Difficulty, req.ModelName,
	)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	result, err := h.sessionService.Generate(c.Request.Context(), SessionID(c), quizReq)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if result.Notice != "" {
		// Generation degraded to "no quiz produced": surfaced once, the
		// client re-triggers the action
		c.JSON(http.StatusOK, SuccessResponse{
			Message: result.Notice,
			Data:    result.State,
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz generated",
		Data:    result.State,
	})
}

// SubmitAnswers grades the recorded submissions against the quiz set
func (h *SessionHandler) SubmitAnswers(c *gin.Context) {
	h.LogRequest(c, "Submitting answers")

	var req SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if req.Answers == nil {
		req.Answers = map[int]string{}
	}

	result, err := h.sessionService.Submit(c.Request.Context(), SessionID(c), req.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz graded",
		Data:    result,
	})
}

// ReviewQuiz reveals correct answers and explanations for a graded quiz
func (h *SessionHandler) ReviewQuiz(c *gin.Context) {
	h.LogRequest(c, "Reviewing quiz")

	result, err := h.sessionService.Review(c.Request.Context(), SessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz review",
		Data:    result,
	})
}

// ResetSession discards the quiz and all answer state for a new quiz
func (h *SessionHandler) ResetSession(c *gin.Context) {
	h.LogRequest(c, "Resetting session")

	if err := h.sessionService.Reset(c.Request.Context(), SessionID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session reset",
	})
}

// ExportResults downloads the graded session as a spreadsheet
func (h *SessionHandler) ExportResults(c *gin.Context) {
	h.LogRequest(c, "Exporting session results")

	data, err := h.exportService.ExportSessionResults(c.Request.Context(), SessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz-results-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
