package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kunjshukla/ain/internal/middleware"
	"github.com/kunjshukla/ain/internal/models"
	"github.com/kunjshukla/ain/internal/relay"
	"github.com/kunjshukla/ain/internal/reports"
	"github.com/kunjshukla/ain/internal/session"
	"github.com/kunjshukla/ain/internal/utils"
)

// InterviewHandler serves the non-streaming REST surface of the interview
// flow: turn processing, progress and summary reads.
type InterviewHandler struct {
	turns   *relay.TurnService
	store   *session.Store
	reports *reports.Manager
	logger  *zap.Logger
}

func NewInterviewHandler(turns *relay.TurnService, store *session.Store, reportManager *reports.Manager, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		turns:   turns,
		store:   store,
		reports: reportManager,
		logger:  logger,
	}
}

// TurnHandler runs one interview turn and returns the full response without
// streaming.
func (h *InterviewHandler) TurnHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.TurnRequest](r)

	result, err := h.turns.ProcessTurn(r.Context(), *req, nil)
	if err != nil {
		var errResp *models.ErrorResponse
		if errors.As(err, &errResp) {
			utils.JSON(w, http.StatusBadRequest, *errResp)
			return
		}
		h.logger.Error("turn processing failed",
			zap.String("session_id", req.SessionID), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "turn_error",
			Message: "Failed to process interview turn",
		})
		return
	}

	if h.reports != nil {
		h.recordSummary(r.Context(), req.SessionID, req.JobRole)
	}

	utils.JSON(w, http.StatusOK, result)
}

func (h *InterviewHandler) recordSummary(ctx context.Context, sessionID, jobRole string) {
	state, err := h.store.LoadState(ctx, sessionID)
	if err != nil || state == nil {
		return
	}
	sess := state.Session()
	if err := h.reports.RecordSummary(sessionID, jobRole, sess.Summary(), sess.Complete()); err != nil {
		h.logger.Warn("failed to record interview summary",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

// ProgressHandler returns stage progress for a stored session.
func (h *InterviewHandler) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_session_id",
			Message: "Session ID is required",
		})
		return
	}

	state, err := h.store.LoadState(r.Context(), sessionID)
	if err != nil {
		utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    "store_unavailable",
			Message: "Session store unavailable",
		})
		return
	}
	if state == nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "session_not_found",
			Message: "No session found for this ID",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.ProgressResponse{
		SessionID: sessionID,
		Progress:  state.Session().Progress(),
	})
}

// SummaryHandler returns the interview summary for a stored session and
// records the report row while at it.
func (h *InterviewHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_session_id",
			Message: "Session ID is required",
		})
		return
	}

	state, err := h.store.LoadState(r.Context(), sessionID)
	if err != nil {
		utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    "store_unavailable",
			Message: "Session store unavailable",
		})
		return
	}
	if state == nil {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "session_not_found",
			Message: "No session found for this ID",
		})
		return
	}

	sess := state.Session()
	summary := sess.Summary()
	complete := sess.Complete()

	if h.reports != nil {
		if err := h.reports.RecordSummary(sessionID, sess.JobRole, summary, complete); err != nil {
			h.logger.Warn("failed to record interview summary",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	utils.JSON(w, http.StatusOK, models.SummaryResponse{
		SessionID: sessionID,
		Complete:  complete,
		Summary:   summary,
	})
}

// ReportHandler returns the persisted report row for a finished session.
func (h *InterviewHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if h.reports == nil {
		utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    "reports_disabled",
			Message: "Report storage is not configured",
		})
		return
	}

	report, err := h.reports.GetReport(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
				Code:    "report_not_found",
				Message: "No report found for this session",
			})
			return
		}
		h.logger.Error("failed to load report",
			zap.String("session_id", sessionID), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "report_error",
			Message: "Failed to load report",
		})
		return
	}

	utils.JSON(w, http.StatusOK, report)
}
