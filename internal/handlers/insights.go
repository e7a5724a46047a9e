package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/biobalance/admin/internal/auth"
	"github.com/biobalance/admin/internal/services"
	"github.com/biobalance/admin/types"
	"go.uber.org/zap"
)

type InsightsGenerator interface {
	Generate(ctx context.Context, days int, focus types.FocusCategory, now time.Time) (types.MetricsSnapshot, error)
}

type DashboardBuilder interface {
	Dashboard(ctx context.Context, now time.Time) (types.Dashboard, error)
}

// InsightsHandler serves the analytics report and the dashboard.
type InsightsHandler struct {
	insights  InsightsGenerator
	dashboard DashboardBuilder
	audit     AuditRecorder
	log       *zap.Logger
	now       func() time.Time
}

func NewInsightsHandler(insights InsightsGenerator, dashboard DashboardBuilder, audit AuditRecorder, logger *zap.Logger) *InsightsHandler {
	return &InsightsHandler{
		insights:  insights,
		dashboard: dashboard,
		audit:     audit,
		log:       logger,
		now:       time.Now,
	}
}

type InsightsRequest struct {
	Days        int                 `json:"days"`
	InsightType types.FocusCategory `json:"insightType"`
}

// InsightsResponse carries the report at the top level and the numbers it
// was derived from under metrics.
type InsightsResponse struct {
	Insights    []types.Insight `json:"insights"`
	Suggestions []string        `json:"suggestions"`
	Summary     string          `json:"summary"`
	Metrics     types.Metrics   `json:"metrics"`
}

func (h *InsightsHandler) GenerateInsights(w http.ResponseWriter, r *http.Request) {
	var req InsightsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.InsightType != "" && !req.InsightType.Valid() {
		writeError(w, http.StatusBadRequest, "insightType must be one of user_experience, bot_algorithm, nutrition_habits")
		return
	}

	snap, err := h.insights.Generate(r.Context(), req.Days, req.InsightType, h.now())
	if err != nil {
		if errors.Is(err, services.ErrInvalidFocus) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("generate insights", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate insights")
		return
	}

	actor := ""
	if cred, ok := auth.CredentialFromContext(r.Context()); ok {
		actor = cred.Subject
	}
	h.audit.Record(r.Context(), types.AuditInsightsGenerated, actor, map[string]string{
		"days":  strconv.Itoa(snap.Days),
		"focus": string(req.InsightType),
	})

	writeJSON(w, http.StatusOK, InsightsResponse{
		Insights:    snap.Insights,
		Suggestions: snap.Suggestions,
		Summary:     snap.Summary,
		Metrics:     snap.Metrics,
	})
}

func (h *InsightsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.dashboard.Dashboard(r.Context(), h.now())
	if err != nil {
		h.log.Error("dashboard", zap.Error(err))
		dash = types.Dashboard{
			AtRiskUsers:     []types.UserSummary{},
			ActivityHistory: []types.ActivityPoint{},
		}
	}
	writeJSON(w, http.StatusOK, dash)
}
