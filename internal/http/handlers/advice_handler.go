// README: Logistics advice handlers backed by the configured advisor.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teleport/internal/ai"
	"teleport/internal/modules/aiusage"
)

const adviceTimeout = 10 * time.Second

type AdviceHandler struct {
	advisor ai.Advisor
	usage   *aiusage.Service
	log     *zap.Logger
}

// NewAdviceHandler wires the advisor. usage may be nil to disable the monthly quota.
func NewAdviceHandler(advisor ai.Advisor, usage *aiusage.Service, log *zap.Logger) *AdviceHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdviceHandler{advisor: advisor, usage: usage, log: log}
}

type adviceReq struct {
	UserID    string `json:"user_id"`
	Query     string `json:"query" binding:"required,max=2000"`
	Situation string `json:"situation" binding:"max=4000"`
}

type efficiencyReq struct {
	UserID  string `json:"user_id"`
	Metrics string `json:"metrics" binding:"required,max=20000"`
}

type adviceResp struct {
	Text string `json:"text"`
}

// Advice handles POST /api/advice.
func (h *AdviceHandler) Advice(c *gin.Context) {
	var req adviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if !h.consume(c, req.UserID) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), adviceTimeout)
	defer cancel()

	text, err := h.advisor.Advice(ctx, req.Query, req.Situation)
	if err != nil {
		h.log.Warn("advice failed", zap.Error(err))
		h.refund(c, req.UserID)
		writeJSON(c, http.StatusBadGateway, adviceResp{Text: ai.AdviceUnavailable})
		return
	}
	writeJSON(c, http.StatusOK, adviceResp{Text: text})
}

// Efficiency handles POST /api/advice/efficiency.
func (h *AdviceHandler) Efficiency(c *gin.Context) {
	var req efficiencyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if !h.consume(c, req.UserID) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), adviceTimeout)
	defer cancel()

	text, err := h.advisor.AnalyzeEfficiency(ctx, req.Metrics)
	if err != nil {
		h.log.Warn("efficiency analysis failed", zap.Error(err))
		h.refund(c, req.UserID)
		writeJSON(c, http.StatusBadGateway, adviceResp{Text: ai.AnalysisUnavailable})
		return
	}
	writeJSON(c, http.StatusOK, adviceResp{Text: text})
}

// consume charges one request against the user's monthly allowance.
// Anonymous requests are not metered.
func (h *AdviceHandler) consume(c *gin.Context, userID string) bool {
	if h.usage == nil || userID == "" {
		return true
	}
	if !isValidID(userID) {
		writeError(c, http.StatusBadRequest, "invalid user_id")
		return false
	}
	err := h.usage.UseToken(c.Request.Context(), userID)
	switch {
	case errors.Is(err, aiusage.ErrInsufficientTokens):
		writeError(c, http.StatusTooManyRequests, "monthly advice quota exhausted")
		return false
	case err != nil:
		h.log.Error("use advice token", zap.String("user_id", userID), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal error")
		return false
	}
	return true
}

// refund gives back the token consume took when no answer was delivered.
func (h *AdviceHandler) refund(c *gin.Context, userID string) {
	if h.usage == nil || userID == "" {
		return
	}
	if err := h.usage.Refund(c.Request.Context(), userID); err != nil {
		h.log.Warn("refund advice token", zap.String("user_id", userID), zap.Error(err))
	}
}
