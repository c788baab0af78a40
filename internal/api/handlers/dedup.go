package handlers

import (
	"errors"
	"net/http"

	"sales-warehouse/backend/internal/api"
	"sales-warehouse/backend/internal/db"
	"sales-warehouse/backend/internal/matching"
	"sales-warehouse/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// DedupHandler handles customer deduplication requests
type DedupHandler struct {
	dedupService *service.DedupService
	validator    *validator.Validate
}

func NewDedupHandler(dedupService *service.DedupService) *DedupHandler {
	return &DedupHandler{
		dedupService: dedupService,
		validator:    validator.New(),
	}
}

// FindMatchesRequest is the request body for a match scan
type FindMatchesRequest struct {
	MinScore *float64 `json:"min_score,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// FindMatchesResponse wraps a match scan result
type FindMatchesResponse struct {
	Matches  []matching.CustomerMatch `json:"matches"`
	MinScore float64                  `json:"min_score"`
}

// MergeRequest is the request body for merging a duplicate customer
type MergeRequest struct {
	SourceID string `json:"source_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
}

// FindMatches serves POST /dedup/matches
func (h *DedupHandler) FindMatches(c *gin.Context) {
	var req FindMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	minScore := matching.DedupConfig.MinScore
	if req.MinScore != nil {
		minScore = matching.DedupConfig.ClampMinScore(*req.MinScore)
	}

	matches, err := h.dedupService.FindMatches(c.Request.Context(), minScore)
	if err != nil {
		api.SendInternalError(c, err.Error())
		return
	}

	// Empty scans are valid results, not errors
	if matches == nil {
		matches = []matching.CustomerMatch{}
	}

	api.SendSuccess(c, http.StatusOK, FindMatchesResponse{
		Matches:  matches,
		MinScore: minScore,
	})
}

// Merge serves POST /dedup/merge
func (h *DedupHandler) Merge(c *gin.Context) {
	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	updated, err := h.dedupService.MergeCustomers(c.Request.Context(), req.SourceID, req.TargetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfMerge):
			api.SendBadRequest(c, "source and target must be different customers")
		case errors.Is(err, service.ErrAlreadyMerged):
			api.SendConflict(c, "source customer is already merged")
		case errors.Is(err, db.ErrNotFound):
			api.SendNotFound(c, "customer")
		default:
			api.SendInternalError(c, err.Error())
		}
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{
		"source_id":    req.SourceID,
		"target_id":    req.TargetID,
		"rows_updated": updated,
	})
}
