package advisor

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"advisor-backend/internal/llm"
	"advisor-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the advisory service. RateLimit, when set,
// guards the recommend endpoint only; history reads stay unthrottled.
type Handler struct {
	Svc       *Service
	RateLimit gin.HandlerFunc
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches advisory routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	if h.RateLimit != nil {
		rg.POST("/recommend", h.RateLimit, h.recommend)
	} else {
		rg.POST("/recommend", h.recommend)
	}
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

// RegisterDiagnosisRoutes attaches the conversational diagnosis routes.
func (h *Handler) RegisterDiagnosisRoutes(rg *gin.RouterGroup) {
	rg.POST("/initial", h.initialDiagnosis)
	rg.POST("/refine", h.refineDiagnosis)
}

func (h *Handler) initialDiagnosis(c *gin.Context) {
	var req DiagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please provide a detailed business description (at least 10 characters)", err.Error())
		return
	}

	result, err := h.Svc.Diagnose(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrShortDescription):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Please provide a detailed business description (at least 10 characters)", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "not_configured", "AI API not configured", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "ai_unavailable", "Failed to generate security diagnosis", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) refineDiagnosis(c *gin.Context) {
	var req RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please provide analysisId and message", err.Error())
		return
	}

	result, err := h.Svc.Refine(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Analysis not found", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "not_configured", "AI API not configured", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "ai_unavailable", "Failed to refine analysis", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) recommend(c *gin.Context) {
	var profile Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Missing required fields: industry and description", err.Error())
		return
	}

	result, err := h.Svc.Recommend(c.Request.Context(), profile)
	if err != nil {
		var parseErr *ParseError
		var shapeErr *ShapeError
		var upstreamErr *UpstreamError
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Missing required fields: industry and description", validationErrs.Error())
		case errors.As(err, &parseErr):
			respond.Error(c, http.StatusInternalServerError, "parse_error", "Failed to parse AI recommendations", parseErr.Reason)
		case errors.As(err, &shapeErr):
			respond.Error(c, http.StatusInternalServerError, "invalid_response", "Invalid AI response structure", shapeErr.Reason)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "not_configured", "AI API not configured", nil)
		case errors.As(err, &upstreamErr):
			respond.Error(c, http.StatusInternalServerError, "ai_unavailable", "Failed to generate security recommendations", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to generate security recommendations", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, analysis)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	analyses, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"analyses": analyses,
		"limit":    limit,
		"offset":   offset,
	})
}
