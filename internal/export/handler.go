package export

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"advisor-backend/internal/shared/server/respond"
)

// Handler serves document export endpoints.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/program", h.program)
	rg.POST("/summary", h.summary)
	rg.GET("/status", h.status)
}

type exportRequest struct {
	Profile         BusinessProfile  `json:"profile" binding:"required"`
	Recommendations []map[string]any `json:"recommendations" binding:"required"`
	Language        string           `json:"language" binding:"omitempty,oneof=en he ru"`
}

func (h *Handler) program(c *gin.Context) {
	h.generate(c, "Program", BuildProgram, 0)
}

func (h *Handler) summary(c *gin.Context) {
	// summaries keep only the top entries
	h.generate(c, "Summary", BuildSummary, 4)
}

type buildFunc func(BusinessProfile, []CanonicalRecommendation, string) ([]byte, error)

func (h *Handler) generate(c *gin.Context, kind string, build buildFunc, maxRecs int) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Missing required fields: profile and recommendations array", err.Error())
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}

	raw := req.Recommendations
	if maxRecs > 0 && len(raw) > maxRecs {
		raw = raw[:maxRecs]
	}
	recs := NormalizeAll(raw)
	if len(recs) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No valid recommendations provided", nil)
		return
	}

	data, err := build(req.Profile, recs, req.Language)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to generate document", nil)
		return
	}

	fileName := fmt.Sprintf("Security_%s_%s_%d.docx", kind, safeFileName(req.Profile.BusinessName, kind), time.Now().Unix())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, ContentTypeDOCX, data)
}

func (h *Handler) status(c *gin.Context) {
	respond.OK(c, gin.H{
		"success": true,
		"message": "Export service is operational",
		"features": gin.H{
			"securityProgram": "Full customized protection program (Word document)",
			"quickSummary":    "Quick summary with top recommendations",
			"formats":         []string{"DOCX"},
		},
	})
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func safeFileName(name, fallback string) string {
	cleaned := unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_")
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return fallback
	}
	return cleaned
}
