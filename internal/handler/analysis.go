package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/AdityaUmale/yt-analyzer/internal/middleware"
	"github.com/AdityaUmale/yt-analyzer/internal/model"
	"github.com/AdityaUmale/yt-analyzer/internal/service"
	"github.com/AdityaUmale/yt-analyzer/internal/youtube"
)

type AnalysisHandler struct {
	svc *service.AnalysisService
}

func NewAnalysisHandler(svc *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// Analyze handles POST /api/youtube/comments
func (h *AnalysisHandler) Analyze(c fiber.Ctx) error {
	var req model.AnalyzeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	videoURL, errMsg := middleware.ValidateVideoURL(req.VideoURL)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	analysis, cached, err := h.svc.Analyze(c.Context(), videoURL)
	if err != nil {
		if errors.Is(err, service.ErrInvalidVideoURL) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_URL", "Could not extract a video ID from videoUrl")
		}
		var upstream *youtube.UpstreamError
		if errors.As(err, &upstream) {
			middleware.Logger.Error().Err(err).Msg("comment fetch failed")
			return middleware.ErrorResponse(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch comments from YouTube")
		}
		middleware.Logger.Error().Err(err).Msg("analysis failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to analyze video")
	}

	message := "Analysis completed and stored"
	if cached {
		message = "Retrieved from cache"
	}

	return c.JSON(model.AnalyzeResponse{
		Success: true,
		Message: message,
		Data:    analysis,
	})
}

// Test handles GET /api/youtube/test
func (h *AnalysisHandler) Test(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "API is working",
	})
}
