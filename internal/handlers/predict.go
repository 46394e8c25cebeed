package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agripulse/marketplace/internal/logging"
	"github.com/agripulse/marketplace/internal/mlclient"
)

const healthProbeTimeout = 5 * time.Second

type PredictHandler struct {
	ML *mlclient.Client
}

type predictRequest struct {
	Image string `json:"image"`
}

// PredictDisease forwards a base64 image to the inference service and relays
// the response verbatim. Single attempt, no retry.
func (h *PredictHandler) PredictDisease(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "predict.disease")

	var req predictRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("predict_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Image data is required")
	}
	if req.Image == "" {
		l.Warn("predict_failed", "status", 400, "reason", "no image")
		return echo.NewHTTPError(http.StatusBadRequest, "Image data is required")
	}

	pred, err := h.ML.Predict(ctx, req.Image)
	if err != nil {
		var statusErr *mlclient.StatusError
		switch {
		case errors.Is(err, mlclient.ErrUnavailable):
			l.Error("predict_failed", "status", 503, "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable,
				"ML service is not available. Please ensure the ML service is running.")
		case errors.As(err, &statusErr):
			l.Warn("predict_failed", "status", statusErr.Code, "error", err)
			return echo.NewHTTPError(statusErr.Code, statusErr.Message)
		default:
			// Covers timeouts and malformed responses.
			l.Error("predict_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError,
				"Error processing disease prediction: "+err.Error())
		}
	}

	l.Info("predict_success", "prediction", pred.Prediction, "confidence", pred.Confidence)
	return c.JSON(http.StatusOK, pred)
}

// MLHealth probes the inference service with a short timeout.
func (h *PredictHandler) MLHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthProbeTimeout)
	defer cancel()

	report, err := h.ML.Health(ctx)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status": "ML service is not available",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":        "ML service is healthy",
		"mlServiceData": report,
	})
}
