package api

import (
	"context"
	"errors"
	"strings"

	"OptEdge/internal/domain/models"
	"OptEdge/internal/usecase"
	xhttp "OptEdge/pkg/http"
	xlogger "OptEdge/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScanEchoHandler exposes the scanner over HTTP.
type ScanEchoHandler struct {
	logger  *xlogger.Logger
	scanner *usecase.Scanner
}

func NewScanEchoHandler(logger *xlogger.Logger, scanner *usecase.Scanner) *ScanEchoHandler {
	return &ScanEchoHandler{logger: logger, scanner: scanner}
}

func (h *ScanEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/scan", h.Scan)
	g.GET("/regime", h.Regime)
}

// Scan runs one batch over the requested tickers (default: the watch list).
func (h *ScanEchoHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.Bind(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.scanner.Run(c.Request().Context(), usecase.ScanParams{
		Tickers:       splitTickers(req.Tickers),
		Variant:       models.Variant(req.Variant),
		PerTickerTopK: req.PerTick,
		TopN:          req.Top,
	})
	if err != nil {
		h.logger.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ScanEchoHandler) Regime(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, h.scanner.Regime(c.Request().Context()))
}

func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return xhttp.ServiceUnavailableError("scan interrupted").WithError(err)
	case errors.Is(err, usecase.ErrEmptyWatchlist):
		return xhttp.BadRequestErrorf("no tickers requested and no watch list configured").WithError(err)
	default:
		return xhttp.InternalError("scan failed").WithError(err)
	}
}

func splitTickers(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
