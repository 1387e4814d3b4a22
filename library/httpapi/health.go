package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

type healthDTO struct {
	Status string `json:"status"`
}

func (s *Server) checkHealth(c echo.Context) error {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		defer cancel()

		if err := s.health(ctx); err != nil {
			s.logger.WarnContext(ctx, "health check failed", "error", err.Error())
			return c.JSON(http.StatusServiceUnavailable, healthDTO{Status: "unavailable"})
		}
	}

	return c.JSON(http.StatusOK, healthDTO{Status: "ok"})
}
