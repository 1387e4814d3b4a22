package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

const (
	logMsgRequest    = "http request"
	logAttrMethod    = "method"
	logAttrPath      = "path"
	logAttrStatus    = "status"
	logAttrLatencyMS = "latency_ms"
	logAttrRequestID = "request_id"
)

func (s *Server) registerMiddlewares() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(correlateRequest)
	s.echo.Use(s.logRequest)
}

// correlateRequest makes the request id the correlation id of all events appended by the request.
func correlateRequest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		req := c.Request()
		c.SetRequest(req.WithContext(shell.WithCorrelationID(req.Context(), requestID)))

		return next(c)
	}
}

func (s *Server) logRequest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// writes the response, so the status below is the final one
			c.Error(err)
		}

		s.logger.InfoContext(
			c.Request().Context(),
			logMsgRequest,
			logAttrMethod, c.Request().Method,
			logAttrPath, c.Path(),
			logAttrStatus, c.Response().Status,
			logAttrLatencyMS, time.Since(start).Milliseconds(),
			logAttrRequestID, c.Response().Header().Get(echo.HeaderXRequestID),
		)

		return nil
	}
}
