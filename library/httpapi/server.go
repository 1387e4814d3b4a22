package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/cors"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

// Server routes the API requests to the ledger and the catalog.
type Server struct {
	echo        *echo.Echo
	loans       Loans
	catalog     Catalog
	logger      shell.ContextualLogger
	corsOrigins []string
	health      HealthCheck
}

type Option func(*Server)

// WithLogger sets the logger for request logs and internal errors, slog.Default() otherwise.
func WithLogger(logger shell.ContextualLogger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCORSOrigins allows browser requests from the given origins, "*" allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithHealthCheck makes /health report 503 while check fails.
func WithHealthCheck(check HealthCheck) Option {
	return func(s *Server) {
		s.health = check
	}
}

func NewServer(loans Loans, catalog Catalog, opts ...Option) *Server {
	s := &Server{
		loans:   loans,
		catalog: catalog,
		logger:  oteladapters.NewSlogLogger(slog.Default()),
	}

	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = s.handleError

	s.echo = e
	s.registerMiddlewares()
	s.registerRoutes()

	return s
}

// Handler returns the API with the CORS handling in front of it.
func (s *Server) Handler() http.Handler {
	if len(s.corsOrigins) == 0 {
		return s.echo
	}

	return cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID},
		ExposedHeaders: []string{echo.HeaderXRequestID},
	}).Handler(s.echo)
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.checkHealth)

	api := s.echo.Group("/api")

	api.POST("/emprunts", s.requestLoan)
	api.GET("/emprunts/:id", s.getLoan)
	api.PUT("/emprunts/:id/retour", s.returnLoan)
	api.GET("/utilisateurs/:id/emprunts", s.listOpenLoans)
	api.GET("/auteurs/:id/livres-empruntes", s.listBorrowedBooksOfAuthor)

	api.GET("/auteurs", s.listAuthors)
	api.POST("/auteurs", s.addAuthor)
	api.GET("/auteurs/:id", s.getAuthor)
	api.PUT("/auteurs/:id", s.renameAuthor)
	api.DELETE("/auteurs/:id", s.removeAuthor)

	api.GET("/categories", s.listCategories)
	api.POST("/categories", s.addCategory)
	api.GET("/categories/:id", s.getCategory)
	api.PUT("/categories/:id", s.renameCategory)
	api.DELETE("/categories/:id", s.removeCategory)

	api.GET("/livres", s.listBooks)
	api.POST("/livres", s.addBook)
	api.GET("/livres/:id", s.getBook)
	api.PUT("/livres/:id", s.changeBookDetails)
	api.DELETE("/livres/:id", s.removeBook)

	api.GET("/utilisateurs", s.listPatrons)
	api.POST("/utilisateurs", s.registerPatron)
	api.GET("/utilisateurs/:id", s.getPatron)
	api.PUT("/utilisateurs/:id", s.changePatronDetails)
	api.DELETE("/utilisateurs/:id", s.removePatron)
}
