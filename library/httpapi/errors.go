package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	msgInvalidJSON      = "Corps de requête JSON invalide."
	msgInvalidData      = "Données invalides: "
	msgLoanIDsRequired  = "Les identifiants du livre et de l'utilisateur sont requis."
	msgStorageFailure   = "Service temporairement indisponible."
	msgInternalError    = "Erreur interne."
	msgRouteNotFound    = "Ressource non trouvée."
	msgMethodNotAllowed = "Méthode non autorisée."
)

// frenchMessages translates the messages of the domain errors.
var frenchMessages = map[string]string{
	"book not found":                      "Livre non trouvé.",
	"patron not found":                    "Utilisateur non trouvé.",
	"author not found":                    "Auteur non trouvé.",
	"category not found":                  "Catégorie non trouvée.",
	"loan not found":                      "Emprunt non trouvé.",
	"book already borrowed":               "Ce livre est déjà emprunté.",
	"max 4 concurrent loans":              "Limite de 4 emprunts atteinte.",
	"loan not found or already returned":  "Emprunt non trouvé ou livre déjà retourné.",
	"book already exists":                 "Ce livre existe déjà.",
	"author already exists":               "Cet auteur existe déjà.",
	"category already exists":             "Cette catégorie existe déjà.",
	"patron already exists":               "Cet utilisateur existe déjà.",
	"book has an open loan":               "Ce livre est emprunté, il ne peut pas être supprimé.",
	"patron has open loans":               "Cet utilisateur a des emprunts en cours.",
	"author is referenced by books":       "Cet auteur est référencé par des livres.",
	"category is referenced by books":     "Cette catégorie est référencée par des livres.",
	"invalid date format, use YYYY-MM-DD": "Format de date invalide. Utilisez YYYY-MM-DD.",
	"start and end dates are required (format: YYYY-MM-DD)": "Les paramètres date_debut et date_fin sont requis " +
		"(format: YYYY-MM-DD).",
}

type messageBody struct {
	Message string `json:"message"`
}

// requestError is a malformed request rejected before reaching the domain.
type requestError struct {
	message string
}

func (e requestError) Error() string {
	return e.message
}

func invalidRequest(message string) error {
	return requestError{message: message}
}

// statusOf maps an error to its status code.
func statusOf(err error) int {
	var reqErr requestError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrLimitExceeded):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, core.ErrStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageOf(err error, status int) string {
	var reqErr requestError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &reqErr):
		return reqErr.message
	case errors.As(err, &httpErr):
		return httpMessage(httpErr.Code)
	case status == http.StatusServiceUnavailable:
		return msgStorageFailure
	case status == http.StatusInternalServerError:
		return msgInternalError
	}

	message := core.MessageOf(err)
	if french, ok := frenchMessages[message]; ok {
		return french
	}

	if field, ok := strings.CutSuffix(message, " is required"); ok {
		return "Le champ " + field + " est requis."
	}

	return message
}

func httpMessage(code int) string {
	switch code {
	case http.StatusNotFound:
		return msgRouteNotFound
	case http.StatusMethodNotAllowed:
		return msgMethodNotAllowed
	case http.StatusBadRequest:
		return msgInvalidJSON
	default:
		return http.StatusText(code)
	}
}

// handleError writes every error as {"message": ...}, server side failures are logged.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			logAttrPath, c.Path(),
			logAttrStatus, status,
			"error", err.Error(),
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, messageBody{Message: messageOf(err, status)})
	}

	if writeErr != nil {
		s.logger.ErrorContext(c.Request().Context(), "writing the error response failed", "error", writeErr.Error())
	}
}
