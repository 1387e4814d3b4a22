package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	msgLoanCreated  = "Livre emprunté avec succès."
	msgLoanReturned = "Livre retourné avec succès."

	queryParamStartDate = "date_debut"
	queryParamEndDate   = "date_fin"
)

func (s *Server) requestLoan(c echo.Context) error {
	var req demandeEmpruntRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(msgInvalidJSON)
	}

	if err := c.Validate(&req); err != nil {
		return invalidRequest(msgLoanIDsRequired)
	}

	loan, err := s.loans.RequestLoan(c.Request().Context(), string(req.LivreID), string(req.UtilisateurID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, empruntCreeDTO{Message: msgLoanCreated, Emprunt: empruntFrom(loan)})
}

func (s *Server) returnLoan(c echo.Context) error {
	if err := s.loans.ReturnLoan(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageBody{Message: msgLoanReturned})
}

func (s *Server) getLoan(c echo.Context) error {
	loan, err := s.loans.GetLoan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, empruntFrom(loan))
}

func (s *Server) listOpenLoans(c echo.Context) error {
	loans, err := s.loans.ListOpenLoansForPatron(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mapAll(loans, empruntFrom))
}

func (s *Server) listBorrowedBooksOfAuthor(c echo.Context) error {
	found, err := s.loans.ListBooksBorrowedByAuthorBetween(
		c.Request().Context(),
		c.Param("id"),
		c.QueryParam(queryParamStartDate),
		c.QueryParam(queryParamEndDate),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mapAll(found, livreFrom))
}
