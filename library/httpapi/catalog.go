package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-ledger-go/library/features/command/manageauthors"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managebooks"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managecategories"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managepatrons"
)

// bindValid decodes the JSON body into req and validates it.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return invalidRequest(msgInvalidJSON)
	}

	if err := c.Validate(req); err != nil {
		return invalidRequest(msgInvalidData + invalidFields(err))
	}

	return nil
}

func (s *Server) listAuthors(c echo.Context) error {
	found, err := s.catalog.ListAuthors(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mapAll(found, auteurFrom))
}

func (s *Server) getAuthor(c echo.Context) error {
	author, err := s.catalog.GetAuthor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, auteurFrom(author))
}

func (s *Server) addAuthor(c echo.Context) error {
	var req creerAuteurRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	author, err := s.catalog.AddAuthor(c.Request().Context(), req.Nom)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, auteurFrom(author))
}

func (s *Server) renameAuthor(c echo.Context) error {
	var req modifierAuteurRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	author, err := s.catalog.RenameAuthor(c.Request().Context(), c.Param("id"), manageauthors.Patch{Name: req.Nom})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, auteurFrom(author))
}

func (s *Server) removeAuthor(c echo.Context) error {
	if err := s.catalog.RemoveAuthor(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listCategories(c echo.Context) error {
	found, err := s.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mapAll(found, categorieFrom))
}

func (s *Server) getCategory(c echo.Context) error {
	category, err := s.catalog.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categorieFrom(category))
}

func (s *Server) addCategory(c echo.Context) error {
	var req creerCategorieRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	category, err := s.catalog.AddCategory(c.Request().Context(), req.Nom)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, categorieFrom(category))
}

func (s *Server) renameCategory(c echo.Context) error {
	var req modifierCategorieRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	category, err := s.catalog.RenameCategory(c.Request().Context(), c.Param("id"), managecategories.Patch{Name: req.Nom})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categorieFrom(category))
}

func (s *Server) removeCategory(c echo.Context) error {
	if err := s.catalog.RemoveCategory(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listBooks(c echo.Context) error {
	found, err := s.catalog.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mapAll(found, livreFrom))
}

func (s *Server) getBook(c echo.Context) error {
	book, err := s.catalog.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, livreFrom(book))
}

// addBook answers 400 for an unknown author or category.
func (s *Server) addBook(c echo.Context) error {
	var req creerLivreRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	book, err := s.catalog.AddBook(c.Request().Context(), req.Titre, req.AuteurID, req.CategorieID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, livreFrom(book))
}

func (s *Server) changeBookDetails(c echo.Context) error {
	var req modifierLivreRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	patch := managebooks.Patch{Title: req.Titre, AuthorID: req.AuteurID, CategoryID: req.CategorieID}

	book, err := s.catalog.ChangeBookDetails(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, livreFrom(book))
}

func (s *Server) removeBook(c echo.Context) error {
	if err := s.catalog.RemoveBook(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listPatrons(c echo.Context) error {
	found, err := s.catalog.ListPatrons(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mapAll(found, utilisateurFrom))
}

func (s *Server) getPatron(c echo.Context) error {
	patron, err := s.catalog.GetPatron(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, utilisateurFrom(patron))
}

func (s *Server) registerPatron(c echo.Context) error {
	var req creerUtilisateurRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	patron, err := s.catalog.RegisterPatron(c.Request().Context(), req.Nom, req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, utilisateurFrom(patron))
}

func (s *Server) changePatronDetails(c echo.Context) error {
	var req modifierUtilisateurRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	patch := managepatrons.Patch{Name: req.Nom, Email: req.Email}

	patron, err := s.catalog.ChangePatronDetails(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, utilisateurFrom(patron))
}

func (s *Server) removePatron(c echo.Context) error {
	if err := s.catalog.RemovePatron(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
