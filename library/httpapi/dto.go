package httpapi

import (
	"errors"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-ledger-go/library/features/query/authors"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/books"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/categories"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/patrons"
	"github.com/AntonStoeckl/library-ledger-go/library/ledger"
)

type livreDTO struct {
	ID          string `json:"id"`
	Titre       string `json:"titre"`
	Disponible  bool   `json:"disponible"`
	AuteurID    string `json:"auteurId"`
	CategorieID string `json:"categorieId"`
}

type auteurDTO struct {
	ID  string `json:"id"`
	Nom string `json:"nom"`
}

type categorieDTO struct {
	ID  string `json:"id"`
	Nom string `json:"nom"`
}

type utilisateurDTO struct {
	ID    string `json:"id"`
	Nom   string `json:"nom"`
	Email string `json:"email"`
}

type empruntDTO struct {
	ID          string         `json:"id"`
	Livre       livreDTO       `json:"livre"`
	Utilisateur utilisateurDTO `json:"utilisateur"`
	DateEmprunt time.Time      `json:"dateEmprunt"`
	DateRetour  *time.Time     `json:"dateRetour"`
}

type empruntCreeDTO struct {
	Message string     `json:"message"`
	Emprunt empruntDTO `json:"emprunt"`
}

type demandeEmpruntRequest struct {
	LivreID       entityID `json:"livreId" validate:"required"`
	UtilisateurID entityID `json:"utilisateurId" validate:"required"`
}

var errInvalidID = errors.New("id must be a string or a number")

// entityID is an id sent as a JSON string or number, numbers keep their literal text.
type entityID string

func (id *entityID) UnmarshalJSON(data []byte) error {
	switch value := jsoniter.Get(data); value.ValueType() {
	case jsoniter.StringValue:
		*id = entityID(value.ToString())
	case jsoniter.NumberValue:
		*id = entityID(strings.TrimSpace(string(data)))
	case jsoniter.NilValue:
	default:
		return errInvalidID
	}

	return nil
}

type creerAuteurRequest struct {
	Nom string `json:"nom" validate:"required"`
}

type modifierAuteurRequest struct {
	Nom *string `json:"nom" validate:"omitnil,min=1"`
}

type creerCategorieRequest struct {
	Nom string `json:"nom" validate:"required"`
}

type modifierCategorieRequest struct {
	Nom *string `json:"nom" validate:"omitnil,min=1"`
}

// disponible is not part of the book requests, availability follows the loans.
type creerLivreRequest struct {
	Titre       string `json:"titre" validate:"required"`
	AuteurID    string `json:"auteurId" validate:"required"`
	CategorieID string `json:"categorieId" validate:"required"`
}

type modifierLivreRequest struct {
	Titre       *string `json:"titre" validate:"omitnil,min=1"`
	AuteurID    *string `json:"auteurId" validate:"omitnil,min=1"`
	CategorieID *string `json:"categorieId" validate:"omitnil,min=1"`
}

type creerUtilisateurRequest struct {
	Nom   string `json:"nom" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type modifierUtilisateurRequest struct {
	Nom   *string `json:"nom" validate:"omitnil,min=1"`
	Email *string `json:"email" validate:"omitnil,email"`
}

func livreFrom(book books.Book) livreDTO {
	return livreDTO{
		ID:          book.BookID,
		Titre:       book.Title,
		Disponible:  book.Available,
		AuteurID:    book.AuthorID,
		CategorieID: book.CategoryID,
	}
}

func auteurFrom(author authors.Author) auteurDTO {
	return auteurDTO{ID: author.AuthorID, Nom: author.Name}
}

func categorieFrom(category categories.Category) categorieDTO {
	return categorieDTO{ID: category.CategoryID, Nom: category.Name}
}

func utilisateurFrom(patron patrons.Patron) utilisateurDTO {
	return utilisateurDTO{ID: patron.PatronID, Nom: patron.Name, Email: patron.Email}
}

func empruntFrom(loan ledger.Loan) empruntDTO {
	return empruntDTO{
		ID:          loan.LoanID,
		Livre:       livreFrom(loan.Book),
		Utilisateur: utilisateurFrom(loan.Patron),
		DateEmprunt: loan.BorrowedAt,
		DateRetour:  loan.ReturnedAt,
	}
}

// mapAll never returns nil, empty lists are encoded as [].
func mapAll[T, D any](items []T, mapOne func(T) D) []D {
	mapped := make([]D, 0, len(items))
	for _, item := range items {
		mapped = append(mapped, mapOne(item))
	}

	return mapped
}
