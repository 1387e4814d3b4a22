package booksborrowedbyauthor

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	queryType    = "BooksBorrowedByAuthor"
	snapshotType = "BooksBorrowedByAuthor"

	// DateLayout is the accepted date format.
	DateLayout = time.DateOnly
)

const (
	failureDatesRequired = "start and end dates are required (format: YYYY-MM-DD)"
	failureDateFormat    = "invalid date format, use YYYY-MM-DD"
)

// Query covers loans borrowed in [From, Until], both inclusive. A reversed range is empty.
type Query struct {
	AuthorID core.AuthorIDString
	From     time.Time
	Until    time.Time
}

// BuildQuery parses the dates as UTC days, Until is moved to the last microsecond of its day.
func BuildQuery(authorID core.AuthorIDString, startDate, endDate string) (Query, error) {
	if err := core.RequireNonBlank("authorId", authorID); err != nil {
		return Query{}, err
	}

	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		return Query{}, core.ValidationError(failureDatesRequired)
	}

	from, err := time.ParseInLocation(DateLayout, startDate, time.UTC)
	if err != nil {
		return Query{}, core.ValidationError(failureDateFormat)
	}

	endDay, err := time.ParseInLocation(DateLayout, endDate, time.UTC)
	if err != nil {
		return Query{}, core.ValidationError(failureDateFormat)
	}

	return Query{
		AuthorID: authorID,
		From:     from,
		Until:    endDay.Add(24*time.Hour - time.Microsecond),
	}, nil
}

func (q Query) QueryType() string    { return queryType }
func (q Query) SnapshotType() string { return snapshotType }
