package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/AntonStoeckl/library-ledger-go/library/catalog"
	"github.com/AntonStoeckl/library-ledger-go/library/ledger"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

const operationTimeout = 5 * time.Second

const (
	outcomeLent     = "lent"
	outcomeReturned = "returned"
	outcomeConflict = "conflict"
	outcomeLimit    = "limit_exceeded"
	outcomeNotFound = "not_found"
	outcomeFailed   = "failed"
	outcomeIdle     = "idle"
)

// LoadGenerator fires RequestLoan and ReturnLoan calls for a fixed set of books and patrons,
// many of them at the same time, and verifies the ledger invariants afterwards.
type LoadGenerator struct {
	ledger  *ledger.Ledger
	catalog *catalog.Catalog
	config  Config
	logger  shell.Logger

	bookIDs   []core.BookIDString
	patronIDs []core.PatronIDString

	mu       sync.Mutex
	outcomes map[string]int64
	started  time.Time
}

func NewLoadGenerator(l *ledger.Ledger, c *catalog.Catalog, config Config, logger shell.Logger) *LoadGenerator {
	return &LoadGenerator{
		ledger:   l,
		catalog:  c,
		config:   config,
		logger:   logger,
		outcomes: make(map[string]int64),
	}
}

// Seed registers one author, one category, the books and the patrons.
func (lg *LoadGenerator) Seed(ctx context.Context) error {
	author, err := lg.catalog.AddAuthor(ctx, "Load Test Author")
	if err != nil {
		return fmt.Errorf("adding author: %w", err)
	}

	category, err := lg.catalog.AddCategory(ctx, "Load Test Category")
	if err != nil {
		return fmt.Errorf("adding category: %w", err)
	}

	for i := range lg.config.Books {
		book, addErr := lg.catalog.AddBook(ctx, fmt.Sprintf("Load Test Book %d", i+1), author.AuthorID, category.CategoryID)
		if addErr != nil {
			return fmt.Errorf("adding book: %w", addErr)
		}

		lg.bookIDs = append(lg.bookIDs, book.BookID)
	}

	for i := range lg.config.Patrons {
		patron, regErr := lg.catalog.RegisterPatron(ctx, fmt.Sprintf("Patron %d", i+1), fmt.Sprintf("patron%d@example.org", i+1))
		if regErr != nil {
			return fmt.Errorf("registering patron: %w", regErr)
		}

		lg.patronIDs = append(lg.patronIDs, patron.PatronID)
	}

	return nil
}

// Run executes Requests operations with at most Workers of them in flight, or until ctx is done.
func (lg *LoadGenerator) Run(ctx context.Context) {
	lg.started = time.Now()

	jobs := make(chan struct{})
	var wg sync.WaitGroup

	for range lg.config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range jobs {
				lg.record(lg.executeScenario(ctx))
			}
		}()
	}

	stopReporting := lg.startReporter(ctx)

feed:
	for range lg.config.Requests {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- struct{}{}:
		}
	}

	close(jobs)
	wg.Wait()
	stopReporting()
}

func (lg *LoadGenerator) executeScenario(ctx context.Context) string {
	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	patronID := lg.patronIDs[rand.IntN(len(lg.patronIDs))] //nolint:gosec // Load test, weak random is fine

	if rand.IntN(100) < lg.config.ReturnPercent { //nolint:gosec // Load test, weak random is fine
		return lg.returnSomeLoan(opCtx, patronID)
	}

	bookID := lg.bookIDs[rand.IntN(len(lg.bookIDs))] //nolint:gosec // Load test, weak random is fine

	_, err := lg.ledger.RequestLoan(opCtx, bookID, patronID)

	return outcomeOf(err, outcomeLent)
}

func (lg *LoadGenerator) returnSomeLoan(ctx context.Context, patronID core.PatronIDString) string {
	loans, err := lg.ledger.ListOpenLoansForPatron(ctx, patronID)
	if err != nil {
		return outcomeOf(err, "")
	}

	if len(loans) == 0 {
		return outcomeIdle
	}

	loan := loans[rand.IntN(len(loans))] //nolint:gosec // Load test, weak random is fine

	return outcomeOf(lg.ledger.ReturnLoan(ctx, loan.LoanID), outcomeReturned)
}

func outcomeOf(err error, success string) string {
	switch {
	case err == nil:
		return success
	case errors.Is(err, core.ErrConflict):
		return outcomeConflict
	case errors.Is(err, core.ErrLimitExceeded):
		return outcomeLimit
	case errors.Is(err, core.ErrNotFound):
		return outcomeNotFound
	default:
		return outcomeFailed
	}
}

func (lg *LoadGenerator) record(outcome string) {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	lg.outcomes[outcome]++
}

// Outcomes returns a copy of the counted outcomes.
func (lg *LoadGenerator) Outcomes() map[string]int64 {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	outcomes := make(map[string]int64, len(lg.outcomes))
	for outcome, count := range lg.outcomes {
		outcomes[outcome] = count
	}

	return outcomes
}

func (lg *LoadGenerator) startReporter(ctx context.Context) func() {
	if lg.config.ReportInterval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(lg.config.ReportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				lg.logStats("load generator progress")
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}

func (lg *LoadGenerator) logStats(msg string) {
	outcomes := lg.Outcomes()

	var total int64
	for _, count := range outcomes {
		total += count
	}

	elapsed := time.Since(lg.started)
	rate := float64(total) / max(elapsed.Seconds(), 0.001)

	lg.logger.Info(msg,
		"operations", humanize.Comma(total),
		"ops_per_second", humanize.CommafWithDigits(rate, 1),
		"elapsed", elapsed.Truncate(time.Millisecond).String(),
		outcomeLent, humanize.Comma(outcomes[outcomeLent]),
		outcomeReturned, humanize.Comma(outcomes[outcomeReturned]),
		outcomeConflict, humanize.Comma(outcomes[outcomeConflict]),
		outcomeLimit, humanize.Comma(outcomes[outcomeLimit]),
		outcomeNotFound, humanize.Comma(outcomes[outcomeNotFound]),
		outcomeFailed, humanize.Comma(outcomes[outcomeFailed]),
	)
}

// Violation is one broken ledger invariant found by Verify.
type Violation struct {
	Subject string
	Problem string
}

// Verify checks that no patron holds more than the allowed number of open loans,
// no book is lent twice, and each book is unavailable exactly while it is lent.
func (lg *LoadGenerator) Verify(ctx context.Context) ([]Violation, error) {
	var violations []Violation

	openLoansPerBook := make(map[core.BookIDString]int)

	for _, patronID := range lg.patronIDs {
		loans, err := lg.ledger.ListOpenLoansForPatron(ctx, patronID)
		if err != nil {
			return nil, err
		}

		if len(loans) > core.MaxConcurrentLoansPerPatron {
			violations = append(violations, Violation{
				Subject: patronID,
				Problem: fmt.Sprintf("%d open loans", len(loans)),
			})
		}

		for _, loan := range loans {
			openLoansPerBook[loan.Book.BookID]++
		}
	}

	allBooks, err := lg.catalog.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	for _, book := range allBooks {
		openLoans := openLoansPerBook[book.BookID]

		switch {
		case openLoans > 1:
			violations = append(violations, Violation{Subject: book.BookID, Problem: fmt.Sprintf("lent %d times", openLoans)})
		case book.Available && openLoans == 1:
			violations = append(violations, Violation{Subject: book.BookID, Problem: "available while lent"})
		case !book.Available && openLoans == 0:
			violations = append(violations, Violation{Subject: book.BookID, Problem: "unavailable without an open loan"})
		}
	}

	return violations, nil
}
