// Package ledger holds the mutations of a user's financial document. Every
// command takes a snapshot and returns a new one; the input is never modified,
// so callers can persist the result as a whole-document replace.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/agnivade/levenshtein"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrSyntheticTransaction  = errors.New("loan installments are derived and cannot be deleted")
	ErrDuplicateLoan         = errors.New("a loan with this name already exists")
	ErrUnknownSubcategory    = errors.New("unknown subcategory")
	ErrDuplicateSubcategory  = errors.New("subcategory already exists")
	ErrLoanLinkedSubcategory = errors.New("subcategory is linked to a loan")
)

// ids of entries derived from loans start with this prefix
const syntheticIDPrefix = "loan:"

// Command is a single mutation of the document
type Command interface {
	Describe() string
	Apply(data *models.FinancialData) (*models.FinancialData, error)
}

// Apply runs commands in order and returns the final snapshot. Nothing is
// returned when any command fails.
func Apply(data *models.FinancialData, cmds ...Command) (*models.FinancialData, error) {
	if data == nil {
		data = models.NewFinancialData()
	}
	current := data
	for _, cmd := range cmds {
		next, err := cmd.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Describe(), err)
		}
		current = next
	}
	return current, nil
}

// IsSynthetic reports whether an id belongs to a derived loan entry
func IsSynthetic(id string) bool {
	return strings.HasPrefix(id, syntheticIDPrefix)
}

func validMonth(month int) error {
	if month < 0 || month > 11 {
		return fmt.Errorf("%w: month index %d out of range", ErrInvalidInput, month)
	}
	return nil
}

func validYear(year int) error {
	if year < 1000 || year > 9999 {
		return fmt.Errorf("%w: year %d must have four digits", ErrInvalidInput, year)
	}
	return nil
}

func validAmount(amount float64, allowZero bool) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 || (!allowZero && amount == 0) {
		return fmt.Errorf("%w: amount %v", ErrInvalidInput, amount)
	}
	return nil
}

func validMainCategory(main string) error {
	if !models.IsMainCategory(main) {
		return fmt.Errorf("%w: unknown main category %q", ErrInvalidInput, main)
	}
	return nil
}

// requireSubcategory checks that sub is listed under main, suggesting the closest name otherwise
func requireSubcategory(tax models.Taxonomy, main, sub string) error {
	if tax.Contains(main, sub) {
		return nil
	}
	if s := suggest(sub, tax[main]); s != "" {
		return fmt.Errorf("%w: %q in %s, did you mean %q?", ErrUnknownSubcategory, sub, main, s)
	}
	return fmt.Errorf("%w: %q in %s", ErrUnknownSubcategory, sub, main)
}

// suggest returns the candidate closest to name, or "" when none is close enough
func suggest(name string, candidates []string) string {
	best, bestDist := "", math.MaxInt
	needle := strings.ToLower(name)
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(needle, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist <= max(2, len(name)/3) {
		return best
	}
	return ""
}
