package services

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is an already validated page request; page starts at 1.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

// List is the response envelope of every paginated endpoint.
type List[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func newList[T any](data []T, total int64, p Page) *List[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return &List[T]{
		Data: data,
		Pagination: Pagination{
			Total:       total,
			TotalPages:  totalPages,
			CurrentPage: p.Page,
			Limit:       p.Limit,
		},
	}
}

// DateRange filters on created_at by whole UTC days, both ends inclusive.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) from() (time.Time, bool) {
	if r.Start == nil {
		return time.Time{}, false
	}
	y, m, d := r.Start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

// until is exclusive: midnight after End.
func (r DateRange) until() (time.Time, bool) {
	if r.End == nil {
		return time.Time{}, false
	}
	y, m, d := r.End.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1), true
}

// likePattern builds a case-insensitive contains pattern for LOWER(col) LIKE ?.
func likePattern(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}

func applyDateRange(q *gorm.DB, column string, r DateRange) *gorm.DB {
	if from, ok := r.from(); ok {
		q = q.Where(column+" >= ?", from)
	}
	if until, ok := r.until(); ok {
		q = q.Where(column+" < ?", until)
	}
	return q
}
