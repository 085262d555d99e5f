// Package listing implements the shared query machinery behind every
// collection endpoint: whitelist-based ordering, clamped pagination and
// a count-then-page executor that applies one immutable filter set to
// both queries.
package listing

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Order is a validated sort instruction, safe to interpolate into SQL.
type Order struct {
	Field     string
	Direction string
}

// SQL renders the order clause.
func (o Order) SQL() string {
	return o.Field + " " + o.Direction
}

// ResolveOrder validates a client-supplied "field:direction" string
// against a field whitelist. The field must match an allowed entry
// exactly (case-sensitive); the direction is uppercased and must be ASC
// or DESC. Invalid parts silently fall back to the defaults — sort
// parameters never produce an error.
func ResolveOrder(orderParam string, allowed []string, defaultField, defaultDirection string) Order {
	field := defaultField
	dir := defaultDirection

	if orderParam != "" {
		candidateField, candidateDir, _ := strings.Cut(orderParam, ":")
		candidateDir = strings.ToUpper(candidateDir)

		for _, a := range allowed {
			if candidateField == a {
				field = candidateField
				break
			}
		}
		if candidateDir == "ASC" || candidateDir == "DESC" {
			dir = candidateDir
		}
	}

	return Order{Field: field, Direction: dir}
}

// Pagination holds clamped paging parameters and the derived offset.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ComputePagination clamps page/limit to safe bounds: page >= 1, limit
// within [1, MaxLimit] with DefaultLimit when absent or below 1. The
// offset can never be negative.
func ComputePagination(pageParam, limitParam int) Pagination {
	return ComputePaginationBounded(pageParam, limitParam, DefaultLimit, MaxLimit)
}

// ComputePaginationBounded is ComputePagination with a caller-chosen
// default and ceiling (the statistics order listing caps at 100).
func ComputePaginationBounded(pageParam, limitParam, defaultLimit, maxLimit int) Pagination {
	page := pageParam
	if page < 1 {
		page = 1
	}

	limit := limitParam
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

var numericPattern = regexp.MustCompile(`^[0-9]+$`)

type condition struct {
	query string
	args  []interface{}
}

// Filters is an immutable WHERE-predicate set. Every mutator returns a
// new value, so the same set can safely feed independent count and page
// query plans.
type Filters struct {
	conds []condition
}

// Where appends a predicate and returns the extended set.
func (f Filters) Where(query string, args ...interface{}) Filters {
	conds := make([]condition, len(f.conds), len(f.conds)+1)
	copy(conds, f.conds)
	return Filters{conds: append(conds, condition{query: query, args: args})}
}

// Search appends a free-text predicate. A purely numeric term matches
// the reference column exactly when one is configured; anything else
// becomes a case-insensitive substring match across the text columns.
// An empty term leaves the set unchanged.
func (f Filters) Search(term string, referenceColumn string, textColumns ...string) Filters {
	term = strings.TrimSpace(term)
	if term == "" {
		return f
	}

	if referenceColumn != "" && numericPattern.MatchString(term) {
		return f.Where(referenceColumn+" = ?", term)
	}

	like := "%" + strings.ToLower(term) + "%"
	parts := make([]string, len(textColumns))
	args := make([]interface{}, len(textColumns))
	for i, col := range textColumns {
		parts[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = like
	}
	return f.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// Apply stacks the predicates onto a GORM query.
func (f Filters) Apply(db *gorm.DB) *gorm.DB {
	for _, c := range f.conds {
		db = db.Where(c.query, c.args...)
	}
	return db
}

// Query describes one listing: the model, an optional projection and
// joins, the shared filter set, a validated order clause and paging.
type Query struct {
	Model      interface{}
	Select     string
	Joins      []string
	Filters    Filters
	OrderBy    string
	Pagination Pagination
}

// Result is the JSON envelope every listing endpoint returns. Total is
// the count of all matching records ignoring pagination and ordering.
type Result struct {
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int64       `json:"total"`
	Rows  interface{} `json:"rows"`
}

// Run executes the count-then-page pair. Both plans are built
// independently from the same Filters value, so total and rows can
// never disagree on the predicate set. The two round-trips are not
// wrapped in a transaction; slight drift under concurrent writes is an
// accepted tradeoff for listing endpoints.
func Run(db *gorm.DB, q Query, dest interface{}) (Result, error) {
	count := db.Model(q.Model)
	for _, j := range q.Joins {
		count = count.Joins(j)
	}
	var total int64
	if err := q.Filters.Apply(count).Count(&total).Error; err != nil {
		return Result{}, err
	}

	page := db.Model(q.Model)
	if q.Select != "" {
		page = page.Select(q.Select)
	}
	for _, j := range q.Joins {
		page = page.Joins(j)
	}
	page = q.Filters.Apply(page)
	if q.OrderBy != "" {
		page = page.Order(q.OrderBy)
	}
	if err := page.Limit(q.Pagination.Limit).Offset(q.Pagination.Offset).Find(dest).Error; err != nil {
		return Result{}, err
	}

	return Result{
		Page:  q.Pagination.Page,
		Limit: q.Pagination.Limit,
		Total: total,
		Rows:  dest,
	}, nil
}
