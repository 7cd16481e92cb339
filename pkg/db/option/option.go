// Package option composes reusable gorm query modifiers.
package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type Operator string

const (
	EQ  Operator = "="
	GT  Operator = ">"
	GTE Operator = ">="
	LT  Operator = "<"
	LTE Operator = "<="
)

// Condition applies a single field comparison.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

type operatorOption struct {
	cond Condition
}

func (o operatorOption) Apply(db *gorm.DB) *gorm.DB {
	field := strings.TrimSpace(o.cond.Field)
	if field == "" {
		return db
	}
	return db.Where(fmt.Sprintf("%s %s ?", field, o.cond.Operator), o.cond.Value)
}

func ApplyOperator(cond Condition) QueryOption {
	return operatorOption{cond: cond}
}

// QuerySortBy sorts by an allow-listed column, newest first by default.
type QuerySortBy struct {
	Allow   map[string]bool
	Field   string
	OrderBy string
}

type sortByOption struct {
	sort QuerySortBy
}

func (o sortByOption) Apply(db *gorm.DB) *gorm.DB {
	field := strings.TrimSpace(o.sort.Field)
	if field == "" {
		field = "created_at"
	}
	if len(o.sort.Allow) > 0 && !o.sort.Allow[field] {
		field = "created_at"
	}

	order := strings.ToUpper(strings.TrimSpace(o.sort.OrderBy))
	if order != "ASC" {
		order = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", field, order))
}

func WithSortBy(sort QuerySortBy) QueryOption {
	return sortByOption{sort: sort}
}

type limitOption struct {
	limit  int
	offset int
}

func (o limitOption) Apply(db *gorm.DB) *gorm.DB {
	if o.limit > 0 {
		db = db.Limit(o.limit)
	}
	if o.offset > 0 {
		db = db.Offset(o.offset)
	}
	return db
}

func WithLimit(limit, offset int) QueryOption {
	return limitOption{limit: limit, offset: offset}
}
