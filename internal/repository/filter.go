package repository

import (
	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
)

// sortColumns whitelists the columns the list endpoint may sort by.
var sortColumns = map[string]string{
	"id":       "id",
	"date":     "date",
	"amount":   "amount",
	"category": "category",
	"status":   "status",
	"user_id":  "user_id",
}

// buildPredicates translates a filter into a conjunction of squirrel
// predicates. Absent fields contribute nothing; pointer bounds are applied
// whenever non-nil, so a zero amount is a real bound. The search term matches
// case-insensitively as a substring of user_id, category, or status.
func buildPredicates(f models.TransactionFilter) squirrel.And {
	pred := squirrel.And{}

	if f.Category != "" {
		pred = append(pred, squirrel.Eq{"category": f.Category})
	}
	if f.Status != "" {
		pred = append(pred, squirrel.Eq{"status": f.Status})
	}
	if f.UserID != "" {
		pred = append(pred, squirrel.Eq{"user_id": f.UserID})
	}
	if f.StartDate != nil {
		pred = append(pred, squirrel.GtOrEq{"date": *f.StartDate})
	}
	if f.EndDate != nil {
		pred = append(pred, squirrel.LtOrEq{"date": *f.EndDate})
	}
	if f.MinAmount != nil {
		pred = append(pred, squirrel.GtOrEq{"amount": *f.MinAmount})
	}
	if f.MaxAmount != nil {
		pred = append(pred, squirrel.LtOrEq{"amount": *f.MaxAmount})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		pred = append(pred, squirrel.Or{
			squirrel.ILike{"user_id": pattern},
			squirrel.ILike{"category": pattern},
			squirrel.ILike{"status": pattern},
		})
	}

	return pred
}

func applyFilter(q squirrel.SelectBuilder, f models.TransactionFilter) squirrel.SelectBuilder {
	if pred := buildPredicates(f); len(pred) > 0 {
		return q.Where(pred)
	}
	return q
}

// orderClause resolves the requested sort into a safe ORDER BY expression.
// Unknown columns fall back to date; anything but "asc" sorts descending.
func orderClause(sortBy, order string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "date"
	}
	direction := "DESC"
	if order == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}
