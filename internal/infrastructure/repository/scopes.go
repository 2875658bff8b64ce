package repository

import (
	"strings"

	"github.com/sangkips/stayledger-api/pkg/pagination"
	"gorm.io/gorm"
)

const defaultSearchLimit = 10

// Paginate applies offset and limit for page-based lists.
func Paginate(params *pagination.Params) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			params = &pagination.Params{}
		}
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// ContainsAny filters rows where any column matches term as a substring.
func ContainsAny(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + escapeLike(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = col + " ILIKE ?"
			args[i] = like
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

func searchLimit(limit int) int {
	if limit <= 0 || limit > 50 {
		return defaultSearchLimit
	}
	return limit
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
