package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/thereayou/relyexchange/internal/services"
)

// orderClause maps a list order onto a column; alphabetical falls back to
// the creation column when the entity has no natural text key.
func orderClause(order services.Order, createdCol, alphaCol string) string {
	switch order {
	case services.OrderNewest:
		return createdCol + " DESC"
	case services.OrderAlphabet:
		return alphaCol + " ASC NULLS LAST, " + createdCol + " ASC"
	default:
		return createdCol + " ASC"
	}
}

// searchAny adds a case-insensitive substring match over cols.
func searchAny(q *gorm.DB, term string, cols ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" {
		return q
	}
	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, col := range cols {
		parts[i] = col + " ILIKE ?"
		args[i] = pattern
	}
	return q.Where("("+strings.Join(parts, " OR ")+")", args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// page counts the filtered rows, then loads one page of them into dest.
func page(q *gorm.DB, req services.PageRequest, order string, dest interface{}) (int64, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	err := q.Order(order).Offset(req.Offset()).Limit(req.PerPage).Find(dest).Error
	return total, err
}
