package postgres

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

// orderClause maps a client supplied OrderBy onto a whitelisted column.
func orderClause(in seedwork.SearchInput, columns map[string]string, def string) string {
	col, ok := columns[strings.ToLower(in.OrderBy)]
	if !ok {
		col = columns[def]
	}
	dir := "ASC"
	if in.Order == seedwork.OrderDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", col, dir)
}

func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
