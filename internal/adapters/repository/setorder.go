package repository

import (
	"fmt"
	"strings"
)

// SetOrderExpr compiles a display order of set codes into a SQL ORDER BY
// fragment ranking each row's set_code by its position in setOrder:
//
//	(case set_code when 'NEO' then 0 when 'SNC' then 1 else 2 end),
//
// Codes absent from setOrder fall into the else bucket and sort after all
// listed ones. The trailing comma matters: further sort keys follow, which
// is also why the empty order compiles to the empty string. Set codes are
// spliced in as literals, so single quotes are doubled.
func SetOrderExpr(setOrder []string) string {
	if len(setOrder) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("(case set_code")
	for i, code := range setOrder {
		fmt.Fprintf(&b, " when '%s' then %d", strings.ReplaceAll(code, "'", "''"), i)
	}
	fmt.Fprintf(&b, " else %d end), ", len(setOrder))
	return b.String()
}
