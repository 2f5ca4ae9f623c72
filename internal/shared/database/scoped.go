package database

import (
	"fmt"
	"strings"

	"github.com/stc-ops/fieldops/internal/scope"
)

// ScopedWhere translates a scope.Filter into a SQL WHERE fragment and its
// positional arguments. Every record table carries the scoping columns
// (state, zone, district, constituency, pc, owner_id), so the translation is
// shared by all repositories instead of being rebuilt per route.
//
// argNum is the next free placeholder number; the returned int is the next
// free number after the fragment's own placeholders, so callers can append
// further conditions (date ranges, explicit query filters) behind it.
// An unscoped filter yields an empty fragment.
func ScopedWhere(f scope.Filter, argNum int) (string, []interface{}, int) {
	var conds []string
	var args []interface{}

	if f.State != "" {
		conds = append(conds, fmt.Sprintf("state = $%d", argNum))
		args = append(args, f.State)
		argNum++
	}
	for _, c := range []struct {
		column string
		values []string
	}{
		{"zone", f.Zones},
		{"district", f.Districts},
		{"constituency", f.Constituencies},
		{"pc", f.PCs},
	} {
		if len(c.values) == 0 {
			continue
		}
		conds = append(conds, fmt.Sprintf("%s = ANY($%d)", c.column, argNum))
		args = append(args, c.values)
		argNum++
	}
	if f.OwnerID != "" {
		conds = append(conds, fmt.Sprintf("owner_id = $%d", argNum))
		args = append(args, f.OwnerID)
		argNum++
	}

	return strings.Join(conds, " AND "), args, argNum
}
