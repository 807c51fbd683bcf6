package normalizer

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// foreignKey describes one child column that must reference a parent key.
type foreignKey struct {
	child     string
	childKeys []string
	column    string
	parent    string
	parentKey string
}

var foreignKeys = []foreignKey{
	{child: "Projects", childKeys: []string{"ProjectID"}, column: "CompanyID", parent: "Companies", parentKey: "CompanyID"},
	{child: "Projects", childKeys: []string{"ProjectID"}, column: "ClientID", parent: "Clients", parentKey: "ClientID"},
	{child: "ProjectTeamMembers", childKeys: []string{"ProjectID", "TeamMemberID"}, column: "ProjectID", parent: "Projects", parentKey: "ProjectID"},
	{child: "ProjectTeamMembers", childKeys: []string{"ProjectID", "TeamMemberID"}, column: "TeamMemberID", parent: "TeamMembers", parentKey: "TeamMemberID"},
}

// Violation is a child row whose foreign key has no parent row.
type Violation struct {
	Table  string
	Key    []int64
	Column string
	Value  int64
	Parent string
}

func (v Violation) String() string {
	keys := make([]string, len(v.Key))
	for i, k := range v.Key {
		keys[i] = fmt.Sprint(k)
	}
	return fmt.Sprintf("%s(%s).%s=%d has no row in %s", v.Table, strings.Join(keys, ","), v.Column, v.Value, v.Parent)
}

func quote(ident string) string { return `"` + ident + `"` }

// orphanQuery selects the child keys and dangling value of every orphan for fk.
func orphanQuery(fk foreignKey) (string, []interface{}, error) {
	cols := make([]string, 0, len(fk.childKeys)+1)
	for _, k := range fk.childKeys {
		cols = append(cols, "c."+quote(k))
	}
	cols = append(cols, "c."+quote(fk.column))

	return sq.Select(cols...).
		From(quote(fk.child) + " c").
		LeftJoin(fmt.Sprintf("%s p ON p.%s = c.%s", quote(fk.parent), quote(fk.parentKey), quote(fk.column))).
		Where(sq.Expr("p." + quote(fk.parentKey) + " IS NULL")).
		Where(sq.Expr("c." + quote(fk.column) + " IS NOT NULL")).
		OrderBy(cols...).
		ToSql()
}

// CheckIntegrity returns every row whose foreign key points at a missing parent.
func (s *Store) CheckIntegrity(ctx context.Context) ([]Violation, error) {
	var violations []Violation
	for _, fk := range foreignKeys {
		query, args, err := orphanQuery(fk)
		if err != nil {
			return nil, fmt.Errorf("build %s.%s check: %w", fk.child, fk.column, err)
		}
		rows, err := s.db.WithContext(ctx).Raw(query, args...).Rows()
		if err != nil {
			return nil, fmt.Errorf("check %s.%s: %w", fk.child, fk.column, err)
		}
		for rows.Next() {
			vals := make([]int64, len(fk.childKeys)+1)
			dest := make([]interface{}, len(vals))
			for i := range vals {
				dest[i] = &vals[i]
			}
			if err := rows.Scan(dest...); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan %s.%s: %w", fk.child, fk.column, err)
			}
			violations = append(violations, Violation{
				Table:  fk.child,
				Key:    vals[:len(fk.childKeys)],
				Column: fk.column,
				Value:  vals[len(fk.childKeys)],
				Parent: fk.parent,
			})
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("check %s.%s: %w", fk.child, fk.column, err)
		}
	}

	if len(violations) == 0 {
		s.logger.Info("integrity check passed: all foreign keys valid")
		return nil, nil
	}
	for _, v := range violations {
		s.logger.Warn("foreign key violation", zap.String("violation", v.String()))
	}
	return violations, nil
}
