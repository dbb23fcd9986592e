package semantic_test

import (
	"testing"

	"github.com/leapstack-labs/leapql/pkg/sqm"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestInterpret_Golden(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"implicit_join", "select p.mate.name from Person p where p.name = :n"},
		{"exists_subquery", "select p from Person p where exists (select d from Dog d where d.owner = p)"},
		{"treated_join", "select m.salary from Person p left join treat(p.mate as Employee) m on m.salary > 100.0"},
		{"treat_expression", "select treat(p as Employee).salary from Person p"},
		{"update", "update Person p set p.name = :name where p.age > 18"},
		{"insert", "insert into Person (name) select d.name from Dog d"},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := interpret(t, tt.query, false)
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(sqm.Format(stmt)))
		})
	}
}
