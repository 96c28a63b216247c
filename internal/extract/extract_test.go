package extract

import (
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/leapstack-labs/leapgraph/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		tables []model.SourceTable
		items  []model.Item
	}{
		{
			name:   "aliased compound identifier",
			sql:    "SELECT u.id AS user_id FROM public.users u",
			tables: []model.SourceTable{{Origin: []string{"public", "users"}, Alias: "u"}},
			items:  []model.Item{{Name: "id", Path: []string{"u"}, Alias: "user_id"}},
		},
		{
			name:   "plain identifier",
			sql:    "SELECT id FROM active_users",
			tables: []model.SourceTable{{Origin: []string{"active_users"}}},
			items:  []model.Item{{Name: "id"}},
		},
		{
			name:   "aliased plain identifier",
			sql:    "SELECT id AS key FROM t",
			tables: []model.SourceTable{{Origin: []string{"t"}}},
			items:  []model.Item{{Name: "id", Alias: "key"}},
		},
		{
			name: "join keeps left to right order",
			sql:  "SELECT a.x, b.y FROM t1 a JOIN t2 b ON a.id = b.id",
			tables: []model.SourceTable{
				{Origin: []string{"t1"}, Alias: "a"},
				{Origin: []string{"t2"}, Alias: "b"},
			},
			items: []model.Item{
				{Name: "x", Path: []string{"a"}},
				{Name: "y", Path: []string{"b"}},
			},
		},
		{
			name: "chained joins and comma list",
			sql:  "SELECT a.x FROM t1 a LEFT JOIN t2 b ON a.id = b.id JOIN t3 ON true, s.t4 d",
			tables: []model.SourceTable{
				{Origin: []string{"t1"}, Alias: "a"},
				{Origin: []string{"t2"}, Alias: "b"},
				{Origin: []string{"t3"}},
				{Origin: []string{"s", "t4"}, Alias: "d"},
			},
			items: []model.Item{{Name: "x", Path: []string{"a"}}},
		},
		{
			name:   "three part names",
			sql:    "SELECT db.public.users.id FROM db.public.users",
			tables: []model.SourceTable{{Origin: []string{"db", "public", "users"}}},
			items:  []model.Item{{Name: "id", Path: []string{"db", "public", "users"}}},
		},
		{
			name:   "is not null unwrapped when aliased",
			sql:    "SELECT u.deleted_at IS NOT NULL AS is_deleted, u.email IS NOT NULL FROM users u",
			tables: []model.SourceTable{{Origin: []string{"users"}, Alias: "u"}},
			items:  []model.Item{{Name: "deleted_at", Path: []string{"u"}, Alias: "is_deleted"}},
		},
		{
			name:   "unsupported projections skipped",
			sql:    "SELECT *, u.*, 1, count(*), u.a + 1 AS s, lower(u.b) AS lb, u.c IS NULL AS n, u.d FROM users u",
			tables: []model.SourceTable{{Origin: []string{"users"}, Alias: "u"}},
			items:  []model.Item{{Name: "d", Path: []string{"u"}}},
		},
		{
			name:   "derived table skipped",
			sql:    "SELECT s.id, o.total FROM (SELECT id FROM users) s JOIN orders o ON s.id = o.user_id",
			tables: []model.SourceTable{{Origin: []string{"orders"}, Alias: "o"}},
			items: []model.Item{
				{Name: "id", Path: []string{"s"}},
				{Name: "total", Path: []string{"o"}},
			},
		},
		{
			name:   "quoted identifiers keep case",
			sql:    `SELECT "U"."Id" FROM "Public"."Users" "U"`,
			tables: []model.SourceTable{{Origin: []string{"Public", "Users"}, Alias: "U"}},
			items:  []model.Item{{Name: "Id", Path: []string{"U"}}},
		},
		{
			name:   "unquoted identifiers fold to lower case",
			sql:    "SELECT U.Id FROM Users U",
			tables: []model.SourceTable{{Origin: []string{"users"}, Alias: "u"}},
			items:  []model.Item{{Name: "id", Path: []string{"u"}}},
		},
		{
			name:   "only the first select is extracted",
			sql:    "CREATE TABLE x (id int); SELECT id FROM a; SELECT id FROM b;",
			tables: []model.SourceTable{{Origin: []string{"a"}}},
			items:  []model.Item{{Name: "id"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.tables, got.Tables)
			assert.Equal(t, tt.items, got.Items)
		})
	}
}

func TestParse_NotSelect(t *testing.T) {
	tests := []string{
		"",
		"CREATE TABLE x (id int)",
		"INSERT INTO x (id) VALUES (1)",
		"SELECT id FROM a UNION SELECT id FROM b",
		"VALUES (1), (2)",
	}
	for _, sql := range tests {
		t.Run(sql, func(t *testing.T) {
			got, err := Parse(sql)
			require.NoError(t, err)
			assert.True(t, got.Empty())
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse("SELEC id FROM")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse SQL")
}

func TestStatement(t *testing.T) {
	const sql = "INSERT INTO x (id) VALUES (1); SELECT u.id AS user_id FROM public.users u"
	tree, err := pg_query.Parse(sql)
	require.NoError(t, err)
	stmts := tree.GetStmts()
	require.Len(t, stmts, 2)

	assert.True(t, Statement(stmts[0].GetStmt()).Empty())

	want, err := Parse(sql)
	require.NoError(t, err)
	assert.Equal(t, want, Statement(stmts[1].GetStmt()))
	assert.Equal(t, []model.SourceTable{{Origin: []string{"public", "users"}, Alias: "u"}}, want.Tables)
}
