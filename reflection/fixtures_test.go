package reflection

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/ddlreflect/testdata"
)

func TestReflectSchemaFixtures(t *testing.T) {
	expected := map[string][]string{
		"mysql_blog":    {"users", "posts"},
		"postgres_shop": {"shop.products", "shop.orders"},
	}

	names, err := testdata.SchemaNames()
	assert.NoError(t, err)
	assert.Equal(t, []string{"mysql_blog", "postgres_shop"}, names)

	reflector := NewReflector(Options{ScanMode: ScanAll})

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			script, err := testdata.Schema(name)
			assert.NoError(t, err)

			tables, err := reflector.ReflectAll(script)
			assert.NoError(t, err)

			var got []string
			for _, table := range tables {
				got = append(got, table.QualifiedName())
				assert.Equal(t, 0, len(table.Skipped))
				assert.Equal(t, 0, len(table.Validate()))
			}

			assert.Equal(t, expected[name], got)
		})
	}
}

func TestReflectBlogFixtureDetails(t *testing.T) {
	script, err := testdata.Schema("mysql_blog")
	assert.NoError(t, err)

	tables, err := NewReflector(Options{ScanMode: ScanAll}).ReflectAll(script)
	assert.NoError(t, err)

	users, posts := tables[0], tables[1]
	assert.Equal(t, map[string]string{"ENGINE": "InnoDB", "CHARSET": "utf8mb4"}, users.Options)

	isAdmin, ok := users.Column("is_admin")
	assert.True(t, ok)
	assert.Equal(t, "0", isAdmin.DefaultValue())

	displayName, ok := users.Column("display_name")
	assert.True(t, ok)
	assert.False(t, displayName.HasDefault())

	email, ok := users.Index("uq_users_email")
	assert.True(t, ok)
	assert.True(t, email.IsUnique())

	title, ok := posts.Column("title")
	assert.True(t, ok)
	assert.Equal(t, "''", title.DefaultValue())

	score, ok := posts.Column("score")
	assert.True(t, ok)
	assert.Equal(t, "0.00", score.DefaultValue())

	body, ok := posts.Index("idx_posts_body")
	assert.True(t, ok)
	assert.Equal(t, intPtr(64), body.Keys[0].Length)
}
