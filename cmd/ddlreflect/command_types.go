package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shibukawa/ddlreflect"
	"github.com/shibukawa/ddlreflect/typemap"
)

// TypesCmd represents the types command
type TypesCmd struct {
	Input   string `arg:"" optional:"" help:"SQL file with CREATE TABLE statements ('-' reads stdin)" default:"-"`
	Dialect string `help:"Dialect used to map datatypes (mysql, mariadb, postgres, sqlite); defaults to the configured dialect"`
	All     bool   `help:"Describe every CREATE TABLE statement instead of only the first"`
}

// Run executes the types command
func (cmd *TypesCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	dialectName := cmd.Dialect
	if dialectName == "" {
		dialectName = config.Dialect
	}

	dialect, err := ddlreflect.ParseDialect(dialectName)
	if err != nil {
		return fmt.Errorf("%w: %q", err, dialectName)
	}

	mapper, err := typemap.NewTypeMapper(dialect)
	if err != nil {
		return err
	}

	tables, err := reflectInput(ctx, config, cmd.Input, cmd.All, false)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(ctx.Stdout, 0, 4, 2, ' ', 0)

	for _, table := range tables {
		fmt.Fprintf(w, "%s\n", table.QualifiedName())

		for _, field := range typemap.Describe(mapper, table) {
			var notes []string
			if field.PrimaryKey {
				notes = append(notes, "pk")
			}

			if !field.Nullable {
				notes = append(notes, "not null")
			}

			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", field.Name, field.GoType, field.Type, field.DBType, strings.Join(notes, ","))
		}
	}

	return w.Flush()
}
