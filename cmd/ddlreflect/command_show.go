package main

import (
	"fmt"

	"github.com/shibukawa/ddlreflect/output"
)

// ShowCmd represents the show command
type ShowCmd struct {
	Dir      string `arg:"" help:"Directory written by 'reflect --output'" type:"existingdir"`
	Validate bool   `help:"Check the loaded tables against the datatype catalog"`
}

// Run executes the show command
func (cmd *ShowCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	tables, err := output.LoadTablesFromDir(cmd.Dir)
	if err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}

	for _, table := range tables {
		fmt.Fprintln(ctx.Stdout, table.String())

		if ctx.Verbose {
			for _, col := range table.ColumnList() {
				fmt.Fprintf(ctx.Stdout, "  %s %s\n", col.Name, col.TypeString())
			}
		}
	}

	if cmd.Validate {
		return validateTables(ctx, tables, config)
	}

	return nil
}
