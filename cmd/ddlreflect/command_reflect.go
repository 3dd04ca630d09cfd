package main

import (
	"fmt"

	"github.com/shibukawa/ddlreflect"
	"github.com/shibukawa/ddlreflect/output"
	"github.com/shibukawa/ddlreflect/reflection"
	"github.com/shibukawa/ddlreflect/typemap"
)

// ReflectCmd represents the reflect command
type ReflectCmd struct {
	Input string `arg:"" optional:"" help:"SQL file with CREATE TABLE statements ('-' reads stdin)" default:"-"`

	// Reflection options
	All      bool `help:"Reflect every CREATE TABLE statement instead of only the first"`
	ScanAll  bool `help:"Keep scanning a table body after its first index"`
	Validate bool `help:"Check indexes and column attributes against the datatype catalog"`

	// Output options
	Format string `short:"f" help:"Output format (yaml, json, xml); defaults to the configured format"`
	Output string `short:"o" help:"Write one file per table into this directory instead of stdout" type:"path"`
	Types  bool   `help:"Include portable field types for the configured dialect"`
}

// Run executes the reflect command
func (cmd *ReflectCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	tables, err := reflectInput(ctx, config, cmd.Input, cmd.All, cmd.ScanAll)
	if err != nil {
		return err
	}

	writer, err := cmd.newWriter(config)
	if err != nil {
		return err
	}

	if cmd.Output != "" {
		paths, err := writer.WriteFiles(cmd.Output, tables)
		if err != nil {
			return err
		}

		for _, path := range paths {
			printSuccess(ctx, "Wrote %s", path)
		}
	} else if err := writer.Write(ctx.Stdout, tables); err != nil {
		return err
	}

	if cmd.Validate || config.Reflect.Validate {
		return validateTables(ctx, tables, config)
	}

	return nil
}

func (cmd *ReflectCmd) newWriter(config *ddlreflect.Config) (*output.Writer, error) {
	formatName := cmd.Format
	if formatName == "" {
		formatName = config.Output.Format
	}

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	writer := output.NewWriter(format)
	writer.Pretty = config.Output.Pretty
	writer.SchemaAware = config.Output.SchemaAware
	writer.Metadata.Source = cmd.Input
	writer.Metadata.Dialect = config.Dialect

	if cmd.Types {
		dialect, err := ddlreflect.ParseDialect(config.Dialect)
		if err != nil {
			return nil, err
		}

		writer.Mapper, err = typemap.NewTypeMapper(dialect)
		if err != nil {
			return nil, err
		}
	}

	return writer, nil
}

// reflectInput reads the script at input and returns the tables passing the configured patterns.
func reflectInput(ctx *Context, config *ddlreflect.Config, input string, all, scanAll bool) ([]*ddlreflect.Table, error) {
	script, err := readInput(ctx, input)
	if err != nil {
		return nil, err
	}

	mode, err := reflection.ParseScanMode(config.Reflect.ScanMode)
	if err != nil {
		return nil, err
	}

	if scanAll {
		mode = reflection.ScanAll
	}

	reflector := reflection.NewReflector(reflection.Options{
		ScanMode: mode,
		Verbose:  ctx.Verbose,
		Logger: func(format string, args ...any) {
			printInfo(ctx, format, args...)
		},
	})

	var tables []*ddlreflect.Table

	if all {
		tables, err = reflector.ReflectAll(script)
	} else {
		var table *ddlreflect.Table

		table, err = reflector.Reflect(script)
		tables = []*ddlreflect.Table{table}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to reflect %s: %w", input, err)
	}

	selected := tables[:0]

	for _, table := range tables {
		if config.IncludesTable(table) {
			selected = append(selected, table)
		} else if ctx.Verbose {
			printInfo(ctx, "Excluded table: %s", table.QualifiedName())
		}
	}

	if len(selected) == 0 {
		return nil, ErrNoTablesSelected
	}

	if ctx.Verbose {
		for _, table := range selected {
			for _, skipped := range table.Skipped {
				printWarning(ctx, "%s: skipped %q (%s)", table.QualifiedName(), skipped.Fragment, skipped.Reason)
			}
		}
	}

	return selected, nil
}

// validateTables reports every consistency problem, including attributes the configured
// dialect cannot express, and fails when any was found.
func validateTables(ctx *Context, tables []*ddlreflect.Table, config *ddlreflect.Config) error {
	dialect, err := ddlreflect.ParseDialect(config.Dialect)
	if err != nil {
		return fmt.Errorf("%w: %q", err, config.Dialect)
	}

	problems := 0

	for _, table := range tables {
		errs := append(table.Validate(), table.CheckDialect(dialect)...)
		for _, err := range errs {
			printWarning(ctx, "%s: %v", table.QualifiedName(), err)

			problems++
		}
	}

	if problems > 0 {
		return fmt.Errorf("%w: %d problem(s)", ErrValidationFailed, problems)
	}

	printSuccess(ctx, "Validated %d table(s)", len(tables))

	return nil
}
