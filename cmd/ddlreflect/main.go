package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/shibukawa/ddlreflect"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path" default:"ddlreflect.yaml"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Reflect ReflectCmd `cmd:"" help:"Reflect CREATE TABLE statements into YAML, JSON or XML"`
	Types   TypesCmd   `cmd:"" help:"Show portable field types of reflected tables"`
	Show    ShowCmd    `cmd:"" help:"Summarize previously written table documents"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.Stdout, "ddlreflect v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ddlreflect"),
		kong.Description("Reflect SQL CREATE TABLE statements into structured table descriptions"),
		kong.UsageOnError(),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		printError(appCtx, "Error: %v", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration, falling back to defaults when the file is missing.
func loadConfig(ctx *Context) (*ddlreflect.Config, error) {
	config, err := ddlreflect.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if ctx.Verbose {
		printInfo(ctx, "Configuration loaded from: %s", ctx.Config)
	}

	return config, nil
}
