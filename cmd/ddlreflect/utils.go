package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

// readInput reads a SQL script from path, or from stdin when path is "-".
func readInput(ctx *Context, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(ctx.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}

		return string(data), nil
	}

	if !fileExists(path) {
		return "", fmt.Errorf("%w: %s", ErrInputFileNotExist, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// Status messages go to stderr so documents written to stdout stay parseable.

func printInfo(ctx *Context, format string, args ...any) {
	infoColor.Fprintf(ctx.Stderr, format+"\n", args...)
}

func printSuccess(ctx *Context, format string, args ...any) {
	if ctx.Quiet {
		return
	}

	successColor.Fprintf(ctx.Stderr, format+"\n", args...)
}

func printWarning(ctx *Context, format string, args ...any) {
	warnColor.Fprintf(ctx.Stderr, format+"\n", args...)
}

func printError(ctx *Context, format string, args ...any) {
	errorColor.Fprintf(ctx.Stderr, format+"\n", args...)
}
