package main

import "errors"

// Sentinel errors for command operations
var (
	ErrInputFileNotExist = errors.New("input file does not exist")
	ErrNoTablesSelected  = errors.New("no table matched the configured include/exclude patterns")
	ErrValidationFailed  = errors.New("reflected tables failed validation")
)
