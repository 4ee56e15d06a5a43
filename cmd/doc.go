// Package cmd implements the command-line interface for jobtrack.
//
// This package provides the following commands:
//   - analyze: Fetch job-search email from Gmail, classify it and write the report
//   - auth: Run the interactive Google OAuth flow and cache the token
//   - version: Display version information
//
// The analyze command is the default command when no subcommand is specified.
package cmd
