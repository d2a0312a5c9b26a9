// Package cmd contains the supporting code for the tipster command line: opening the configured blob backend and
// assembling a pipeline from a configuration file. The command itself lives in cmd/tipster.
package cmd
