// Package main hosts the lidarcal CLI entrypoint and command graph.
//
// The Cobra-based command tree parses LiDAR recorder files, runs the
// calibration passes, exports JSON, renders profile plots and manages the
// SQLite archive. Configuration and logging are resolved once per invocation
// by the command context so subcommands only deal with their own flags.
//
// Logs go to stderr; stdout carries only command output so it can be piped.
package main
