// Package output owns everything meshctl writes to the terminal.
//
// Diagnostics go to stderr through a charmbracelet/log logger; command
// results go to Stdout rendered as a table, JSON or YAML. With --json the
// text diagnostics are muted so scripts only ever see JSON.
package output
