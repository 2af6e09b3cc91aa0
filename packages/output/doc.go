// Package output renders responses, suite results, benchmark reports
// and history listings for the terminal.
package output
