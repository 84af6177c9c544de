// Package logs reads the slidedeck log file for the `slidedeck logs` command.
//
// Tail returns the last N lines or continues from a saved byte offset, and can
// wait for new lines in follow mode. Only complete lines are returned so a
// line being written is picked up whole on the next call.
package logs
