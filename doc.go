// Package main provides the entry point for systeminfo, a runtime-editable
// key/value settings store. Settings live in the system_info table and are
// read with a fallback default, written only when they change and deleted
// idempotently. The binary serves them over an http api and an admin page
// and manages them from the command line.
package main
