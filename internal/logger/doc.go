// Package logger initialises the global zerolog logger from the Log config.
//
// Output can go to the console, to rolling files split by level, or both.
// Every log statement is counted per level in a Prometheus counter.
package logger
