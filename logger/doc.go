// Package logger provides structured logging for the audiokit SDK and CLI,
// built on zerolog. Components obtain tagged loggers via WithComponent so
// pipeline runs can be traced per node in either console or JSON output.
package logger
