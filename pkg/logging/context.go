package logging

import (
	"log/slog"
)

// WithTable creates a logger with table context. Used by every DML/DDL
// method in pkg/executor that names a table.
//
// Example:
//
//	log := logging.WithTable("foo")
//	log.Debug("row inserted")
func WithTable(tableName string) *slog.Logger {
	return GetLogger().With("table", tableName)
}

// WithIndex creates a logger with index context. Used by CreateIndex and
// DropIndex.
//
// Example:
//
//	log := logging.WithIndex("ix_foo_id")
//	log.Info("index created")
func WithIndex(indexName string) *slog.Logger {
	return GetLogger().With("index", indexName)
}

// WithComponent creates a logger with component/subsystem context. Used
// where an error or event isn't scoped to one table or index, e.g.
// catalog bootstrap.
//
// Example:
//
//	log := logging.WithComponent("catalog")
//	log.Debug("catalog bootstrapped")
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithError creates a logger with error context, for the best-effort
// paths (like DDL rollback) that log a failure and swallow it rather
// than propagate it.
//
// Example:
//
//	log := logging.WithError(err)
//	log.Warn("compensation step failed")
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
