package logging

import "log/slog"

// WithComponent returns a logger tagged with a subsystem name.
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithTable returns a logger tagged with a table name.
func WithTable(component, table string) *slog.Logger {
	return GetLogger().With("component", component, "table", table)
}

// WithTx returns a logger tagged with a transaction id.
func WithTx(component string, txID uint64) *slog.Logger {
	return GetLogger().With("component", component, "tx_id", txID)
}
