// Package observability provides structured logging, metrics, and tracing
// for the instance database.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds instance-database context to a logger.
// Returns a new logger with database and base_type fields.
func EnrichLogger(logger *slog.Logger, database, baseType string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("database", database),
		slog.String("base_type", baseType),
	)
}

// LogInstanceCreated logs a successful instance creation.
func LogInstanceCreated(logger *slog.Logger, id, assetID, assetType string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("instance created",
		slog.String("instance_id", id),
		slog.String("asset_id", assetID),
		slog.String("asset_type", assetType),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogInstanceReleased logs removal of an instance on its final release.
func LogInstanceReleased(logger *slog.Logger, id, assetType string) {
	if logger == nil {
		return
	}
	logger.Debug("instance released",
		slog.String("instance_id", id),
		slog.String("asset_type", assetType),
	)
}

// LogLoadFailure logs an asset that never became ready (non-fatal).
func LogLoadFailure(logger *slog.Logger, assetID, assetType string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("asset load failed",
		slog.String("asset_id", assetID),
		slog.String("asset_type", assetType),
		slog.String("error", errString(err)),
	)
}

// LogAssetMismatch warns that an existing instance was requested with a
// different asset than the one it was created from.
func LogAssetMismatch(logger *slog.Logger, id, haveAssetID, gotAssetID string) {
	if logger == nil {
		return
	}
	logger.Warn("asset mismatch for existing instance",
		slog.String("instance_id", id),
		slog.String("created_from", haveAssetID),
		slog.String("requested_with", gotAssetID),
	)
}

// LogConfigurationError logs programmer misuse of the database.
func LogConfigurationError(logger *slog.Logger, op, assetType string, err error) {
	if logger == nil {
		return
	}
	logger.Error("configuration error",
		slog.String("operation", op),
		slog.String("asset_type", assetType),
		slog.String("error", errString(err)),
	)
}

// LogMissingHandler logs a lookup that found no handler for a family.
func LogMissingHandler(logger *slog.Logger, op, assetType string) {
	if logger == nil {
		return
	}
	logger.Warn("no handler registered for asset type",
		slog.String("operation", op),
		slog.String("asset_type", assetType),
	)
}

// LogLeakedInstance logs one instance still live at database close.
func LogLeakedInstance(logger *slog.Logger, id string) {
	if logger == nil {
		return
	}
	logger.Error("leaked instance",
		slog.String("instance_id", id),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
