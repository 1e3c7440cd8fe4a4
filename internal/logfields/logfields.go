package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyEntityKind = "entity_kind"
	KeyRecordID   = "record_id"
	KeyRelation   = "relation"
	KeyBatchSize  = "batch_size"
	KeyPlan       = "plan"
	KeyDatabase   = "database"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func EntityKind(k string) slog.Attr   { return slog.String(KeyEntityKind, k) }
func RecordID(id string) slog.Attr    { return slog.String(KeyRecordID, id) }
func Relation(r string) slog.Attr     { return slog.String(KeyRelation, r) }
func BatchSize(n int) slog.Attr       { return slog.Int(KeyBatchSize, n) }
func Plan(path string) slog.Attr      { return slog.String(KeyPlan, path) }
func Database(path string) slog.Attr  { return slog.String(KeyDatabase, path) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
