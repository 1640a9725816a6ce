package logging

import "log/slog"

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService       = "service"
	FieldVersion       = "version"
	FieldMatchID       = "match_id"
	FieldHomeTeamID    = "home_team_id"
	FieldVisitorTeamID = "visitor_team_id"
	FieldTeamID        = "team_id"
	FieldHomeScore     = "home_score"
	FieldVisitorScore  = "visitor_score"
	FieldOperation     = "operation"
	FieldCount         = "count"
	FieldTick          = "tick"
	FieldDurationMS    = "duration_ms"
)

// WithCommon appends service/version fields when provided.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}
