package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrOperation = "operation"
	AttrOutcome   = "outcome"
)

// Scoreboard operation names recorded by the service.
const (
	OpStart  = "start"
	OpUpdate = "update"
	OpFinish = "finish"
)

// Outcome labels derived from operation errors.
const (
	OutcomeOK              = "ok"
	OutcomeNotFound        = "not_found"
	OutcomeInvalidArgument = "invalid_argument"
	OutcomeAlreadyExists   = "already_exists"
	OutcomeError           = "error"
)
