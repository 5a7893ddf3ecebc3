package logging

// Standardized attribute keys shared across components so console output and
// structured logs stay greppable.
const (
	FieldComponent = "component"
	FieldSessionID = "session_id"
	FieldStage     = "stage"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldOffsetMS  = "offset_ms"
	FieldChunk     = "chunk"
	FieldPercent   = "percent"
)
