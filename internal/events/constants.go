package events

// Event type constants
const (
	EventTypeRoundResolved      EventType = "round_resolved"
	EventTypeEngagementFinished EventType = "engagement_finished"
)

// Priority levels for listener order, lowest first
const (
	PriorityBookkeeping  = 0
	PriorityPresentation = 100
	PriorityLogging      = 200
)
