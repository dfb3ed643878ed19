package events

import (
	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
)

// EventType represents the type of engagement event
type EventType string

// Event is the base interface for all engagement events
type Event interface {
	GetType() EventType
	GetEngagement() *combat.Engagement
}

// BaseEvent provides common implementation for all events
type BaseEvent struct {
	Type       EventType
	Engagement *combat.Engagement
}

func (e *BaseEvent) GetType() EventType                { return e.Type }
func (e *BaseEvent) GetEngagement() *combat.Engagement { return e.Engagement }

// RoundResolvedEvent fires after every resolved round
type RoundResolvedEvent struct {
	BaseEvent
	Summary *combat.RoundSummary
}

// EngagementFinishedEvent fires once the engagement terminates
type EngagementFinishedEvent struct {
	BaseEvent
	Result combat.Result
}
