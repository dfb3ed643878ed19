package combat

import "time"

// Kind names the surface an engagement was started from
type Kind string

const (
	KindMission Kind = "mission"
	KindBoss    Kind = "boss"
	KindDuel    Kind = "duel"
	KindRaid    Kind = "raid"
	KindTrial   Kind = "trial"
)

// State is the round state machine position
type State string

const (
	StateAwaitingActions State = "awaiting_actions"
	StateResolving       State = "resolving"
	StateUpkeep          State = "upkeep"
	StateTerminated      State = "terminated"
)

// Result is recorded from the ally side's point of view
type Result string

const (
	ResultActive  Result = "active"
	ResultVictory Result = "victory"
	ResultDefeat  Result = "defeat"
	ResultFled    Result = "fled"
	ResultDraw    Result = "draw"
)

// Engagement is one battle instance from start to termination
type Engagement struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	ChannelID string    `json:"channel_id,omitempty"`
	Round     int       `json:"round"`
	State     State     `json:"state"`
	Result    Result    `json:"result"`
	FledBy    string    `json:"fled_by,omitempty"`
	StartedAt time.Time `json:"started_at"`

	// Combatants are kept in join order
	Combatants []*Combatant `json:"combatants"`
}

// NewEngagement creates an engagement waiting on its first round of actions
func NewEngagement(id string, kind Kind, combatants []*Combatant) *Engagement {
	return &Engagement{
		ID:         id,
		Kind:       kind,
		Round:      1,
		State:      StateAwaitingActions,
		Result:     ResultActive,
		StartedAt:  time.Now(),
		Combatants: combatants,
	}
}

// IsActive returns true until the engagement terminates
func (e *Engagement) IsActive() bool {
	return e.State != StateTerminated
}

// Terminate records the result and stops the round loop
func (e *Engagement) Terminate(result Result) {
	e.State = StateTerminated
	e.Result = result
}

// Combatant returns the combatant with the given id
func (e *Engagement) Combatant(id string) *Combatant {
	for _, c := range e.Combatants {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Side returns every combatant on a side in join order
func (e *Engagement) Side(side Side) []*Combatant {
	var out []*Combatant
	for _, c := range e.Combatants {
		if c.Side == side {
			out = append(out, c)
		}
	}
	return out
}

// Living returns the combatants on a side with health left
func (e *Engagement) Living(side Side) []*Combatant {
	var out []*Combatant
	for _, c := range e.Combatants {
		if c.Side == side && c.IsAlive() {
			out = append(out, c)
		}
	}
	return out
}

// SideDown reports whether every combatant on a side is at 0 health
func (e *Engagement) SideDown(side Side) bool {
	return len(e.Side(side)) > 0 && len(e.Living(side)) == 0
}

// Humans returns the human-controlled combatants
func (e *Engagement) Humans() []*Combatant {
	var out []*Combatant
	for _, c := range e.Combatants {
		if c.Human {
			out = append(out, c)
		}
	}
	return out
}

// ClearEffects drops every modifier, combo and channeled technique
func (e *Engagement) ClearEffects() {
	for _, c := range e.Combatants {
		c.ActiveEffects = nil
		c.Channeling = nil
		if c.Combo != nil {
			c.Combo.Reset()
		}
	}
}
