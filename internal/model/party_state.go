package model

// PartyState is the shared mutable game state of a room. One blob per room,
// owned by the room; all player writes go through the session service.
type PartyState struct {
	CurrentGameID string `json:"currentGameId,omitempty"`
	CheersCount   int64  `json:"cheersCount"`
}

// DefaultPartyState returns the zero state used before any write
func DefaultPartyState() *PartyState {
	return &PartyState{CheersCount: 0}
}

// StatePatch is a partial state update. Nil fields are left untouched;
// the merged result is validated before anything is persisted.
type StatePatch struct {
	CurrentGameID *string `json:"currentGameId"`
	CheersCount   *int64  `json:"cheersCount"`
}

// Apply merges the patch into a copy of the given state
func (p *StatePatch) Apply(state *PartyState) *PartyState {
	merged := *state
	if p.CurrentGameID != nil {
		merged.CurrentGameID = *p.CurrentGameID
	}
	if p.CheersCount != nil {
		merged.CheersCount = *p.CheersCount
	}
	return &merged
}
