package request

// CreateRoomRequest creates a new party room. Slug is optional; a random
// code is generated when it is omitted.
type CreateRoomRequest struct {
	Slug       string `json:"slug"`
	HostName   string `json:"hostName"`
	TTLMinutes int    `json:"ttlMinutes"`
}

// JoinRoomRequest registers a player in a room
type JoinRoomRequest struct {
	DisplayName string `json:"displayName"`
}

// LeaveRoomRequest deactivates a player in a room
type LeaveRoomRequest struct {
	PlayerID string `json:"playerId"`
}

// UpdateStateRequest is a partial game-state push. Omitted fields keep
// their stored values; unknown fields are rejected at decode time.
type UpdateStateRequest struct {
	CurrentGameID *string `json:"currentGameId"`
	CheersCount   *int64  `json:"cheersCount"`
}
