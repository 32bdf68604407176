package slideshow

import "encoding/json"

// PlayerStateEnded is the YouTube player state reported when playback finishes
const PlayerStateEnded = 0

// Message is an inbound message from an embedded player
type Message struct {
	// Origin the message was posted from
	Origin string `json:"origin"`
	// PlayerID identifies the player instance (and therefore the slide)
	PlayerID string `json:"player_id"`
	// Data is the raw JSON payload, e.g. {"event":"video-state-change","info":0}
	Data string `json:"data"`
}

type playerEvent struct {
	Event string   `json:"event"`
	Info  *float64 `json:"info"`
}

// IsPlaybackEnded reports whether data is a well-formed "video-state-change"
// payload whose info is the ended state. Malformed payloads return false.
func IsPlaybackEnded(data string) bool {
	var ev playerEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		return false
	}
	return ev.Event == "video-state-change" && ev.Info != nil && *ev.Info == PlayerStateEnded
}
