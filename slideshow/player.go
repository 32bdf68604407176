package slideshow

import (
	"net/url"
)

// TrustedOrigin is the origin of the embedded YouTube player. Playback
// messages from any other origin are dropped, and commands are addressed to it.
const TrustedOrigin = "https://www.youtube.com"

// Command is an outbound message for the YouTube iframe API
type Command struct {
	Event string `json:"event"`
	Func  string `json:"func"`
	Args  []any  `json:"args"`
}

// MuteCommand silences a player
func MuteCommand() Command {
	return Command{Event: "command", Func: "mute", Args: []any{}}
}

// UnmuteCommand restores a player's sound
func UnmuteCommand() Command {
	return Command{Event: "command", Func: "unMute", Args: []any{}}
}

// SetVolumeCommand sets a player's volume (0-100)
func SetVolumeCommand(volume int) Command {
	return Command{Event: "command", Func: "setVolume", Args: []any{volume}}
}

// ListenCommand subscribes to a player's state-change notifications
func ListenCommand() Command {
	return Command{Event: "listening", Func: "addEventListener", Args: []any{"onStateChange"}}
}

// Messenger delivers commands to a specific embedded player instance
type Messenger interface {
	Post(playerID string, cmd Command) error
}

// MessengerFunc adapts a function to the Messenger interface
type MessengerFunc func(playerID string, cmd Command) error

// Post implements Messenger
func (f MessengerFunc) Post(playerID string, cmd Command) error {
	return f(playerID, cmd)
}

type nopMessenger struct{}

func (nopMessenger) Post(string, Command) error { return nil }

// EmbedURL builds the autoplaying, muted, chrome-less embed URL for a trailer
// with the JS API enabled. origin is the embedding page's origin.
func EmbedURL(key, origin string) string {
	params := url.Values{
		"autoplay":       {"1"},
		"mute":           {"1"},
		"controls":       {"0"},
		"showinfo":       {"0"},
		"rel":            {"0"},
		"loop":           {"0"},
		"start":          {"0"},
		"end":            {"0"},
		"modestbranding": {"1"},
		"playsinline":    {"1"},
		"enablejsapi":    {"1"},
		"iv_load_policy": {"3"},
		"cc_load_policy": {"0"},
		"disablekb":      {"1"},
		"fs":             {"0"},
	}
	if origin != "" {
		params.Set("origin", origin)
	}
	return TrustedOrigin + "/embed/" + url.PathEscape(key) + "?" + params.Encode()
}
