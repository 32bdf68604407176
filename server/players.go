package server

import (
	"sync"

	"github.com/s0up4200/moviedeck/slideshow"
)

// DefaultQueueLimit bounds the commands held for a browser that stopped polling
const DefaultQueueLimit = 256

// PlayerCommand is a command for one embedded player. The browser hosting
// the players posts Command to the iframe identified by PlayerID.
type PlayerCommand struct {
	PlayerID string            `json:"player_id"`
	Command  slideshow.Command `json:"command"`
}

// PlayerQueue is a slideshow.Messenger that holds outbound player commands
// until the browser polls the hero state. Commands are drained in the order
// they were posted; past the limit the oldest are dropped.
type PlayerQueue struct {
	mu      sync.Mutex
	pending []PlayerCommand
	limit   int
}

// NewPlayerQueue creates a queue holding at most limit commands
func NewPlayerQueue(limit int) *PlayerQueue {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	return &PlayerQueue{limit: limit}
}

// Post implements slideshow.Messenger
func (q *PlayerQueue) Post(playerID string, cmd slideshow.Command) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, PlayerCommand{PlayerID: playerID, Command: cmd})
	if over := len(q.pending) - q.limit; over > 0 {
		q.pending = append(q.pending[:0:0], q.pending[over:]...)
	}
	return nil
}

// Drain returns the pending commands and empties the queue
func (q *PlayerQueue) Drain() []PlayerCommand {
	q.mu.Lock()
	defer q.mu.Unlock()

	cmds := q.pending
	q.pending = nil
	return cmds
}

// Len returns the number of pending commands
func (q *PlayerQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
