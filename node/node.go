package node

import "time"

// Node is a registry entry for one worker process, upserted by its
// periodic heartbeat. The core never deletes a Node.
type Node struct {
	ID         string
	Name       string
	Labels     Labels
	LastSeenAt time.Time
}
