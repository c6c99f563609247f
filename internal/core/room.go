package core

// group is the broadcast group of one room: every client currently
// subscribed to its events.
type group struct {
	roomID  int
	clients map[*Client]struct{}
}

func newGroup(roomID int) *group {
	return &group{
		roomID:  roomID,
		clients: make(map[*Client]struct{}),
	}
}

func (g *group) add(c *Client) {
	g.clients[c] = struct{}{}
}

func (g *group) remove(c *Client) {
	delete(g.clients, c)
}

// broadcast fans an event out to every subscriber, sender included.
// Delivery is fire-and-forget; a slow subscriber does not block others.
func (g *group) broadcast(ev *Event) {
	for client := range g.clients {
		client.send(ev)
	}
}

func (g *group) empty() bool {
	return len(g.clients) == 0
}
