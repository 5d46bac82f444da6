package kart

// Player is the human behind a PlayerKart.
type Player struct {
	Name     string
	Messages *MessageQueue
}

func NewPlayer(name string) *Player {
	return &Player{Name: name, Messages: NewMessageQueue()}
}

// Message is an on-screen notification. A TTL <= 0 shows it for one frame.
type Message struct {
	Text string
	TTL  float64
}

// MessageQueue holds the notifications shown to one player.
type MessageQueue struct {
	msgs []Message
}

func NewMessageQueue() *MessageQueue {
	return &MessageQueue{}
}

// Add queues text. Adding a message already on screen refreshes its TTL.
func (q *MessageQueue) Add(text string, ttl float64) {
	if q == nil || text == "" {
		return
	}
	for i := range q.msgs {
		if q.msgs[i].Text == text {
			if ttl > q.msgs[i].TTL {
				q.msgs[i].TTL = ttl
			}
			return
		}
	}
	q.msgs = append(q.msgs, Message{Text: text, TTL: ttl})
}

// Update ages every message and drops the expired ones.
func (q *MessageQueue) Update(dt float64) {
	if q == nil {
		return
	}
	kept := q.msgs[:0]
	for _, m := range q.msgs {
		if m.TTL <= 0 {
			continue
		}
		m.TTL -= dt
		if m.TTL > 0 {
			kept = append(kept, m)
		}
	}
	q.msgs = kept
}

func (q *MessageQueue) Messages() []Message {
	if q == nil {
		return nil
	}
	return append([]Message(nil), q.msgs...)
}

func (q *MessageQueue) Has(text string) bool {
	if q == nil {
		return false
	}
	for _, m := range q.msgs {
		if m.Text == text {
			return true
		}
	}
	return false
}

func (q *MessageQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.msgs)
}

func (q *MessageQueue) Clear() {
	if q != nil {
		q.msgs = q.msgs[:0]
	}
}
