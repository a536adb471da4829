// Package message provides the forum and private-message channels actors
// communicate through. Messages carry a monotonically increasing sequence
// number that the engine uses to decide whether an actor has seen new
// evidence since its last belief update.
package message

import (
	"fmt"
	"sort"
)

// Message is one forum post or private message. To is empty for forum posts.
type Message struct {
	Seq   int    `json:"seq"`
	Round int    `json:"round"`
	From  string `json:"from"`
	To    string `json:"to,omitempty"`
	Body  string `json:"body"`
}

// Context is the message view handed to an actor on its turn.
type Context struct {
	Forum        []Message
	PrivateChats map[string][]Message // keyed by the other participant
}

// Manager owns all message history for a run.
type Manager struct {
	seq     int
	forum   []Message
	private map[string][]Message // keyed by sorted participant pair
}

// NewManager creates an empty message manager.
func NewManager() *Manager {
	return &Manager{private: make(map[string][]Message)}
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s|%s", a, b)
}

// SendForum posts a message visible to everyone.
func (m *Manager) SendForum(from, body string, round int) Message {
	m.seq++
	msg := Message{Seq: m.seq, Round: round, From: from, Body: body}
	m.forum = append(m.forum, msg)
	return msg
}

// SendPrivate sends a message visible only to the two participants.
func (m *Manager) SendPrivate(from, to, body string, round int) Message {
	m.seq++
	msg := Message{Seq: m.seq, Round: round, From: from, To: to, Body: body}
	key := pairKey(from, to)
	m.private[key] = append(m.private[key], msg)
	return msg
}

// Forum returns the most recent forum messages, oldest first, capped at limit
// (0 means all).
func (m *Manager) Forum(limit int) []Message {
	return tail(m.forum, limit)
}

// Thread returns the private thread between two actors, oldest first.
func (m *Manager) Thread(a, b string, limit int) []Message {
	return tail(m.private[pairKey(a, b)], limit)
}

// ContextFor builds the message view for one actor: recent forum posts plus
// every private thread the actor participates in.
func (m *Manager) ContextFor(actor string, forumLimit, privateLimit int) Context {
	ctx := Context{
		Forum:        m.Forum(forumLimit),
		PrivateChats: make(map[string][]Message),
	}
	for _, msgs := range m.private {
		if len(msgs) == 0 {
			continue
		}
		var other string
		switch {
		case msgs[0].From == actor:
			other = msgs[0].To
		case msgs[0].To == actor:
			other = msgs[0].From
		default:
			continue
		}
		ctx.PrivateChats[other] = tail(msgs, privateLimit)
	}
	return ctx
}

// RecentInteractions lists the peers an actor has exchanged private messages
// with, sorted for deterministic output.
func (m *Manager) RecentInteractions(actor string) []string {
	var peers []string
	for _, msgs := range m.private {
		if len(msgs) == 0 {
			continue
		}
		first := msgs[0]
		switch actor {
		case first.From:
			peers = append(peers, first.To)
		case first.To:
			peers = append(peers, first.From)
		}
	}
	sort.Strings(peers)
	return peers
}

// LastSeq returns the sequence number of the most recent message, 0 when none
// has been sent.
func (m *Manager) LastSeq() int {
	return m.seq
}

// SeenBy reports whether any message visible to the actor was sent after the
// given sequence number. Forum posts are visible to everyone; private
// messages only to their participants.
func (m *Manager) SeenBy(actor string, afterSeq int) bool {
	for i := len(m.forum) - 1; i >= 0; i-- {
		if m.forum[i].Seq <= afterSeq {
			break
		}
		return true
	}
	for _, msgs := range m.private {
		for i := len(msgs) - 1; i >= 0; i-- {
			msg := msgs[i]
			if msg.Seq <= afterSeq {
				break
			}
			if msg.From == actor || msg.To == actor {
				return true
			}
		}
	}
	return false
}

func tail(msgs []Message, limit int) []Message {
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
