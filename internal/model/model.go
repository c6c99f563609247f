// Package model defines the chat domain types and their field constraints.
package model

import (
	"fmt"
	"regexp"
)

const (
	MinSenderLen  = 3
	MaxSenderLen  = 16
	MinTopicLen   = 3
	MaxTopicLen   = 24
	MaxMessageLen = 144
)

var (
	senderPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	topicPattern  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// User is a chat identity. It is not persisted as a standalone record;
// only credentials are stored against the name.
type User struct {
	Name string `json:"name"`
}

// Validate checks the username length and character set.
func (u User) Validate() error {
	if len(u.Name) < MinSenderLen || len(u.Name) > MaxSenderLen {
		return fmt.Errorf("name must be %d-%d characters", MinSenderLen, MaxSenderLen)
	}
	if !senderPattern.MatchString(u.Name) {
		return fmt.Errorf("name may only contain letters, digits, underscore and hyphen")
	}
	return nil
}

// Message is a single chat line. It is immutable once stored; Timestamp
// is assigned at send time and doubles as the ordering key.
type Message struct {
	SenderID  string  `json:"sender_id"`
	Timestamp float64 `json:"timestamp"`
	Message   string  `json:"message"`
}

// Validate checks the message body length. The sender is validated
// separately as a User.
func (m Message) Validate() error {
	if len(m.Message) < 1 || len(m.Message) > MaxMessageLen {
		return fmt.Errorf("message must be 1-%d characters", MaxMessageLen)
	}
	return nil
}

// ChatRoom is a named channel. Rooms are seeded at startup and never
// mutated afterwards.
type ChatRoom struct {
	ID    int    `json:"id"`
	Topic string `json:"topic"`
}

// Validate checks the topic length and character set.
func (r ChatRoom) Validate() error {
	if len(r.Topic) < MinTopicLen || len(r.Topic) > MaxTopicLen {
		return fmt.Errorf("topic must be %d-%d characters", MinTopicLen, MaxTopicLen)
	}
	if !topicPattern.MatchString(r.Topic) {
		return fmt.Errorf("topic may only contain letters, digits and underscore")
	}
	return nil
}
