package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventThreadLiked  EventType = "thread.liked"
	EventReplyCreated EventType = "reply.created"
	EventReplyLiked   EventType = "reply.liked"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type ThreadLikedEvent struct {
	ThreadID  string `json:"threadId"`
	UserID    string `json:"userId"`
	LikeCount int    `json:"likeCount"`
	LikedAt   string `json:"likedAt"`
}

type ReplyCreatedEvent struct {
	ThreadID  string `json:"threadId"`
	ReplyID   string `json:"replyId"`
	AuthorID  string `json:"authorId"`
	CreatedAt string `json:"createdAt"`
}

type ReplyLikedEvent struct {
	ReplyID   string `json:"replyId"`
	ThreadID  string `json:"threadId"`
	UserID    string `json:"userId"`
	LikeCount int    `json:"likeCount"`
	LikedAt   string `json:"likedAt"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
