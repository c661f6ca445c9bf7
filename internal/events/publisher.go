package events

import (
	"time"

	"github.com/derdine/forum-service/internal/types"
)

// Publisher interface for publishing forum activity to content authors
type Publisher interface {
	PublishThreadLiked(threadID, userID, authorID string, likeCount int) error
	PublishReplyCreated(threadID, replyID, replyAuthorID, threadAuthorID string) error
	PublishReplyLiked(replyID, threadID, userID, authorID string, likeCount int) error
}

// EventPublisher implements the Publisher interface
type EventPublisher struct {
	hub WebSocketHub
}

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	BroadcastToUser(userID string, event *types.Event)
	BroadcastToUsers(userIDs []string, event *types.Event)
	IsUserConnected(userID string) bool
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// deliver sends the event to recipient unless the actor is the recipient
// or the recipient has no open connection.
func (p *EventPublisher) deliver(actorID, recipientID string, eventType types.EventType, data interface{}) {
	if actorID == recipientID {
		return
	}
	if !p.hub.IsUserConnected(recipientID) {
		return
	}
	p.hub.BroadcastToUser(recipientID, types.NewEvent(eventType, data))
}

// PublishThreadLiked notifies the thread author that someone liked it
func (p *EventPublisher) PublishThreadLiked(threadID, userID, authorID string, likeCount int) error {
	p.deliver(userID, authorID, types.EventThreadLiked, &types.ThreadLikedEvent{
		ThreadID:  threadID,
		UserID:    userID,
		LikeCount: likeCount,
		LikedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// PublishReplyCreated notifies the thread author about a new reply
func (p *EventPublisher) PublishReplyCreated(threadID, replyID, replyAuthorID, threadAuthorID string) error {
	p.deliver(replyAuthorID, threadAuthorID, types.EventReplyCreated, &types.ReplyCreatedEvent{
		ThreadID:  threadID,
		ReplyID:   replyID,
		AuthorID:  replyAuthorID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// PublishReplyLiked notifies the reply author that someone liked it
func (p *EventPublisher) PublishReplyLiked(replyID, threadID, userID, authorID string, likeCount int) error {
	p.deliver(userID, authorID, types.EventReplyLiked, &types.ReplyLikedEvent{
		ReplyID:   replyID,
		ThreadID:  threadID,
		UserID:    userID,
		LikeCount: likeCount,
		LikedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// NopPublisher discards every event. Used by commands that run without a hub.
type NopPublisher struct{}

func (NopPublisher) PublishThreadLiked(string, string, string, int) error { return nil }
func (NopPublisher) PublishReplyCreated(string, string, string, string) error { return nil }
func (NopPublisher) PublishReplyLiked(string, string, string, string, int) error { return nil }
