package events

import (
	"sync"
	"testing"

	"github.com/derdine/forum-service/internal/types"
)

type sentEvent struct {
	userID string
	event  *types.Event
}

type fakeHub struct {
	mu        sync.Mutex
	connected map[string]bool
	sent      []sentEvent
}

func newFakeHub(connected ...string) *fakeHub {
	h := &fakeHub{connected: make(map[string]bool)}
	for _, id := range connected {
		h.connected[id] = true
	}
	return h
}

func (h *fakeHub) BroadcastToUser(userID string, event *types.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, sentEvent{userID: userID, event: event})
}

func (h *fakeHub) BroadcastToUsers(userIDs []string, event *types.Event) {
	for _, id := range userIDs {
		h.BroadcastToUser(id, event)
	}
}

func (h *fakeHub) IsUserConnected(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected[userID]
}

func TestPublishThreadLiked(t *testing.T) {
	hub := newFakeHub("author")
	p := NewEventPublisher(hub)

	if err := p.PublishThreadLiked("t1", "liker", "author", 3); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(hub.sent) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(hub.sent))
	}

	got := hub.sent[0]
	if got.userID != "author" || got.event.Type != types.EventThreadLiked {
		t.Fatalf("Unexpected delivery %+v", got)
	}
	data, ok := got.event.Data.(*types.ThreadLikedEvent)
	if !ok {
		t.Fatalf("Expected ThreadLikedEvent, got %T", got.event.Data)
	}
	if data.ThreadID != "t1" || data.UserID != "liker" || data.LikeCount != 3 {
		t.Fatalf("Unexpected payload %+v", data)
	}
}

func TestSelfActionsAreNotDelivered(t *testing.T) {
	hub := newFakeHub("author")
	p := NewEventPublisher(hub)

	p.PublishThreadLiked("t1", "author", "author", 1)
	p.PublishReplyCreated("t1", "r1", "author", "author")
	p.PublishReplyLiked("r1", "t1", "author", "author", 1)

	if len(hub.sent) != 0 {
		t.Fatalf("Expected no events for own actions, got %d", len(hub.sent))
	}
}

func TestOfflineRecipientSkipped(t *testing.T) {
	hub := newFakeHub()
	p := NewEventPublisher(hub)

	p.PublishReplyCreated("t1", "r1", "replier", "author")
	if len(hub.sent) != 0 {
		t.Fatalf("Expected no events for offline user, got %d", len(hub.sent))
	}
}

func TestPublishReplyEvents(t *testing.T) {
	hub := newFakeHub("threadAuthor", "replyAuthor")
	p := NewEventPublisher(hub)

	p.PublishReplyCreated("t1", "r1", "replyAuthor", "threadAuthor")
	p.PublishReplyLiked("r1", "t1", "threadAuthor", "replyAuthor", 2)

	if len(hub.sent) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(hub.sent))
	}
	if hub.sent[0].userID != "threadAuthor" || hub.sent[0].event.Type != types.EventReplyCreated {
		t.Fatalf("Unexpected first event %+v", hub.sent[0])
	}
	liked, ok := hub.sent[1].event.Data.(*types.ReplyLikedEvent)
	if hub.sent[1].userID != "replyAuthor" || !ok || liked.LikeCount != 2 {
		t.Fatalf("Unexpected second event %+v", hub.sent[1])
	}
}
