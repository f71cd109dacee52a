// Package queue defines message payloads exchanged over the message broker.
package queue

// postQueueName is the durable queue carrying post.created events.
const postQueueName = "post.created"

// PostCreatedEvent is published after a post and its placeholder comment are
// committed. It carries enough for downstream consumers to log or notify
// without querying the primary database.
type PostCreatedEvent struct {
	PostID    int64  `json:"post_id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}
