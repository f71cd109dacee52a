package model

// AIUsername authors every placeholder and advice comment.
const AIUsername = "AI"

// Post is a row of the `posts` table. Posts are immutable once written.
//
// Fields:
//  ID       – strictly increasing integer primary key.
//  Username – author of the post.
//  Content  – free-text body.
//  Created  – Unix timestamp (seconds).
type Post struct {
	ID       int64  // posts.id
	Username string // posts.username
	Content  string // posts.content
	Created  int64  // posts.created
}

// Comment is a row of the `comments` table. Comments are immutable except
// for the AI placeholder, whose content is rewritten in place once the
// advice annotator finishes.
//
// Fields:
//  ID       – strictly increasing integer primary key.
//  PostID   – post this comment belongs to.
//  Username – author; either a registered user or AIUsername.
//  Content  – free-text body.
//  Created  – Unix timestamp (seconds).
type Comment struct {
	ID       int64  // comments.id
	PostID   int64  // comments.post_id
	Username string // comments.username
	Content  string // comments.content
	Created  int64  // comments.created
}

// FeedComment is the wire shape of a comment inside the get_posts response.
type FeedComment struct {
	ID       int64  `json:"id"`
	PostID   int64  `json:"post_id"`
	Username string `json:"username"`
	Content  string `json:"content"`
	Created  int64  `json:"created"`
}

// FeedPost is the wire shape of a post inside the get_posts response.
// Comments is nil (JSON null) when the post has no comments, matching the
// browser client's expectations.
type FeedPost struct {
	ID       int64         `json:"id"`
	Username string        `json:"username"`
	Content  string        `json:"content"`
	Created  int64         `json:"created"`
	Comments []FeedComment `json:"comments"`
}
