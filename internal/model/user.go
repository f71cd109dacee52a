package model

// User represents an account record as stored in the `users` table. The
// hashed password never leaves the repository layer; handlers respond with
// session tokens only.
//
// Fields:
//  Username       – unique key identifying the account.
//  HashedPassword – argon2id PHC-encoded password hash.
//  Created        – Unix timestamp (seconds) of account creation.
type User struct {
	Username       string // users.username
	HashedPassword string // users.hashed_password
	Created        int64  // users.created
}

// Session maps an opaque bearer token to a username. A user has at most one
// live session: a new login replaces the previous row for that username,
// which invalidates the older token.
//
// Fields:
//  Username – owner of the session.
//  ID       – the opaque random token presented as a Bearer credential.
type Session struct {
	Username string // sessions.username
	ID       string // sessions.id
}
