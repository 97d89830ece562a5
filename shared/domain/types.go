package domain

type (
	UserId   = int64
	ThreadId = int64
	ForumId  = int64

	// ObjectId is the id of whatever a membership points at (thread or forum).
	ObjectId = int64

	ThreadTitle = string
	ForumTitle  = string

	// Scope names the purpose an anti-replay token was minted for.
	Scope = string
)
