package domain

type Thread struct {
	Id      ThreadId
	ForumId ForumId
	Title   ThreadTitle
}
