package domain

type Forum struct {
	Id    ForumId
	Title ForumTitle
}
