package domain

import "fmt"

// RelationKind names one of the independent user↔object membership sets.
type RelationKind string

const (
	RelationFavorite          RelationKind = "favorite"
	RelationSubscription      RelationKind = "subscription"
	RelationForumSubscription RelationKind = "forum_subscription"
)

var RelationKinds = []RelationKind{RelationFavorite, RelationSubscription, RelationForumSubscription}

func (k RelationKind) Valid() bool {
	switch k {
	case RelationFavorite, RelationSubscription, RelationForumSubscription:
		return true
	}
	return false
}

// OnForum reports whether the relation points at forums rather than threads.
func (k RelationKind) OnForum() bool {
	return k == RelationForumSubscription
}

// ToggleScope is the scope an anti-replay token must be minted for to
// toggle kind on object id, e.g. "toggle-favorite_5".
func ToggleScope(kind RelationKind, id ObjectId) Scope {
	return fmt.Sprintf("toggle-%s_%d", kind, id)
}

// Membership is one stored relation row.
type Membership struct {
	UserId   UserId
	ObjectId ObjectId
	Kind     RelationKind
}

// to iterate thru layers: handler -> service -> storage
type ToggleRequest struct {
	Caller   *User // nil when not logged in
	ObjectId ObjectId
	Nonce    string
}

type ToggleResult struct {
	Kind     RelationKind
	UserId   UserId
	Thread   *Thread // set for favorite and subscription
	Forum    *Forum  // set for forum_subscription
	IsMember bool    // state after the flip
}

// ObjectId of the resolved target.
func (r ToggleResult) ObjectId() ObjectId {
	if r.Forum != nil {
		return r.Forum.Id
	}
	if r.Thread != nil {
		return r.Thread.Id
	}
	return 0
}

// ScriptContext is what a topic or forum page hands to its toggle script.
type ScriptContext struct {
	LoggedIn          bool
	ObjectId          ObjectId
	FavoriteNonce     string // empty on forum pages
	SubscriptionNonce string
}
