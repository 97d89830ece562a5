// Package memory is an in-process membership store and resource resolver.
// It backs local runs without Postgres (serve --in-memory) and handler tests.
package memory

import (
	"context"
	"sync"

	"github.com/ideaboard/ideaboard/shared/domain"
	internal_errors "github.com/ideaboard/ideaboard/shared/errors"
)

type Storage struct {
	mu          sync.RWMutex
	threads     map[domain.ThreadId]domain.Thread
	forums      map[domain.ForumId]domain.Forum
	memberships map[domain.Membership]struct{}
}

func New() *Storage {
	return &Storage{
		threads:     make(map[domain.ThreadId]domain.Thread),
		forums:      make(map[domain.ForumId]domain.Forum),
		memberships: make(map[domain.Membership]struct{}),
	}
}

func (s *Storage) PutForum(forum domain.Forum) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forums[forum.Id] = forum
}

func (s *Storage) PutThread(thread domain.Thread) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[thread.Id] = thread
}

func (s *Storage) ResolveThread(_ context.Context, id domain.ThreadId) (domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	thread, ok := s.threads[id]
	if !ok {
		return domain.Thread{}, internal_errors.NotFound("Thread not found")
	}
	return thread, nil
}

func (s *Storage) ResolveForum(_ context.Context, id domain.ForumId) (domain.Forum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	forum, ok := s.forums[id]
	if !ok {
		return domain.Forum{}, internal_errors.NotFound("Forum not found")
	}
	return forum, nil
}

func (s *Storage) IsMember(_ context.Context, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.memberships[domain.Membership{UserId: userId, ObjectId: objectId, Kind: kind}]
	return ok, nil
}

// Add reports whether the relation was absent before.
func (s *Storage) Add(_ context.Context, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	key := domain.Membership{UserId: userId, ObjectId: objectId, Kind: kind}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.memberships[key]; ok {
		return false, nil
	}
	s.memberships[key] = struct{}{}
	return true, nil
}

// Remove reports whether the relation was present before.
func (s *Storage) Remove(_ context.Context, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	key := domain.Membership{UserId: userId, ObjectId: objectId, Kind: kind}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.memberships[key]; !ok {
		return false, nil
	}
	delete(s.memberships, key)
	return true, nil
}

// Toggle flips the relation under the write lock and returns the new state.
func (s *Storage) Toggle(_ context.Context, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	key := domain.Membership{UserId: userId, ObjectId: objectId, Kind: kind}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.memberships[key]; ok {
		delete(s.memberships, key)
		return false, nil
	}
	s.memberships[key] = struct{}{}
	return true, nil
}

func (s *Storage) CountMembers(_ context.Context, objectId domain.ObjectId, kind domain.RelationKind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for m := range s.memberships {
		if m.ObjectId == objectId && m.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (s *Storage) Ping(context.Context) error {
	return nil
}

func (s *Storage) Cleanup() error {
	return nil
}
