package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ideaboard/ideaboard/shared/domain"
	internal_errors "github.com/ideaboard/ideaboard/shared/errors"
)

// ResolveThread fetches the thread with id or returns a 404 ErrorWithStatusCode.
func (s *Storage) ResolveThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.resolveThread(ctx, s.db, id)
}

// ResolveForum fetches the forum with id or returns a 404 ErrorWithStatusCode.
func (s *Storage) ResolveForum(ctx context.Context, id domain.ForumId) (domain.Forum, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.resolveForum(ctx, s.db, id)
}

func (s *Storage) resolveThread(ctx context.Context, q Querier, id domain.ThreadId) (domain.Thread, error) {
	var thread domain.Thread
	err := q.QueryRowContext(ctx, `
		SELECT id, forum_id, title
		FROM threads
		WHERE id = $1`,
		id,
	).Scan(&thread.Id, &thread.ForumId, &thread.Title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, internal_errors.NotFound("Thread not found")
		}
		return domain.Thread{}, fmt.Errorf("failed to fetch thread: %w", err)
	}
	return thread, nil
}

func (s *Storage) resolveForum(ctx context.Context, q Querier, id domain.ForumId) (domain.Forum, error) {
	var forum domain.Forum
	err := q.QueryRowContext(ctx, `
		SELECT id, title
		FROM forums
		WHERE id = $1`,
		id,
	).Scan(&forum.Id, &forum.Title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Forum{}, internal_errors.NotFound("Forum not found")
		}
		return domain.Forum{}, fmt.Errorf("failed to fetch forum: %w", err)
	}
	return forum, nil
}
