package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ideaboard/ideaboard/shared/domain"
)

// =========================================================================
// Public Methods (satisfy service.MembershipStorage)
// =========================================================================

// IsMember reports whether the (user, object, kind) row exists.
func (s *Storage) IsMember(ctx context.Context, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.isMember(ctx, s.db, userId, objectId, kind)
}

// Add inserts the relation and reports whether a row was created. Adding an
// existing relation is a no-op.
func (s *Storage) Add(ctx context.Context, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.add(ctx, s.db, userId, objectId, kind)
}

// Remove deletes the relation and reports whether a row was deleted.
// Removing a missing relation is a no-op.
func (s *Storage) Remove(ctx context.Context, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.remove(ctx, s.db, userId, objectId, kind)
}

// Toggle flips the relation and returns the state after the flip.
//
// Concurrent toggles of the same tuple are serialized with a transaction-scoped
// advisory lock keyed by the tuple, so every accepted toggle flips exactly once.
// Toggles of different tuples do not block each other (barring hash collisions).
func (s *Storage) Toggle(ctx context.Context, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var isMember bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		isMember, err = s.toggle(ctx, tx, userId, objectId, kind)
		return err
	})
	if err != nil {
		return false, err
	}
	return isMember, nil
}

// CountMembers returns how many users hold kind on objectId.
func (s *Storage) CountMembers(ctx context.Context, objectId domain.ObjectId, kind domain.RelationKind) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.countMembers(ctx, s.db, objectId, kind)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) isMember(ctx context.Context, q Querier, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM memberships
			WHERE user_id = $1 AND object_id = $2 AND kind = $3
		)`,
		userId, objectId, kind,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

func (s *Storage) add(ctx context.Context, q Querier, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	result, err := q.ExecContext(ctx, `
		INSERT INTO memberships (user_id, object_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, kind, object_id) DO NOTHING`,
		userId, objectId, kind,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add membership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func (s *Storage) remove(ctx context.Context, q Querier, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	result, err := q.ExecContext(ctx, `
		DELETE FROM memberships
		WHERE user_id = $1 AND object_id = $2 AND kind = $3`,
		userId, objectId, kind,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove membership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// toggle must run inside a transaction: the advisory lock is held until commit.
func (s *Storage) toggle(ctx context.Context, q Querier, userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) (bool, error) {
	if _, err := q.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		lockKey(userId, objectId, kind),
	); err != nil {
		return false, fmt.Errorf("failed to lock membership: %w", err)
	}

	removed, err := s.remove(ctx, q, userId, objectId, kind)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}

	added, err := s.add(ctx, q, userId, objectId, kind)
	if err != nil {
		return false, err
	}
	if !added {
		// impossible while the lock is held; surfaces a writer that bypassed it
		return false, fmt.Errorf("membership appeared concurrently for user %d, object %d, kind %s", userId, objectId, kind)
	}
	return true, nil
}

func (s *Storage) countMembers(ctx context.Context, q Querier, objectId domain.ObjectId, kind domain.RelationKind) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM memberships
		WHERE object_id = $1 AND kind = $2`,
		objectId, kind,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}
	return count, nil
}

func lockKey(userId domain.UserId, objectId domain.ObjectId, kind domain.RelationKind) string {
	return fmt.Sprintf("membership:%s:%d:%d", kind, userId, objectId)
}
