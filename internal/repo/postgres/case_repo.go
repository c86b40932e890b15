package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sushiibot/modlog/internal/domain/enums"
	"github.com/sushiibot/modlog/internal/domain/model"
)

var ErrCaseNotFound = errors.New("moderation case not found")

const caseColumns = `community_id,
       case_id,
       action,
       action_time,
       pending,
       user_id,
       user_tag,
       executor_id,
       COALESCE(reason, ''),
       COALESCE(attachments, '{}'::text[]),
       msg_channel_id,
       msg_id,
       dm_channel_id,
       dm_message_id,
       COALESCE(dm_error, '')`

type CaseRepo struct {
	pool *pgxpool.Pool
}

func NewCaseRepo(pool *pgxpool.Pool) *CaseRepo {
	return &CaseRepo{pool: pool}
}

// allocateCaseID bumps the per-community counter and returns the new id.
// The counter row lock serializes concurrent allocations; ids are strictly
// increasing and never reused, gaps on aborted transactions are accepted.
func allocateCaseID(ctx context.Context, tx pgx.Tx, communityID int64) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO moderation_case_counters (community_id, last_case_id)
VALUES ($1, 1)
ON CONFLICT (community_id) DO UPDATE SET
	last_case_id = moderation_case_counters.last_case_id + 1
RETURNING last_case_id
`, communityID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("allocate case id: %w", err)
	}
	return id, nil
}

func insertCase(ctx context.Context, tx pgx.Tx, draft model.CaseDraft, pending bool) (int64, error) {
	caseID, err := allocateCaseID(ctx, tx, draft.CommunityID)
	if err != nil {
		return 0, err
	}

	actionTime := draft.ActionTime
	if actionTime.IsZero() {
		actionTime = time.Now().UTC()
	}

	attachments := draft.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	_, err = tx.Exec(ctx, `
INSERT INTO moderation_cases (
	community_id,
	case_id,
	action,
	action_time,
	pending,
	user_id,
	user_tag,
	executor_id,
	reason,
	attachments
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
`,
		draft.CommunityID,
		caseID,
		string(draft.Action),
		actionTime.UTC(),
		pending,
		draft.UserID,
		strings.TrimSpace(draft.UserTag),
		draft.ExecutorID,
		strings.TrimSpace(draft.Reason),
		attachments,
	)
	if err != nil {
		return 0, fmt.Errorf("insert moderation case: %w", err)
	}

	return caseID, nil
}

func validateDraft(draft model.CaseDraft) error {
	if draft.CommunityID <= 0 {
		return fmt.Errorf("invalid community id")
	}
	if draft.UserID <= 0 {
		return fmt.Errorf("invalid target user id")
	}
	if !draft.Action.Valid() {
		return fmt.Errorf("invalid action type %q", draft.Action)
	}
	return nil
}

// CreatePending creates a case row for a command-initiated action before
// the platform mutation runs. Returns the allocated case id.
func (r *CaseRepo) CreatePending(ctx context.Context, draft model.CaseDraft) (int64, error) {
	if err := validateDraft(draft); err != nil {
		return 0, err
	}

	var caseID int64
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		id, err := insertCase(ctx, tx, draft, true)
		if err != nil {
			return err
		}
		caseID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return caseID, nil
}

// InsertFinalized synthesizes an already-finalized case from an audit-log
// entry with no matching pending case. This is how native platform actions
// get recorded.
func (r *CaseRepo) InsertFinalized(ctx context.Context, draft model.CaseDraft) (model.ModerationCase, error) {
	if err := validateDraft(draft); err != nil {
		return model.ModerationCase{}, err
	}

	var created model.ModerationCase
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		id, err := insertCase(ctx, tx, draft, false)
		if err != nil {
			return err
		}
		row := tx.QueryRow(ctx, `
SELECT `+caseColumns+`
FROM moderation_cases
WHERE community_id = $1 AND case_id = $2
`, draft.CommunityID, id)
		c, err := scanCase(row)
		if err != nil {
			return fmt.Errorf("read back synthesized case: %w", err)
		}
		created = c
		return nil
	})
	if err != nil {
		return model.ModerationCase{}, err
	}
	return created, nil
}

// MatchPending finds the most recent pending case for community+user+action
// and flips it to finalized within the same transaction. The row lock
// serializes concurrent audit-log deliveries for the same logical action:
// the loser re-reads a no-longer-pending row and reports no match. A
// candidate older than the correlation window is left untouched and
// reported as no match.
func (r *CaseRepo) MatchPending(ctx context.Context, communityID, userID int64, action enums.ActionType, window time.Duration) (model.ModerationCase, bool, error) {
	if window <= 0 {
		window = time.Minute
	}

	var (
		matched model.ModerationCase
		found   bool
	)
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
SELECT `+caseColumns+`
FROM moderation_cases
WHERE community_id = $1
  AND user_id = $2
  AND action = $3
  AND pending
ORDER BY action_time DESC
LIMIT 1
FOR UPDATE
`, communityID, userID, string(action))
		c, err := scanCase(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("select pending case: %w", err)
		}

		if time.Since(c.ActionTime) > window {
			return nil
		}

		tag, err := tx.Exec(ctx, `
UPDATE moderation_cases
SET pending = FALSE
WHERE community_id = $1 AND case_id = $2 AND pending
`, c.CommunityID, c.CaseID)
		if err != nil {
			return fmt.Errorf("finalize matched case: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		c.Pending = false
		matched = c
		found = true
		return nil
	})
	if err != nil {
		return model.ModerationCase{}, false, err
	}
	return matched, found, nil
}

// SaveDelivery applies the accumulated mutations from one audit-log entry
// in a single write. Executor and reason are adopted only where the row
// does not already carry a value; dm and log message fields are
// write-once-per-attempt.
func (r *CaseRepo) SaveDelivery(ctx context.Context, communityID, caseID int64, delivery model.CaseDelivery) error {
	if r.pool == nil {
		return errors.New("postgres pool is nil")
	}

	var dmChannelID, dmMessageID *int64
	dmError := ""
	if delivery.DM != nil {
		if delivery.DM.Err != "" {
			dmError = delivery.DM.Err
		} else {
			dmChannelID = &delivery.DM.ChannelID
			dmMessageID = &delivery.DM.MessageID
		}
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE moderation_cases
SET pending = FALSE,
    executor_id = COALESCE(executor_id, $3),
    reason = COALESCE(reason, NULLIF($4, '')),
    msg_channel_id = COALESCE(msg_channel_id, $5),
    msg_id = COALESCE(msg_id, $6),
    dm_channel_id = COALESCE(dm_channel_id, $7),
    dm_message_id = COALESCE(dm_message_id, $8),
    dm_error = COALESCE(dm_error, NULLIF($9, ''))
WHERE community_id = $1 AND case_id = $2
`,
		communityID,
		caseID,
		delivery.ExecutorID,
		strings.TrimSpace(delivery.Reason),
		delivery.LogChannelID,
		delivery.LogMessageID,
		dmChannelID,
		dmMessageID,
		dmError,
	)
	if err != nil {
		return fmt.Errorf("save case delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepo) GetByID(ctx context.Context, communityID, caseID int64) (model.ModerationCase, error) {
	if r.pool == nil {
		return model.ModerationCase{}, ErrCaseNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+caseColumns+`
FROM moderation_cases
WHERE community_id = $1 AND case_id = $2
`, communityID, caseID)
	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ModerationCase{}, ErrCaseNotFound
		}
		return model.ModerationCase{}, fmt.Errorf("get moderation case: %w", err)
	}
	return c, nil
}

func (r *CaseRepo) ListRange(ctx context.Context, communityID, fromID, toID int64) ([]model.ModerationCase, error) {
	if r.pool == nil {
		return []model.ModerationCase{}, nil
	}
	if fromID > toID {
		fromID, toID = toID, fromID
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+caseColumns+`
FROM moderation_cases
WHERE community_id = $1
  AND case_id BETWEEN $2 AND $3
ORDER BY case_id ASC
`, communityID, fromID, toID)
	if err != nil {
		return nil, fmt.Errorf("list moderation cases: %w", err)
	}
	defer rows.Close()

	cases := make([]model.ModerationCase, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan moderation case: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderation cases: %w", err)
	}

	return cases, nil
}

// NextCaseID returns the id the next created case will receive.
func (r *CaseRepo) NextCaseID(ctx context.Context, communityID int64) (int64, error) {
	if r.pool == nil {
		return 0, errors.New("postgres pool is nil")
	}

	var last int64
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(
	(SELECT last_case_id FROM moderation_case_counters WHERE community_id = $1),
	0
)
`, communityID).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("read case counter: %w", err)
	}
	return last + 1, nil
}

// UpdateReason sets the reason (and the executor when the row has none) on
// a finalized or pending case.
func (r *CaseRepo) UpdateReason(ctx context.Context, communityID, caseID int64, reason string, executorID int64) error {
	if r.pool == nil {
		return ErrCaseNotFound
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("reason is required")
	}

	var executor *int64
	if executorID > 0 {
		executor = &executorID
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE moderation_cases
SET reason = $3,
    executor_id = COALESCE(executor_id, $4)
WHERE community_id = $1 AND case_id = $2
`, communityID, caseID, strings.TrimSpace(reason), executor)
	if err != nil {
		return fmt.Errorf("update case reason: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCaseNotFound
	}
	return nil
}

// Delete removes the given cases and returns the deleted rows so callers
// can best-effort delete the posted log messages. Counters are untouched;
// deleted ids are never reallocated.
func (r *CaseRepo) Delete(ctx context.Context, communityID int64, caseIDs []int64) ([]model.ModerationCase, error) {
	if r.pool == nil || len(caseIDs) == 0 {
		return []model.ModerationCase{}, nil
	}

	rows, err := r.pool.Query(ctx, `
DELETE FROM moderation_cases
WHERE community_id = $1 AND case_id = ANY($2)
RETURNING `+caseColumns+`
`, communityID, caseIDs)
	if err != nil {
		return nil, fmt.Errorf("delete moderation cases: %w", err)
	}
	defer rows.Close()

	deleted := make([]model.ModerationCase, 0, len(caseIDs))
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deleted case: %w", err)
		}
		deleted = append(deleted, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted cases: %w", err)
	}

	return deleted, nil
}

func scanCase(row pgx.Row) (model.ModerationCase, error) {
	var (
		c      model.ModerationCase
		action string
	)
	err := row.Scan(
		&c.CommunityID,
		&c.CaseID,
		&action,
		&c.ActionTime,
		&c.Pending,
		&c.UserID,
		&c.UserTag,
		&c.ExecutorID,
		&c.Reason,
		&c.Attachments,
		&c.LogChannelID,
		&c.LogMessageID,
		&c.DMChannelID,
		&c.DMMessageID,
		&c.DMError,
	)
	if err != nil {
		return model.ModerationCase{}, err
	}
	c.Action = enums.ActionType(action)
	c.ActionTime = c.ActionTime.UTC()
	return c, nil
}
