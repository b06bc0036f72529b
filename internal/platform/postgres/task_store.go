package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/platform/logger"
	"github.com/careerforge/pitch-api/internal/store"
	"github.com/google/uuid"
)

// PostgresTaskStore implements the store.TaskStore interface over the
// task record columns of the pitches table. All coordination between the
// dispatch, callback, and poll request paths goes through these columns,
// so every mutation here is single-field and idempotent.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// GetTask implements store.TaskStore.GetTask
// Returns store.ErrTaskNotFound if no draft with that ID exists.
func (s *PostgresTaskStore) GetTask(ctx context.Context, id uuid.UUID) (*domain.TaskRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, correlation_id, COALESCE(result_payload, '')
		FROM pitches
		WHERE id = $1
	`

	var rec domain.TaskRecord
	var correlationID uuid.NullUUID

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&correlationID,
		&rec.ResultPayload,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task record not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task record",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	if correlationID.Valid {
		rec.CorrelationID = &correlationID.UUID
	}

	return &rec, nil
}

// SetCorrelationID implements store.TaskStore.SetCorrelationID
// A nil correlationID clears the field (the rollback write after a failed
// dispatch). Returns store.ErrTaskNotFound if no draft with that ID exists.
func (s *PostgresTaskStore) SetCorrelationID(
	ctx context.Context,
	id uuid.UUID,
	correlationID *uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var value uuid.NullUUID
	if correlationID != nil {
		value = uuid.NullUUID{UUID: *correlationID, Valid: true}
	}

	query := `
		UPDATE pitches
		SET correlation_id = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, value, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to set correlation ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	if correlationID != nil {
		log.Info("task marked in progress",
			slog.String("task_id", id.String()),
			slog.String("correlation_id", correlationID.String()))
	} else {
		log.Info("task correlation ID cleared",
			slog.String("task_id", id.String()))
	}
	return nil
}

// SetResultIfEmpty implements store.TaskStore.SetResultIfEmpty
// The write-once guard is the WHERE clause of a single UPDATE, so two
// racing completion signals resolve in the database: whichever statement
// runs first wins and the loser affects zero rows.
// Returns store.ErrTaskNotFound if no draft with that ID exists.
func (s *PostgresTaskStore) SetResultIfEmpty(
	ctx context.Context,
	id uuid.UUID,
	payload string,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE pitches
		SET result_payload = $1, updated_at = $2
		WHERE id = $3 AND (result_payload IS NULL OR result_payload = '')
	`

	result, err := s.db.ExecContext(ctx, query, payload, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to set result payload",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}

	if rowsAffected == 0 {
		// Either the record already holds a result (a lost race, which is
		// fine) or the record does not exist at all (which is not).
		if _, getErr := s.GetTask(ctx, id); getErr != nil {
			return false, getErr
		}
		log.Debug("result already present, apply is a no-op",
			slog.String("task_id", id.String()))
		return false, nil
	}

	log.Info("result payload applied",
		slog.String("task_id", id.String()),
		slog.Int("payload_length", len(payload)))
	return true, nil
}
