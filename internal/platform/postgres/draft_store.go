package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/platform/logger"
	"github.com/careerforge/pitch-api/internal/store"
	"github.com/google/uuid"
)

// PostgresDraftStore implements the store.DraftStore interface
// using a PostgreSQL database as the storage backend.
//
// The pitches table also carries the task record columns (correlation_id,
// result_payload); those are managed by PostgresTaskStore. This store only
// touches the wizard input columns.
type PostgresDraftStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDraftStore creates a new PostgreSQL implementation of the
// DraftStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDraftStore(db store.DBTX, logger *slog.Logger) *PostgresDraftStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDraftStore{
		db:     db,
		logger: logger.With(slog.String("component", "draft_store")),
	}
}

// Ensure PostgresDraftStore implements store.DraftStore interface
var _ store.DraftStore = (*PostgresDraftStore)(nil)

// Create implements store.DraftStore.Create
// It saves a new draft to the database, handling domain validation.
func (s *PostgresDraftStore) Create(ctx context.Context, draft *domain.Draft) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := draft.Validate(); err != nil {
		log.Warn("draft validation failed during create",
			slog.String("error", err.Error()),
			slog.String("draft_id", draft.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	examples, err := json.Marshal(draft.Input.Examples)
	if err != nil {
		return fmt.Errorf("failed to marshal examples: %w", err)
	}

	query := `
		INSERT INTO pitches (id, user_id, role, experience, guidance, examples, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		draft.ID,
		draft.UserID,
		draft.Input.Role,
		draft.Input.Experience,
		draft.Input.Guidance,
		examples,
		draft.CreatedAt,
		draft.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create draft",
			slog.String("error", err.Error()),
			slog.String("draft_id", draft.ID.String()),
			slog.String("user_id", draft.UserID.String()))
		return MapError(err)
	}

	log.Info("draft created successfully",
		slog.String("draft_id", draft.ID.String()),
		slog.String("user_id", draft.UserID.String()))
	return nil
}

// GetByID implements store.DraftStore.GetByID
// It retrieves a draft by its unique ID.
// Returns store.ErrDraftNotFound if the draft does not exist.
func (s *PostgresDraftStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Draft, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving draft by ID", slog.String("draft_id", id.String()))

	query := `
		SELECT id, user_id, role, experience, guidance, examples, created_at, updated_at
		FROM pitches
		WHERE id = $1
	`

	var draft domain.Draft
	var examples []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&draft.ID,
		&draft.UserID,
		&draft.Input.Role,
		&draft.Input.Experience,
		&draft.Input.Guidance,
		&examples,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("draft not found", slog.String("draft_id", id.String()))
			return nil, store.ErrDraftNotFound
		}
		log.Error("failed to get draft by ID",
			slog.String("error", err.Error()),
			slog.String("draft_id", id.String()))
		return nil, MapError(err)
	}

	if len(examples) > 0 {
		if err := json.Unmarshal(examples, &draft.Input.Examples); err != nil {
			return nil, fmt.Errorf("failed to unmarshal examples: %w", err)
		}
	}

	return &draft, nil
}

// Update implements store.DraftStore.Update
// It saves changes to an existing draft's wizard inputs.
// Returns store.ErrDraftNotFound if the draft does not exist.
func (s *PostgresDraftStore) Update(ctx context.Context, draft *domain.Draft) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := draft.Validate(); err != nil {
		log.Warn("draft validation failed during update",
			slog.String("error", err.Error()),
			slog.String("draft_id", draft.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	examples, err := json.Marshal(draft.Input.Examples)
	if err != nil {
		return fmt.Errorf("failed to marshal examples: %w", err)
	}

	draft.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE pitches
		SET role = $1, experience = $2, guidance = $3, examples = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		draft.Input.Role,
		draft.Input.Experience,
		draft.Input.Guidance,
		examples,
		draft.UpdatedAt,
		draft.ID,
	)

	if err != nil {
		log.Error("failed to update draft",
			slog.String("error", err.Error()),
			slog.String("draft_id", draft.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrUpdateFailed, MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrDraftNotFound); err != nil {
		log.Debug("draft not found during update",
			slog.String("draft_id", draft.ID.String()))
		return err
	}

	log.Debug("draft updated successfully",
		slog.String("draft_id", draft.ID.String()))
	return nil
}

// Delete implements store.DraftStore.Delete
// It removes a draft together with its task record fields.
// Returns store.ErrDraftNotFound if the draft does not exist.
func (s *PostgresDraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM pitches WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete draft",
			slog.String("error", err.Error()),
			slog.String("draft_id", id.String()))
		return fmt.Errorf("%w: %w", store.ErrDeleteFailed, MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrDraftNotFound); err != nil {
		return err
	}

	log.Info("draft deleted", slog.String("draft_id", id.String()))
	return nil
}

// WithTx implements store.DraftStore.WithTx
// It returns a new DraftStore instance running against the provided transaction.
func (s *PostgresDraftStore) WithTx(tx *sql.Tx) store.DraftStore {
	return &PostgresDraftStore{
		db:     tx,
		logger: s.logger,
	}
}
