package repository

import (
	"context"
	"time"

	"stayhub/internal/infra"
	"stayhub/internal/infra/db"

	"github.com/google/uuid"
)

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(db db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: db}
}

const createNotificationJob = `
INSERT INTO notification_jobs (id, kind, topic, payload, run_at, status, created_at)
VALUES ($1, $2, $3, $4, $5, 'queued', $6)
`

// CreateJob enqueues a notification in the same transaction as the state
// change it announces; delivery happens outside this core.
func (r *OutboxRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx, createNotificationJob, uuid.New(), kind, topic, payload, runAt, time.Now().UTC())
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
