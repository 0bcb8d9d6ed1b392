package repository

import (
	"context"
	"time"

	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
)

type GatewayEventRepository struct {
	db db.DBTX
}

func NewGatewayEventRepository(db db.DBTX) *GatewayEventRepository {
	return &GatewayEventRepository{db: db}
}

const recordGatewayEvent = `
INSERT INTO gateway_events (event_id, kind, payload, received_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (event_id) DO NOTHING
`

// Record inserts the event id, returning false for a replay. The unique
// constraint is the idempotency barrier: two deliveries of the same event
// race on the insert and exactly one sees fresh = true.
func (r *GatewayEventRepository) Record(ctx context.Context, eventID, kind string, payload []byte) (bool, error) {
	tag, err := r.db.Exec(ctx, recordGatewayEvent, eventID, kind, payload, time.Now().UTC())
	if err != nil {
		return false, infra.WrapRepoErr("failed to record gateway event", err)
	}
	return tag.RowsAffected() > 0, nil
}
