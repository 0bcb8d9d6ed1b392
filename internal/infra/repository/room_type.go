package repository

import (
	"context"

	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type RoomTypeRepository struct {
	db db.DBTX
}

func NewRoomTypeRepository(db db.DBTX) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

const lockRoomTypeByID = `
SELECT id, property_id, partner_id, total_inventory, base_occupancy,
       base_rate, extra_adult_rate, extra_child_rate, max_adults, max_children
FROM room_types
WHERE id = $1
FOR UPDATE
`

// LockByID takes the room-type row lock that serializes concurrent
// capacity checks on the same inventory.
func (r *RoomTypeRepository) LockByID(ctx context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	var s shared.RoomTypeSnapshot
	err := r.db.QueryRow(ctx, lockRoomTypeByID, id).Scan(
		&s.ID,
		&s.PropertyID,
		&s.PartnerID,
		&s.TotalInventory,
		&s.BaseOccupancy,
		&s.BaseRate,
		&s.ExtraAdultRate,
		&s.ExtraChildRate,
		&s.MaxAdults,
		&s.MaxChildren,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock room type", err)
	}
	return &s, nil
}
