package repository

import (
	"context"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/inventory"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"

	"github.com/google/uuid"
)

type InventoryRepository struct {
	db db.DBTX
}

func NewInventoryRepository(db db.DBTX) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const overlappingByRoomType = `
SELECT id, room_type_id, booking_id, check_in, check_out, units, source, created_at
FROM inventory_reservations
WHERE room_type_id = $1
  AND check_in < $3
  AND check_out > $2
`

// OverlappingByRoomType relies on half-open range semantics: a reservation
// whose check_out equals the requested check_in does not overlap.
func (r *InventoryRepository) OverlappingByRoomType(ctx context.Context, roomTypeID uuid.UUID, stay booking.StayRange) ([]*inventory.Reservation, error) {
	rows, err := r.db.Query(ctx, overlappingByRoomType, roomTypeID, stay.CheckIn(), stay.CheckOut())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query overlapping reservations", err)
	}
	defer rows.Close()

	var out []*inventory.Reservation
	for rows.Next() {
		var (
			res               inventory.Reservation
			checkIn, checkOut time.Time
		)
		if err := rows.Scan(&res.ID, &res.RoomTypeID, &res.BookingID, &checkIn, &checkOut, &res.Units, &res.Source, &res.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		stay, err := booking.NewStayRange(checkIn, checkOut)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid stay range in storage", err)
		}
		res.Stay = stay
		out = append(out, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return out, nil
}

const createReservation = `
INSERT INTO inventory_reservations (id, room_type_id, booking_id, check_in, check_out, units, source, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (r *InventoryRepository) Create(ctx context.Context, res *inventory.Reservation) error {
	_, err := r.db.Exec(ctx, createReservation,
		res.ID, res.RoomTypeID, res.BookingID,
		res.Stay.CheckIn(), res.Stay.CheckOut(),
		res.Units, res.Source, res.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

const releaseByBooking = `DELETE FROM inventory_reservations WHERE booking_id = $1`

// ReleaseByBooking deletes every reservation held for the booking.
// Releasing a booking that holds nothing succeeds.
func (r *InventoryRepository) ReleaseByBooking(ctx context.Context, bookingID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, releaseByBooking, bookingID); err != nil {
		return infra.WrapRepoErr("failed to release reservations", err)
	}
	return nil
}
