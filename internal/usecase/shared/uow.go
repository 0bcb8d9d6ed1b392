package shared

import (
	"context"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/coupon"
	"stayhub/internal/domain/inventory"
	"stayhub/internal/domain/wallet"

	"github.com/google/uuid"
)

// UnitOfWork scopes a group of writes to one database transaction.
// Within retries serialization failures a bounded number of times before
// surfacing a conflict; everything inside fn either commits together or
// leaves no trace.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Inventory() InventoryRepository
	Wallets() WalletRepository
	Coupons() CouponRepository
	RoomTypes() RoomTypeRepository
	GatewayEvents() GatewayEventRepository
	Outbox() OutboxRepository
}

// RoomTypeSnapshot is the minimal read a booking command needs: fixed
// capacity, rates and occupancy caps.
type RoomTypeSnapshot struct {
	ID             uuid.UUID
	PropertyID     uuid.UUID
	PartnerID      uuid.UUID
	TotalInventory int
	BaseOccupancy  int
	BaseRate       int64
	ExtraAdultRate int64
	ExtraChildRate int64
	MaxAdults      int
	MaxChildren    int
}

type RoomTypeRepository interface {
	// LockByID takes a row lock on the room type, serializing concurrent
	// capacity checks for the same inventory.
	LockByID(ctx context.Context, id uuid.UUID) (*RoomTypeSnapshot, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	// LockByID loads the booking with a row lock so that cancellation and
	// payment confirmation on the same booking are mutually exclusive.
	LockByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	LockByCode(ctx context.Context, code string) (*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking) error
}

type InventoryRepository interface {
	// OverlappingByRoomType returns every reservation of the room type that
	// intersects the stay window.
	OverlappingByRoomType(ctx context.Context, roomTypeID uuid.UUID, stay booking.StayRange) ([]*inventory.Reservation, error)
	Create(ctx context.Context, r *inventory.Reservation) error
	// ReleaseByBooking deletes all reservations of the booking regardless of
	// source; releasing nothing is a no-op success.
	ReleaseByBooking(ctx context.Context, bookingID uuid.UUID) error
}

type WalletRepository interface {
	// GetOrCreateForUpdate returns the (owner, role) wallet with a row lock,
	// creating it idempotently on first use.
	GetOrCreateForUpdate(ctx context.Context, ownerID uuid.UUID, role wallet.Role) (*wallet.Wallet, error)
	Save(ctx context.Context, w *wallet.Wallet) error
	AppendEntry(ctx context.Context, t *wallet.Transaction) error
	// HasEntry reports whether this wallet already recorded an entry for
	// (category, reference); financial effects of a booking event are
	// idempotent per booking code and category.
	HasEntry(ctx context.Context, walletID uuid.UUID, category wallet.Category, reference string) (bool, error)
}

type CouponRepository interface {
	FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error)
	// IncrementUsage bumps usage_count, guarded by the usage limit; it
	// returns coupon.ErrUsageLimitReached when the guard rejects the bump.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

type GatewayEventRepository interface {
	// Record inserts the webhook event id; it returns false when the event
	// was seen before, which makes replays no-ops.
	Record(ctx context.Context, eventID, kind string, payload []byte) (bool, error)
}

type OutboxRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
