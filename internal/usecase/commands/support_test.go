//go:build unit

package commands_test

import (
	"context"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/coupon"
	"stayhub/internal/domain/inventory"
	"stayhub/internal/domain/wallet"
	"stayhub/internal/infra"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory store mimicking the persistence layer. Within clones the state,
// runs the transaction body against the clone and swaps it in on success,
// so a failed command leaves no trace, exactly like a rolled-back tx.

type walletKey struct {
	owner uuid.UUID
	role  wallet.Role
}

type entryKey struct {
	walletID  uuid.UUID
	category  wallet.Category
	reference string
}

type outboxJob struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type storeState struct {
	roomTypes    map[uuid.UUID]shared.RoomTypeSnapshot
	bookings     map[uuid.UUID]booking.Booking
	reservations []inventory.Reservation
	wallets      map[walletKey]wallet.Wallet
	entries      []wallet.Transaction
	entryIndex   map[entryKey]bool
	coupons      map[coupon.Code]*coupon.Coupon
	couponUsage  map[uuid.UUID]int32
	couponLimit  map[uuid.UUID]*int32
	events       map[string]string
	jobs         []outboxJob
}

func newStoreState() *storeState {
	return &storeState{
		roomTypes:   make(map[uuid.UUID]shared.RoomTypeSnapshot),
		bookings:    make(map[uuid.UUID]booking.Booking),
		wallets:     make(map[walletKey]wallet.Wallet),
		entryIndex:  make(map[entryKey]bool),
		coupons:     make(map[coupon.Code]*coupon.Coupon),
		couponUsage: make(map[uuid.UUID]int32),
		couponLimit: make(map[uuid.UUID]*int32),
		events:      make(map[string]string),
	}
}

func (s *storeState) clone() *storeState {
	c := newStoreState()
	for k, v := range s.roomTypes {
		c.roomTypes[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	c.reservations = append(c.reservations, s.reservations...)
	for k, v := range s.wallets {
		c.wallets[k] = v
	}
	c.entries = append(c.entries, s.entries...)
	for k, v := range s.entryIndex {
		c.entryIndex[k] = v
	}
	for k, v := range s.coupons {
		c.coupons[k] = v
	}
	for k, v := range s.couponUsage {
		c.couponUsage[k] = v
	}
	for k, v := range s.couponLimit {
		c.couponLimit[k] = v
	}
	for k, v := range s.events {
		c.events[k] = v
	}
	c.jobs = append(c.jobs, s.jobs...)
	return c
}

type fakeUoW struct {
	state *storeState
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{state: newStoreState()}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	work := u.state.clone()
	if err := fn(ctx, &fakeTx{s: work}); err != nil {
		return err
	}
	u.state = work
	return nil
}

func (u *fakeUoW) addRoomType(rt shared.RoomTypeSnapshot) {
	u.state.roomTypes[rt.ID] = rt
}

func (u *fakeUoW) addCoupon(c *coupon.Coupon) {
	u.state.coupons[c.Code()] = c
	u.state.couponUsage[c.ID()] = c.UsageCount()
	u.state.couponLimit[c.ID()] = c.UsageLimit()
}

func (u *fakeUoW) booking(id uuid.UUID) (booking.Booking, bool) {
	b, ok := u.state.bookings[id]
	return b, ok
}

func (u *fakeUoW) wallet(owner uuid.UUID, role wallet.Role) (wallet.Wallet, bool) {
	w, ok := u.state.wallets[walletKey{owner: owner, role: role}]
	return w, ok
}

func (u *fakeUoW) entriesFor(owner uuid.UUID, role wallet.Role) []wallet.Transaction {
	w, ok := u.wallet(owner, role)
	if !ok {
		return nil
	}
	var out []wallet.Transaction
	for _, e := range u.state.entries {
		if e.WalletID == w.ID {
			out = append(out, e)
		}
	}
	return out
}

func (u *fakeUoW) reservationsFor(bookingID uuid.UUID) []inventory.Reservation {
	var out []inventory.Reservation
	for _, r := range u.state.reservations {
		if r.BookingID == bookingID {
			out = append(out, r)
		}
	}
	return out
}

type fakeTx struct {
	s *storeState
}

func (t *fakeTx) Bookings() shared.BookingRepository           { return &fakeBookings{s: t.s} }
func (t *fakeTx) Inventory() shared.InventoryRepository        { return &fakeInventory{s: t.s} }
func (t *fakeTx) Wallets() shared.WalletRepository             { return &fakeWallets{s: t.s} }
func (t *fakeTx) Coupons() shared.CouponRepository             { return &fakeCoupons{s: t.s} }
func (t *fakeTx) RoomTypes() shared.RoomTypeRepository         { return &fakeRoomTypes{s: t.s} }
func (t *fakeTx) GatewayEvents() shared.GatewayEventRepository { return &fakeEvents{s: t.s} }
func (t *fakeTx) Outbox() shared.OutboxRepository              { return &fakeOutbox{s: t.s} }

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, pgx.ErrNoRows)
}

type fakeRoomTypes struct{ s *storeState }

func (r *fakeRoomTypes) LockByID(_ context.Context, id uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	rt, ok := r.s.roomTypes[id]
	if !ok {
		return nil, notFound("room type not found")
	}
	return &rt, nil
}

type fakeBookings struct{ s *storeState }

func (r *fakeBookings) Create(_ context.Context, b *booking.Booking) error {
	r.s.bookings[b.ID] = *b
	return nil
}

func (r *fakeBookings) LockByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, notFound("booking not found")
	}
	return &b, nil
}

func (r *fakeBookings) LockByCode(_ context.Context, code string) (*booking.Booking, error) {
	for _, b := range r.s.bookings {
		if b.Code == code {
			return &b, nil
		}
	}
	return nil, notFound("booking not found")
}

func (r *fakeBookings) Update(_ context.Context, b *booking.Booking) error {
	if _, ok := r.s.bookings[b.ID]; !ok {
		return notFound("booking not found")
	}
	r.s.bookings[b.ID] = *b
	return nil
}

type fakeInventory struct{ s *storeState }

func (r *fakeInventory) OverlappingByRoomType(_ context.Context, roomTypeID uuid.UUID, stay booking.StayRange) ([]*inventory.Reservation, error) {
	var out []*inventory.Reservation
	for i := range r.s.reservations {
		res := r.s.reservations[i]
		if res.RoomTypeID == roomTypeID && res.Stay.Overlaps(stay) {
			out = append(out, &res)
		}
	}
	return out, nil
}

func (r *fakeInventory) Create(_ context.Context, res *inventory.Reservation) error {
	r.s.reservations = append(r.s.reservations, *res)
	return nil
}

func (r *fakeInventory) ReleaseByBooking(_ context.Context, bookingID uuid.UUID) error {
	kept := r.s.reservations[:0]
	for _, res := range r.s.reservations {
		if res.BookingID != bookingID {
			kept = append(kept, res)
		}
	}
	r.s.reservations = kept
	return nil
}

type fakeWallets struct{ s *storeState }

func (r *fakeWallets) GetOrCreateForUpdate(_ context.Context, ownerID uuid.UUID, role wallet.Role) (*wallet.Wallet, error) {
	key := walletKey{owner: ownerID, role: role}
	w, ok := r.s.wallets[key]
	if !ok {
		w = wallet.Wallet{ID: uuid.New(), OwnerID: ownerID, Role: role}
		r.s.wallets[key] = w
	}
	return &w, nil
}

func (r *fakeWallets) Save(_ context.Context, w *wallet.Wallet) error {
	r.s.wallets[walletKey{owner: w.OwnerID, role: w.Role}] = *w
	return nil
}

func (r *fakeWallets) AppendEntry(_ context.Context, e *wallet.Transaction) error {
	r.s.entries = append(r.s.entries, *e)
	r.s.entryIndex[entryKey{walletID: e.WalletID, category: e.Category, reference: e.Reference}] = true
	return nil
}

func (r *fakeWallets) HasEntry(_ context.Context, walletID uuid.UUID, category wallet.Category, reference string) (bool, error) {
	return r.s.entryIndex[entryKey{walletID: walletID, category: category, reference: reference}], nil
}

type fakeCoupons struct{ s *storeState }

func (r *fakeCoupons) FindByCode(_ context.Context, code coupon.Code) (*coupon.Coupon, error) {
	c, ok := r.s.coupons[code]
	if !ok {
		return nil, notFound("coupon not found")
	}
	return c, nil
}

func (r *fakeCoupons) IncrementUsage(_ context.Context, id uuid.UUID) error {
	limit := r.s.couponLimit[id]
	if limit != nil && r.s.couponUsage[id] >= *limit {
		return coupon.ErrUsageLimitReached
	}
	r.s.couponUsage[id]++
	return nil
}

type fakeEvents struct{ s *storeState }

func (r *fakeEvents) Record(_ context.Context, eventID, kind string, _ []byte) (bool, error) {
	if _, seen := r.s.events[eventID]; seen {
		return false, nil
	}
	r.s.events[eventID] = kind
	return true, nil
}

type fakeOutbox struct{ s *storeState }

func (r *fakeOutbox) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.s.jobs = append(r.s.jobs, outboxJob{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}
