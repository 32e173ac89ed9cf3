package service

import (
	"context"
	"sync"
	"time"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/repository"
)

// memStore is an in-memory repository.Transactor plus all repositories,
// backed by maps and one mutex. WithinTx holds the mutex for the whole
// callback, which gives the same mutual exclusion the real store gets from
// row locks, so races between transactions are observable in tests.
type memStore struct {
	mu sync.Mutex

	spots        map[int32]domain.ParkingSpot
	reservations map[int32]domain.Reservation
	customers    map[int32]domain.Customer
	vehicles     map[int32]domain.Vehicle
	notes        []domain.Notification
	idemKeys     map[string]int32

	nextSpotID int32
	nextRsvID  int32
	nextNoteID int32
}

func newMemStore() *memStore {
	return &memStore{
		spots:        make(map[int32]domain.ParkingSpot),
		reservations: make(map[int32]domain.Reservation),
		customers:    make(map[int32]domain.Customer),
		vehicles:     make(map[int32]domain.Vehicle),
		idemKeys:     make(map[string]int32),
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(repository.TxStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(txView{m})
}

func (m *memStore) SpotRepo() repository.SpotRepository                 { return memSpots{m} }
func (m *memStore) ReservationRepo() repository.ReservationRepository   { return memReservations{m} }
func (m *memStore) CustomerRepo() repository.CustomerRepository         { return memCustomers{m} }
func (m *memStore) VehicleRepo() repository.VehicleRepository           { return memVehicles{m} }
func (m *memStore) NotificationRepo() repository.NotificationRepository { return memNotes{m} }

func (m *memStore) addCustomer(c domain.Customer) { m.customers[c.ID] = c }
func (m *memStore) addVehicle(v domain.Vehicle)   { m.vehicles[v.ID] = v }

func (m *memStore) addSpot(s domain.ParkingSpot) {
	m.spots[s.ID] = s
	if s.ID > m.nextSpotID {
		m.nextSpotID = s.ID
	}
}

func (m *memStore) spot(id int32) domain.ParkingSpot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spots[id]
}

func (m *memStore) reservation(id int32) domain.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservations[id]
}

func (m *memStore) reservationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reservations)
}

func (m *memStore) notifications() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Notification(nil), m.notes...)
}

// txView exposes the store inside WithinTx without re-locking.
type txView struct{ s *memStore }

func (v txView) Spots() repository.SpotRepository                     { return txSpots{v.s} }
func (v txView) Reservations() repository.ReservationRepository       { return txReservations{v.s} }
func (v txView) IdempotencyKeys() repository.IdempotencyKeyRepository { return txIdemKeys{v.s} }

// txSpots and friends carry the actual logic. The mem* adapters below wrap
// them in the store mutex for use outside a transaction.

type txSpots struct{ s *memStore }

func (r txSpots) Create(ctx context.Context, spot *domain.ParkingSpot) error {
	r.s.nextSpotID++
	spot.ID = r.s.nextSpotID
	r.s.spots[spot.ID] = *spot
	return nil
}

func (r txSpots) GetByID(ctx context.Context, id int32) (*domain.ParkingSpot, error) {
	spot, ok := r.s.spots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &spot, nil
}

func (r txSpots) GetByIDForUpdate(ctx context.Context, id int32) (*domain.ParkingSpot, error) {
	return r.GetByID(ctx, id)
}

func (r txSpots) Update(ctx context.Context, spot *domain.ParkingSpot) error {
	if _, ok := r.s.spots[spot.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.spots[spot.ID] = *spot
	return nil
}

func (r txSpots) List(ctx context.Context, status string, page, pageSize int32) ([]domain.ParkingSpot, int32, error) {
	var out []domain.ParkingSpot
	for _, spot := range r.s.spots {
		if status == "" || string(spot.Status) == status {
			out = append(out, spot)
		}
	}
	return out, int32(len(out)), nil
}

func (r txSpots) ListByOperator(ctx context.Context, operatorID int32) ([]domain.ParkingSpot, error) {
	var out []domain.ParkingSpot
	for _, spot := range r.s.spots {
		if spot.OperatorID == operatorID {
			out = append(out, spot)
		}
	}
	return out, nil
}

type txReservations struct{ s *memStore }

func (r txReservations) Create(ctx context.Context, rsv *domain.Reservation) error {
	r.s.nextRsvID++
	rsv.ID = r.s.nextRsvID
	r.s.reservations[rsv.ID] = *rsv
	return nil
}

func (r txReservations) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	rsv, ok := r.s.reservations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rsv, nil
}

func (r txReservations) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r txReservations) Update(ctx context.Context, rsv *domain.Reservation) error {
	if _, ok := r.s.reservations[rsv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.reservations[rsv.ID] = *rsv
	return nil
}

func (r txReservations) FindActiveBySpot(ctx context.Context, spotID int32) (*domain.Reservation, error) {
	for _, rsv := range r.s.reservations {
		if rsv.SpotID == spotID && rsv.Status == domain.ReservationStatusActive {
			found := rsv
			return &found, nil
		}
	}
	return nil, nil
}

func (r txReservations) FindActiveByVehicle(ctx context.Context, vehicleID int32) (*domain.Reservation, error) {
	for _, rsv := range r.s.reservations {
		if rsv.VehicleID == vehicleID && rsv.Status == domain.ReservationStatusActive {
			found := rsv
			return &found, nil
		}
	}
	return nil, nil
}

func (r txReservations) SearchByPlate(ctx context.Context, plate string) ([]domain.Reservation, error) {
	var vehicleID int32 = -1
	for _, v := range r.s.vehicles {
		if v.Plate == plate {
			vehicleID = v.ID
		}
	}
	var out []domain.Reservation
	for _, rsv := range r.s.reservations {
		if rsv.VehicleID == vehicleID {
			out = append(out, rsv)
		}
	}
	return out, nil
}

func (r txReservations) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	var out []domain.Reservation
	for _, rsv := range r.s.reservations {
		if rsv.CustomerID == customerID && (status == "" || string(rsv.Status) == status) {
			out = append(out, rsv)
		}
	}
	return out, int32(len(out)), nil
}

func (r txReservations) ListActivePastExpectedExit(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, rsv := range r.s.reservations {
		if rsv.Status == domain.ReservationStatusActive && rsv.ExpectedExitTime != nil && rsv.ExpectedExitTime.Before(asOf) {
			out = append(out, rsv)
		}
	}
	return out, nil
}

type txIdemKeys struct{ s *memStore }

func (r txIdemKeys) Get(ctx context.Context, key string) (int32, error) {
	id, ok := r.s.idemKeys[key]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func (r txIdemKeys) Put(ctx context.Context, key string, reservationID int32) error {
	r.s.idemKeys[key] = reservationID
	return nil
}

func (r txIdemKeys) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for key := range r.s.idemKeys {
		delete(r.s.idemKeys, key)
		n++
	}
	return n, nil
}

type memSpots struct{ s *memStore }

func (m memSpots) Create(ctx context.Context, spot *domain.ParkingSpot) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txSpots(m).Create(ctx, spot)
}

func (m memSpots) GetByID(ctx context.Context, id int32) (*domain.ParkingSpot, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txSpots(m).GetByID(ctx, id)
}

func (m memSpots) GetByIDForUpdate(ctx context.Context, id int32) (*domain.ParkingSpot, error) {
	return m.GetByID(ctx, id)
}

func (m memSpots) Update(ctx context.Context, spot *domain.ParkingSpot) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txSpots(m).Update(ctx, spot)
}

func (m memSpots) List(ctx context.Context, status string, page, pageSize int32) ([]domain.ParkingSpot, int32, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txSpots(m).List(ctx, status, page, pageSize)
}

func (m memSpots) ListByOperator(ctx context.Context, operatorID int32) ([]domain.ParkingSpot, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txSpots(m).ListByOperator(ctx, operatorID)
}

type memReservations struct{ s *memStore }

func (m memReservations) Create(ctx context.Context, rsv *domain.Reservation) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txReservations(m).Create(ctx, rsv)
}

func (m memReservations) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txReservations(m).GetByID(ctx, id)
}

func (m memReservations) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Reservation, error) {
	return m.GetByID(ctx, id)
}

func (m memReservations) Update(ctx context.Context, rsv *domain.Reservation) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txReservations(m).Update(ctx, rsv)
}

func (m memReservations) FindActiveBySpot(ctx context.Context, spotID int32) (*domain.Reservation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txReservations(m).FindActiveBySpot(ctx, spotID)
}

func (m memReservations) FindActiveByVehicle(ctx context.Context, vehicleID int32) (*domain.Reservation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txReservations(m).FindActiveByVehicle(ctx, vehicleID)
}

func (m memReservations) SearchByPlate(ctx context.Context, plate string) ([]domain.Reservation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txReservations(m).SearchByPlate(ctx, plate)
}

func (m memReservations) ListByCustomer(ctx context.Context, customerID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txReservations(m).ListByCustomer(ctx, customerID, status, page, pageSize)
}

func (m memReservations) ListActivePastExpectedExit(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return txReservations(m).ListActivePastExpectedExit(ctx, asOf)
}

type memCustomers struct{ s *memStore }

func (m memCustomers) Create(ctx context.Context, customer *domain.Customer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	customer.ID = int32(len(m.s.customers) + 1)
	m.s.customers[customer.ID] = *customer
	return nil
}

func (m memCustomers) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m memCustomers) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.customers {
		if c.Email == email {
			found := c
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m memCustomers) Update(ctx context.Context, customer *domain.Customer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.customers[customer.ID]; !ok {
		return domain.ErrNotFound
	}
	m.s.customers[customer.ID] = *customer
	return nil
}

type memVehicles struct{ s *memStore }

func (m memVehicles) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	vehicle.ID = int32(len(m.s.vehicles) + 1)
	m.s.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (m memVehicles) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	v, ok := m.s.vehicles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (m memVehicles) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, v := range m.s.vehicles {
		if v.Plate == plate {
			found := v
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m memVehicles) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Vehicle, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []domain.Vehicle
	for _, v := range m.s.vehicles {
		if v.CustomerID == customerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m memVehicles) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.vehicles[vehicle.ID]; !ok {
		return domain.ErrNotFound
	}
	m.s.vehicles[vehicle.ID] = *vehicle
	return nil
}

type memNotes struct{ s *memStore }

func (m memNotes) Create(ctx context.Context, note *domain.Notification) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.nextNoteID++
	note.ID = m.s.nextNoteID
	m.s.notes = append(m.s.notes, *note)
	return nil
}

func (m memNotes) List(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []domain.Notification
	for _, n := range m.s.notes {
		if n.CustomerID == customerID {
			out = append(out, n)
		}
	}
	return out, int32(len(out)), nil
}

func (m memNotes) MarkAsRead(ctx context.Context, id, customerID int32) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.notes {
		if m.s.notes[i].ID == id && m.s.notes[i].CustomerID == customerID {
			m.s.notes[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeEmail records sends instead of dialing SMTP.
type fakeEmail struct {
	mu            sync.Mutex
	confirmations []string
	receipts      []string
	reminders     []string
}

func (f *fakeEmail) SendReservationConfirmation(ctx context.Context, email, name, spotNumber, plate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, email)
	return nil
}

func (f *fakeEmail) SendParkingReceipt(ctx context.Context, email, name, spotNumber string, amountCents int64, entryTime, exitTime time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts = append(f.receipts, email)
	return nil
}

func (f *fakeEmail) SendOverstayReminder(ctx context.Context, email, name, spotNumber string, expectedExit time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, email)
	return nil
}

func (f *fakeEmail) confirmationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.confirmations)
}

func (f *fakeEmail) receiptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.receipts)
}

// fakeClock is a settable Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
