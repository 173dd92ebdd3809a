package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"carrental/pkg/logger"
	"carrental/pkg/models"
	"carrental/pkg/rental"
	"carrental/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

var testNow = time.Date(2030, 3, 1, 10, 0, 0, 0, time.UTC)

// fakeStore is an in-memory backend. Operations named in fail return that
// error; operations named in slow block until their context ends.
type fakeStore struct {
	mu           sync.Mutex
	clients      map[string]*models.Client
	vehicles     map[string]*models.Vehicle
	reservations map[string]*models.Reservation
	reviews      map[string]*models.Review
	favorites    map[string]map[string]bool

	fail map[string]error
	slow map[string]bool
	late map[string]bool

	// beforeUpdate runs inside reservation status writes to simulate another device.
	beforeUpdate func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clients: map[string]*models.Client{
			"client-1": {
				ID: "client-1", FirstName: "Amina", LastName: "Benali", Email: "amina@example.com",
				NationalID: "AB123456", Passport: "P0998877", Address: "12 Rue des Fleurs",
				Phone: "+212600000000", LicenseNumber: "DL-44521", LicenseExpiry: testNow.AddDate(3, 0, 0),
			},
			"client-2": {
				ID: "client-2", FirstName: "Yassine", LastName: "Alaoui", Email: "yassine@example.com",
				NationalID: "CD654321", Passport: "P1122334", Address: "3 Avenue Hassan II",
				Phone: "+212611111111", LicenseNumber: "DL-99887", LicenseExpiry: testNow.AddDate(0, -2, 0),
			},
		},
		vehicles: map[string]*models.Vehicle{
			"vehicle-1": {ID: "vehicle-1", Make: "Renault", Model: "Clio", VehicleType: "Car", Category: "Sedan", Seats: 5, PricePerDay: 50},
			"vehicle-2": {ID: "vehicle-2", Make: "Dacia", Model: "Duster", VehicleType: "Car", Category: "SUV", Seats: 5, PricePerDay: 70},
		},
		reservations: map[string]*models.Reservation{},
		reviews:      map[string]*models.Review{},
		favorites:    map[string]map[string]bool{},
		fail:         map[string]error{},
		slow:         map[string]bool{},
		late:         map[string]bool{},
	}
}

// ack is called after a write is applied. Operations named in late apply
// the write but only answer once their context ends.
func (f *fakeStore) ack(ctx context.Context, op string) error {
	if f.late[op] {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakeStore) call(ctx context.Context, op string) error {
	if f.slow[op] {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.fail[op]
}

func (f *fakeStore) Client() storage.IClientStorage           { return fakeClients{f} }
func (f *fakeStore) Vehicle() storage.IVehicleStorage         { return fakeVehicles{f} }
func (f *fakeStore) Reservation() storage.IReservationStorage { return fakeReservations{f} }
func (f *fakeStore) Review() storage.IReviewStorage           { return fakeReviews{f} }
func (f *fakeStore) Favorite() storage.IFavoriteStorage       { return fakeFavorites{f} }
func (f *fakeStore) Close()                                   {}
func (f *fakeStore) GetPool() *pgxpool.Pool                   { return nil }

type fakeClients struct{ *fakeStore }

func (f fakeClients) GetByID(ctx context.Context, id string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil, &rental.NotFoundError{Kind: "client", ID: id}
	}
	cp := *c
	return &cp, nil
}

func (f fakeClients) GetByTelegramID(ctx context.Context, teleID int64) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if c.TelegramID != nil && *c.TelegramID == teleID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, &rental.NotFoundError{Kind: "client", ID: fmt.Sprint(teleID)}
}

func (f fakeClients) LinkTelegram(ctx context.Context, id string, teleID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return &rental.NotFoundError{Kind: "client", ID: id}
	}
	c.TelegramID = &teleID
	return nil
}

type fakeVehicles struct{ *fakeStore }

func (f fakeVehicles) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return nil, &rental.NotFoundError{Kind: "vehicle", ID: id}
	}
	cp := *v
	return &cp, nil
}

func (f fakeVehicles) GetAll(ctx context.Context) ([]*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Vehicle
	for _, v := range f.vehicles {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeVehicles) RefreshRating(ctx context.Context, id string) (float64, error) {
	if err := f.call(ctx, "vehicle.rating"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return 0, &rental.NotFoundError{Kind: "vehicle", ID: id}
	}
	var reviews []models.Review
	for _, r := range f.reviews {
		if r.VehicleID == id {
			reviews = append(reviews, *r)
		}
	}
	v.AverageRating = rental.RecomputeAverage(reviews)
	return v.AverageRating, nil
}

type fakeReservations struct{ *fakeStore }

func (f fakeReservations) Create(ctx context.Context, r *models.Reservation) (*models.Reservation, error) {
	if err := f.call(ctx, "reservation.create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.reservations[r.ID] = &cp
	out := cp
	return &out, nil
}

func (f fakeReservations) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, &rental.NotFoundError{Kind: "reservation", ID: id}
	}
	cp := *r
	return &cp, nil
}

func (f fakeReservations) GetClientReservations(ctx context.Context, clientID string) ([]*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Reservation
	for _, r := range f.reservations {
		if r.ClientID == clientID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f fakeReservations) UpdateStatus(ctx context.Context, r *models.Reservation, expected models.Reservation) error {
	if err := f.call(ctx, "reservation.update"); err != nil {
		return err
	}
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.reservations[r.ID]
	if !ok {
		return &rental.NotFoundError{Kind: "reservation", ID: r.ID}
	}
	if stored.Status != expected.Status || stored.PaymentStatus != expected.PaymentStatus {
		return &rental.InvalidTransitionError{Action: "update", Status: expected.Status, PaymentStatus: expected.PaymentStatus}
	}
	stored.Status = r.Status
	stored.PaymentStatus = r.PaymentStatus
	stored.PaymentMethod = r.PaymentMethod
	return nil
}

type fakeReviews struct{ *fakeStore }

func (f fakeReviews) GetByVehicle(ctx context.Context, vehicleID string) ([]*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Review
	for _, r := range f.reviews {
		if r.VehicleID == vehicleID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeReviews) Create(ctx context.Context, review *models.Review) error {
	if err := f.call(ctx, "review.create"); err != nil {
		return err
	}
	f.mu.Lock()
	for _, r := range f.reviews {
		if r.ClientID == review.ClientID && r.VehicleID == review.VehicleID {
			f.mu.Unlock()
			return &rental.DuplicateReviewError{ClientID: review.ClientID, VehicleID: review.VehicleID}
		}
	}
	cp := *review
	f.reviews[review.ID] = &cp
	f.mu.Unlock()
	return f.ack(ctx, "review.create")
}

func (f fakeReviews) Update(ctx context.Context, review *models.Review) error {
	if err := f.call(ctx, "review.update"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[review.ID]; !ok {
		return &rental.NotFoundError{Kind: "review", ID: review.ID}
	}
	cp := *review
	f.reviews[review.ID] = &cp
	return nil
}

func (f fakeReviews) Delete(ctx context.Context, id string) error {
	if err := f.call(ctx, "review.delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[id]; !ok {
		return &rental.NotFoundError{Kind: "review", ID: id}
	}
	delete(f.reviews, id)
	return nil
}

type fakeFavorites struct{ *fakeStore }

func (f fakeFavorites) GetClientFavorites(ctx context.Context, clientID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id := range f.favorites[clientID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f fakeFavorites) Add(ctx context.Context, clientID, vehicleID string) error {
	if err := f.call(ctx, "favorite.add"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.favorites[clientID] == nil {
		f.favorites[clientID] = map[string]bool{}
	}
	f.favorites[clientID][vehicleID] = true
	return nil
}

func (f fakeFavorites) Remove(ctx context.Context, clientID, vehicleID string) error {
	if err := f.call(ctx, "favorite.remove"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.favorites[clientID], vehicleID)
	return nil
}

func newTestServices(stg *fakeStore) IServiceManager {
	return New(stg, logger.NewNop(), Options{
		BackendTimeout: 50 * time.Millisecond,
		Now:            func() time.Time { return testNow },
	})
}
