package service

import (
	"context"
	"sync"
	"time"

	"github.com/sultan1coder/BUS-ROUTE-sub001/module/core/domain"
)

// Function-field mocks shared across the service tests. A nil field means
// "not expected to be called" for mutations and "return empty" for reads.

type mockLocationRepo struct {
	insertFn         func(ctx context.Context, loc *domain.VehicleLocation) error
	getLatestFn      func(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error)
	getLatestBatchFn func(ctx context.Context, vehicleIDs []string) ([]domain.VehicleLocation, error)
	getHistoryFn     func(ctx context.Context, query *domain.HistoryQuery) (*domain.HistoryPage, error)
	getRecentFn      func(ctx context.Context, vehicleID string, since time.Time, limit int) ([]domain.VehicleLocation, error)
	getAllVehiclesFn func(ctx context.Context) ([]domain.Vehicle, error)
	purgeFn          func(ctx context.Context, cutoff time.Time) (int64, error)

	mu       sync.Mutex
	inserted []*domain.VehicleLocation
}

func (m *mockLocationRepo) Insert(ctx context.Context, loc *domain.VehicleLocation) error {
	m.mu.Lock()
	m.inserted = append(m.inserted, loc)
	m.mu.Unlock()
	if m.insertFn != nil {
		return m.insertFn(ctx, loc)
	}
	return nil
}

func (m *mockLocationRepo) GetLatest(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error) {
	return m.getLatestFn(ctx, vehicleID)
}

func (m *mockLocationRepo) GetLatestBatch(ctx context.Context, vehicleIDs []string) ([]domain.VehicleLocation, error) {
	return m.getLatestBatchFn(ctx, vehicleIDs)
}

func (m *mockLocationRepo) GetHistory(ctx context.Context, query *domain.HistoryQuery) (*domain.HistoryPage, error) {
	return m.getHistoryFn(ctx, query)
}

func (m *mockLocationRepo) GetRecent(ctx context.Context, vehicleID string, since time.Time, limit int) ([]domain.VehicleLocation, error) {
	if m.getRecentFn != nil {
		return m.getRecentFn(ctx, vehicleID, since, limit)
	}
	return nil, nil
}

func (m *mockLocationRepo) GetAllVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return m.getAllVehiclesFn(ctx)
}

func (m *mockLocationRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.purgeFn(ctx, cutoff)
}

type mockGeofenceRepo struct {
	getActiveFn func(ctx context.Context, vehicleID string) ([]domain.Geofence, error)
	setActiveFn func(ctx context.Context, id int64, active bool) error
}

func (m *mockGeofenceRepo) GetActiveByVehicle(ctx context.Context, vehicleID string) ([]domain.Geofence, error) {
	return m.getActiveFn(ctx, vehicleID)
}

func (m *mockGeofenceRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return m.setActiveFn(ctx, id, active)
}

type mockAlertRepo struct {
	insertFn func(ctx context.Context, alert *domain.Alert) error

	mu       sync.Mutex
	inserted []*domain.Alert
}

func (m *mockAlertRepo) Insert(ctx context.Context, alert *domain.Alert) error {
	m.mu.Lock()
	m.inserted = append(m.inserted, alert)
	m.mu.Unlock()
	if m.insertFn != nil {
		return m.insertFn(ctx, alert)
	}
	return nil
}

func (m *mockAlertRepo) Resolve(ctx context.Context, id string) error { return nil }

func (m *mockAlertRepo) GetRecent(ctx context.Context, limit int) ([]domain.Alert, error) {
	return nil, nil
}

type mockViolationRepo struct {
	insertFn    func(ctx context.Context, v *domain.SpeedViolation) error
	countFn     func(ctx context.Context, filter *domain.ViolationFilter) (map[domain.Severity]int, error)
	topFn       func(ctx context.Context, filter *domain.ViolationFilter, n int) ([]domain.VehicleViolationCount, error)
	getRecentFn func(ctx context.Context, filter *domain.ViolationFilter, limit int) ([]domain.SpeedViolation, error)
	purgeFn     func(ctx context.Context, cutoff time.Time) (int64, error)

	mu       sync.Mutex
	inserted []*domain.SpeedViolation
}

func (m *mockViolationRepo) Insert(ctx context.Context, v *domain.SpeedViolation) error {
	m.mu.Lock()
	m.inserted = append(m.inserted, v)
	m.mu.Unlock()
	if m.insertFn != nil {
		return m.insertFn(ctx, v)
	}
	return nil
}

func (m *mockViolationRepo) CountBySeverity(ctx context.Context, filter *domain.ViolationFilter) (map[domain.Severity]int, error) {
	return m.countFn(ctx, filter)
}

func (m *mockViolationRepo) TopVehicles(ctx context.Context, filter *domain.ViolationFilter, n int) ([]domain.VehicleViolationCount, error) {
	return m.topFn(ctx, filter, n)
}

func (m *mockViolationRepo) GetRecent(ctx context.Context, filter *domain.ViolationFilter, limit int) ([]domain.SpeedViolation, error) {
	return m.getRecentFn(ctx, filter, limit)
}

func (m *mockViolationRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.purgeFn(ctx, cutoff)
}

type mockRouteRepo struct {
	getActiveRouteFn  func(ctx context.Context, vehicleID string) (*domain.Route, error)
	getStopsFn        func(ctx context.Context, routeID int64) ([]domain.Stop, error)
	getStopFn         func(ctx context.Context, stopID int64) (*domain.Stop, error)
	getStopArrivalsFn func(ctx context.Context, stopID int64, limit int) ([]domain.StopArrival, error)
}

func (m *mockRouteRepo) GetActiveRoute(ctx context.Context, vehicleID string) (*domain.Route, error) {
	return m.getActiveRouteFn(ctx, vehicleID)
}

func (m *mockRouteRepo) GetStops(ctx context.Context, routeID int64) ([]domain.Stop, error) {
	return m.getStopsFn(ctx, routeID)
}

func (m *mockRouteRepo) GetStop(ctx context.Context, stopID int64) (*domain.Stop, error) {
	return m.getStopFn(ctx, stopID)
}

func (m *mockRouteRepo) GetStopArrivals(ctx context.Context, stopID int64, limit int) ([]domain.StopArrival, error) {
	return m.getStopArrivalsFn(ctx, stopID, limit)
}

type mockNotifier struct {
	notifyFn func(ctx context.Context, alert *domain.Alert) error

	calls []*domain.Alert
}

func (m *mockNotifier) Notify(ctx context.Context, alert *domain.Alert) error {
	m.calls = append(m.calls, alert)
	if m.notifyFn != nil {
		return m.notifyFn(ctx, alert)
	}
	return nil
}

type publishedEvent struct {
	event   string
	payload any
}

type mockEventPublisher struct {
	publishFn func(ctx context.Context, event string, payload any) error

	mu     sync.Mutex
	events []publishedEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, event string, payload any) error {
	m.mu.Lock()
	m.events = append(m.events, publishedEvent{event: event, payload: payload})
	m.mu.Unlock()
	if m.publishFn != nil {
		return m.publishFn(ctx, event, payload)
	}
	return nil
}
