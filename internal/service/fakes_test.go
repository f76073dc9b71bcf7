package service_test

import (
	"context"

	"github.com/cargolink/freight-service/internal/entities"
	"github.com/cargolink/freight-service/pkg/trm"
)

// fakeTxManager runs the callback inline and counts commits. A non-nil
// beginErr fails every transaction before the callback runs.
type fakeTxManager struct {
	beginErr error
	commits  int
}

func (m *fakeTxManager) BeginTx(ctx context.Context) (context.Context, trm.Transaction, error) {
	if m.beginErr != nil {
		return nil, nil, m.beginErr
	}
	return ctx, noopTx{}, nil
}

func (m *fakeTxManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	if err := callback(ctx); err != nil {
		return err
	}
	m.commits++
	return nil
}

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

// recordingDispatcher captures every event fanned out after commit.
type recordingDispatcher struct {
	events []entities.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev entities.Event) {
	d.events = append(d.events, ev)
}

func (d *recordingDispatcher) recipients() []entities.EventRecipient {
	var all []entities.EventRecipient
	for _, ev := range d.events {
		all = append(all, ev.Recipients...)
	}
	return all
}

type fakeCache struct {
	data        map[string][]byte
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value []byte) {
	c.data[key] = value
}

func (c *fakeCache) Invalidate(key string) {
	delete(c.data, key)
	c.invalidated = append(c.invalidated, key)
}

// fakeStore implements ShipmentRepo, OfferRepo and CarrierRepo through
// overridable function fields; unset methods succeed with zero values.
type fakeStore struct {
	OnCreateShipment        func(ctx context.Context, s entities.Shipment) (int64, error)
	OnGetShipmentByID       func(ctx context.Context, id int64) (entities.Shipment, error)
	OnGetShipmentForUpdate  func(ctx context.Context, id int64) (entities.Shipment, error)
	OnGetShipmentByTracking func(ctx context.Context, code string) (entities.Shipment, error)
	OnListShipmentsByOwner  func(ctx context.Context, ownerID int64) ([]entities.Shipment, error)
	OnUpdateShipmentStatus  func(ctx context.Context, id int64, status entities.ShipmentStatus) error
	OnAssignShipment        func(ctx context.Context, id, carrierID, driverID int64) error
	OnAddShipmentEvent      func(ctx context.Context, e entities.ShipmentEvent) error

	OnInsertOffer          func(ctx context.Context, o entities.Offer) (int64, error)
	OnGetOfferByID         func(ctx context.Context, id int64) (entities.Offer, error)
	OnGetOfferForUpdate    func(ctx context.Context, id int64) (entities.Offer, error)
	OnListOffersByShipment func(ctx context.Context, shipmentID int64) ([]entities.Offer, error)
	OnTransitionOffer      func(ctx context.Context, id int64, to entities.OfferStatus) error
	OnRejectOtherPending   func(ctx context.Context, shipmentID, winnerOfferID int64) ([]int64, error)
	OnUpdateOfferTerms     func(ctx context.Context, o entities.Offer) error

	OnInsertCommission func(ctx context.Context, rec entities.CommissionRecord) error

	OnGetCarrier     func(ctx context.Context, userID int64) (entities.Carrier, error)
	OnSetCarrierCode func(ctx context.Context, userID int64, code string) error
}

func (f *fakeStore) CreateShipment(ctx context.Context, s entities.Shipment) (int64, error) {
	if f.OnCreateShipment != nil {
		return f.OnCreateShipment(ctx, s)
	}
	return 1, nil
}

func (f *fakeStore) GetShipmentByID(ctx context.Context, id int64) (entities.Shipment, error) {
	if f.OnGetShipmentByID != nil {
		return f.OnGetShipmentByID(ctx, id)
	}
	return entities.Shipment{}, nil
}

func (f *fakeStore) GetShipmentForUpdate(ctx context.Context, id int64) (entities.Shipment, error) {
	if f.OnGetShipmentForUpdate != nil {
		return f.OnGetShipmentForUpdate(ctx, id)
	}
	return entities.Shipment{}, nil
}

func (f *fakeStore) GetShipmentByTracking(ctx context.Context, code string) (entities.Shipment, error) {
	if f.OnGetShipmentByTracking != nil {
		return f.OnGetShipmentByTracking(ctx, code)
	}
	return entities.Shipment{}, nil
}

func (f *fakeStore) ListShipmentsByOwner(ctx context.Context, ownerID int64) ([]entities.Shipment, error) {
	if f.OnListShipmentsByOwner != nil {
		return f.OnListShipmentsByOwner(ctx, ownerID)
	}
	return nil, nil
}

func (f *fakeStore) UpdateShipmentStatus(ctx context.Context, id int64, status entities.ShipmentStatus) error {
	if f.OnUpdateShipmentStatus != nil {
		return f.OnUpdateShipmentStatus(ctx, id, status)
	}
	return nil
}

func (f *fakeStore) AssignShipment(ctx context.Context, id, carrierID, driverID int64) error {
	if f.OnAssignShipment != nil {
		return f.OnAssignShipment(ctx, id, carrierID, driverID)
	}
	return nil
}

func (f *fakeStore) AddShipmentEvent(ctx context.Context, e entities.ShipmentEvent) error {
	if f.OnAddShipmentEvent != nil {
		return f.OnAddShipmentEvent(ctx, e)
	}
	return nil
}

func (f *fakeStore) InsertOffer(ctx context.Context, o entities.Offer) (int64, error) {
	if f.OnInsertOffer != nil {
		return f.OnInsertOffer(ctx, o)
	}
	return 1, nil
}

func (f *fakeStore) GetOfferByID(ctx context.Context, id int64) (entities.Offer, error) {
	if f.OnGetOfferByID != nil {
		return f.OnGetOfferByID(ctx, id)
	}
	return entities.Offer{}, nil
}

func (f *fakeStore) GetOfferForUpdate(ctx context.Context, id int64) (entities.Offer, error) {
	if f.OnGetOfferForUpdate != nil {
		return f.OnGetOfferForUpdate(ctx, id)
	}
	return entities.Offer{}, nil
}

func (f *fakeStore) ListOffersByShipment(ctx context.Context, shipmentID int64) ([]entities.Offer, error) {
	if f.OnListOffersByShipment != nil {
		return f.OnListOffersByShipment(ctx, shipmentID)
	}
	return nil, nil
}

func (f *fakeStore) TransitionOffer(ctx context.Context, id int64, to entities.OfferStatus) error {
	if f.OnTransitionOffer != nil {
		return f.OnTransitionOffer(ctx, id, to)
	}
	return nil
}

func (f *fakeStore) RejectOtherPending(ctx context.Context, shipmentID, winnerOfferID int64) ([]int64, error) {
	if f.OnRejectOtherPending != nil {
		return f.OnRejectOtherPending(ctx, shipmentID, winnerOfferID)
	}
	return nil, nil
}

func (f *fakeStore) UpdateOfferTerms(ctx context.Context, o entities.Offer) error {
	if f.OnUpdateOfferTerms != nil {
		return f.OnUpdateOfferTerms(ctx, o)
	}
	return nil
}

func (f *fakeStore) InsertCommission(ctx context.Context, rec entities.CommissionRecord) error {
	if f.OnInsertCommission != nil {
		return f.OnInsertCommission(ctx, rec)
	}
	return nil
}

func (f *fakeStore) GetCarrier(ctx context.Context, userID int64) (entities.Carrier, error) {
	if f.OnGetCarrier != nil {
		return f.OnGetCarrier(ctx, userID)
	}
	return entities.Carrier{}, nil
}

func (f *fakeStore) SetCarrierCode(ctx context.Context, userID int64, code string) error {
	if f.OnSetCarrierCode != nil {
		return f.OnSetCarrierCode(ctx, userID, code)
	}
	return nil
}
