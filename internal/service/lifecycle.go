package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/cargolink/freight-service/internal/entities"
	"github.com/cargolink/freight-service/pkg/trm"
)

// ShipmentRepo is the storage surface of the shipment lifecycle.
type ShipmentRepo interface {
	CreateShipment(ctx context.Context, s entities.Shipment) (int64, error)
	GetShipmentByID(ctx context.Context, id int64) (entities.Shipment, error)
	GetShipmentForUpdate(ctx context.Context, id int64) (entities.Shipment, error)
	GetShipmentByTracking(ctx context.Context, code string) (entities.Shipment, error)
	ListShipmentsByOwner(ctx context.Context, ownerID int64) ([]entities.Shipment, error)
	UpdateShipmentStatus(ctx context.Context, id int64, status entities.ShipmentStatus) error
	AddShipmentEvent(ctx context.Context, e entities.ShipmentEvent) error
	RejectOtherPending(ctx context.Context, shipmentID, winnerOfferID int64) ([]int64, error)
}

// Dispatcher receives one domain event per committed transition. It must never
// fail the operation that produced the event.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev entities.Event)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Invalidate(key string)
}

// The transition table. waiting_for_offers -> offer_accepted is deliberately
// absent: that transition only happens through OfferService.AcceptOffer.
var shipmentTransitions = map[entities.ShipmentStatus]map[entities.ShipmentStatus]func(entities.Actor, entities.Shipment) bool{
	entities.ShipmentDraft: {
		entities.ShipmentWaitingForOffers: ownerOnly,
	},
	entities.ShipmentWaitingForOffers: {
		entities.ShipmentCancelled: ownerOnly,
	},
	entities.ShipmentOfferAccepted: {
		entities.ShipmentInTransit: assignedTransport,
	},
	entities.ShipmentInTransit: {
		entities.ShipmentDelivered: assignedTransport,
	},
	entities.ShipmentDelivered: {
		entities.ShipmentCompleted: ownerOnly,
	},
}

func ownerOnly(a entities.Actor, s entities.Shipment) bool {
	return a.IsShipper() && a.UserID == s.OwnerID
}

func assignedTransport(a entities.Actor, s entities.Shipment) bool {
	return a.IsTransport() && (a.UserID == s.CarrierID || a.UserID == s.DriverID)
}

const trackingAttempts = 20

type ShipmentService struct {
	logger     *slog.Logger
	txManager  trm.Manager
	repo       ShipmentRepo
	dispatcher Dispatcher
	cache      Cache

	// overridable for deterministic tests
	genTracking func() string
}

func NewShipmentService(logger *slog.Logger, txManager trm.Manager, repo ShipmentRepo, dispatcher Dispatcher, cache Cache) *ShipmentService {
	return &ShipmentService{
		logger:      logger.With(slog.String("service", "shipment")),
		txManager:   txManager,
		repo:        repo,
		dispatcher:  dispatcher,
		cache:       cache,
		genTracking: func() string { return fmt.Sprintf("TRK-%08d", rand.Intn(100_000_000)) },
	}
}

// PublishShipment creates a shipment already open for offers. The tracking
// code is a fresh random candidate per attempt; the unique constraint on
// tracking_code arbitrates collisions.
func (s *ShipmentService) PublishShipment(ctx context.Context, actor entities.Actor, shipment entities.Shipment) (entities.Shipment, error) {
	if !actor.IsShipper() {
		return entities.Shipment{}, entities.ErrShipmentNotOwned
	}

	shipment.OwnerID = actor.UserID
	shipment.Status = entities.ShipmentWaitingForOffers

	var err error
	for attempt := 0; attempt < trackingAttempts; attempt++ {
		shipment.TrackingCode = s.genTracking()
		shipment.ID, err = s.repo.CreateShipment(ctx, shipment)
		if err == nil {
			break
		}
		if !errors.Is(err, entities.ErrCodeCollision) {
			return entities.Shipment{}, err
		}
	}
	if err != nil {
		return entities.Shipment{}, entities.ErrCodeAllocationExhausted
	}

	s.logger.InfoContext(ctx, "shipment published",
		slog.Int64("shipment_id", shipment.ID),
		slog.String("tracking_code", shipment.TrackingCode),
	)

	s.dispatcher.Dispatch(ctx, entities.Event{
		Kind:       "shipment.published",
		ShipmentID: shipment.ID,
		Recipients: []entities.EventRecipient{{
			UserID:  shipment.OwnerID,
			Title:   "Shipment published",
			Message: fmt.Sprintf("Shipment %s is now open for offers", shipment.TrackingCode),
			Type:    entities.NotificationSuccess,
		}},
	})

	return shipment, nil
}

// UpdateStatus applies one transition from the table above, inside a single
// transaction with the shipment row locked. Anything outside the table is
// ErrIllegalTransition and leaves state untouched.
func (s *ShipmentService) UpdateStatus(ctx context.Context, actor entities.Actor, shipmentID int64, to entities.ShipmentStatus, note string) (entities.Shipment, error) {
	if !to.Valid() {
		return entities.Shipment{}, entities.ErrIllegalTransition
	}

	var shipment entities.Shipment
	var rejectedCarriers []int64

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		shipment, err = s.repo.GetShipmentForUpdate(ctx, shipmentID)
		if err != nil {
			return err
		}

		allowed, ok := shipmentTransitions[shipment.Status][to]
		if !ok {
			return entities.ErrIllegalTransition
		}
		if !allowed(actor, shipment) {
			return entities.ErrShipmentNotOwned
		}

		if err := s.repo.UpdateShipmentStatus(ctx, shipmentID, to); err != nil {
			return err
		}
		if err := s.repo.AddShipmentEvent(ctx, entities.ShipmentEvent{
			ShipmentID: shipmentID,
			Status:     to,
			ActorID:    actor.UserID,
			Note:       note,
		}); err != nil {
			return err
		}

		// Cancelling an open shipment closes out every pending offer so no
		// carrier is left bidding on a dead load.
		if to == entities.ShipmentCancelled {
			rejectedCarriers, err = s.repo.RejectOtherPending(ctx, shipmentID, 0)
			if err != nil {
				return err
			}
		}

		shipment.Status = to
		return nil
	})
	if err != nil {
		return entities.Shipment{}, err
	}

	s.cache.Invalidate(shipment.TrackingCode)
	s.dispatcher.Dispatch(ctx, statusEvent(shipment, to, rejectedCarriers))

	return shipment, nil
}

func statusEvent(shipment entities.Shipment, to entities.ShipmentStatus, rejectedCarriers []int64) entities.Event {
	ev := entities.Event{
		Kind:       "shipment." + string(to),
		ShipmentID: shipment.ID,
	}

	switch to {
	case entities.ShipmentInTransit:
		ev.Recipients = append(ev.Recipients, entities.EventRecipient{
			UserID:  shipment.OwnerID,
			Title:   "Shipment picked up",
			Message: fmt.Sprintf("Shipment %s is in transit", shipment.TrackingCode),
			Type:    entities.NotificationInfo,
		})
	case entities.ShipmentDelivered:
		ev.Recipients = append(ev.Recipients, entities.EventRecipient{
			UserID:  shipment.OwnerID,
			Title:   "Shipment delivered",
			Message: fmt.Sprintf("Shipment %s was delivered, please confirm receipt", shipment.TrackingCode),
			Type:    entities.NotificationSuccess,
		})
	case entities.ShipmentCompleted:
		ev.Recipients = append(ev.Recipients, entities.EventRecipient{
			UserID:  shipment.CarrierID,
			Title:   "Shipment completed",
			Message: fmt.Sprintf("The shipper confirmed receipt of shipment %s", shipment.TrackingCode),
			Type:    entities.NotificationSuccess,
		})
	case entities.ShipmentCancelled:
		for _, carrierID := range rejectedCarriers {
			ev.Recipients = append(ev.Recipients, entities.EventRecipient{
				UserID:  carrierID,
				Title:   "Shipment cancelled",
				Message: fmt.Sprintf("Shipment %s was cancelled by the shipper", shipment.TrackingCode),
				Type:    entities.NotificationError,
			})
		}
	}
	return ev
}

func (s *ShipmentService) GetShipment(ctx context.Context, id int64) (entities.Shipment, error) {
	return s.repo.GetShipmentByID(ctx, id)
}

func (s *ShipmentService) ListShipments(ctx context.Context, actor entities.Actor) ([]entities.Shipment, error) {
	return s.repo.ListShipmentsByOwner(ctx, actor.UserID)
}

// Track is the public tracking lookup, served through the LRU cache.
func (s *ShipmentService) Track(ctx context.Context, code string) (entities.Shipment, error) {
	if data, ok := s.cache.Get(code); ok {
		var shipment entities.Shipment
		if err := shipment.Unmarshal(data); err != nil {
			s.logger.ErrorContext(ctx, "failed to unmarshal cached shipment", slog.Any("error", err))
			return entities.Shipment{}, err
		}
		return shipment, nil
	}

	shipment, err := s.repo.GetShipmentByTracking(ctx, code)
	if err != nil {
		return entities.Shipment{}, err
	}

	data, err := shipment.Marshal()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal shipment", slog.Any("error", err))
		return shipment, nil
	}
	s.cache.Set(code, data)
	return shipment, nil
}
