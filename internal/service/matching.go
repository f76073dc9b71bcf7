package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cargolink/freight-service/internal/entities"
	"github.com/cargolink/freight-service/pkg/trm"
)

// OfferRepo is the storage surface of the matching engine.
type OfferRepo interface {
	InsertOffer(ctx context.Context, o entities.Offer) (int64, error)
	GetOfferByID(ctx context.Context, id int64) (entities.Offer, error)
	GetOfferForUpdate(ctx context.Context, id int64) (entities.Offer, error)
	ListOffersByShipment(ctx context.Context, shipmentID int64) ([]entities.Offer, error)
	TransitionOffer(ctx context.Context, id int64, to entities.OfferStatus) error
	RejectOtherPending(ctx context.Context, shipmentID, winnerOfferID int64) ([]int64, error)
	UpdateOfferTerms(ctx context.Context, o entities.Offer) error

	GetShipmentByID(ctx context.Context, id int64) (entities.Shipment, error)
	GetShipmentForUpdate(ctx context.Context, id int64) (entities.Shipment, error)
	AssignShipment(ctx context.Context, id, carrierID, driverID int64) error
	AddShipmentEvent(ctx context.Context, e entities.ShipmentEvent) error

	InsertCommission(ctx context.Context, rec entities.CommissionRecord) error
}

// AcceptResult is what the shipper gets back from a successful accept:
// the new shipment state plus the commission breakdown.
type AcceptResult struct {
	Shipment   entities.Shipment
	Offer      entities.Offer
	Commission entities.CommissionBreakdown
}

type OfferService struct {
	logger     *slog.Logger
	txManager  trm.Manager
	repo       OfferRepo
	dispatcher Dispatcher
	cache      Cache
}

func NewOfferService(logger *slog.Logger, txManager trm.Manager, repo OfferRepo, dispatcher Dispatcher, cache Cache) *OfferService {
	return &OfferService{
		logger:     logger.With(slog.String("service", "offer")),
		txManager:  txManager,
		repo:       repo,
		dispatcher: dispatcher,
		cache:      cache,
	}
}

// CreateOffer places a pending offer from a carrier against an open shipment.
// The duplicate guard is the partial unique index, not a read: a concurrent
// duplicate insert loses with ErrDuplicatePendingOffer, never a raw 23505.
func (s *OfferService) CreateOffer(ctx context.Context, actor entities.Actor, offer entities.Offer) (entities.Offer, error) {
	if actor.Role != entities.RoleCarrier {
		return entities.Offer{}, entities.ErrShipmentNotOpen
	}
	offer.CarrierID = actor.UserID
	offer.Status = entities.OfferPending

	var shipmentTracking string
	var ownerID int64

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		shipment, err := s.repo.GetShipmentByID(ctx, offer.ShipmentID)
		if err != nil {
			return err
		}
		if shipment.Status != entities.ShipmentWaitingForOffers {
			return entities.ErrShipmentNotOpen
		}
		shipmentTracking = shipment.TrackingCode
		ownerID = shipment.OwnerID

		offer.ID, err = s.repo.InsertOffer(ctx, offer)
		return err
	})
	if err != nil {
		return entities.Offer{}, err
	}

	s.logger.InfoContext(ctx, "offer created",
		slog.Int64("offer_id", offer.ID),
		slog.Int64("shipment_id", offer.ShipmentID),
		slog.Int64("carrier_id", offer.CarrierID),
	)

	s.dispatcher.Dispatch(ctx, entities.Event{
		Kind:       "offer.created",
		ShipmentID: offer.ShipmentID,
		OfferID:    offer.ID,
		Recipients: []entities.EventRecipient{{
			UserID:  ownerID,
			Title:   "New offer received",
			Message: fmt.Sprintf("A carrier made an offer of %.2f on shipment %s", CentsToPrice(offer.PriceCents), shipmentTracking),
			Type:    entities.NotificationInfo,
		}},
	})

	return offer, nil
}

// AcceptOffer is the one multi-row operation in the system. Inside a single
// transaction it accepts the target offer, rejects every competing pending
// offer, stamps the shipment with the winning carrier and driver, and persists
// the commission record. Two concurrent accepts on the same shipment serialize
// on the row locks; the loser re-reads a non-pending offer and fails cleanly.
func (s *OfferService) AcceptOffer(ctx context.Context, actor entities.Actor, shipmentID, offerID int64) (AcceptResult, error) {
	var result AcceptResult
	var losers []int64

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		shipment, err := s.repo.GetShipmentForUpdate(ctx, shipmentID)
		if err != nil {
			return err
		}
		if shipment.OwnerID != actor.UserID {
			return entities.ErrShipmentNotOwned
		}
		if shipment.Status != entities.ShipmentWaitingForOffers {
			return entities.ErrShipmentNotOpen
		}

		offer, err := s.repo.GetOfferForUpdate(ctx, offerID)
		if err != nil {
			return err
		}
		if offer.ShipmentID != shipmentID {
			return entities.ErrOfferNotFound
		}
		if offer.Status != entities.OfferPending {
			return entities.ErrOfferNotPending
		}

		if err := s.repo.TransitionOffer(ctx, offerID, entities.OfferAccepted); err != nil {
			return err
		}

		losers, err = s.repo.RejectOtherPending(ctx, shipmentID, offerID)
		if err != nil {
			return err
		}

		driverID := offer.DriverID
		if driverID == 0 {
			driverID = offer.CarrierID
		}
		if err := s.repo.AssignShipment(ctx, shipmentID, offer.CarrierID, driverID); err != nil {
			return err
		}

		breakdown, err := CalculateCommission(offer.PriceCents)
		if err != nil {
			return err
		}
		if err := s.repo.InsertCommission(ctx, entities.CommissionRecord{
			OfferID:         offerID,
			PriceCents:      breakdown.PriceCents,
			RateBps:         breakdown.RateBps,
			CommissionCents: breakdown.CommissionCents,
			CarrierNetCents: breakdown.CarrierNetCents,
		}); err != nil {
			return err
		}

		if err := s.repo.AddShipmentEvent(ctx, entities.ShipmentEvent{
			ShipmentID: shipmentID,
			Status:     entities.ShipmentOfferAccepted,
			ActorID:    actor.UserID,
			Note:       fmt.Sprintf("offer %d accepted", offerID),
		}); err != nil {
			return err
		}

		shipment.Status = entities.ShipmentOfferAccepted
		shipment.CarrierID = offer.CarrierID
		shipment.DriverID = driverID
		offer.Status = entities.OfferAccepted

		result = AcceptResult{Shipment: shipment, Offer: offer, Commission: breakdown}
		return nil
	})
	if err != nil {
		return AcceptResult{}, acceptError(err)
	}

	s.logger.InfoContext(ctx, "offer accepted",
		slog.Int64("offer_id", offerID),
		slog.Int64("shipment_id", shipmentID),
		slog.Int64("carrier_id", result.Offer.CarrierID),
		slog.Int("rejected_offers", len(losers)),
	)

	s.cache.Invalidate(result.Shipment.TrackingCode)

	// Fan-out happens strictly after commit so nobody is notified about state
	// that might have rolled back.
	ev := entities.Event{
		Kind:       "offer.accepted",
		ShipmentID: shipmentID,
		OfferID:    offerID,
		Recipients: []entities.EventRecipient{
			{
				UserID:  result.Offer.CarrierID,
				Title:   "Offer accepted",
				Message: fmt.Sprintf("Your offer on shipment %s was accepted, net payout %.2f", result.Shipment.TrackingCode, CentsToPrice(result.Commission.CarrierNetCents)),
				Type:    entities.NotificationSuccess,
			},
			{
				UserID:  result.Shipment.OwnerID,
				Title:   "Offer accepted",
				Message: fmt.Sprintf("You accepted an offer of %.2f on shipment %s", CentsToPrice(result.Offer.PriceCents), result.Shipment.TrackingCode),
				Type:    entities.NotificationSuccess,
			},
		},
	}
	for _, carrierID := range losers {
		ev.Recipients = append(ev.Recipients, entities.EventRecipient{
			UserID:  carrierID,
			Title:   "Offer rejected",
			Message: fmt.Sprintf("Another offer was accepted on shipment %s", result.Shipment.TrackingCode),
			Type:    entities.NotificationError,
		})
	}
	s.dispatcher.Dispatch(ctx, ev)

	return result, nil
}

// acceptError keeps precondition failures intact and collapses everything else
// into the opaque transaction-abort error: the caller must not reason about
// partial progress.
func acceptError(err error) error {
	for _, sentinel := range []error{
		entities.ErrShipmentNotFound,
		entities.ErrShipmentNotOwned,
		entities.ErrShipmentNotOpen,
		entities.ErrOfferNotFound,
		entities.ErrOfferNotPending,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", entities.ErrTransactionAborted, err)
}

// RejectOffer lets the shipment owner decline a single pending offer.
func (s *OfferService) RejectOffer(ctx context.Context, actor entities.Actor, offerID int64) (entities.Offer, error) {
	return s.closeOffer(ctx, actor, offerID, entities.OfferRejected)
}

// WithdrawOffer lets the offering carrier pull a pending offer.
func (s *OfferService) WithdrawOffer(ctx context.Context, actor entities.Actor, offerID int64) (entities.Offer, error) {
	return s.closeOffer(ctx, actor, offerID, entities.OfferWithdrawn)
}

func (s *OfferService) closeOffer(ctx context.Context, actor entities.Actor, offerID int64, to entities.OfferStatus) (entities.Offer, error) {
	var offer entities.Offer
	var shipment entities.Shipment

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		offer, err = s.repo.GetOfferForUpdate(ctx, offerID)
		if err != nil {
			return err
		}
		shipment, err = s.repo.GetShipmentByID(ctx, offer.ShipmentID)
		if err != nil {
			return err
		}

		switch to {
		case entities.OfferRejected:
			if shipment.OwnerID != actor.UserID {
				return entities.ErrShipmentNotOwned
			}
		case entities.OfferWithdrawn:
			if offer.CarrierID != actor.UserID {
				return entities.ErrOfferNotPending
			}
		}

		if err := s.repo.TransitionOffer(ctx, offerID, to); err != nil {
			return err
		}
		offer.Status = to
		return nil
	})
	if err != nil {
		return entities.Offer{}, err
	}

	// One notification to the counterparty, nothing more.
	recipient := entities.EventRecipient{}
	if to == entities.OfferRejected {
		recipient = entities.EventRecipient{
			UserID:  offer.CarrierID,
			Title:   "Offer rejected",
			Message: fmt.Sprintf("The shipper declined your offer on shipment %s", shipment.TrackingCode),
			Type:    entities.NotificationError,
		}
	} else {
		recipient = entities.EventRecipient{
			UserID:  shipment.OwnerID,
			Title:   "Offer withdrawn",
			Message: fmt.Sprintf("A carrier withdrew their offer on shipment %s", shipment.TrackingCode),
			Type:    entities.NotificationInfo,
		}
	}
	s.dispatcher.Dispatch(ctx, entities.Event{
		Kind:       "offer." + string(to),
		ShipmentID: offer.ShipmentID,
		OfferID:    offerID,
		Recipients: []entities.EventRecipient{recipient},
	})

	return offer, nil
}

// UpdateOffer lets the carrier edit price/message/eta while the offer is still
// pending. Shipment state is untouched.
func (s *OfferService) UpdateOffer(ctx context.Context, actor entities.Actor, offer entities.Offer) (entities.Offer, error) {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetOfferForUpdate(ctx, offer.ID)
		if err != nil {
			return err
		}
		if current.CarrierID != actor.UserID {
			return entities.ErrOfferNotPending
		}
		if current.Status != entities.OfferPending {
			return entities.ErrOfferNotPending
		}

		if err := s.repo.UpdateOfferTerms(ctx, offer); err != nil {
			return err
		}

		current.PriceCents = offer.PriceCents
		current.Message = offer.Message
		current.ETA = offer.ETA
		offer = current
		return nil
	})
	if err != nil {
		return entities.Offer{}, err
	}
	return offer, nil
}

// ListOffers returns a shipment's offers: all of them for the owner, only the
// carrier's own otherwise.
func (s *OfferService) ListOffers(ctx context.Context, actor entities.Actor, shipmentID int64) ([]entities.Offer, error) {
	shipment, err := s.repo.GetShipmentByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	offers, err := s.repo.ListOffersByShipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	if shipment.OwnerID == actor.UserID {
		return offers, nil
	}

	own := make([]entities.Offer, 0, len(offers))
	for _, o := range offers {
		if o.CarrierID == actor.UserID {
			own = append(own, o)
		}
	}
	return own, nil
}
