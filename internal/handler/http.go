package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cargolink/freight-service/internal/entities"
	"github.com/cargolink/freight-service/internal/middleware"
	"github.com/cargolink/freight-service/internal/service"
	"github.com/cargolink/freight-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type ShipmentService interface {
	PublishShipment(ctx context.Context, actor entities.Actor, shipment entities.Shipment) (entities.Shipment, error)
	UpdateStatus(ctx context.Context, actor entities.Actor, shipmentID int64, to entities.ShipmentStatus, note string) (entities.Shipment, error)
	GetShipment(ctx context.Context, id int64) (entities.Shipment, error)
	ListShipments(ctx context.Context, actor entities.Actor) ([]entities.Shipment, error)
	Track(ctx context.Context, code string) (entities.Shipment, error)
}

type OfferService interface {
	CreateOffer(ctx context.Context, actor entities.Actor, offer entities.Offer) (entities.Offer, error)
	AcceptOffer(ctx context.Context, actor entities.Actor, shipmentID, offerID int64) (service.AcceptResult, error)
	RejectOffer(ctx context.Context, actor entities.Actor, offerID int64) (entities.Offer, error)
	WithdrawOffer(ctx context.Context, actor entities.Actor, offerID int64) (entities.Offer, error)
	UpdateOffer(ctx context.Context, actor entities.Actor, offer entities.Offer) (entities.Offer, error)
	ListOffers(ctx context.Context, actor entities.Actor, shipmentID int64) ([]entities.Offer, error)
}

type CodeAllocator interface {
	Allocate(ctx context.Context, carrierUserID int64) (string, error)
}

type Inbox interface {
	ListInbox(ctx context.Context, actor entities.Actor, unreadOnly bool) ([]entities.Notification, error)
	MarkRead(ctx context.Context, actor entities.Actor, id int64) error
	Delete(ctx context.Context, actor entities.Actor, id int64) error
}

type HTTPHandler struct {
	logger    *slog.Logger
	validate  *validator.Validate
	shipments ShipmentService
	offers    OfferService
	allocator CodeAllocator
	inbox     Inbox
}

func NewHTTPHandler(logger *slog.Logger, shipments ShipmentService, offers OfferService, allocator CodeAllocator, inbox Inbox) *HTTPHandler {
	return &HTTPHandler{
		logger:    logger.With(slog.String("handler", "http")),
		validate:  validator.New(),
		shipments: shipments,
		offers:    offers,
		allocator: allocator,
		inbox:     inbox,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Get("/shipments/track/{code}", h.Track)
	r.Get("/swagger/*", httpSwagger.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Actor)

		r.Post("/shipments", h.PublishShipment)
		r.Get("/shipments", h.ListShipments)
		r.Get("/shipments/{id}", h.GetShipment)
		r.Patch("/shipments/{id}/status", h.UpdateShipmentStatus)

		r.Post("/shipments/{id}/offers", h.CreateOffer)
		r.Get("/shipments/{id}/offers", h.ListOffers)
		r.Post("/shipments/{id}/offers/{offer_id}/accept", h.AcceptOffer)
		r.Post("/offers/{id}/reject", h.RejectOffer)
		r.Post("/offers/{id}/withdraw", h.WithdrawOffer)
		r.Patch("/offers/{id}", h.UpdateOffer)

		r.Post("/carriers/{id}/code", h.AllocateCarrierCode)

		r.Get("/notifications", h.ListNotifications)
		r.Post("/notifications/{id}/read", h.MarkNotificationRead)
		r.Delete("/notifications/{id}", h.DeleteNotification)
	})
}

// PublishShipment creates a shipment open for offers.
// @Summary      Publish a shipment
// @Description  Creates a shipment in waiting_for_offers with a fresh tracking code
// @Tags         shipments
// @Accept       json
// @Param        request  body      CreateShipmentRequest  true  "Shipment draft"
// @Success      201  {object}  Shipment
// @Failure      400  {object}  utils.ValidationErrorResponse
// @Failure      401  {object}  utils.ErrorResponse
// @Router       /shipments [post]
func (h *HTTPHandler) PublishShipment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	var req CreateShipmentRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	shipment, err := ShipmentRequestToEntity(req)
	if err != nil {
		utils.WriteError(w, "invalid amount", http.StatusBadRequest)
		return
	}

	created, err := h.shipments.PublishShipment(ctx, actor, shipment)
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}

	shipmentsPublished.Inc()
	utils.WriteJSON(w, ShipmentEntityToJSON(created), http.StatusCreated)
}

func (h *HTTPHandler) ListShipments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	shipments, err := h.shipments.ListShipments(ctx, actor)
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}

	result := make([]Shipment, 0, len(shipments))
	for _, s := range shipments {
		result = append(result, ShipmentEntityToJSON(s))
	}
	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *HTTPHandler) GetShipment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := paramInt64(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid shipment id", http.StatusBadRequest)
		return
	}

	shipment, err := h.shipments.GetShipment(ctx, id)
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, ShipmentEntityToJSON(shipment), http.StatusOK)
}

// Track is the public tracking lookup.
// @Summary      Track a shipment
// @Tags         shipments
// @Param        code  path  string  true  "Tracking code"
// @Success      200  {object}  Shipment
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /shipments/track/{code} [get]
func (h *HTTPHandler) Track(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	if err := h.validate.Var(code, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	shipment, err := h.shipments.Track(ctx, code)
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, ShipmentEntityToJSON(shipment), http.StatusOK)
}

// UpdateShipmentStatus applies one lifecycle transition.
// @Summary      Update shipment status
// @Tags         shipments
// @Accept       json
// @Param        id       path  int                          true  "Shipment id"
// @Param        request  body  UpdateShipmentStatusRequest  true  "Transition"
// @Success      200  {object}  Shipment
// @Failure      409  {object}  utils.ErrorResponse "Illegal transition"
// @Router       /shipments/{id}/status [patch]
func (h *HTTPHandler) UpdateShipmentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	id, err := paramInt64(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid shipment id", http.StatusBadRequest)
		return
	}

	var req UpdateShipmentStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	shipment, err := h.shipments.UpdateStatus(ctx, actor, id, entities.ShipmentStatus(req.Status), req.Note)
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, ShipmentEntityToJSON(shipment), http.StatusOK)
}

// CreateOffer places a carrier's offer against an open shipment.
// @Summary      Create an offer
// @Tags         offers
// @Accept       json
// @Param        id       path  int                 true  "Shipment id"
// @Param        request  body  CreateOfferRequest  true  "Offer"
// @Success      201  {object}  Offer
// @Failure      409  {object}  utils.ErrorResponse "Shipment not open or duplicate pending offer"
// @Router       /shipments/{id}/offers [post]
func (h *HTTPHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	shipmentID, err := paramInt64(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid shipment id", http.StatusBadRequest)
		return
	}

	var req CreateOfferRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	priceCents, err := service.PriceToCents(req.Price)
	if err != nil {
		utils.WriteError(w, "invalid amount", http.StatusBadRequest)
		return
	}

	offer, err := h.offers.CreateOffer(ctx, actor, entities.Offer{
		ShipmentID: shipmentID,
		DriverID:   req.DriverID,
		PriceCents: priceCents,
		Message:    req.Message,
		ETA:        timeOrZero(req.ETA),
	})
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}

	offersCreated.Inc()
	utils.WriteJSON(w, OfferEntityToJSON(offer), http.StatusCreated)
}

func (h *HTTPHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	shipmentID, err := paramInt64(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid shipment id", http.StatusBadRequest)
		return
	}

	offers, err := h.offers.ListOffers(ctx, actor, shipmentID)
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}

	result := make([]Offer, 0, len(offers))
	for _, o := range offers {
		result = append(result, OfferEntityToJSON(o))
	}
	utils.WriteJSON(w, result, http.StatusOK)
}

// AcceptOffer accepts one offer, rejects the rest, and settles the commission.
// @Summary      Accept an offer
// @Tags         offers
// @Param        id        path  int  true  "Shipment id"
// @Param        offer_id  path  int  true  "Offer id"
// @Success      200  {object}  AcceptOfferResponse
// @Failure      403  {object}  utils.ErrorResponse "Not the shipment owner"
// @Failure      409  {object}  utils.ErrorResponse "Offer not pending"
// @Router       /shipments/{id}/offers/{offer_id}/accept [post]
func (h *HTTPHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	shipmentID, err := paramInt64(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid shipment id", http.StatusBadRequest)
		return
	}
	offerID, err := paramInt64(r, "offer_id")
	if err != nil {
		utils.WriteError(w, "invalid offer id", http.StatusBadRequest)
		return
	}

	result, err := h.offers.AcceptOffer(ctx, actor, shipmentID, offerID)
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}

	offersAccepted.Inc()
	utils.WriteJSON(w, AcceptOfferResponse{
		Shipment:   ShipmentEntityToJSON(result.Shipment),
		Offer:      OfferEntityToJSON(result.Offer),
		Commission: CommissionEntityToJSON(result.Commission),
	}, http.StatusOK)
}

func (h *HTTPHandler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	h.closeOffer(w, r, func(ctx context.Context, actor entities.Actor, offerID int64) (entities.Offer, error) {
		return h.offers.RejectOffer(ctx, actor, offerID)
	})
}

func (h *HTTPHandler) WithdrawOffer(w http.ResponseWriter, r *http.Request) {
	h.closeOffer(w, r, func(ctx context.Context, actor entities.Actor, offerID int64) (entities.Offer, error) {
		return h.offers.WithdrawOffer(ctx, actor, offerID)
	})
}

func (h *HTTPHandler) closeOffer(w http.ResponseWriter, r *http.Request, fn func(context.Context, entities.Actor, int64) (entities.Offer, error)) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	offerID, err := paramInt64(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid offer id", http.StatusBadRequest)
		return
	}

	offer, err := fn(ctx, actor, offerID)
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, OfferEntityToJSON(offer), http.StatusOK)
}

func (h *HTTPHandler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	offerID, err := paramInt64(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid offer id", http.StatusBadRequest)
		return
	}

	var req UpdateOfferRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	priceCents, err := service.PriceToCents(req.Price)
	if err != nil {
		utils.WriteError(w, "invalid amount", http.StatusBadRequest)
		return
	}

	offer, err := h.offers.UpdateOffer(ctx, actor, entities.Offer{
		ID:         offerID,
		PriceCents: priceCents,
		Message:    req.Message,
		ETA:        timeOrZero(req.ETA),
	})
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, OfferEntityToJSON(offer), http.StatusOK)
}

// AllocateCarrierCode assigns the permanent carrier code.
// @Summary      Allocate carrier code
// @Tags         carriers
// @Param        id  path  int  true  "Carrier user id"
// @Success      200  {object}  CarrierCodeResponse
// @Failure      500  {object}  utils.ErrorResponse "Allocation exhausted"
// @Router       /carriers/{id}/code [post]
func (h *HTTPHandler) AllocateCarrierCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	carrierID, err := paramInt64(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid carrier id", http.StatusBadRequest)
		return
	}
	// A carrier can only allocate their own code.
	if actor.Role == entities.RoleCarrier && actor.UserID != carrierID {
		utils.WriteError(w, "forbidden", http.StatusForbidden)
		return
	}

	code, err := h.allocator.Allocate(ctx, carrierID)
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, CarrierCodeResponse{Code: code}, http.StatusOK)
}

func (h *HTTPHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.inbox.ListInbox(ctx, actor, unreadOnly)
	if err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}

	result := make([]Notification, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, NotificationEntityToJSON(n))
	}
	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *HTTPHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	id, err := paramInt64(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	if err := h.inbox.MarkRead(ctx, actor, id); err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := middleware.ActorFromContext(ctx)

	id, err := paramInt64(r, "id")
	if err != nil {
		utils.WriteError(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	if err := h.inbox.Delete(ctx, actor, id); err != nil {
		h.writeDomainError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entities.ErrShipmentNotFound),
		errors.Is(err, entities.ErrOfferNotFound),
		errors.Is(err, entities.ErrCarrierNotFound),
		errors.Is(err, entities.ErrNotificationNotFound):
		utils.WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, entities.ErrShipmentNotOwned):
		utils.WriteError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, entities.ErrShipmentNotOpen),
		errors.Is(err, entities.ErrOfferNotPending),
		errors.Is(err, entities.ErrDuplicatePendingOffer),
		errors.Is(err, entities.ErrIllegalTransition):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, entities.ErrInvalidAmount):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(ctx, "internal error", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

func paramInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v <= 0 {
		return 0, errors.New("invalid path parameter")
	}
	return v, nil
}
