package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cargolink/freight-service/internal/entities"
	"github.com/cargolink/freight-service/internal/handler"
	"github.com/cargolink/freight-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShipments struct {
	publish func(actor entities.Actor, s entities.Shipment) (entities.Shipment, error)
	update  func(actor entities.Actor, id int64, to entities.ShipmentStatus, note string) (entities.Shipment, error)
	get     func(id int64) (entities.Shipment, error)
	list    func(actor entities.Actor) ([]entities.Shipment, error)
	track   func(code string) (entities.Shipment, error)
}

func (f *fakeShipments) PublishShipment(_ context.Context, actor entities.Actor, s entities.Shipment) (entities.Shipment, error) {
	return f.publish(actor, s)
}

func (f *fakeShipments) UpdateStatus(_ context.Context, actor entities.Actor, id int64, to entities.ShipmentStatus, note string) (entities.Shipment, error) {
	return f.update(actor, id, to, note)
}

func (f *fakeShipments) GetShipment(_ context.Context, id int64) (entities.Shipment, error) {
	return f.get(id)
}

func (f *fakeShipments) ListShipments(_ context.Context, actor entities.Actor) ([]entities.Shipment, error) {
	return f.list(actor)
}

func (f *fakeShipments) Track(_ context.Context, code string) (entities.Shipment, error) {
	return f.track(code)
}

type fakeOffers struct {
	create   func(actor entities.Actor, o entities.Offer) (entities.Offer, error)
	accept   func(actor entities.Actor, shipmentID, offerID int64) (service.AcceptResult, error)
	reject   func(actor entities.Actor, offerID int64) (entities.Offer, error)
	withdraw func(actor entities.Actor, offerID int64) (entities.Offer, error)
	update   func(actor entities.Actor, o entities.Offer) (entities.Offer, error)
	list     func(actor entities.Actor, shipmentID int64) ([]entities.Offer, error)
}

func (f *fakeOffers) CreateOffer(_ context.Context, actor entities.Actor, o entities.Offer) (entities.Offer, error) {
	return f.create(actor, o)
}

func (f *fakeOffers) AcceptOffer(_ context.Context, actor entities.Actor, shipmentID, offerID int64) (service.AcceptResult, error) {
	return f.accept(actor, shipmentID, offerID)
}

func (f *fakeOffers) RejectOffer(_ context.Context, actor entities.Actor, offerID int64) (entities.Offer, error) {
	return f.reject(actor, offerID)
}

func (f *fakeOffers) WithdrawOffer(_ context.Context, actor entities.Actor, offerID int64) (entities.Offer, error) {
	return f.withdraw(actor, offerID)
}

func (f *fakeOffers) UpdateOffer(_ context.Context, actor entities.Actor, o entities.Offer) (entities.Offer, error) {
	return f.update(actor, o)
}

func (f *fakeOffers) ListOffers(_ context.Context, actor entities.Actor, shipmentID int64) ([]entities.Offer, error) {
	return f.list(actor, shipmentID)
}

type fakeAllocator struct {
	allocate func(carrierUserID int64) (string, error)
}

func (f *fakeAllocator) Allocate(_ context.Context, carrierUserID int64) (string, error) {
	return f.allocate(carrierUserID)
}

type fakeInbox struct {
	list     func(actor entities.Actor, unreadOnly bool) ([]entities.Notification, error)
	markRead func(actor entities.Actor, id int64) error
	delete   func(actor entities.Actor, id int64) error
}

func (f *fakeInbox) ListInbox(_ context.Context, actor entities.Actor, unreadOnly bool) ([]entities.Notification, error) {
	return f.list(actor, unreadOnly)
}

func (f *fakeInbox) MarkRead(_ context.Context, actor entities.Actor, id int64) error {
	return f.markRead(actor, id)
}

func (f *fakeInbox) Delete(_ context.Context, actor entities.Actor, id int64) error {
	return f.delete(actor, id)
}

func newRouter(shipments *fakeShipments, offers *fakeOffers, allocator *fakeAllocator, inbox *fakeInbox) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewHTTPHandler(logger, shipments, offers, allocator, inbox)
	r := chi.NewRouter()
	h.Init(r)
	return r
}

func asActor(req *http.Request, userID, role string) *http.Request {
	req.Header.Set("X-User-ID", userID)
	req.Header.Set("X-User-Role", role)
	return req
}

func TestHTTPHandler_Track(t *testing.T) {
	shipments := &fakeShipments{
		track: func(code string) (entities.Shipment, error) {
			if code == "TRK-00000001" {
				return entities.Shipment{ID: 1, TrackingCode: code, Status: entities.ShipmentInTransit}, nil
			}
			return entities.Shipment{}, entities.ErrShipmentNotFound
		},
	}
	r := newRouter(shipments, &fakeOffers{}, &fakeAllocator{}, &fakeInbox{})

	t.Run("public, no auth required", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/shipments/track/TRK-00000001", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"tracking_code":"TRK-00000001"`)
		assert.Contains(t, rr.Body.String(), `"status":"in_transit"`)
	})

	t.Run("unknown code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/shipments/track/TRK-NOPE", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHTTPHandler_PublishShipment(t *testing.T) {
	validBody := `{
		"title": "pallets",
		"origin_address": "Dock 5", "origin_city": "Rotterdam",
		"destination_address": "Gate 2", "destination_city": "Hamburg",
		"requested_price": 1200
	}`

	testCases := []struct {
		name       string
		body       string
		headers    [2]string
		publish    func(actor entities.Actor, s entities.Shipment) (entities.Shipment, error)
		wantStatus int
		wantBody   string
	}{
		{
			name:    "created",
			body:    validBody,
			headers: [2]string{"7", "shipper"},
			publish: func(actor entities.Actor, s entities.Shipment) (entities.Shipment, error) {
				s.ID = 42
				s.OwnerID = actor.UserID
				s.TrackingCode = "TRK-00000042"
				s.Status = entities.ShipmentWaitingForOffers
				return s, nil
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"tracking_code":"TRK-00000042"`,
		},
		{
			name:       "missing auth headers",
			body:       validBody,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown role",
			body:       validBody,
			headers:    [2]string{"7", "admin"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing required fields",
			body:       `{"title": "pallets"}`,
			headers:    [2]string{"7", "shipper"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"OriginAddress"`,
		},
		{
			name:       "broken json",
			body:       `{"title":`,
			headers:    [2]string{"7", "shipper"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:    "carrier is not a shipper",
			body:    validBody,
			headers: [2]string{"21", "carrier"},
			publish: func(_ entities.Actor, _ entities.Shipment) (entities.Shipment, error) {
				return entities.Shipment{}, entities.ErrShipmentNotOwned
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(&fakeShipments{publish: tc.publish}, &fakeOffers{}, &fakeAllocator{}, &fakeInbox{})

			req := httptest.NewRequest(http.MethodPost, "/shipments", strings.NewReader(tc.body))
			if tc.headers[0] != "" {
				req = asActor(req, tc.headers[0], tc.headers[1])
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHTTPHandler_CreateOffer(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		create     func(actor entities.Actor, o entities.Offer) (entities.Offer, error)
		wantStatus int
		wantBody   string
	}{
		{
			name: "created with price in cents",
			body: `{"price": 500.50, "message": "can pick up tomorrow"}`,
			create: func(actor entities.Actor, o entities.Offer) (entities.Offer, error) {
				if o.PriceCents != 50_050 {
					return entities.Offer{}, errors.New("price not converted")
				}
				o.ID = 11
				o.CarrierID = actor.UserID
				o.Status = entities.OfferPending
				return o, nil
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"price":500.5`,
		},
		{
			name:       "price required",
			body:       `{"message": "no price"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative price",
			body:       `{"price": -5}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "shipment closed",
			body: `{"price": 500}`,
			create: func(_ entities.Actor, _ entities.Offer) (entities.Offer, error) {
				return entities.Offer{}, entities.ErrShipmentNotOpen
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "duplicate pending offer",
			body: `{"price": 500}`,
			create: func(_ entities.Actor, _ entities.Offer) (entities.Offer, error) {
				return entities.Offer{}, entities.ErrDuplicatePendingOffer
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(&fakeShipments{}, &fakeOffers{create: tc.create}, &fakeAllocator{}, &fakeInbox{})

			req := asActor(httptest.NewRequest(http.MethodPost, "/shipments/1/offers", strings.NewReader(tc.body)), "21", "carrier")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHTTPHandler_AcceptOffer(t *testing.T) {
	testCases := []struct {
		name       string
		accept     func(actor entities.Actor, shipmentID, offerID int64) (service.AcceptResult, error)
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name: "success returns the settlement",
			accept: func(actor entities.Actor, shipmentID, offerID int64) (service.AcceptResult, error) {
				return service.AcceptResult{
					Shipment: entities.Shipment{ID: shipmentID, OwnerID: actor.UserID, CarrierID: 21, DriverID: 21, Status: entities.ShipmentOfferAccepted},
					Offer:    entities.Offer{ID: offerID, ShipmentID: shipmentID, CarrierID: 21, PriceCents: 50_000, Status: entities.OfferAccepted},
					Commission: entities.CommissionBreakdown{
						PriceCents: 50_000, RateBps: 100, CommissionCents: 500, CarrierNetCents: 49_500,
					},
				}, nil
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp struct {
					Shipment   map[string]any `json:"shipment"`
					Offer      map[string]any `json:"offer"`
					Commission map[string]any `json:"commission"`
				}
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "offer_accepted", resp.Shipment["status"])
				assert.Equal(t, "accepted", resp.Offer["status"])
				assert.Equal(t, float64(500), resp.Commission["price"])
				assert.Equal(t, float64(5), resp.Commission["commission"])
				assert.Equal(t, float64(495), resp.Commission["carrier_net"])
			},
		},
		{
			name: "not the owner",
			accept: func(_ entities.Actor, _, _ int64) (service.AcceptResult, error) {
				return service.AcceptResult{}, entities.ErrShipmentNotOwned
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "offer already decided",
			accept: func(_ entities.Actor, _, _ int64) (service.AcceptResult, error) {
				return service.AcceptResult{}, entities.ErrOfferNotPending
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "shipment already matched",
			accept: func(_ entities.Actor, _, _ int64) (service.AcceptResult, error) {
				return service.AcceptResult{}, entities.ErrShipmentNotOpen
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "aborted transaction is opaque",
			accept: func(_ entities.Actor, _, _ int64) (service.AcceptResult, error) {
				return service.AcceptResult{}, entities.ErrTransactionAborted
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(&fakeShipments{}, &fakeOffers{accept: tc.accept}, &fakeAllocator{}, &fakeInbox{})

			req := asActor(httptest.NewRequest(http.MethodPost, "/shipments/1/offers/11/accept", nil), "7", "shipper")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.check != nil {
				tc.check(t, rr.Body.Bytes())
			}
		})
	}
}

func TestHTTPHandler_UpdateShipmentStatus(t *testing.T) {
	t.Run("illegal transition maps to conflict", func(t *testing.T) {
		shipments := &fakeShipments{
			update: func(_ entities.Actor, _ int64, _ entities.ShipmentStatus, _ string) (entities.Shipment, error) {
				return entities.Shipment{}, entities.ErrIllegalTransition
			},
		}
		r := newRouter(shipments, &fakeOffers{}, &fakeAllocator{}, &fakeInbox{})

		req := asActor(httptest.NewRequest(http.MethodPatch, "/shipments/1/status", strings.NewReader(`{"status":"delivered"}`)), "7", "shipper")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("note reaches the service", func(t *testing.T) {
		var gotNote string
		shipments := &fakeShipments{
			update: func(_ entities.Actor, _ int64, to entities.ShipmentStatus, note string) (entities.Shipment, error) {
				gotNote = note
				return entities.Shipment{ID: 1, Status: to}, nil
			},
		}
		r := newRouter(shipments, &fakeOffers{}, &fakeAllocator{}, &fakeInbox{})

		req := asActor(httptest.NewRequest(http.MethodPatch, "/shipments/1/status", strings.NewReader(`{"status":"in_transit","note":"left the depot"}`)), "21", "carrier")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "left the depot", gotNote)
	})
}

func TestHTTPHandler_AllocateCarrierCode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		allocator := &fakeAllocator{
			allocate: func(carrierUserID int64) (string, error) {
				assert.Equal(t, int64(21), carrierUserID)
				return "CR-000123", nil
			},
		}
		r := newRouter(&fakeShipments{}, &fakeOffers{}, allocator, &fakeInbox{})

		req := asActor(httptest.NewRequest(http.MethodPost, "/carriers/21/code", nil), "21", "carrier")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"code":"CR-000123"`)
	})

	t.Run("carrier cannot allocate for someone else", func(t *testing.T) {
		r := newRouter(&fakeShipments{}, &fakeOffers{}, &fakeAllocator{}, &fakeInbox{})

		req := asActor(httptest.NewRequest(http.MethodPost, "/carriers/99/code", nil), "21", "carrier")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("exhaustion is an internal error", func(t *testing.T) {
		allocator := &fakeAllocator{
			allocate: func(_ int64) (string, error) {
				return "", entities.ErrCodeAllocationExhausted
			},
		}
		r := newRouter(&fakeShipments{}, &fakeOffers{}, allocator, &fakeInbox{})

		req := asActor(httptest.NewRequest(http.MethodPost, "/carriers/21/code", nil), "21", "carrier")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestHTTPHandler_Notifications(t *testing.T) {
	t.Run("list honors the unread filter", func(t *testing.T) {
		var gotUnread bool
		inbox := &fakeInbox{
			list: func(actor entities.Actor, unreadOnly bool) ([]entities.Notification, error) {
				gotUnread = unreadOnly
				return []entities.Notification{{ID: 1, RecipientID: actor.UserID, Title: "Offer accepted"}}, nil
			},
		}
		r := newRouter(&fakeShipments{}, &fakeOffers{}, &fakeAllocator{}, inbox)

		req := asActor(httptest.NewRequest(http.MethodGet, "/notifications?unread=true", nil), "7", "shipper")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, gotUnread)
		assert.Contains(t, rr.Body.String(), `"Offer accepted"`)
	})

	t.Run("mark read", func(t *testing.T) {
		inbox := &fakeInbox{
			markRead: func(actor entities.Actor, id int64) error {
				assert.Equal(t, int64(7), actor.UserID)
				assert.Equal(t, int64(3), id)
				return nil
			},
		}
		r := newRouter(&fakeShipments{}, &fakeOffers{}, &fakeAllocator{}, inbox)

		req := asActor(httptest.NewRequest(http.MethodPost, "/notifications/3/read", nil), "7", "shipper")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("delete someone else's notification", func(t *testing.T) {
		inbox := &fakeInbox{
			delete: func(_ entities.Actor, _ int64) error {
				return entities.ErrNotificationNotFound
			},
		}
		r := newRouter(&fakeShipments{}, &fakeOffers{}, &fakeAllocator{}, inbox)

		req := asActor(httptest.NewRequest(http.MethodDelete, "/notifications/3", nil), "7", "shipper")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
