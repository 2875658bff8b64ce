package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/pkg/apperror"
	"github.com/sangkips/stayledger-api/pkg/pricing"
)

func writeEnvelope(w http.ResponseWriter, status int, success bool, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"message": http.StatusText(status),
		"data":    data,
	})
}

func TestCheckRoomAvailabilityPreconditionsSkipNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, http.StatusOK, true, nil)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.CheckRoomAvailability(context.Background(), pricing.AvailabilityQuery{CheckInDate: "2024-02-01"})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("err = %v, want validation error", err)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Fatalf("server called %d times, want 0", n)
	}
}

func TestCheckRoomAvailabilityBreakdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/reservations/availability" || r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("unexpected request %s %s", r.URL.Path, r.Header.Get("Authorization"))
		}
		writeEnvelope(w, http.StatusOK, true, map[string]interface{}{
			"success": true,
			"availability": []pricing.RoomAvailability{
				{RoomType: "Studio", IsAvailable: false, Conflicts: []pricing.ReservationSummary{{ReservationNo: "RES-000001"}}},
				{RoomType: "Loft", IsAvailable: true, Conflicts: []pricing.ReservationSummary{}},
			},
		})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Token: "tok"})
	res, err := c.CheckRoomAvailability(context.Background(), pricing.AvailabilityQuery{
		PropertyID:   uuid.NewString(),
		CheckInDate:  "2024-02-04",
		CheckOutDate: "2024-02-06",
		RoomTypes:    []string{"Studio", "Loft"},
	})
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if !res.Blocked || len(res.Availability) != 2 {
		t.Fatalf("result = %+v", res)
	}
}

func TestCheckRoomAvailabilityCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _ := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := c.CheckRoomAvailability(ctx, pricing.AvailabilityQuery{
		PropertyID:   uuid.NewString(),
		CheckInDate:  "2024-02-04",
		CheckOutDate: "2024-02-06",
		RoomTypes:    []string{"Studio"},
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/pincodes/search" || r.URL.Query().Get("q") != "5600" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		writeEnvelope(w, http.StatusOK, true, []map[string]string{{"id": "560001", "label": "560001", "detail": "Bengaluru"}})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	items, err := c.Search(context.Background(), EntityPincodes, "5600")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Detail != "Bengaluru" {
		t.Fatalf("items = %+v", items)
	}

	if _, err := c.Search(context.Background(), "rooms", "x"); err == nil {
		t.Fatal("expected error for unknown entity")
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
