package integrationtests

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"innkeep/pkg/client"
	"innkeep/pkg/model"
)

// These tests run against a live deployment: the bookings service, the
// rooms service, and a migrated Mongo behind them. They are skipped unless
// TEST_BOOKINGS_URL is set.
//
//	TEST_BOOKINGS_URL=http://localhost:8080 \
//	TEST_ROOMS_URL=http://localhost:8081 go test ./test/...

var (
	bookings *client.BookingClient
	rooms    *client.RoomClient
)

func TestMain(m *testing.M) {
	bookingsURL := os.Getenv("TEST_BOOKINGS_URL")
	if bookingsURL == "" {
		fmt.Println("TEST_BOOKINGS_URL not set, skipping integration tests")
		os.Exit(0)
	}
	roomsURL := os.Getenv("TEST_ROOMS_URL")
	if roomsURL == "" {
		roomsURL = bookingsURL
	}

	bookings = client.NewBookingClient(bookingsURL)
	rooms = client.NewRoomClient(roomsURL)

	if err := bookings.WaitForHealthy(30 * time.Second); err != nil {
		fmt.Printf("bookings service not healthy: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

const testUserID = "507f1f77bcf86cd799439012"

func createTestRoom(t *testing.T, price float64, capacity int) *model.Room {
	t.Helper()

	resp, err := rooms.Create(map[string]any{
		"hotel_id":      "507f1f77bcf86cd799439001",
		"name":          fmt.Sprintf("it-room-%d", time.Now().UnixNano()),
		"nightly_price": price,
		"capacity":      capacity,
		"available":     true,
	})
	if err != nil {
		t.Fatalf("create room request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create room: expected 201, got %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	room, err := rooms.DecodeRoom(resp)
	if err != nil {
		t.Fatalf("decode room: %v", err)
	}

	t.Cleanup(func() {
		rooms.Delete(room.ID)
	})
	return room
}

func bookingPayload(roomID string, checkIn, checkOut time.Time) map[string]any {
	return map[string]any{
		"room_id":          roomID,
		"user_id":          testUserID,
		"check_in_date":    checkIn.Format(time.RFC3339),
		"check_out_date":   checkOut.Format(time.RFC3339),
		"number_of_guests": 2,
	}
}

func futureRange(nights int) (time.Time, time.Time) {
	checkIn := time.Now().UTC().AddDate(0, 0, 30).Truncate(24 * time.Hour)
	return checkIn, checkIn.AddDate(0, 0, nights)
}

func requireStatus(t *testing.T, resp *client.Response, err error, want int, op string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s request failed: %v", op, err)
	}
	if resp.StatusCode != want {
		t.Fatalf("%s: expected %d, got %d: %s", op, want, resp.StatusCode, client.GetErrorMessage(resp))
	}
}

func TestCreateAndReadBooking(t *testing.T) {
	room := createTestRoom(t, 100, 4)
	checkIn, checkOut := futureRange(3)

	resp, err := bookings.Create(bookingPayload(room.ID, checkIn, checkOut))
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	created, err := bookings.DecodeBooking(resp)
	if err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	t.Cleanup(func() { bookings.Delete(created.ID) })

	if created.Status != model.StatusPending || created.PaymentStatus != model.PaymentUnpaid {
		t.Errorf("expected PENDING/UNPAID defaults, got %s/%s", created.Status, created.PaymentStatus)
	}
	if created.TotalPrice != 300 {
		t.Errorf("expected price snapshot 300, got %v", created.TotalPrice)
	}

	getResp, err := bookings.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.StatusCode)
	}
}

func TestOverlapRejected(t *testing.T) {
	room := createTestRoom(t, 100, 4)
	checkIn, checkOut := futureRange(3)

	first, err := bookings.Create(bookingPayload(room.ID, checkIn, checkOut))
	requireStatus(t, first, err, http.StatusCreated, "seed booking")
	seeded, _ := bookings.DecodeBooking(first)
	t.Cleanup(func() { bookings.Delete(seeded.ID) })

	// Shifted by one day, still overlapping.
	second, err := bookings.Create(bookingPayload(room.ID, checkIn.AddDate(0, 0, 1), checkOut.AddDate(0, 0, 1)))
	if err != nil {
		t.Fatalf("overlap request failed: %v", err)
	}
	if second.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for overlapping range, got %d", second.StatusCode)
	}

	// Back to back is legal.
	third, err := bookings.Create(bookingPayload(room.ID, checkOut, checkOut.AddDate(0, 0, 2)))
	if err != nil {
		t.Fatalf("back-to-back request failed: %v", err)
	}
	if third.StatusCode != http.StatusCreated {
		t.Errorf("expected 201 for back-to-back range, got %d: %s", third.StatusCode, client.GetErrorMessage(third))
	}
	if third.StatusCode == http.StatusCreated {
		b, _ := bookings.DecodeBooking(third)
		t.Cleanup(func() { bookings.Delete(b.ID) })
	}
}

func TestConcurrentCreationOneWinner(t *testing.T) {
	room := createTestRoom(t, 100, 4)
	checkIn, checkOut := futureRange(3)

	const racers = 4
	var wg sync.WaitGroup
	statuses := make(chan int, racers)
	created := make(chan string, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := bookings.Create(bookingPayload(room.ID, checkIn, checkOut))
			if err != nil {
				statuses <- 0
				return
			}
			statuses <- resp.StatusCode
			if resp.StatusCode == http.StatusCreated {
				if b, err := bookings.DecodeBooking(resp); err == nil {
					created <- b.ID
				}
			}
		}()
	}
	wg.Wait()
	close(statuses)
	close(created)

	for id := range created {
		id := id
		t.Cleanup(func() { bookings.Delete(id) })
	}

	winners, conflicts := 0, 0
	for code := range statuses {
		switch code {
		case http.StatusCreated:
			winners++
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("unexpected status %d", code)
		}
	}

	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d (conflicts: %d)", winners, conflicts)
	}
}

func TestStatusLifecycle(t *testing.T) {
	room := createTestRoom(t, 80, 2)
	checkIn, checkOut := futureRange(2)

	resp, err := bookings.Create(bookingPayload(room.ID, checkIn, checkOut))
	requireStatus(t, resp, err, http.StatusCreated, "seed booking")
	booking, _ := bookings.DecodeBooking(resp)
	t.Cleanup(func() { bookings.Delete(booking.ID) })

	// PENDING -> CONFIRMED
	confirm, err := bookings.TransitionStatus(booking.ID, model.StatusConfirmed)
	requireStatus(t, confirm, err, http.StatusOK, "confirm")

	// CONFIRMED -> COMPLETED is for the batch process, but legal.
	// CONFIRMED -> CANCELLED must refund atomically.
	cancel, err := bookings.TransitionStatus(booking.ID, model.StatusCancelled)
	requireStatus(t, cancel, err, http.StatusOK, "cancel")
	cancelled, err := bookings.DecodeBooking(cancel)
	if err != nil {
		t.Fatalf("decode cancelled booking: %v", err)
	}
	if cancelled.Status != model.StatusCancelled || cancelled.PaymentStatus != model.PaymentRefunded {
		t.Errorf("expected CANCELLED/REFUNDED, got %s/%s", cancelled.Status, cancelled.PaymentStatus)
	}

	// Terminal: no way out of CANCELLED.
	reopen, err := bookings.TransitionStatus(booking.ID, model.StatusConfirmed)
	if err != nil {
		t.Fatalf("reopen request failed: %v", err)
	}
	if reopen.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 leaving a terminal state, got %d", reopen.StatusCode)
	}
}

func TestCancelledRoomFreedForRebooking(t *testing.T) {
	room := createTestRoom(t, 100, 4)
	checkIn, checkOut := futureRange(3)

	resp, err := bookings.Create(bookingPayload(room.ID, checkIn, checkOut))
	requireStatus(t, resp, err, http.StatusCreated, "seed booking")
	booking, _ := bookings.DecodeBooking(resp)
	t.Cleanup(func() { bookings.Delete(booking.ID) })

	if _, err := bookings.TransitionStatus(booking.ID, model.StatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	rebook, err := bookings.Create(bookingPayload(room.ID, checkIn, checkOut))
	if err != nil {
		t.Fatalf("rebook request failed: %v", err)
	}
	if rebook.StatusCode != http.StatusCreated {
		t.Errorf("expected 201 rebooking over a cancelled stay, got %d: %s", rebook.StatusCode, client.GetErrorMessage(rebook))
	}
	if rebook.StatusCode == http.StatusCreated {
		b, _ := bookings.DecodeBooking(rebook)
		t.Cleanup(func() { bookings.Delete(b.ID) })
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	room := createTestRoom(t, 100, 4)
	checkIn, checkOut := futureRange(3)

	resp, err := bookings.CheckAvailability(room.ID, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("availability request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Available bool `json:"available"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("decode availability: %v", err)
	}
	if !result.Data.Available {
		t.Error("expected a fresh room to be available")
	}
}

func TestOwnershipScopedRead(t *testing.T) {
	room := createTestRoom(t, 100, 4)
	checkIn, checkOut := futureRange(2)

	resp, err := bookings.Create(bookingPayload(room.ID, checkIn, checkOut))
	requireStatus(t, resp, err, http.StatusCreated, "seed booking")
	booking, _ := bookings.DecodeBooking(resp)
	t.Cleanup(func() { bookings.Delete(booking.ID) })

	owned, err := bookings.GetByIDAsUser(booking.ID, testUserID)
	requireStatus(t, owned, err, http.StatusOK, "owner read")

	foreign, err := bookings.GetByIDAsUser(booking.ID, "507f1f77bcf86cd799439444")
	if err != nil {
		t.Fatalf("foreign read request failed: %v", err)
	}
	if foreign.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for another user's booking, got %d", foreign.StatusCode)
	}
}

func TestValidationRejections(t *testing.T) {
	room := createTestRoom(t, 100, 4)
	checkIn, checkOut := futureRange(3)

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "checkout before checkin", mutate: func(p map[string]any) {
			p["check_in_date"] = checkOut.Format(time.RFC3339)
			p["check_out_date"] = checkIn.Format(time.RFC3339)
		}},
		{name: "zero guests", mutate: func(p map[string]any) {
			p["number_of_guests"] = 0
		}},
		{name: "past checkin", mutate: func(p map[string]any) {
			p["check_in_date"] = time.Now().UTC().AddDate(0, 0, -5).Format(time.RFC3339)
		}},
		{name: "missing room", mutate: func(p map[string]any) {
			delete(p, "room_id")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := bookingPayload(room.ID, checkIn, checkOut)
			tt.mutate(payload)

			resp, err := bookings.Create(payload)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusUnprocessableEntity {
				t.Errorf("expected 4xx validation rejection, got %d", resp.StatusCode)
			}
		})
	}
}
