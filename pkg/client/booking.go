package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"innkeep/pkg/model"
)

// BookingClient is a thin HTTP client for the bookings service, used by the
// integration test harness and by operational tooling.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *BookingClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings", body)
}

func (c *BookingClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/bookings/id/" + url.PathEscape(id))
}

func (c *BookingClient) GetByIDAsUser(id, userID string) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id)
	return c.httpClient.GETWithHeaders(path, map[string]string{"X-User-ID": userID})
}

func (c *BookingClient) GetByUser(userID string, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/bookings/user/%s?limit=%d&offset=%d", url.PathEscape(userID), limit, offset)
	return c.httpClient.GET(path)
}

func (c *BookingClient) GetAll(query url.Values) (*Response, error) {
	path := "/api/v1/bookings"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.httpClient.GET(path)
}

func (c *BookingClient) TransitionStatus(id string, status model.BookingStatus) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id) + "/status"
	return c.httpClient.PATCH(path, map[string]any{"status": status})
}

func (c *BookingClient) Delete(id string) (*Response, error) {
	return c.httpClient.DELETE("/api/v1/bookings/id/" + url.PathEscape(id))
}

func (c *BookingClient) CheckAvailability(roomID, checkIn, checkOut string) (*Response, error) {
	q := url.Values{}
	q.Set("room_id", roomID)
	q.Set("check_in", checkIn)
	q.Set("check_out", checkOut)
	return c.httpClient.GET("/api/v1/availability?" + q.Encode())
}

func (c *BookingClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper: %w", err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking: %w", err)
	}
	return &booking, nil
}
