package kitchen

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"hostel_mess_backend/internal/models"
)

// Client pushes confirmed meal head counts to the kitchen's webhook.
type Client interface {
	SendDailySnapshot(ctx context.Context, counts models.DailyMealCounts) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a kitchen webhook client for the given base URL.
func NewClient(baseURL string) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

type snapshotPayload struct {
	Date      string `json:"date"`
	Breakfast int    `json:"breakfast"`
	Lunch     int    `json:"lunch"`
	Dinner    int    `json:"dinner"`
	Total     int    `json:"total"`
}

type webhookError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// SendDailySnapshot posts the head counts for one date. The counts are final
// once the ordering cutoff has passed for that date.
func (c *APIClient) SendDailySnapshot(ctx context.Context, counts models.DailyMealCounts) error {
	payload := snapshotPayload{
		Date:      counts.Date,
		Breakfast: counts.Breakfast,
		Lunch:     counts.Lunch,
		Dinner:    counts.Dinner,
		Total:     counts.Total(),
	}

	apiErr := new(webhookError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetError(apiErr).
		Post("/daily-snapshot")
	if err != nil {
		return fmt.Errorf("send kitchen snapshot: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		return fmt.Errorf("kitchen webhook error: status=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
