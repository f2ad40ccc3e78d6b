package spacex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"launches-server/internal/shared/errors"
)

// Launch is the subset of a v4 launch document the importer reads, with the rocket and
// payloads populated.
type Launch struct {
	FlightNumber int       `json:"flight_number"`
	Name         string    `json:"name"`
	DateUTC      string    `json:"date_utc"`
	DateLocal    string    `json:"date_local"`
	Upcoming     bool      `json:"upcoming"`
	Success      *bool     `json:"success"`
	Rocket       Rocket    `json:"rocket"`
	Payloads     []Payload `json:"payloads"`
}

type Rocket struct {
	Name string `json:"name"`
}

type Payload struct {
	Customers []string `json:"customers"`
}

// Customers flattens the customers of every payload, in payload order.
func (l Launch) Customers() []string {
	customers := []string{}
	for _, payload := range l.Payloads {
		customers = append(customers, payload.Customers...)
	}
	return customers
}

type QueryRequest struct {
	Query   map[string]interface{} `json:"query"`
	Options QueryOptions           `json:"options"`
}

type QueryOptions struct {
	Pagination bool       `json:"pagination"`
	Populate   []Populate `json:"populate,omitempty"`
}

type Populate struct {
	Path   string         `json:"path"`
	Select map[string]int `json:"select"`
}

type QueryResponse struct {
	Docs       []Launch `json:"docs"`
	TotalDocs  int      `json:"totalDocs"`
	Limit      int      `json:"limit"`
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
}

// launchesQuery requests every launch in one page with rocket names and payload
// customers resolved.
func launchesQuery() QueryRequest {
	return QueryRequest{
		Query: map[string]interface{}{},
		Options: QueryOptions{
			Pagination: false,
			Populate: []Populate{
				{Path: "rocket", Select: map[string]int{"name": 1}},
				{Path: "payloads", Select: map[string]int{"customers": 1}},
			},
		},
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchLaunches downloads the full launch history. Any transport failure or non-200
// answer is reported as an external error.
func (c *Client) FetchLaunches(ctx context.Context) ([]Launch, error) {
	logger := c.logger.With("component", "spacex_client", "operation", "fetch_launches")
	logger.Info("Downloading launch data")

	body, err := json.Marshal(launchesQuery())
	if err != nil {
		return nil, errors.WrapInternal("failed to encode launch query", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/launches/query", bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapInternal("failed to build launch query", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Failed to request launch data", "error", err)
		return nil, errors.WrapExternal("launch data download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		logger.Error("Launch provider returned error status",
			"status_code", resp.StatusCode,
			"status", resp.Status)
		return nil, errors.External(fmt.Sprintf("launch data download failed with status %d", resp.StatusCode))
	}

	var page QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		logger.Error("Failed to decode launch data", "error", err)
		return nil, errors.WrapExternal("failed to decode launch data", err)
	}

	logger.Info("Launch data downloaded", "docs", len(page.Docs), "total_docs", page.TotalDocs)
	return page.Docs, nil
}
