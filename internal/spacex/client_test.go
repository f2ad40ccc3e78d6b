package spacex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"launches-server/internal/shared/errors"
	"launches-server/internal/shared/logger"
)

const sampleResponse = `{
	"docs": [
		{
			"flight_number": 1,
			"name": "FalconSat",
			"date_local": "2006-03-25T10:30:00+12:00",
			"date_utc": "2006-03-24T22:30:00.000Z",
			"upcoming": false,
			"success": false,
			"rocket": {"name": "Falcon 1", "id": "5e9d0d95eda69955f709d1eb"},
			"payloads": [{"customers": ["DARPA"], "id": "5eb0e4b5b6c3bb0006eeb1e1"}]
		},
		{
			"flight_number": 187,
			"name": "Crew-5",
			"date_local": "2022-10-05T12:00:00-04:00",
			"upcoming": true,
			"success": null,
			"rocket": {"name": "Falcon 9"},
			"payloads": [{"customers": ["NASA (CCP)"]}, {"customers": ["JAXA", "Roscosmos"]}]
		}
	],
	"totalDocs": 2,
	"limit": 2,
	"page": 1,
	"totalPages": 1
}`

func TestClient_FetchLaunches(t *testing.T) {
	t.Run("should post the populated query and decode documents", func(t *testing.T) {
		var got QueryRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/v4/launches/query" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("failed to decode query: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sampleResponse))
		}))
		defer srv.Close()

		client := NewClient(srv.URL+"/v4/", srv.Client(), logger.Discard())

		launches, err := client.FetchLaunches(context.Background())
		if err != nil {
			t.Fatalf("wanted: nil\ngot: %v", err)
		}

		if got.Options.Pagination {
			t.Fatalf("wanted: pagination disabled\ngot: enabled")
		}
		if len(got.Options.Populate) != 2 || got.Options.Populate[0].Path != "rocket" || got.Options.Populate[1].Path != "payloads" {
			t.Fatalf("wanted: rocket and payloads populated\ngot: %+v", got.Options.Populate)
		}

		if len(launches) != 2 {
			t.Fatalf("wanted: 2 launches\ngot: %d", len(launches))
		}
		if launches[0].Rocket.Name != "Falcon 1" || launches[0].Success == nil || *launches[0].Success {
			t.Fatalf("wanted: Falcon 1 with success=false\ngot: %+v", launches[0])
		}
		if launches[1].Success != nil {
			t.Fatalf("wanted: nil success for null\ngot: %v", *launches[1].Success)
		}

		customers := launches[1].Customers()
		want := []string{"NASA (CCP)", "JAXA", "Roscosmos"}
		if len(customers) != len(want) {
			t.Fatalf("wanted: %v\ngot: %v", want, customers)
		}
		for i := range want {
			if customers[i] != want[i] {
				t.Fatalf("wanted: %v\ngot: %v", want, customers)
			}
		}
	})

	t.Run("should report non-200 answers as external errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, srv.Client(), logger.Discard())

		_, err := client.FetchLaunches(context.Background())
		if !errors.Is(err, errors.ErrorTypeExternal) {
			t.Fatalf("wanted: external error\ngot: %v", err)
		}
	})

	t.Run("should report transport failures as external errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		client := NewClient(url, nil, logger.Discard())

		_, err := client.FetchLaunches(context.Background())
		if !errors.Is(err, errors.ErrorTypeExternal) {
			t.Fatalf("wanted: external error\ngot: %v", err)
		}
	})

	t.Run("should report undecodable bodies as external errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, srv.Client(), logger.Discard())

		_, err := client.FetchLaunches(context.Background())
		if !errors.Is(err, errors.ErrorTypeExternal) {
			t.Fatalf("wanted: external error\ngot: %v", err)
		}
	})
}

func TestLaunch_CustomersWithoutPayloads(t *testing.T) {
	if got := (Launch{}).Customers(); got == nil || len(got) != 0 {
		t.Fatalf("wanted: empty non-nil slice\ngot: %#v", got)
	}
}
