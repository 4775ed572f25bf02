package fred

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MacroBot/internal/domain/models"

	"github.com/go-playground/assert/v2"
	"github.com/google/go-cmp/cmp"
)

func TestFetchSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fred/series/observations", r.URL.Path)
		assert.Equal(t, "UNRATE", r.URL.Query().Get("series_id"))
		assert.Equal(t, "k3y", r.URL.Query().Get("api_key"))
		assert.Equal(t, "json", r.URL.Query().Get("file_type"))
		_, _ = w.Write([]byte(`{"observations":[
			{"realtime_start":"2024-05-01","date":"2024-03-01","value":"3.8"},
			{"date":"2024-04-01","value":"."}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/fred", "k3y", 5*time.Second)
	got, err := c.FetchSeries(context.Background(), "UNRATE")
	assert.Equal(t, nil, err)

	want := []models.Point{{Date: "2024-03-01", Value: "3.8"}, {Date: "2024-04-01", Value: Missing}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchSeriesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_message":"Bad Request. api_key=k3y is not registered."}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k3y", time.Second).FetchSeries(context.Background(), "UNRATE")
	assert.Equal(t, true, errors.Is(err, models.ErrUpstreamUnavailable))
	assert.NotMatchRegex(t, err.Error(), "k3y")
}
