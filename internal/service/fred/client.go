package fred

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"MacroBot/internal/domain/models"
	drepo "MacroBot/internal/domain/repository"
	xhttp "MacroBot/pkg/http"
)

// Missing is the value FRED reports for a date without an observation.
const Missing = "."

// Client fetches series observations from the FRED REST API.
type Client struct {
	http   *xhttp.Client
	apiKey string
}

var _ drepo.SeriesSource = (*Client)(nil)

func New(baseURL, apiKey string, timeout time.Duration, opts ...xhttp.ClientOption) *Client {
	opts = append([]xhttp.ClientOption{xhttp.WithBaseURL(baseURL), xhttp.WithTimeout(timeout)}, opts...)
	return &Client{http: xhttp.NewClient(opts...), apiKey: apiKey}
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
	ErrorMessage string `json:"error_message"`
}

// FetchSeries returns every observation of seriesID in upstream order,
// Missing markers included.
func (c *Client) FetchSeries(ctx context.Context, seriesID string) ([]models.Point, error) {
	var resp observationsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		Path:   "/series/observations",
		QueryParams: map[string][]string{
			"series_id": {seriesID},
			"api_key":   {c.apiKey},
			"file_type": {"json"},
		},
	}, &resp)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			// the body echoes the request URL, which carries the key
			return nil, fmt.Errorf("fetch %s: %w: status %d", seriesID, models.ErrUpstreamUnavailable, se.StatusCode)
		}
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("fetch %s: %w: %w", seriesID, models.ErrUpstreamUnavailable, err)
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("fetch %s: %w: %s", seriesID, models.ErrUpstreamUnavailable, resp.ErrorMessage)
	}

	out := make([]models.Point, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		out = append(out, models.Point{Date: o.Date, Value: o.Value})
	}
	return out, nil
}
