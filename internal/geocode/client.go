package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/otramalaga/civicmap/internal/logger"
	"github.com/otramalaga/civicmap/internal/utils"
)

// Place is a geocoding candidate: a coordinate pair plus its label.
type Place struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

// nominatimPlace is the wire shape; coordinates arrive as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Client wraps a Nominatim-compatible place-search and reverse-geocode
// service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// New builds a geocoding client for the given base URL.
func New(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// Search converts a free-text query into coordinate candidates.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	q := url.Values{
		"format":         {"json"},
		"addressdetails": {"1"},
		"q":              {query},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode search: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode search: unexpected status %d", resp.StatusCode)
	}

	var raw []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("geocode search: decode: %w", err)
	}

	places := make([]Place, 0, len(raw))
	for _, p := range raw {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lon, errLon := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		places = append(places, Place{Lat: lat, Lon: lon, Label: p.DisplayName})
	}
	return places, nil
}

// Reverse converts a coordinate pair into a human-readable label.
// Any failure degrades to the "lat, lon" literal; Reverse never errors.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) string {
	fallback := CoordLabel(lat, lon)

	q := url.Values{
		"format": {"json"},
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return fallback
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("reverse geocode failed, using coordinate label", logger.Error(err))
		return fallback
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	var raw struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil || raw.DisplayName == "" {
		return fallback
	}
	return raw.DisplayName
}

// CoordLabel formats the fallback label for a coordinate pair.
func CoordLabel(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + ", " + strconv.FormatFloat(lon, 'f', -1, 64)
}

// ShortLabel trims a display name to its first n comma-separated parts.
func ShortLabel(name string, n int) string {
	parts := strings.Split(name, ",")
	if len(parts) <= n {
		return name
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts[:n], ", ")
}
