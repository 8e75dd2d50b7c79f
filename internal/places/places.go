package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/ringsaturn/tzf"
	"go.uber.org/zap"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

const (
	MinQueryLength = 2
	resultLimit    = 5
)

type Suggestion struct {
	PlaceID     string `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Timezone    string `json:"timezone,omitempty"`
}

// TimezoneFinder resolves an IANA zone name from coordinates.
type TimezoneFinder interface {
	GetTimezoneName(lng, lat float64) string
}

// NewTimezoneFinder loads the bundled timezone polygons.
func NewTimezoneFinder() (TimezoneFinder, error) {
	return tzf.NewDefaultFinder()
}

type Config struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
}

// Client suggests destinations for partially typed names.
type Client struct {
	cfg    Config
	http   *http.Client
	cache  *cache.Cache
	tz     TimezoneFinder
	logger *zap.Logger
}

func NewClient(cfg Config, httpClient *http.Client, tz TimezoneFinder, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.locationiq.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		cache:  cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		tz:     tz,
		logger: logger,
	}
}

// Autocomplete returns up to five suggestions. Queries shorter than two
// characters return an empty list without calling the provider.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]Suggestion, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < MinQueryLength {
		return []Suggestion{}, nil
	}
	if c.cfg.APIKey == "" {
		return nil, domain.ErrPlacesNotConfigured
	}

	key := strings.ToLower(q)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Suggestion), nil
	}

	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(resultLimit))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/autocomplete?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places: %w", err)
	}
	defer resp.Body.Close()

	// LocationIQ answers 404 when nothing matches.
	if resp.StatusCode == http.StatusNotFound {
		c.cache.SetDefault(key, []Suggestion{})
		return []Suggestion{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("places: provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var results []Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("places: decode response: %w", err)
	}
	if len(results) > resultLimit {
		results = results[:resultLimit]
	}
	for i := range results {
		results[i].Timezone = c.timezone(results[i])
	}

	c.cache.SetDefault(key, results)
	return results, nil
}

func (c *Client) timezone(s Suggestion) string {
	if c.tz == nil {
		return ""
	}
	lat, errLat := strconv.ParseFloat(s.Lat, 64)
	lon, errLon := strconv.ParseFloat(s.Lon, 64)
	if errLat != nil || errLon != nil {
		c.logger.Debug("suggestion without coordinates", zap.String("place_id", s.PlaceID))
		return ""
	}
	return c.tz.GetTimezoneName(lon, lat)
}
