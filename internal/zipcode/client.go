package zipcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL = "https://sepomex.icalialabs.com/api/v1"
	perPage        = 200
	requestTimeout = 5 * time.Second
	cacheTTL       = 24 * time.Hour
)

var (
	ErrInvalidCode = errors.New("postal code must be exactly 5 digits")
	ErrNotFound    = errors.New("postal code not found")
	ErrUpstream    = errors.New("postal code service unavailable")
)

var postalCodeRe = regexp.MustCompile(`^\d{5}$`)

// ValidPostalCode reports whether code is a well-formed 5-digit postal code.
func ValidPostalCode(code string) bool {
	return postalCodeRe.MatchString(code)
}

// Result is the address data derived from one postal code. Colonies are
// deduplicated and sorted; State is our 3-letter code, StateName the
// upstream spelling.
type Result struct {
	PostalCode string   `json:"postalCode"`
	State      string   `json:"state"`
	StateName  string   `json:"stateName"`
	City       string   `json:"city"`
	Colonies   []string `json:"colonies"`
}

type sepomexResponse struct {
	ZipCodes []struct {
		State  string `json:"d_estado"`
		City   string `json:"d_ciudad"`
		Town   string `json:"d_mnpio"`
		Colony string `json:"d_asenta"`
	} `json:"zip_codes"`
}

// Client looks up postal codes against the SEPOMEX API. Lookups for the
// same code are collapsed with singleflight and results are cached in
// Redis for a day; the upstream dataset changes a few times a year at most.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *redis.Client
	breaker    *gobreaker.CircuitBreaker[*Result]
	sfg        singleflight.Group
}

// NewClient creates a Client. cache may be nil to disable caching.
func NewClient(baseURL string, cache *redis.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	settings := gobreaker.Settings{
		Name:    "sepomex",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		cache:      cache,
		breaker:    gobreaker.NewCircuitBreaker[*Result](settings),
	}
}

// Lookup resolves a 5-digit postal code. Returns ErrInvalidCode for
// malformed input, ErrNotFound when the code matches no colonies, and
// ErrUpstream when the API cannot be reached.
func (c *Client) Lookup(ctx context.Context, code string) (*Result, error) {
	if !ValidPostalCode(code) {
		return nil, ErrInvalidCode
	}

	if cached := c.fromCache(ctx, code); cached != nil {
		return cached, nil
	}

	v, err, _ := c.sfg.Do(code, func() (interface{}, error) {
		return c.breaker.Execute(func() (*Result, error) {
			return c.fetch(ctx, code)
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUpstream
		}
		return nil, err
	}

	result := v.(*Result)
	c.toCache(ctx, code, result)
	return result, nil
}

func (c *Client) fetch(ctx context.Context, code string) (*Result, error) {
	u := fmt.Sprintf("%s/zip_codes?zip_code=%s&per_page=%d", c.baseURL, url.QueryEscape(code), perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build zip code request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: upstream returned %d", ErrUpstream, resp.StatusCode)
	}

	var body sepomexResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	if len(body.ZipCodes) == 0 {
		return nil, ErrNotFound
	}

	first := body.ZipCodes[0]
	city := first.City
	if city == "" {
		city = first.Town
	}

	seen := make(map[string]bool)
	colonies := make([]string, 0, len(body.ZipCodes))
	for _, zc := range body.ZipCodes {
		if zc.Colony == "" || seen[zc.Colony] {
			continue
		}
		seen[zc.Colony] = true
		colonies = append(colonies, zc.Colony)
	}
	sort.Strings(colonies)

	return &Result{
		PostalCode: code,
		State:      string(StateCodeFromName(first.State)),
		StateName:  first.State,
		City:       city,
		Colonies:   colonies,
	}, nil
}

func (c *Client) fromCache(ctx context.Context, code string) *Result {
	if c.cache == nil {
		return nil
	}

	data, err := c.cache.Get(ctx, zipKey(code)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("zip cache read failed for %s: %v", code, err)
		}
		return nil
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		log.Printf("zip cache entry corrupt for %s: %v", code, err)
		return nil
	}
	return &result
}

func (c *Client) toCache(ctx context.Context, code string, result *Result) {
	if c.cache == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, zipKey(code), data, cacheTTL).Err(); err != nil {
		log.Printf("zip cache write failed for %s: %v", code, err)
	}
}

func zipKey(code string) string {
	return fmt.Sprintf("zip:%s", code)
}
