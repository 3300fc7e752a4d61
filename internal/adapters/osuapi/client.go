// Package osuapi fetches profiles, best-play lists, and raw beatmap files
// from an osu! API v1 compatible service.
//
// The v1 API serializes every field as a JSON string. The wire types here
// mirror that shape and nothing downstream ever sees them: payloads are
// converted into typed model values at this boundary and malformed fields
// are rejected instead of defaulting to zero.
package osuapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"pptally/internal/domain/model"
	"pptally/pkg/logger"
	"pptally/pkg/metrics"
)

// Default client configuration constants.
const (
	DefaultBaseURL        = "https://osu.ppy.sh/api"
	DefaultBeatmapBaseURL = "https://osu.ppy.sh/osu"
	defaultTimeout        = 30 * time.Second
	maxBeatmapBytes       = 32 << 20
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the v1 API endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithBeatmapBaseURL overrides the raw beatmap endpoint.
func WithBeatmapBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.beatmapURL = base
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client talks to the remote service.
type Client struct {
	http       *http.Client
	baseURL    string
	beatmapURL string
	key        string
	logger     logger.Logger
}

// New creates a Client with configuration options. The key authenticates
// v1 API calls; beatmap downloads are unauthenticated.
func New(key string, opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: defaultTimeout},
		baseURL:    DefaultBaseURL,
		beatmapURL: DefaultBeatmapBaseURL,
		key:        key,
		logger:     logger.Named("osuapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// userPayload mirrors one get_user element on the wire.
type userPayload struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	PPRaw     string `json:"pp_raw"`
	PlayCount string `json:"playcount"`
}

// bestPayload mirrors one get_user_best element on the wire.
type bestPayload struct {
	BeatmapID   string `json:"beatmap_id"`
	EnabledMods string `json:"enabled_mods"`
	Count300    string `json:"count300"`
	Count100    string `json:"count100"`
	Count50     string `json:"count50"`
	CountMiss   string `json:"countmiss"`
	MaxCombo    string `json:"maxcombo"`
	Rank        string `json:"rank"`
	PP          string `json:"pp"`
}

// Profile fetches the account summary for a user name or ID.
func (c *Client) Profile(ctx context.Context, user string) (model.Profile, error) {
	var payload []userPayload
	if err := c.getJSON(ctx, "get_user", url.Values{"u": {user}}, &payload); err != nil {
		return model.Profile{}, err
	}
	if len(payload) == 0 {
		return model.Profile{}, fmt.Errorf("%w: %q", ErrUserNotFound, user)
	}
	u := payload[0]
	userID, err := parseInt("user_id", u.UserID)
	if err != nil {
		return model.Profile{}, err
	}
	totalPP, err := parseFloat("pp_raw", u.PPRaw)
	if err != nil {
		return model.Profile{}, err
	}
	playCount, err := parseInt("playcount", u.PlayCount)
	if err != nil {
		return model.Profile{}, err
	}
	return model.Profile{
		UserID:    userID,
		Username:  u.Username,
		TotalPP:   totalPP,
		PlayCount: int(playCount),
	}, nil
}

// BestPlays fetches up to limit top plays for a user, ordered by the
// remote service (descending live pp).
func (c *Client) BestPlays(ctx context.Context, user string, limit int) ([]model.Play, error) {
	q := url.Values{"u": {user}, "limit": {strconv.Itoa(limit)}}
	var payload []bestPayload
	if err := c.getJSON(ctx, "get_user_best", q, &payload); err != nil {
		return nil, err
	}
	plays := make([]model.Play, 0, len(payload))
	for i, raw := range payload {
		play, err := raw.toPlay()
		if err != nil {
			return nil, fmt.Errorf("best play %d: %w", i, err)
		}
		plays = append(plays, play)
	}
	return plays, nil
}

func (b bestPayload) toPlay() (model.Play, error) {
	beatmapID, err := parseInt("beatmap_id", b.BeatmapID)
	if err != nil {
		return model.Play{}, err
	}
	mods, err := parseInt("enabled_mods", b.EnabledMods)
	if err != nil {
		return model.Play{}, err
	}
	count300, err := parseInt("count300", b.Count300)
	if err != nil {
		return model.Play{}, err
	}
	count100, err := parseInt("count100", b.Count100)
	if err != nil {
		return model.Play{}, err
	}
	count50, err := parseInt("count50", b.Count50)
	if err != nil {
		return model.Play{}, err
	}
	countMiss, err := parseInt("countmiss", b.CountMiss)
	if err != nil {
		return model.Play{}, err
	}
	maxCombo, err := parseInt("maxcombo", b.MaxCombo)
	if err != nil {
		return model.Play{}, err
	}
	pp, err := parseFloat("pp", b.PP)
	if err != nil {
		return model.Play{}, err
	}
	return model.Play{
		BeatmapID: beatmapID,
		Mods:      model.Mods(mods),
		Count300:  int(count300),
		Count100:  int(count100),
		Count50:   int(count50),
		CountMiss: int(countMiss),
		MaxCombo:  int(maxCombo),
		Grade:     b.Rank,
		LivePP:    pp,
	}, nil
}

// Beatmap downloads the raw .osu file for a beatmap ID.
func (c *Client) Beatmap(ctx context.Context, beatmapID int64) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%d", c.beatmapURL, beatmapID)
	body, err := c.get(ctx, "beatmap", endpoint)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: beatmap %d", ErrEmptyBody, beatmapID)
	}
	return body, nil
}

// getJSON performs an authenticated v1 API call and decodes the array
// response.
func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, out interface{}) error {
	q.Set("k", c.key)
	full := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, q.Encode())
	body, err := c.get(ctx, endpoint, full)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedPayload, endpoint, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordAPIRequest(endpoint, "error", elapsed)
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn(ctx, "close response body", logger.Error(cerr))
		}
	}()

	metrics.RecordAPIRequest(endpoint, strconv.Itoa(resp.StatusCode), elapsed)
	c.logger.Debug(ctx, "api request",
		logger.String("endpoint", endpoint),
		logger.String("request_id", requestID),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", elapsed))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, endpoint, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBeatmapBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	return body, nil
}

func parseInt(field, raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field %s=%q", ErrMalformedPayload, field, raw)
	}
	return v, nil
}

func parseFloat(field, raw string) (float64, error) {
	// pp_raw comes back empty for inactive accounts; treat it as zero.
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field %s=%q", ErrMalformedPayload, field, raw)
	}
	return v, nil
}
