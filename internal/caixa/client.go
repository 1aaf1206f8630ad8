// Package caixa fetches Lotofácil results from the official results API.
package caixa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/verte-zerg/lotofacil/internal/history"
	"github.com/verte-zerg/lotofacil/internal/model"
)

// DefaultBaseURL is the public Lotofácil results endpoint.
const DefaultBaseURL = "https://servicebus2.caixa.gov.br/portaldeloterias/api/lotofacil"

const (
	defaultTimeout = 10 * time.Second
	defaultRate    = 2.0
	maxBodySize    = 1 << 20
	userAgent      = "lotofacil-cli"
)

// ErrNotFound is returned for contests the API does not know yet.
var ErrNotFound = errors.New("contest not found")

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Rate       float64 // requests per second; negative disables pacing
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client talks to the results API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// New returns a Client.
func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	limit := rate.Limit(opts.Rate)
	switch {
	case opts.Rate < 0:
		limit = rate.Inf
	case opts.Rate == 0:
		limit = rate.Limit(defaultRate)
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
		log:     opts.Logger,
	}
}

// Latest fetches the most recent contest.
func (c *Client) Latest(ctx context.Context) (model.DrawRecord, error) {
	return c.fetch(ctx, c.baseURL)
}

// Contest fetches a single contest by number.
func (c *Client) Contest(ctx context.Context, number int) (model.DrawRecord, error) {
	if number <= 0 {
		return model.DrawRecord{}, fmt.Errorf("invalid contest number %d", number)
	}
	return c.fetch(ctx, c.baseURL+"/"+strconv.Itoa(number))
}

func (c *Client) fetch(ctx context.Context, url string) (model.DrawRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.DrawRecord{}, fmt.Errorf("rate limiter: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return model.DrawRecord{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return model.DrawRecord{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return model.DrawRecord{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return model.DrawRecord{}, fmt.Errorf("unexpected results status: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return model.DrawRecord{}, fmt.Errorf("failed to read results response: %w", err)
	}
	return ParseResult(body)
}

// ParseResult reads a contest payload. The draw is taken from listaDezenas,
// falling back to dezenasSorteadasOrdemSorteio, and the date from
// dataApuracao, falling back to data.
func ParseResult(body []byte) (model.DrawRecord, error) {
	if !gjson.ValidBytes(body) {
		return model.DrawRecord{}, fmt.Errorf("invalid results payload")
	}
	doc := gjson.ParseBytes(body)

	contest := int(doc.Get("numero").Int())
	if contest <= 0 {
		return model.DrawRecord{}, fmt.Errorf("missing contest number in results payload")
	}

	balls := doc.Get("listaDezenas")
	if !balls.IsArray() || len(balls.Array()) == 0 {
		balls = doc.Get("dezenasSorteadasOrdemSorteio")
	}
	numbers := make([]int, 0, model.DrawSize)
	for _, b := range balls.Array() {
		n, ok := history.ParseBall(b.String())
		if !ok {
			continue
		}
		numbers = append(numbers, n)
	}
	draw, err := model.NewDraw(numbers)
	if err != nil {
		var invalid *model.InvalidDrawError
		if errors.As(err, &invalid) {
			invalid.Contest = contest
		}
		return model.DrawRecord{}, err
	}

	date := doc.Get("dataApuracao").String()
	if date == "" {
		date = doc.Get("data").String()
	}
	return model.DrawRecord{Contest: contest, Date: history.ParseDate(date), Draw: draw}, nil
}
