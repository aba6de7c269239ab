package ecb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/beevik/etree"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Base is the currency every ECB reference rate is quoted against
const Base = "EUR"

const ratesKey = "eurofxref"

// ErrUnknownCurrency is returned when a currency has no reference rate
var ErrUnknownCurrency = errors.New("unknown currency")

// Rates is one day of reference rates: units of currency per euro
type Rates struct {
	Date  string             `json:"date"`
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Convert converts amount from one currency to another through the euro
func (r Rates) Convert(amount float64, from, to string) (float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return amount, nil
	}
	fromRate, ok := r.rate(from)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
	}
	toRate, ok := r.rate(to)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}
	return amount / fromRate * toRate, nil
}

func (r Rates) rate(currency string) (float64, bool) {
	if currency == Base {
		return 1, true
	}
	v, ok := r.Rates[currency]
	return v, ok && v > 0
}

// Client fetches the ECB daily reference rates
type Client struct {
	url    string
	client *http.Client
	cache  *cache.Cache
	log    *logrus.Logger
}

// NewClient initializes a new ECB client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	ttl := cfg.RatesCacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Client{
		url: cfg.ECBURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache.New(ttl, 2*ttl),
		log:   log,
	}
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("ECB XML response: %d bytes", len(body))
	return body, nil
}

// parseRates extracts the reference rates from the eurofxref envelope
func parseRates(raw []byte) (Rates, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return Rates{}, fmt.Errorf("failed to parse XML: %w", err)
	}

	out := Rates{Base: Base, Rates: make(map[string]float64)}
	if day := doc.FindElement("//Cube[@time]"); day != nil {
		out.Date = day.SelectAttrValue("time", "")
	}
	for _, el := range doc.FindElements("//Cube[@currency]") {
		currency := el.SelectAttrValue("currency", "")
		rate, err := strconv.ParseFloat(el.SelectAttrValue("rate", ""), 64)
		if err != nil {
			return Rates{}, fmt.Errorf("failed to parse rate for %s: %w", currency, err)
		}
		out.Rates[currency] = rate
	}
	if len(out.Rates) == 0 {
		return Rates{}, fmt.Errorf("no rate data found in XML")
	}
	return out, nil
}

// Latest returns the most recent reference rates, served from cache when fresh
func (c *Client) Latest(ctx context.Context) (Rates, error) {
	if cached, ok := c.cache.Get(ratesKey); ok {
		return cached.(Rates), nil
	}

	body, err := c.fetch(ctx)
	if err != nil {
		return Rates{}, err
	}
	rates, err := parseRates(body)
	if err != nil {
		return Rates{}, err
	}

	c.cache.SetDefault(ratesKey, rates)
	c.log.Infof("Retrieved %d ECB reference rates for %s", len(rates.Rates), rates.Date)
	return rates, nil
}
