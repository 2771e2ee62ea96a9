// Package iex fetches daily close prices from the IEX Cloud API.
//
// Responses are cached on disk with a key that includes the current day, so
// repeated runs within one day never hit the network twice for the same
// request.
package iex

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ThomasStivers/portfolio"
	"github.com/ThomasStivers/portfolio/date"
)

const iexAPIKey = "IEX_API_KEY"

var apiFlag = flag.String("iex-api-key", "", "IEX Cloud API key for fetching close prices.\n If missing it is read from the environment variable \""+iexAPIKey+"\".")

func apiKey() string {
	if *apiFlag == "" {
		*apiFlag = os.Getenv(iexAPIKey)
	}
	return *apiFlag
}

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// diskCache uses a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", date.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// daily returns a client with a disk cache that expires every day.
func daily() *http.Client {
	return &http.Client{
		Transport: &diskCache{http.DefaultTransport},
		Timeout:   30 * time.Second,
	}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

// Provider fetches close prices from IEX Cloud in batches. It satisfies
// portfolio.Provider.
type Provider struct {
	// Base overrides the API endpoint, for tests.
	Base string
	// Client overrides the daily-cached HTTP client, for tests.
	Client *http.Client
}

const defaultBase = "https://cloud.iexapis.com/stable"

// chartRange picks the smallest IEX chart range covering the window.
func chartRange(window date.Range) string {
	days := 0
	for range window.Days() {
		days++
	}
	switch {
	case days <= 5:
		return "5d"
	case days <= 28:
		return "1m"
	case days <= 90:
		return "3m"
	case days <= 180:
		return "6m"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	default:
		return "5y"
	}
}

// Closes fetches the daily close series for every symbol and returns them
// clipped to the window. A provider failure or an empty result is reported
// as an error wrapping portfolio.ErrDataUnavailable so that callers fall
// back to cached data.
func (p *Provider) Closes(symbols []string, window date.Range) (*portfolio.PriceSeries, error) {
	key := apiKey()
	if key == "" {
		return nil, fmt.Errorf("no IEX API key configured: %w", portfolio.ErrDataUnavailable)
	}
	base := p.Base
	if base == "" {
		base = defaultBase
	}
	client := p.Client
	if client == nil {
		client = daily()
	}

	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	q.Set("types", "chart")
	q.Set("range", chartRange(window))
	q.Set("token", key)
	addr := base + "/stock/market/batch?" + q.Encode()

	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("retrieving closes: %v: %w", err, portfolio.ErrDataUnavailable)
	}

	prices := portfolio.NewPriceSeries()
	for _, symbol := range symbols {
		if err := extract(jobj, symbol, window, prices); err != nil {
			return nil, err
		}
	}
	if prices.Len() == 0 {
		return nil, fmt.Errorf("empty response for %v: %w", symbols, portfolio.ErrDataUnavailable)
	}
	return prices, nil
}

// extract pulls one symbol's chart out of the batch response and appends
// the in-window closes to the series.
func extract(jobj any, symbol string, window date.Range, prices *portfolio.PriceSeries) error {
	path := fmt.Sprintf("$[%q].chart", symbol)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return fmt.Errorf("no chart for %q: %v: %w", symbol, err, portfolio.ErrDataUnavailable)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return fmt.Errorf("chart for %q is not a list: %w", symbol, portfolio.ErrDataUnavailable)
	}
	for _, jrow := range jlist {
		row, ok := jrow.(map[string]any)
		if !ok {
			continue
		}
		jdate, _ := row["date"].(string)
		day, err := date.Parse(jdate)
		if err != nil {
			log.Printf("skipping %q close with bad date %q: %v", symbol, jdate, err)
			continue
		}
		if !window.Contains(day) {
			continue
		}
		close, ok := row["close"].(float64)
		if !ok {
			continue
		}
		prices.Append(symbol, day, close)
	}
	return nil
}
