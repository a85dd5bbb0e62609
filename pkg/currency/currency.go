package currency

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"k8s.io/klog"
)

// Latest requests the most recent published rate instead of a dated one.
const Latest = "latest"

// date and lower case source currency, in that order
const RateEndpoint = "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@%s/v1/currencies/%s.json"

// Converter fetches exchange rates and memoizes them for the lifetime of the
// process. Safe for concurrent use.
type Converter struct {
	endpoint string
	client   *http.Client

	mu    sync.Mutex
	cache map[string]float64
}

func NewConverter() *Converter {
	return NewConverterWithEndpoint(RateEndpoint)
}

func NewConverterWithEndpoint(endpoint string) *Converter {
	return &Converter{
		endpoint: endpoint,
		client:   http.DefaultClient,
		cache:    make(map[string]float64),
	}
}

// Rate returns the from→to exchange rate for the given date ("2006-01-02" or
// Latest). When the rate is not published, defaultRate is returned when set,
// otherwise an error.
func (c *Converter) Rate(from, to, date string, defaultRate *float64) (float64, error) {
	from = strings.ToLower(from)
	to = strings.ToLower(to)

	if from == to {
		return 1.0, nil
	}

	cacheKey := from + "/" + to + "@" + date

	c.mu.Lock()
	rate, ok := c.cache[cacheKey]
	c.mu.Unlock()

	if ok {
		return rate, nil
	}

	rate, found, err := c.fetchRate(from, to, date)
	if err != nil {
		return 0, err
	}

	if !found {
		if defaultRate == nil {
			return 0, fmt.Errorf("unable to fetch exchange rate for %s/%s and no default rate was specified", strings.ToUpper(from), strings.ToUpper(to))
		}

		return *defaultRate, nil
	}

	c.mu.Lock()
	c.cache[cacheKey] = rate
	c.mu.Unlock()

	return rate, nil
}

func (c *Converter) fetchRate(from, to, date string) (float64, bool, error) {
	url := fmt.Sprintf(c.endpoint, date, from)

	klog.Infof("Fetching %s/%s conversion rate for %s\n", strings.ToUpper(from), strings.ToUpper(to), date)

	rs, err := c.client.Get(url)
	if err != nil {
		return 0, false, fmt.Errorf("error getting currency conversion: %s", err)
	}
	defer rs.Body.Close()

	// the CDN 404s dates it has not published, treat that as a missing rate
	// so the default rate can apply
	if rs.StatusCode != http.StatusOK {
		return 0, false, nil
	}

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return 0, false, fmt.Errorf("error parsing currency conversion response: %s", err)
	}

	// response shape: {"date": "...", "<from>": {"<to>": rate, ...}}
	var payload map[string]json.RawMessage

	err = json.Unmarshal(bodyBytes, &payload)
	if err != nil {
		return 0, false, err
	}

	raw, ok := payload[from]
	if !ok {
		return 0, false, nil
	}

	var rates map[string]float64

	err = json.Unmarshal(raw, &rates)
	if err != nil {
		return 0, false, err
	}

	rate, ok := rates[to]

	return rate, ok, nil
}
