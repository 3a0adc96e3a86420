package source

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"

	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "spigell/jobradar"
)

// HTTPConfig configures an HTTP job feed adapter.
type HTTPConfig struct {
	// Name is the stable source identifier stamped on fetched postings.
	Name string
	// URL is the feed endpoint queried with GET.
	URL string
	// Token, when set, is sent as a bearer token.
	Token string
	// UserAgent overrides the default request user agent.
	UserAgent string
	// Timeout bounds each HTTP request. Network policy lives here, never
	// in the aggregator.
	Timeout time.Duration
}

// HTTP fetches raw job postings from a JSON endpoint. Bare-list responses
// are returned as is; paged responses of the form
// {items, found, pages, page, per_page} are walked until the last page.
// Unexpected payload shapes are passed through untouched so the aggregator
// can report the contract violation against this source.
type HTTP struct {
	cfg    HTTPConfig
	client *http.Client
	logger *zap.Logger
}

func NewHTTP(cfg HTTPConfig, logger *zap.Logger) *HTTP {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTP{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (s *HTTP) Name() string { return s.cfg.Name }

type pagedResponse struct {
	Items   []any `json:"items"`
	Found   int   `json:"found"`
	Pages   int   `json:"pages"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

func (s *HTTP) FetchRawJobs(ctx context.Context, query map[string]any) (any, error) {
	q := queryValues(query)
	items := make([]any, 0)

	for page := 0; ; {
		if page > 0 {
			q.Set("page", strconv.Itoa(page))
		}

		payload, err := s.getJSON(ctx, q)
		if err != nil {
			return nil, err
		}

		switch v := payload.(type) {
		case map[string]any:
			if _, ok := v["items"]; !ok {
				if jobs, ok := v["jobs"]; ok {
					return jobs, nil
				}
				return payload, nil
			}

			var resp pagedResponse
			cfg := &mapstructure.DecoderConfig{
				Result:           &resp,
				TagName:          "json",
				WeaklyTypedInput: true,
			}
			decoder, err := mapstructure.NewDecoder(cfg)
			if err != nil {
				return nil, err
			}
			if err := decoder.Decode(v); err != nil {
				return nil, fmt.Errorf("decoding paged response: %w", err)
			}

			items = append(items, resp.Items...)

			if resp.Page >= resp.Pages-1 {
				return items, nil
			}

			s.logger.Debug("additional page needed",
				zap.String("source", s.cfg.Name),
				zap.Int("page", resp.Page),
				zap.Int("pages", resp.Pages),
			)
			page = resp.Page + 1
		default:
			// Bare lists and anything unexpected go to the aggregator
			// unchanged; it owns the shape validation.
			return payload, nil
		}
	}
}

func (s *HTTP) getJSON(ctx context.Context, q url.Values) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}
	req.URL.RawQuery = q.Encode()

	s.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return payload, nil
}

// queryValues flattens the opaque query map into URL parameters. Keys are
// sorted so that requests stay deterministic.
func queryValues(query map[string]any) url.Values {
	q := url.Values{}
	if len(query) == 0 {
		return q
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch val := query[k].(type) {
		case nil:
		case []string:
			for _, item := range val {
				q.Add(k, item)
			}
		case []any:
			for _, item := range val {
				q.Add(k, fmt.Sprintf("%v", item))
			}
		default:
			if s := fmt.Sprintf("%v", val); s != "" {
				q.Set(k, s)
			}
		}
	}

	return q
}
