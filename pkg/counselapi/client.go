// Package counselapi is a small client for the counseling gateway's JSON
// API. It talks the same wire shapes the gateway serves and keeps no state
// beyond the HTTP client.
package counselapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	http *http.Client
	base string
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func New(cfg Config) *Client {
	h := &http.Client{}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{http: h, base: strings.TrimSuffix(cfg.BaseURL, "/")}
}

// Round pairs a closing-rank column with its display label.
type Round struct {
	Column string `json:"column"`
	Label  string `json:"label"`
}

// Metadata describes one state's dataset.
type Metadata struct {
	State      string   `json:"state"`
	NameField  string   `json:"name_field"`
	Columns    []string `json:"columns"`
	Categories []string `json:"categories"`
	Quotas     []string `json:"quotas"`
	Rounds     []Round  `json:"rounds"`
}

// College is one eligibility row. Closing ranks arrive as flat
// cr_<year>_<round> keys and are gathered into Cutoffs.
type College struct {
	Name     string
	State    string
	Quota    string
	Category string
	Cutoffs  map[string]int
}

func (c *College) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Cutoffs = map[string]int{}
	for k, v := range raw {
		switch k {
		case "college_name":
			if err := json.Unmarshal(v, &c.Name); err != nil {
				return err
			}
		case "state":
			if err := json.Unmarshal(v, &c.State); err != nil {
				return err
			}
		case "quota_name":
			if err := json.Unmarshal(v, &c.Quota); err != nil {
				return err
			}
		case "category":
			if err := json.Unmarshal(v, &c.Category); err != nil {
				return err
			}
		default:
			if strings.HasPrefix(k, "cr_") {
				var n int
				if err := json.Unmarshal(v, &n); err != nil {
					return err
				}
				c.Cutoffs[k] = n
			}
		}
	}
	return nil
}

// Query is the /query request body. Round names a closing-rank column from
// the state's metadata; zero values are omitted.
type Query struct {
	State    string `json:"state"`
	Quota    string `json:"quota,omitempty"`
	Category string `json:"category,omitempty"`
	Round    string `json:"round"`
	Rank     int    `json:"rank,omitempty"`
	MinRank  int    `json:"min_rank,omitempty"`
	MaxRank  int    `json:"max_rank,omitempty"`
	Search   string `json:"search,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

type QueryResult struct {
	Total    int       `json:"total"`
	Colleges []College `json:"colleges"`
}

type Estimate struct {
	Score         float64 `json:"score"`
	Category      string  `json:"category"`
	EstimatedRank int     `json:"estimated_rank"`
}

type RecommendRequest struct {
	Score    float64 `json:"score"`
	Category string  `json:"category,omitempty"`
	State    string  `json:"state"`
	Quota    string  `json:"quota,omitempty"`
	Round    string  `json:"round"`
}

type Recommendation struct {
	EstimatedRank int       `json:"estimated_rank"`
	Total         int       `json:"total"`
	Colleges      []College `json:"colleges"`
}

type Bucket struct {
	ClosingRank int `json:"closing_rank"`
	Count       int `json:"count"`
}

type Statistics struct {
	Count           int       `json:"count"`
	MeanClosingRank *float64  `json:"mean_closing_rank"`
	MinClosingRank  *int      `json:"min_closing_rank"`
	Distribution    []Bucket  `json:"distribution"`
	TopColleges     []College `json:"top_colleges"`
}

func (c *Client) States() ([]string, error) {
	var res struct {
		States []string `json:"states"`
	}
	if err := c.get("/states", &res); err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	return res.States, nil
}

func (c *Client) Metadata(state string) (Metadata, error) {
	var meta Metadata
	if err := c.get("/states/"+url.PathEscape(state)+"/metadata", &meta); err != nil {
		return Metadata{}, fmt.Errorf("state metadata: %w", err)
	}
	return meta, nil
}

func (c *Client) Quotas(state string) ([]string, error) {
	var res struct {
		Quotas []string `json:"quotas"`
	}
	if err := c.get("/states/"+url.PathEscape(state)+"/quotas", &res); err != nil {
		return nil, fmt.Errorf("state quotas: %w", err)
	}
	return res.Quotas, nil
}

func (c *Client) Categories(state string) ([]string, error) {
	var res struct {
		Categories []string `json:"categories"`
	}
	if err := c.get("/states/"+url.PathEscape(state)+"/categories", &res); err != nil {
		return nil, fmt.Errorf("state categories: %w", err)
	}
	return res.Categories, nil
}

func (c *Client) Rounds(state string) ([]Round, error) {
	var res struct {
		Rounds []Round `json:"rounds"`
	}
	if err := c.get("/states/"+url.PathEscape(state)+"/rounds", &res); err != nil {
		return nil, fmt.Errorf("state rounds: %w", err)
	}
	return res.Rounds, nil
}

func (c *Client) QueryColleges(q Query) (QueryResult, error) {
	var res QueryResult
	if err := c.post("/query", q, &res); err != nil {
		return QueryResult{}, fmt.Errorf("query colleges: %w", err)
	}
	return res, nil
}

func (c *Client) EstimateRank(score float64, category string) (Estimate, error) {
	req := map[string]any{"score": score}
	if category != "" {
		req["category"] = category
	}
	var est Estimate
	if err := c.post("/estimate", req, &est); err != nil {
		return Estimate{}, fmt.Errorf("estimate rank: %w", err)
	}
	return est, nil
}

func (c *Client) Recommend(req RecommendRequest) (Recommendation, error) {
	var rec Recommendation
	if err := c.post("/recommend", req, &rec); err != nil {
		return Recommendation{}, fmt.Errorf("recommend: %w", err)
	}
	return rec, nil
}

func (c *Client) Statistics(q Query) (Statistics, error) {
	var sum Statistics
	if err := c.post("/statistics", q, &sum); err != nil {
		return Statistics{}, fmt.Errorf("statistics: %w", err)
	}
	return sum, nil
}

func (c *Client) RefreshMetadata() error {
	if err := c.post("/refresh-metadata", nil, nil); err != nil {
		return fmt.Errorf("refresh metadata: %w", err)
	}
	return nil
}

func (c *Client) get(path string, out any) error {
	res, err := c.http.Get(c.base + path)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return apiError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) post(path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}
	res, err := c.http.Post(c.base+path, "application/json", &body)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return apiError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// apiError surfaces the gateway's {"error": ...} body when there is one.
func apiError(res *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&e); err == nil && e.Error != "" {
		return fmt.Errorf("%s: %s", res.Status, e.Error)
	}
	return fmt.Errorf("%s", res.Status)
}
