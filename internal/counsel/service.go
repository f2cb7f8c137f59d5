package counsel

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Thebinary110/Free-L/internal/catalog"
	"github.com/Thebinary110/Free-L/internal/dataset"
	"github.com/Thebinary110/Free-L/internal/eligibility"
	"github.com/Thebinary110/Free-L/internal/rank"
	"github.com/Thebinary110/Free-L/internal/stats"
)

// InvalidInputError reports a request field that fails validation before any
// dataset work happens.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RecommendLimit bounds the recommendation list.
const RecommendLimit = 10

// Service binds the rank estimator and the dataset catalog into the
// operations the gateway and the terminal explorer expose.
type Service struct {
	catalog   *catalog.Catalog
	estimator *rank.Estimator
}

func New(c *catalog.Catalog, e *rank.Estimator) *Service {
	return &Service{catalog: c, estimator: e}
}

// EstimateRank maps a score and category to an estimated rank. Out-of-range
// scores come back as the estimator's sentinel, never an error.
func (s *Service) EstimateRank(score float64, category string) int {
	return s.estimator.Estimate(score, category)
}

// Regions lists the known regions, sorted.
func (s *Service) Regions(ctx context.Context) ([]string, error) {
	return s.catalog.Regions(ctx)
}

// Metadata summarizes one region's dataset.
func (s *Service) Metadata(ctx context.Context, region string) (dataset.Metadata, error) {
	return s.catalog.Metadata(ctx, region)
}

// Refresh invalidates every cached table and summary and rebuilds the
// metadata cache.
func (s *Service) Refresh(ctx context.Context) error {
	return s.catalog.Refresh(ctx)
}

// QueryRequest is the transport-agnostic eligibility query. Round names a
// closing-rank column; zero-valued rank bounds are unset.
type QueryRequest struct {
	Region   string
	Quota    string
	Category string
	Round    string
	Rank     int // estimated rank; keeps only cutoffs at or beyond it
	MinRank  int
	MaxRank  int
	Search   string
	Page     int
	PageSize int
}

// QueryResult mirrors the wire shape: full match count plus the requested
// window.
type QueryResult struct {
	Total    int              `json:"total"`
	Colleges []dataset.Record `json:"colleges"`
}

// QueryEligible runs one eligibility search over a region's table.
func (s *Service) QueryEligible(ctx context.Context, req QueryRequest) (QueryResult, error) {
	q, err := buildQuery(req)
	if err != nil {
		return QueryResult{}, err
	}
	res, err := s.runFilter(ctx, req.Region, q)
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Total: res.Total, Colleges: nonNil(res.Records)}, nil
}

// RecommendRequest is the "can I get in" mode: estimate a rank from the
// score, then list the best colleges that admit it.
type RecommendRequest struct {
	Score    float64
	Category string
	Region   string
	Quota    string
	Round    string
}

type Recommendation struct {
	EstimatedRank int              `json:"estimated_rank"`
	Total         int              `json:"total"`
	Colleges      []dataset.Record `json:"colleges"`
}

// Recommend estimates a rank and returns the top eligible colleges for it,
// most competitive first.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (Recommendation, error) {
	if math.IsNaN(req.Score) || math.IsInf(req.Score, 0) {
		return Recommendation{}, &InvalidInputError{Field: "score", Reason: "must be a number"}
	}
	est := s.EstimateRank(req.Score, req.Category)
	q, err := buildQuery(QueryRequest{
		Region:   req.Region,
		Quota:    req.Quota,
		Category: req.Category,
		Round:    req.Round,
		Rank:     est,
	})
	if err != nil {
		return Recommendation{}, err
	}
	q.Limit = RecommendLimit
	res, err := s.runFilter(ctx, req.Region, q)
	if err != nil {
		return Recommendation{}, err
	}
	return Recommendation{EstimatedRank: est, Total: res.Total, Colleges: nonNil(res.Records)}, nil
}

// Statistics summarizes the full match set of a query; pagination fields
// are ignored.
func (s *Service) Statistics(ctx context.Context, req QueryRequest) (stats.Summary, error) {
	req.Page, req.PageSize = 0, 0
	q, err := buildQuery(req)
	if err != nil {
		return stats.Summary{}, err
	}
	res, err := s.runFilter(ctx, req.Region, q)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(res.Records, q.Round, 0), nil
}

func (s *Service) runFilter(ctx context.Context, region string, q eligibility.Query) (eligibility.Result, error) {
	t, err := s.catalog.Table(ctx, region)
	if err != nil {
		return eligibility.Result{}, err
	}
	return eligibility.Filter(t, q)
}

func buildQuery(req QueryRequest) (eligibility.Query, error) {
	if strings.TrimSpace(req.Region) == "" {
		return eligibility.Query{}, &InvalidInputError{Field: "state", Reason: "required"}
	}
	round, ok := dataset.ParseRound(req.Round)
	if !ok {
		return eligibility.Query{}, &InvalidInputError{Field: "round", Reason: "must name a cr_<year>_<round> column"}
	}
	if req.Rank < 0 {
		return eligibility.Query{}, &InvalidInputError{Field: "rank", Reason: "must not be negative"}
	}
	if req.MinRank < 0 || req.MaxRank < 0 {
		return eligibility.Query{}, &InvalidInputError{Field: "min_rank", Reason: "must not be negative"}
	}
	if req.Page < 0 || req.PageSize < 0 {
		return eligibility.Query{}, &InvalidInputError{Field: "page", Reason: "must not be negative"}
	}
	return eligibility.Query{
		Region:        req.Region,
		Quota:         req.Quota,
		Category:      req.Category,
		Round:         round,
		MinRank:       req.MinRank,
		MaxRank:       req.MaxRank,
		EstimatedRank: req.Rank,
		NameSearch:    req.Search,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}, nil
}

func nonNil(records []dataset.Record) []dataset.Record {
	if records == nil {
		return []dataset.Record{}
	}
	return records
}
