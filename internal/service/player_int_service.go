package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/echoes-intel/playint/internal/common"
	"github.com/echoes-intel/playint/internal/domain"
	"github.com/echoes-intel/playint/internal/stats"
	"github.com/echoes-intel/playint/pkg/killmail"
	pkglogger "github.com/echoes-intel/playint/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// KillmailFetcher loads every killmail row for one query
type KillmailFetcher interface {
	FetchAll(ctx context.Context, q killmail.Query) ([]killmail.Record, error)
}

// PlayerIntOptions tuning of the report
type PlayerIntOptions struct {
	TopN     int
	MaxBarPx int
}

// PlayerIntService builds location and activity reports for a player
type PlayerIntService struct {
	fetcher KillmailFetcher
	opts    PlayerIntOptions
}

// NewPlayerIntService creates a new PlayerIntService
func NewPlayerIntService(fetcher KillmailFetcher, opts PlayerIntOptions) *PlayerIntService {
	if opts.TopN == 0 {
		opts.TopN = stats.DefaultTopN
	}
	if opts.MaxBarPx == 0 {
		opts.MaxBarPx = stats.DefaultMaxBarPx
	}
	return &PlayerIntService{fetcher: fetcher, opts: opts}
}

// Report fetches the player's killmails in the selected directions and
// aggregates them. Validation errors are returned before anything is fetched.
func (s *PlayerIntService) Report(ctx context.Context, q domain.PlayerQuery) (*domain.PlayerReport, error) {
	name := strings.TrimSpace(q.Name)
	if name == "" {
		return nil, common.ErrPlayerNameRequired
	}

	dateRange, err := ParseDateRange(q.Start, q.End)
	if err != nil {
		return nil, err
	}

	directions := q.Directions()
	log := pkglogger.WithComponent("player-int")

	records, err := s.fetch(ctx, name, directions)
	if err != nil {
		log.Error().Err(err).Str("player", name).Msg("killmail fetch failed")
		return nil, fmt.Errorf("%w: %v", common.ErrProcessingFailed, err)
	}

	rows := make([]domain.EventRow, len(records))
	for i, rec := range records {
		rows[i] = domain.NewEventRow(rec)
	}
	filtered := stats.FilterByDate(rows, dateRange)

	var (
		regions []domain.RegionNode
		hourly  []domain.HourBucket
	)
	var g errgroup.Group
	g.Go(func() error {
		return guard("aggregate", func() {
			regions = stats.Aggregate(filtered, s.opts.TopN)
		})
	})
	g.Go(func() error {
		return guard("hourly", func() {
			hourly = stats.Hourly(rows, len(rows), s.opts.MaxBarPx)
		})
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("player", name).Msg("killmail aggregation failed")
		return nil, fmt.Errorf("%w: %v", common.ErrProcessingFailed, err)
	}

	log.Info().
		Str("player", name).
		Int("fetched", len(rows)).
		Int("in_range", len(filtered)).
		Int("regions", len(regions)).
		Msg("player report built")

	report := &domain.PlayerReport{
		PlayerName:        name,
		Total:             len(filtered),
		Fetched:           len(rows),
		TopRegions:        regions,
		HourlyPercentages: hourly,
		StartDate:         strings.TrimSpace(q.Start),
		EndDate:           strings.TrimSpace(q.End),
	}
	for _, d := range directions {
		switch d {
		case domain.DirectionKiller:
			report.KillSelected = true
		case domain.DirectionVictim:
			report.DeathSelected = true
		}
	}
	return report, nil
}

// fetch runs one fan-out per direction concurrently and concatenates the
// results in direction order.
func (s *PlayerIntService) fetch(ctx context.Context, name string, directions []domain.Direction) ([]killmail.Record, error) {
	results := make([][]killmail.Record, len(directions))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range directions {
		i, d := i, d
		g.Go(func() error {
			recs, err := s.fetcher.FetchAll(gctx, killmail.Query{Direction: string(d), Name: name})
			if err != nil {
				return fmt.Errorf("%s query: %w", d, err)
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []killmail.Record
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// ParseDateRange parses optional start/end bounds
func ParseDateRange(start, end string) (domain.DateRange, error) {
	var r domain.DateRange

	if s := strings.TrimSpace(start); s != "" {
		t, err := domain.ParseTimestamp(s)
		if err != nil {
			return r, fmt.Errorf("%w: %v", common.ErrInvalidStartDate, err)
		}
		r.Start = &t
	}
	if e := strings.TrimSpace(end); e != "" {
		t, err := domain.ParseTimestamp(e)
		if err != nil {
			return r, fmt.Errorf("%w: %v", common.ErrInvalidEndDate, err)
		}
		r.End = &t
	}
	return r, nil
}

// guard turns a panic in fn into an error
func guard(stage string, fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s panicked: %v", stage, p)
		}
	}()
	start := time.Now()
	fn()
	pkglogger.GetLogger().Debug().Str("stage", stage).Dur("took", time.Since(start)).Msg("stage done")
	return nil
}
