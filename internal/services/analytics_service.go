// Package services orchestrates the stores, the analytics engine, and
// the caches behind the HTTP API and the report worker.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akashreddykandula/spendWise/internal/analytics"
	"github.com/akashreddykandula/spendWise/internal/cache"
	"github.com/akashreddykandula/spendWise/internal/core"
	"github.com/akashreddykandula/spendWise/internal/storage"
)

// Overview is the current-period snapshot for one owner.
type Overview struct {
	Owner           string
	Window          analytics.Window
	TotalIncome     core.Money
	TotalExpense    core.Money
	Balance         core.Money
	ByCategory      []analytics.CategoryTotal
	ByDay           []analytics.DayTotal
	HighestCategory *analytics.CategoryTotal
	Budget          analytics.OverspendReport
}

// Advanced is the deeper report: comparison, savings trend, top-mover
// insight, and the current month's overspend state.
type Advanced struct {
	Owner      string
	Comparison analytics.Comparison
	Timeline   []analytics.TimelinePoint
	Trend      analytics.TrendSeries
	Insight    *analytics.Insight
	Overspend  analytics.OverspendReport
}

// Options tunes the service. Zero values fall back to defaults.
type Options struct {
	Now         func() time.Time
	TrendMonths int
	CacheSize   int
	CacheTTL    time.Duration
}

// AnalyticsService computes analytics over a transaction store and a
// budget store. Reads are cached per owner; any write through the
// service drops that owner's cached results.
type AnalyticsService struct {
	transactions storage.TransactionStore
	budgets      storage.BudgetStore
	txWriter     storage.TransactionWriter
	budgetWriter storage.BudgetWriter

	overviewCache *cache.LRUCache[Overview]
	advancedCache *cache.LRUCache[Advanced]
	trendCache    *cache.LRUCache[analytics.TrendSeries]

	now         func() time.Time
	trendMonths int
}

func NewAnalyticsService(transactions storage.TransactionStore, budgets storage.BudgetStore, opts Options) *AnalyticsService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	trendMonths := opts.TrendMonths
	if trendMonths <= 0 {
		trendMonths = analytics.DefaultTrendMonths
	}

	s := &AnalyticsService{
		transactions: transactions,
		budgets:      budgets,
		now:          now,
		trendMonths:  trendMonths,
	}
	if opts.CacheSize > 0 && opts.CacheTTL > 0 {
		s.overviewCache = cache.NewLRUCache[Overview](opts.CacheSize, opts.CacheTTL)
		s.advancedCache = cache.NewLRUCache[Advanced](opts.CacheSize, opts.CacheTTL)
		s.trendCache = cache.NewLRUCache[analytics.TrendSeries](opts.CacheSize, opts.CacheTTL)
	}
	return s
}

// WithWriters enables the write-through methods. Stores without a write
// side (the sheets backend) leave these nil.
func (s *AnalyticsService) WithWriters(txw storage.TransactionWriter, bw storage.BudgetWriter) *AnalyticsService {
	s.txWriter = txw
	s.budgetWriter = bw
	return s
}

// Caches registers the service caches with a cleanup manager.
func (s *AnalyticsService) Caches() []cache.Cleaner {
	var cleaners []cache.Cleaner
	if s.overviewCache != nil {
		cleaners = append(cleaners, s.overviewCache, s.advancedCache, s.trendCache)
	}
	return cleaners
}

// Overview returns the aggregate for the given window, defaulting to
// the current month. The budget report is only attached for the
// default window; an explicit range has no meaningful monthly limit.
func (s *AnalyticsService) Overview(ctx context.Context, owner string, window analytics.Window) (Overview, error) {
	if owner == "" {
		return Overview{}, core.ErrEmptyOwner
	}

	defaultWindow := window.IsZero()
	if defaultWindow {
		window = analytics.CurrentMonth(s.now())
	} else if window.IsEmpty() {
		// An inverted explicit range is a valid request for nothing.
		return Overview{Owner: owner, Window: window}, nil
	}

	key := overviewKey(owner, window)
	if s.overviewCache != nil {
		if cached, ok := s.overviewCache.Get(key); ok {
			return cached, nil
		}
	}

	var (
		txs    []core.Transaction
		budget core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactions.Find(gctx, storage.Query{Owner: owner, From: window.From, To: window.To})
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budget, err = s.loadBudget(gctx, owner)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	res := analytics.Aggregate(txs, window)

	ov := Overview{
		Owner:           owner,
		Window:          window,
		TotalIncome:     res.TotalIncome,
		TotalExpense:    res.TotalExpense,
		Balance:         res.Balance,
		ByCategory:      res.ByCategory,
		ByDay:           res.ByDay,
		HighestCategory: res.HighestCategory,
	}
	if defaultWindow {
		ov.Budget = analytics.Evaluate(res, budget)
	}

	if s.overviewCache != nil {
		s.overviewCache.Set(key, ov)
	}
	return ov, nil
}

// Advanced returns the month-vs-year comparison, the rolling savings
// trend, the top-mover insight, and the current month's overspend
// report for one owner.
func (s *AnalyticsService) Advanced(ctx context.Context, owner string) (Advanced, error) {
	if owner == "" {
		return Advanced{}, core.ErrEmptyOwner
	}

	now := s.now()
	key := owner + "|advanced|" + now.Format("2006-01-02T15:04")
	if s.advancedCache != nil {
		if cached, ok := s.advancedCache.Get(key); ok {
			return cached, nil
		}
	}

	// One store read covers every window the report needs: the trend
	// reaches back the furthest, the year comparison bounds the rest.
	from := earliest(analytics.RollingMonths(now, s.trendMonths)[0].Window.From, analytics.CurrentYear(now).From)
	from = earliest(from, analytics.PreviousMonth(now).From)

	var (
		txs    []core.Transaction
		budget core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactions.Find(gctx, storage.Query{Owner: owner, From: from, To: now})
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budget, err = s.loadBudget(gctx, owner)
		return err
	})
	if err := g.Wait(); err != nil {
		return Advanced{}, err
	}

	currentMonth := analytics.CurrentMonth(now)
	current := analytics.Aggregate(txs, currentMonth)
	previous := analytics.Aggregate(txs, analytics.PreviousMonth(now))

	adv := Advanced{
		Owner:      owner,
		Comparison: analytics.Compare(txs, now),
		Timeline:   analytics.Timeline(txs, currentMonth),
		Trend:      analytics.BuildTrend(txs, now, s.trendMonths),
		Overspend:  analytics.Evaluate(current, budget),
	}
	if insight, ok := analytics.TopMover(current.ByCategory, previous.ByCategory); ok {
		adv.Insight = &insight
	}

	if s.advancedCache != nil {
		s.advancedCache.Set(key, adv)
	}
	return adv, nil
}

// Trend returns the rolling monthly savings series.
func (s *AnalyticsService) Trend(ctx context.Context, owner string) (analytics.TrendSeries, error) {
	if owner == "" {
		return analytics.TrendSeries{}, core.ErrEmptyOwner
	}

	now := s.now()
	key := owner + "|trend|" + now.Format("2006-01-02T15:04")
	if s.trendCache != nil {
		if cached, ok := s.trendCache.Get(key); ok {
			return cached, nil
		}
	}

	buckets := analytics.RollingMonths(now, s.trendMonths)
	txs, err := s.transactions.Find(ctx, storage.Query{Owner: owner, From: buckets[0].Window.From, To: now})
	if err != nil {
		return analytics.TrendSeries{}, fmt.Errorf("load transactions: %w", err)
	}

	series := analytics.BuildTrend(txs, now, s.trendMonths)
	if s.trendCache != nil {
		s.trendCache.Set(key, series)
	}
	return series, nil
}

// MonthlySummary computes the closed previous month for the report
// worker: aggregate plus overspend evaluation.
func (s *AnalyticsService) MonthlySummary(ctx context.Context, owner string, now time.Time) (Overview, error) {
	if owner == "" {
		return Overview{}, core.ErrEmptyOwner
	}

	window := analytics.PreviousMonth(now)

	var (
		txs    []core.Transaction
		budget core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactions.Find(gctx, storage.Query{Owner: owner, From: window.From, To: window.To})
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budget, err = s.loadBudget(gctx, owner)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	res := analytics.Aggregate(txs, window)
	return Overview{
		Owner:           owner,
		Window:          window,
		TotalIncome:     res.TotalIncome,
		TotalExpense:    res.TotalExpense,
		Balance:         res.Balance,
		ByCategory:      res.ByCategory,
		ByDay:           res.ByDay,
		HighestCategory: res.HighestCategory,
		Budget:          analytics.Evaluate(res, budget),
	}, nil
}

// ListTransactions returns the owner's transactions inside the window,
// oldest first. A zero window means no date bound.
func (s *AnalyticsService) ListTransactions(ctx context.Context, owner string, window analytics.Window) ([]core.Transaction, error) {
	if owner == "" {
		return nil, core.ErrEmptyOwner
	}
	if !window.IsZero() && window.IsEmpty() {
		return nil, nil
	}
	q := storage.Query{Owner: owner}
	if !window.IsZero() {
		q.From, q.To = window.From, window.To
	}
	txs, err := s.transactions.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// ListOwners exposes the store's owner list for the report worker.
func (s *AnalyticsService) ListOwners(ctx context.Context) ([]string, error) {
	return s.transactions.ListOwners(ctx)
}

// CreateTransaction writes a transaction and invalidates the owner's
// cached analytics.
func (s *AnalyticsService) CreateTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if s.txWriter == nil {
		return "", storage.ErrReadOnly
	}
	id, err := s.txWriter.Create(ctx, tx)
	if err != nil {
		return "", err
	}
	s.Invalidate(tx.Owner)
	return id, nil
}

// DeleteTransaction removes a transaction and invalidates the owner's
// cached analytics.
func (s *AnalyticsService) DeleteTransaction(ctx context.Context, owner, id string) error {
	if s.txWriter == nil {
		return storage.ErrReadOnly
	}
	if err := s.txWriter.Delete(ctx, owner, id); err != nil {
		return err
	}
	s.Invalidate(owner)
	return nil
}

// GetBudget returns the owner's budget. A missing budget comes back as
// an all-zero budget, not an error.
func (s *AnalyticsService) GetBudget(ctx context.Context, owner string) (core.Budget, error) {
	if owner == "" {
		return core.Budget{}, core.ErrEmptyOwner
	}
	return s.loadBudget(ctx, owner)
}

// UpsertBudget writes a budget and invalidates the owner's cached
// analytics.
func (s *AnalyticsService) UpsertBudget(ctx context.Context, b core.Budget) error {
	if s.budgetWriter == nil {
		return storage.ErrReadOnly
	}
	if err := s.budgetWriter.UpsertBudget(ctx, b); err != nil {
		return err
	}
	s.Invalidate(b.Owner)
	return nil
}

// Invalidate drops every cached result for the owner.
func (s *AnalyticsService) Invalidate(owner string) {
	if s.overviewCache == nil {
		return
	}
	prefix := owner + "|"
	s.overviewCache.DeletePrefix(prefix)
	s.advancedCache.DeletePrefix(prefix)
	s.trendCache.DeletePrefix(prefix)
}

func (s *AnalyticsService) loadBudget(ctx context.Context, owner string) (core.Budget, error) {
	budget, err := s.budgets.GetBudget(ctx, owner)
	if errors.Is(err, storage.ErrBudgetNotFound) {
		return core.Budget{Owner: owner}, nil
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("load budget: %w", err)
	}
	return budget, nil
}

func overviewKey(owner string, w analytics.Window) string {
	return owner + "|overview|" + w.From.Format("2006-01-02T15:04") + "|" + w.To.Format("2006-01-02T15:04")
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
