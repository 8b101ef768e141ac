package searcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dkoval87/hottours/internal/cache/memory"
	"github.com/dkoval87/hottours/internal/domain"
	"github.com/dkoval87/hottours/internal/metrics"
	"github.com/dkoval87/hottours/internal/travelapi"
)

const (
	defaultMaxRetries = 2
	defaultRetryDelay = 2 * time.Second
)

// State - снимок сессии поиска, единственное, что видит презентационный
// слой. Токен и счётчик ретраев наружу не выходят.
type State struct {
	Status    domain.SearchStatus
	Prices    domain.PricesMap
	Err       string
	CountryID string
}

type Config struct {
	MaxRetries int
	RetryDelay time.Duration
}

// Deps - зависимости оркестратора.
type Deps struct {
	Client  travelapi.PriceClient
	Cache   *memory.Store[domain.PricesMap]
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Config  Config

	// OnUpdate, if set, is invoked after every observable state change.
	OnUpdate func(State)
}

// Searcher drives one logical price search at a time: start, token-guarded
// polling with server-dictated or fixed backoff delays, retries, caching of
// completed results and cancellation of a superseded session. A new Search
// call always supersedes the previous one; responses carrying a token that
// is no longer current are dropped before they can touch state.
type Searcher struct {
	client   travelapi.PriceClient
	cache    *memory.Store[domain.PricesMap]
	logger   *zap.Logger
	metrics  *metrics.Metrics
	cfg      Config
	onUpdate func(State)

	ctx       context.Context
	ctxCancel context.CancelFunc

	mu         sync.Mutex
	status     domain.SearchStatus
	prices     domain.PricesMap
	errMsg     string
	countryID  string
	token      string
	retryCount int
	gen        uint64
	timer      *time.Timer
	notify     chan struct{}
	inFlight   bool
	startedAt  time.Time
	closed     bool
}

func New(deps Deps) *Searcher {
	if deps.Config.MaxRetries == 0 {
		deps.Config.MaxRetries = defaultMaxRetries
	}
	if deps.Config.RetryDelay == 0 {
		deps.Config.RetryDelay = defaultRetryDelay
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = memory.New[domain.PricesMap]()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Searcher{
		client:    deps.Client,
		cache:     deps.Cache,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		cfg:       deps.Config,
		onUpdate:  deps.OnUpdate,
		ctx:       ctx,
		ctxCancel: cancel,
		status:    domain.StatusIdle,
		notify:    make(chan struct{}),
	}
}

// Search supersedes any in-flight session, then either serves the result
// from cache or starts a new backend search and schedules the first poll.
// The returned error mirrors the terminal error status of the start phase;
// polling failures are only observable through the State.
func (s *Searcher) Search(ctx context.Context, countryID string) error {
	if countryID == "" {
		return domain.ErrEmptyCountryID
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSearcherClosed
	}
	stale := s.cancelLocked()
	s.mu.Unlock()

	// blocking precondition: the old session is stopped before anything else
	if stale != "" {
		s.stopRemote(ctx, stale)
	}

	if cached, ok := s.cache.Get(countryID); ok {
		if s.metrics != nil {
			s.metrics.RecordCacheHit()
		}
		s.logger.Debug("search served from cache", zap.String("country_id", countryID))

		s.mu.Lock()
		s.status = domain.StatusSuccess
		s.prices = cached
		s.errMsg = ""
		s.countryID = countryID
		s.retryCount = 0
		s.broadcastLocked()
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.update(snap)
		return nil
	}
	if s.metrics != nil {
		s.metrics.RecordCacheMiss()
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.status = domain.StatusStarting
	s.prices = nil
	s.errMsg = ""
	s.countryID = countryID
	s.retryCount = 0
	s.token = ""
	s.startedAt = time.Now()
	if !s.inFlight {
		s.inFlight = true
		if s.metrics != nil {
			s.metrics.IncSearchesInFlight()
		}
	}
	s.broadcastLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.update(snap)

	started, err := s.client.StartSearch(ctx, countryID)

	s.mu.Lock()
	if s.closed || s.gen != gen {
		// superseded while the start request was in flight
		s.mu.Unlock()
		if err == nil {
			s.stopRemote(context.Background(), started.Token)
		}
		return nil
	}

	if err != nil {
		s.logger.Warn("failed to start search",
			zap.String("country_id", countryID),
			zap.Error(err),
		)
		snap := s.terminalLocked(domain.StatusError, nil, messageOf(err, "could not start price search"))
		s.mu.Unlock()
		s.update(snap)
		return err
	}

	s.token = started.Token
	s.status = domain.StatusPolling
	delay := time.Until(started.WaitUntil)
	if delay < 0 {
		delay = 0
	}
	tok := started.Token
	s.timer = time.AfterFunc(delay, func() { s.poll(tok) })
	s.broadcastLocked()
	snap = s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("search started",
		zap.String("country_id", countryID),
		zap.Duration("first_poll_in", delay),
	)
	s.update(snap)
	return nil
}

// poll fires after a scheduled delay, carrying the token that scheduled it.
func (s *Searcher) poll(tok string) {
	s.mu.Lock()
	if s.closed || s.token != tok {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	results, err := s.client.GetResults(s.ctx, tok)

	s.mu.Lock()
	// токен мог смениться, пока ответ летел по сети - такой ответ чужой
	if s.closed || s.token != tok {
		s.mu.Unlock()
		return
	}

	if err == nil {
		var snap State
		if len(results) == 0 {
			s.recordPoll("empty")
			snap = s.terminalLocked(domain.StatusEmpty, nil, "")
		} else {
			s.cache.Set(s.countryID, results)
			s.recordPoll("success")
			snap = s.terminalLocked(domain.StatusSuccess, results, "")
		}
		s.mu.Unlock()
		s.update(snap)
		return
	}

	var tooEarly *travelapi.TooEarlyError
	if errors.As(err, &tooEarly) {
		// authoritative reschedule, does not consume retry budget
		delay := time.Until(tooEarly.WaitUntil)
		if delay < 0 {
			delay = 0
		}
		s.recordPoll("too_early")
		s.timer = time.AfterFunc(delay, func() { s.poll(tok) })
		s.mu.Unlock()

		s.logger.Debug("results not ready", zap.Duration("next_poll_in", delay))
		return
	}

	if s.retryCount < s.cfg.MaxRetries {
		s.retryCount++
		retry := s.retryCount
		s.recordPoll("retry")
		s.timer = time.AfterFunc(s.cfg.RetryDelay, func() { s.poll(tok) })
		s.mu.Unlock()

		s.logger.Warn("poll failed, retrying",
			zap.Int("attempt", retry),
			zap.Error(err),
		)
		return
	}

	s.recordPoll("failure")
	snap := s.terminalLocked(domain.StatusError, nil, messageOf(err, "failed to fetch prices after retries"))
	s.mu.Unlock()

	s.logger.Warn("search failed after retries", zap.Error(err))
	s.update(snap)
}

// Cancel aborts the active session. Without one it is a no-op. The remote
// stop is best-effort: local state is already clean when it is issued, and
// its outcome never reaches the caller.
func (s *Searcher) Cancel(ctx context.Context) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	tok := s.cancelLocked()
	s.mu.Unlock()

	s.stopRemote(ctx, tok)
}

// Close tears the searcher down; subsequent Search calls fail and any late
// timer or response firings are dropped.
func (s *Searcher) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	tok := s.cancelLocked()
	s.broadcastLocked()
	s.mu.Unlock()

	s.ctxCancel()
	if tok != "" {
		s.stopRemote(context.Background(), tok)
	}
}

func (s *Searcher) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Searcher) Status() domain.SearchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Searcher) ActiveCountryID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countryID
}

// Wait blocks until the current session reaches a terminal status and
// returns its snapshot. Waiting on an idle searcher blocks until a search
// is run to completion by someone else.
func (s *Searcher) Wait(ctx context.Context) (State, error) {
	for {
		s.mu.Lock()
		if s.status.IsTerminal() {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, nil
		}
		if s.closed {
			s.mu.Unlock()
			return State{}, domain.ErrSearcherClosed
		}
		ch := s.notify
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return State{}, ctx.Err()
		case <-ch:
		}
	}
}

// cancelLocked clears the timer and the token, invalidates any in-flight
// responses, and returns the token the caller must stop remotely.
func (s *Searcher) cancelLocked() string {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	tok := s.token
	s.token = ""
	s.gen++
	if s.inFlight {
		s.inFlight = false
		if s.metrics != nil {
			s.metrics.DecSearchesInFlight()
		}
	}
	return tok
}

func (s *Searcher) terminalLocked(status domain.SearchStatus, prices domain.PricesMap, errMsg string) State {
	s.status = status
	s.prices = prices
	s.errMsg = errMsg
	s.token = ""
	s.timer = nil
	s.retryCount = 0
	if s.inFlight {
		s.inFlight = false
		if s.metrics != nil {
			s.metrics.DecSearchesInFlight()
			s.metrics.RecordSearch(string(status), time.Since(s.startedAt))
		}
	}
	s.broadcastLocked()
	return s.snapshotLocked()
}

func (s *Searcher) snapshotLocked() State {
	return State{
		Status:    s.status,
		Prices:    s.prices,
		Err:       s.errMsg,
		CountryID: s.countryID,
	}
}

func (s *Searcher) broadcastLocked() {
	close(s.notify)
	s.notify = make(chan struct{})
}

func (s *Searcher) update(snap State) {
	if s.onUpdate != nil {
		s.onUpdate(snap)
	}
}

func (s *Searcher) recordPoll(result string) {
	if s.metrics != nil {
		s.metrics.RecordPoll(result)
	}
}

func (s *Searcher) stopRemote(ctx context.Context, token string) {
	err := s.client.StopSearch(ctx, token)
	if err != nil && !errors.Is(err, travelapi.ErrNotFound) {
		// стоп best-effort: локально сессия уже закрыта, ошибку не ретраим
		s.logger.Warn("failed to stop search", zap.Error(err))
	}
}

func messageOf(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
