// Package session is the controller the views talk to. It owns the polling loop, the
// repositories, the supplier cache, the view state and the notifications, and turns every
// action failure into a notification.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	v1 "github.com/supplydesk/desk/api/v1"
	"github.com/supplydesk/desk/internal/client"
	"github.com/supplydesk/desk/internal/notify"
	"github.com/supplydesk/desk/internal/poller"
	"github.com/supplydesk/desk/internal/repository"
	"github.com/supplydesk/desk/internal/store"
	"github.com/supplydesk/desk/internal/suppliers"
	"github.com/supplydesk/desk/internal/uistate"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// ErrNothingOpen is returned by actions that need an open detail.
var ErrNothingOpen = errors.New("nothing is open")

type Config struct {
	RequestsInterval  time.Duration
	TasksInterval     time.Duration
	Jitter            time.Duration
	ParseRefreshDelay time.Duration
	NotificationTTL   time.Duration
	StatusConcurrency int
}

func DefaultConfig() Config {
	return Config{
		RequestsInterval:  5 * time.Second,
		TasksInterval:     3 * time.Second,
		Jitter:            30 * time.Millisecond,
		ParseRefreshDelay: 2 * time.Second,
		NotificationTTL:   notify.DefaultTTL,
		StatusConcurrency: repository.DefaultStatusConcurrency,
	}
}

type Option func(*Session)

// WithClock sets the clock of the notification and delayed refresh timers.
func WithClock(clk clock.WithDelayedExecution) Option {
	return func(s *Session) {
		s.clock = clk
	}
}

// WithSink receives every change of the notifications.
func WithSink(sink notify.Sink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

func WithCabinet(c v1.Cabinet) Option {
	return func(s *Session) {
		s.cabinet = c
	}
}

type Session struct {
	cfg           Config
	clock         clock.WithDelayedExecution
	sink          notify.Sink
	cabinet       v1.Cabinet
	requests      *repository.RequestRepository
	tasks         *repository.TaskRepository
	suppliers     *suppliers.Cache
	directory     *suppliers.Directory
	poller        *poller.Poller
	state         *uistate.State
	notifications *notify.Center

	// base is the context delayed refreshes run with.
	base       context.Context
	parseTimer clock.Timer
	log        *zap.SugaredLogger
	mu         sync.Mutex
}

func New(desk client.Desk, cfg Config, opts ...Option) *Session {
	s := &Session{
		cfg:     cfg,
		clock:   clock.RealClock{},
		cabinet: v1.CabinetUser,
		base:    context.Background(),
		log:     zap.S().Named("session"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.requests = repository.NewRequestRepository(desk)
	s.tasks = repository.NewTaskRepository(desk, cfg.StatusConcurrency)
	s.suppliers = suppliers.NewCache(desk)
	s.directory = suppliers.NewDirectory(desk)
	s.state = uistate.New(s.cabinet)
	s.notifications = notify.NewCenter(s.clock, cfg.NotificationTTL, s.sink)
	s.poller = poller.New(map[poller.Kind]poller.Refresher{
		poller.KindRequests: s.requests,
		poller.KindTasks:    s.tasks,
	}, cfg.Jitter)
	return s
}

// Start polls the collection of the active cabinet until Close or ctx is done.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()
	return s.startPolling(ctx, s.state.Cabinet())
}

// SwitchCabinet leaves the current view: polling stops, the detail closes, selection and
// supplier cache are reset, and polling resumes for the collection of c.
func (s *Session) SwitchCabinet(ctx context.Context, c v1.Cabinet) error {
	s.poller.Stop()
	s.cancelParseRefresh()
	s.requests.Close()
	s.tasks.Close()
	s.suppliers.Reset()
	if s.state.SwitchCabinet(c) {
		s.log.Debugw("cabinet switched", "cabinet", c)
	}
	return s.startPolling(ctx, c)
}

func (s *Session) startPolling(ctx context.Context, c v1.Cabinet) error {
	kind, interval := poller.KindRequests, s.cfg.RequestsInterval
	if c == v1.CabinetModerator {
		kind, interval = poller.KindTasks, s.cfg.TasksInterval
	}
	return s.poller.Start(ctx, kind, interval)
}

// SelectRequest opens request id. A detail arriving after the view moved on is discarded
// and store.ErrStale returned.
func (s *Session) SelectRequest(ctx context.Context, id int64) (*v1.RequestDetail, error) {
	epoch := s.state.Select(id)
	s.suppliers.Reset()
	s.tasks.Close()

	detail, err := s.requests.Open(ctx, id)
	if !s.state.Current(epoch) {
		return nil, store.ErrStale
	}
	if err != nil {
		return nil, s.fail(fmt.Sprintf("Could not open request %d", id), err)
	}
	return detail, nil
}

func (s *Session) SelectTask(ctx context.Context, id int64) (*v1.TaskDetail, error) {
	epoch := s.state.Select(id)
	s.suppliers.Reset()
	s.requests.Close()

	detail, err := s.tasks.Open(ctx, id)
	if !s.state.Current(epoch) {
		return nil, store.ErrStale
	}
	if err != nil {
		return nil, s.fail(fmt.Sprintf("Could not open task %d", id), err)
	}
	return detail, nil
}

func (s *Session) CloseDetail() {
	s.state.ClearSelection()
	s.requests.Close()
	s.tasks.Close()
	s.suppliers.Reset()
}

// ToggleExpand expands or collapses line item pos of the open request. Expanding a line
// item looks its suppliers up once.
func (s *Session) ToggleExpand(ctx context.Context, pos int) (bool, error) {
	_, detail, open := s.requests.Detail()
	if !open || detail == nil {
		return false, s.fail("Open a request first", ErrNothingOpen)
	}
	name := ""
	for _, item := range detail.Items {
		if item.Pos == pos {
			name = item.Name
			break
		}
	}
	if name == "" {
		return false, s.fail("Unknown line item", client.NewErrValidation("request %d has no line item %d", detail.Id, pos))
	}

	expanded, err := s.suppliers.ToggleExpand(ctx, s.state, pos, name)
	if err != nil {
		return expanded, s.fail(fmt.Sprintf("Supplier search for %q failed", name), err)
	}
	return expanded, nil
}

func (s *Session) Upload(ctx context.Context, filename string, content io.Reader) (v1.UploadResult, error) {
	result, err := s.requests.Upload(ctx, filename, content)
	if err != nil {
		return result, s.fail("Upload failed", err)
	}
	s.notifications.Successf("Request %d created with %d items", result.RequestId, result.Items)
	return result, nil
}

func (s *Session) Submit(ctx context.Context, id int64) (v1.SubmitResult, error) {
	result, err := s.requests.Submit(ctx, id)
	if err != nil {
		return result, s.fail(fmt.Sprintf("Could not submit request %d", id), err)
	}
	s.notifications.Successf("Request %d is now %s", id, result.NewStatus)
	return result, nil
}

// Delete removes draft id once c confirms it.
func (s *Session) Delete(ctx context.Context, id int64, c repository.Confirmer) (bool, error) {
	deleted, err := s.requests.Delete(ctx, id, c)
	if err != nil {
		return false, s.fail(fmt.Sprintf("Could not delete request %d", id), err)
	}
	if !deleted {
		return false, nil
	}
	if selected, ok := s.state.Selected(); ok && selected == id {
		s.state.ClearSelection()
		s.suppliers.Reset()
	}
	s.notifications.Successf("Request %d deleted", id)
	return true, nil
}

func (s *Session) Approve(ctx context.Context, id int64) error {
	if err := s.tasks.Approve(ctx, id); err != nil {
		return s.fail(fmt.Sprintf("Could not approve task %d", id), err)
	}
	s.state.ClearSelection()
	s.notifications.Successf("Task %d approved", id)
	return nil
}

func (s *Session) Reject(ctx context.Context, id int64, reason string) error {
	if err := s.tasks.Reject(ctx, id, reason); err != nil {
		return s.fail(fmt.Sprintf("Could not reject task %d", id), err)
	}
	s.state.ClearSelection()
	s.notifications.Successf("Task %d rejected", id)
	return nil
}

func (s *Session) StartParsing(ctx context.Context, requestID int64) (v1.StartParsingResult, error) {
	result, err := s.tasks.StartParsing(ctx, requestID)
	if err != nil {
		return result, s.fail(fmt.Sprintf("Could not start parsing request %d", requestID), err)
	}
	s.notifications.Successf("%d tasks created for request %d", result.TasksCreated, requestID)
	return result, nil
}

// Parse triggers the crawl of one task and schedules a task refresh after the configured
// delay. A later Parse replaces the pending refresh.
func (s *Session) Parse(ctx context.Context, id int64, method v1.ParseMethod) (v1.ParseResult, error) {
	result, err := s.tasks.Parse(ctx, id, method)
	if err != nil {
		return result, s.fail(fmt.Sprintf("Could not parse task %d", id), err)
	}
	s.scheduleParseRefresh()
	msg := result.Message
	if msg == "" {
		msg = fmt.Sprintf("Parsing of task %d %s", id, result.Status)
	}
	s.notifications.Success(msg)
	return result, nil
}

func (s *Session) Status(ctx context.Context, id int64) (v1.TaskProgress, error) {
	progress, err := s.tasks.Status(ctx, id)
	if err != nil {
		return progress, s.fail(fmt.Sprintf("Could not read the status of task %d", id), err)
	}
	return progress, nil
}

func (s *Session) ModerateURL(ctx context.Context, urlID int64, form v1.ModerateURLForm) (v1.ModerateURLResult, error) {
	result, err := s.tasks.ModerateURL(ctx, urlID, form)
	if err != nil {
		return result, s.fail(fmt.Sprintf("Could not moderate url %d", urlID), err)
	}
	s.notifications.Successf("URL %d %s", urlID, result.ModerationStatus)
	return result, nil
}

// Refresh runs one out-of-band refresh of the polled collection.
func (s *Session) Refresh(ctx context.Context) bool {
	return s.poller.Refresh(ctx)
}

// Polling returns the kind of collection being polled.
func (s *Session) Polling() (poller.Kind, bool) {
	return s.poller.Running()
}

func (s *Session) Requests() *repository.RequestRepository {
	return s.requests
}

func (s *Session) Tasks() *repository.TaskRepository {
	return s.tasks
}

func (s *Session) Suppliers() *suppliers.Cache {
	return s.suppliers
}

func (s *Session) Directory() *suppliers.Directory {
	return s.directory
}

func (s *Session) View() uistate.Snapshot {
	return s.state.Snapshot()
}

func (s *Session) Notifications() notify.Snapshot {
	return s.notifications.Current()
}

// Close stops polling and every timer.
func (s *Session) Close() {
	s.poller.Stop()
	s.cancelParseRefresh()
	s.notifications.Close()
}

func (s *Session) scheduleParseRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parseTimer != nil {
		s.parseTimer.Stop()
	}
	ctx := s.base
	s.parseTimer = s.clock.AfterFunc(s.cfg.ParseRefreshDelay, func() {
		if !s.poller.RefreshKind(ctx, poller.KindTasks) {
			s.log.Debug("delayed task refresh dropped")
		}
	})
}

func (s *Session) cancelParseRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parseTimer != nil {
		s.parseTimer.Stop()
		s.parseTimer = nil
	}
}

// fail shows err as an error notification and returns it.
func (s *Session) fail(msg string, err error) error {
	if errors.Is(err, store.ErrStale) || errors.Is(err, context.Canceled) {
		return err
	}
	s.log.Debugw(msg, "error", err)
	s.notifications.Errorf("%s: %v", msg, err)
	return err
}
