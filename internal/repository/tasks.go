package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	v1 "github.com/supplydesk/desk/api/v1"
	"github.com/supplydesk/desk/internal/client"
	"github.com/supplydesk/desk/internal/store"
	"github.com/supplydesk/desk/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	tasksKind = "tasks"

	DefaultStatusConcurrency = 4
)

// TaskRepository keeps the canonical list of parsing tasks, the progress of pending ones
// and the open task detail.
type TaskRepository struct {
	client            client.Desk
	tasks             *store.Collection[int64, v1.ParsingTask]
	detail            *store.Slot[int64, v1.TaskDetail]
	progress          map[int64]v1.TaskProgress
	statusConcurrency int
	log               *zap.SugaredLogger
	mu                sync.Mutex
}

func NewTaskRepository(c client.Desk, statusConcurrency int) *TaskRepository {
	if statusConcurrency <= 0 {
		statusConcurrency = DefaultStatusConcurrency
	}
	return &TaskRepository{
		client:            c,
		tasks:             store.NewCollection(func(t v1.ParsingTask) int64 { return t.TaskId }),
		detail:            store.NewSlot[int64, v1.TaskDetail](),
		progress:          make(map[int64]v1.TaskProgress),
		statusConcurrency: statusConcurrency,
		log:               zap.S().Named("tasks"),
	}
}

// Refresh replaces the canonical task list, then reads the progress of every pending task.
// A failed progress read keeps the previous progress of that task.
func (t *TaskRepository) Refresh(ctx context.Context) error {
	tasks, err := t.client.ListTasks(ctx)
	if err != nil {
		metrics.IncreaseRefreshTotalMetric(tasksKind, metrics.ResultError)
		return fmt.Errorf("refreshing tasks: %w", err)
	}
	t.tasks.Replace(tasks)
	metrics.IncreaseRefreshTotalMetric(tasksKind, metrics.ResultSuccess)
	metrics.UpdateCanonicalItemsMetric(tasksKind, len(tasks))

	pending := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == v1.TaskStatusPending {
			pending = append(pending, task.TaskId)
		}
	}
	t.prune(tasks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.statusConcurrency)
	for _, id := range pending {
		g.Go(func() error {
			progress, err := t.client.GetTaskStatus(gctx, id)
			if err != nil {
				t.log.Debugw("failed to read task status", "task_id", id, "error", err)
				return nil
			}
			t.setProgress(progress)
			return nil
		})
	}
	return g.Wait()
}

func (t *TaskRepository) List() []v1.ParsingTask {
	return t.tasks.List()
}

func (t *TaskRepository) Get(id int64) (v1.ParsingTask, error) {
	return t.tasks.Get(id)
}

func (t *TaskRepository) Loaded() bool {
	return t.tasks.Loaded()
}

// Progress returns the last progress read for task id.
func (t *TaskRepository) Progress(id int64) (v1.TaskProgress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, found := t.progress[id]
	return p, found
}

func (t *TaskRepository) Open(ctx context.Context, id int64) (*v1.TaskDetail, error) {
	return t.load(ctx, id, t.detail.Open(id))
}

func (t *TaskRepository) load(ctx context.Context, id int64, generation uint64) (*v1.TaskDetail, error) {
	detail, err := t.client.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.detail.Store(generation, detail); err != nil {
		t.log.Debugw("dropping task detail", "task_id", id, "error", err)
		return nil, err
	}
	return detail, nil
}

func (t *TaskRepository) Detail() (int64, *v1.TaskDetail, bool) {
	return t.detail.Current()
}

func (t *TaskRepository) Close() {
	t.detail.Close()
}

// Approve is terminal for the task. The open detail is cleared and the list re-read.
func (t *TaskRepository) Approve(ctx context.Context, id int64) error {
	if err := t.checkDecidable(id); err != nil {
		return err
	}
	if err := t.client.ApproveTask(ctx, id); err != nil {
		return err
	}
	t.log.Infow("task approved", "task_id", id)
	t.afterDecision(ctx, id)
	return nil
}

// Reject is terminal for the task and requires a non blank reason.
func (t *TaskRepository) Reject(ctx context.Context, id int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return client.NewErrValidation("a reason is required to reject task %d", id)
	}
	if err := t.checkDecidable(id); err != nil {
		return err
	}
	if err := t.client.RejectTask(ctx, id, v1.RejectForm{Reason: reason}); err != nil {
		return err
	}
	t.log.Infow("task rejected", "task_id", id, "reason", reason)
	t.afterDecision(ctx, id)
	return nil
}

// StartParsing creates the parsing tasks of a request and re-reads the task list.
func (t *TaskRepository) StartParsing(ctx context.Context, requestID int64) (v1.StartParsingResult, error) {
	result, err := t.client.StartParsing(ctx, requestID)
	if err != nil {
		return v1.StartParsingResult{}, err
	}
	t.log.Infow("parsing started", "request_id", requestID, "tasks_created", result.TasksCreated)
	if err := t.Refresh(ctx); err != nil {
		t.log.Warnw("refresh after start parsing failed", "error", err)
	}
	return result, nil
}

// Parse triggers the supplier crawl of one task. Completion is observed through Status or polling.
func (t *TaskRepository) Parse(ctx context.Context, id int64, method v1.ParseMethod) (v1.ParseResult, error) {
	wire := method.Wire()
	if wire == "" {
		return v1.ParseResult{}, client.NewErrValidation("unknown parse method %q: use one of %s", method, strings.Join(v1.ParseMethodNames(), ", "))
	}
	result, err := t.client.ParseTask(ctx, id, v1.ParseForm{Method: wire})
	if err != nil {
		return v1.ParseResult{}, err
	}
	t.log.Infow("parse triggered", "task_id", id, "method", method, "status", result.Status)
	return result, nil
}

// Status reads the progress of a pending task.
func (t *TaskRepository) Status(ctx context.Context, id int64) (v1.TaskProgress, error) {
	if known, err := t.tasks.Get(id); err == nil && known.Status.Settled() {
		return v1.TaskProgress{}, client.NewErrInvalidState("task %d is %s: progress is only tracked while pending", id, known.Status)
	}
	progress, err := t.client.GetTaskStatus(ctx, id)
	if err != nil {
		return v1.TaskProgress{}, err
	}
	t.setProgress(progress)
	return progress, nil
}

// ModerateURL approves or rejects one crawled URL and re-reads the open task detail.
func (t *TaskRepository) ModerateURL(ctx context.Context, urlID int64, form v1.ModerateURLForm) (v1.ModerateURLResult, error) {
	if form.Status != v1.TaskStatusApproved && form.Status != v1.TaskStatusRejected {
		return v1.ModerateURLResult{}, client.NewErrValidation("url status must be %s or %s, got %q", v1.TaskStatusApproved, v1.TaskStatusRejected, form.Status)
	}
	result, err := t.client.ModerateURL(ctx, urlID, form)
	if err != nil {
		return v1.ModerateURLResult{}, err
	}
	t.log.Infow("url moderated", "url_id", urlID, "status", result.ModerationStatus)

	if id, _, open := t.detail.Current(); open {
		if generation, ok := t.detail.Reload(id); ok {
			if _, err := t.load(ctx, id, generation); err != nil && !errors.Is(err, store.ErrStale) {
				t.log.Warnw("detail reload failed", "task_id", id, "error", err)
			}
		}
	}
	return result, nil
}

func (t *TaskRepository) checkDecidable(id int64) error {
	known, err := t.tasks.Get(id)
	if err != nil {
		return nil
	}
	if known.Status == v1.TaskStatusApproved || known.Status == v1.TaskStatusRejected {
		return client.NewErrInvalidState("task %d is already %s", id, known.Status)
	}
	return nil
}

// afterDecision drops the stale detail and progress and re-reads the list. The refresh does
// not go through the poller, so it may overlap a poll of the tasks; the last result wins.
func (t *TaskRepository) afterDecision(ctx context.Context, id int64) {
	t.detail.Close()
	t.mu.Lock()
	delete(t.progress, id)
	t.mu.Unlock()
	if err := t.Refresh(ctx); err != nil {
		t.log.Warnw("refresh after decision failed", "task_id", id, "error", err)
	}
}

func (t *TaskRepository) setProgress(progress v1.TaskProgress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress[progress.TaskId] = progress
}

// prune forgets the progress of tasks no longer listed.
func (t *TaskRepository) prune(tasks []v1.ParsingTask) {
	listed := make(map[int64]struct{}, len(tasks))
	for _, task := range tasks {
		listed[task.TaskId] = struct{}{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for id := range t.progress {
		if _, found := listed[id]; !found {
			delete(t.progress, id)
		}
	}
}
