package session_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	v1 "github.com/supplydesk/desk/api/v1"
	"github.com/supplydesk/desk/internal/client"
	"github.com/supplydesk/desk/internal/poller"
	"github.com/supplydesk/desk/internal/repository"
	"github.com/supplydesk/desk/internal/session"
	"github.com/supplydesk/desk/internal/store"
	testingclock "k8s.io/utils/clock/testing"
)

// backend is a small in-memory procurement service behind a DeskMock.
type backend struct {
	requests map[int64]v1.RequestStatus
	tasks    map[int64]v1.TaskStatus
	mu       sync.Mutex
}

func newBackend() *backend {
	return &backend{
		requests: map[int64]v1.RequestStatus{7: v1.RequestStatusDraft, 8: v1.RequestStatusSubmitted},
		tasks:    map[int64]v1.TaskStatus{41: v1.TaskStatusPending, 42: v1.TaskStatusPending},
	}
}

func (b *backend) desk() *client.DeskMock {
	return &client.DeskMock{
		ListRequestsFunc: func(ctx context.Context) ([]v1.Request, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			out := []v1.Request{}
			for _, id := range []int64{7, 8, 9} {
				if status, found := b.requests[id]; found {
					out = append(out, v1.Request{Id: id, Status: status, ItemsCount: 2})
				}
			}
			return out, nil
		},
		GetRequestFunc: func(ctx context.Context, id int64) (*v1.RequestDetail, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			return &v1.RequestDetail{
				Id:     id,
				Status: b.requests[id],
				Items: []v1.Position{
					{Pos: 3, Name: "Bearing 608", Unit: "pcs", Qty: v1.ParseQuantity("10")},
					{Pos: 4, Name: "Bolt M8", Unit: "pcs", Qty: v1.ParseQuantity("2")},
				},
			}, nil
		},
		SubmitRequestFunc: func(ctx context.Context, id int64) (v1.SubmitResult, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.requests[id] = v1.RequestStatusSubmitted
			return v1.SubmitResult{RequestId: id, NewStatus: v1.RequestStatusSubmitted}, nil
		},
		DeleteRequestFunc: func(ctx context.Context, id int64) (v1.DeleteResult, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.requests, id)
			return v1.DeleteResult{DeletedId: id}, nil
		},
		ListTasksFunc: func(ctx context.Context) ([]v1.ParsingTask, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			out := []v1.ParsingTask{}
			for _, id := range []int64{41, 42} {
				if b.tasks[id] == v1.TaskStatusPending {
					out = append(out, v1.ParsingTask{TaskId: id, RequestId: 7, Status: v1.TaskStatusPending})
				}
			}
			return out, nil
		},
		GetTaskFunc: func(ctx context.Context, id int64) (*v1.TaskDetail, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			return &v1.TaskDetail{TaskId: id, RequestId: 7, Status: b.tasks[id]}, nil
		},
		GetTaskStatusFunc: func(ctx context.Context, id int64) (v1.TaskProgress, error) {
			return v1.TaskProgress{TaskId: id, Status: v1.TaskStatusPending}, nil
		},
		RejectTaskFunc: func(ctx context.Context, id int64, form v1.RejectForm) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.tasks[id] = v1.TaskStatusRejected
			return nil
		},
		ApproveTaskFunc: func(ctx context.Context, id int64) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.tasks[id] = v1.TaskStatusApproved
			return nil
		},
		ParseTaskFunc: func(ctx context.Context, id int64, form v1.ParseForm) (v1.ParseResult, error) {
			return v1.ParseResult{TaskId: id, Status: "started", Method: form.Method}, nil
		},
		SearchSuppliersFunc: func(ctx context.Context, query string) ([]v1.Supplier, error) {
			return []v1.Supplier{{Id: 1, CompanyName: "Bearings Inc", Rating: 4.2}}, nil
		},
	}
}

var _ = Describe("session", func() {
	var (
		ctx  context.Context
		clk  *testingclock.FakeClock
		b    *backend
		desk *client.DeskMock
		s    *session.Session
	)

	BeforeEach(func() {
		ctx = context.Background()
		clk = testingclock.NewFakeClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
		b = newBackend()
		desk = b.desk()

		cfg := session.DefaultConfig()
		cfg.RequestsInterval = time.Hour
		cfg.TasksInterval = time.Hour
		s = session.New(desk, cfg, session.WithClock(clk))
		Expect(s.Start(ctx)).To(Succeed())
		Eventually(s.Requests().Loaded).Should(BeTrue())
	})

	AfterEach(func() {
		s.Close()
	})

	Context("user cabinet", func() {
		It("looks the suppliers of a line item up once", func() {
			_, err := s.SelectRequest(ctx, 7)
			Expect(err).To(BeNil())

			for range 3 {
				_, err := s.ToggleExpand(ctx, 3)
				Expect(err).To(BeNil())
			}

			Expect(desk.SearchSuppliersCalls()).To(HaveLen(1))
			Expect(desk.SearchSuppliersCalls()[0].Query).To(Equal("Bearing 608"))
			Expect(s.View().Expanded).To(Equal([]int{3}))
		})

		It("refuses to expand without an open request", func() {
			_, err := s.ToggleExpand(ctx, 3)
			Expect(err).To(MatchError(session.ErrNothingOpen))
			Expect(s.Notifications().Error).NotTo(BeEmpty())
		})

		It("resets the supplier cache when another request is selected", func() {
			_, _ = s.SelectRequest(ctx, 7)
			_, _ = s.ToggleExpand(ctx, 3)
			_, _ = s.SelectRequest(ctx, 8)
			_, _ = s.ToggleExpand(ctx, 3)

			Expect(desk.SearchSuppliersCalls()).To(HaveLen(2))
		})

		It("discards a detail that arrives after the selection moved on", func() {
			release := make(chan struct{})
			getRequest := desk.GetRequestFunc
			desk.GetRequestFunc = func(ctx context.Context, id int64) (*v1.RequestDetail, error) {
				if id == 7 {
					<-release
				}
				return getRequest(ctx, id)
			}

			done := make(chan error, 1)
			go func() {
				_, err := s.SelectRequest(ctx, 7)
				done <- err
			}()
			Eventually(func() int { return len(desk.GetRequestCalls()) }).Should(Equal(1))

			detail, err := s.SelectRequest(ctx, 8)
			Expect(err).To(BeNil())
			Expect(detail.Id).To(Equal(int64(8)))
			close(release)

			Eventually(done).Should(Receive(MatchError(store.ErrStale)))
			id, open := s.View().Selected, s.View().HasSelected
			Expect(open).To(BeTrue())
			Expect(id).To(Equal(int64(8)))
			Expect(s.Notifications().Error).To(BeEmpty())
		})

		It("submits a draft and shows the new status", func() {
			_, _ = s.SelectRequest(ctx, 7)
			_, err := s.Submit(ctx, 7)
			Expect(err).To(BeNil())

			_, detail, _ := s.Requests().Detail()
			Expect(detail.Status).NotTo(Equal(v1.RequestStatusDraft))
			Expect(s.Notifications().Success).To(ContainSubstring("submitted"))
		})

		It("turns a refused delete into an error notification that clears itself", func() {
			_, err := s.Delete(ctx, 8, repository.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
				return true, nil
			}))
			Expect(client.IsInvalidState(err)).To(BeTrue())
			Expect(s.Notifications().Error).To(ContainSubstring("only drafts"))

			clk.Step(5 * time.Second)
			Expect(s.Notifications().Error).To(BeEmpty())
		})

		It("clears the selection after deleting the open request", func() {
			_, _ = s.SelectRequest(ctx, 7)
			deleted, err := s.Delete(ctx, 7, repository.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
				return true, nil
			}))
			Expect(err).To(BeNil())
			Expect(deleted).To(BeTrue())
			Expect(s.View().HasSelected).To(BeFalse())
			Expect(s.Requests().List()).To(HaveLen(1))
		})

		It("adds the uploaded draft to the list", func() {
			desk.UploadDocumentFunc = func(ctx context.Context, filename string, content io.Reader) (v1.UploadResult, error) {
				b.mu.Lock()
				defer b.mu.Unlock()
				b.requests[9] = v1.RequestStatusDraft
				return v1.UploadResult{RequestId: 9, Filename: filename, Items: 2}, nil
			}

			result, err := s.Upload(ctx, "order.xlsx", strings.NewReader("x"))
			Expect(err).To(BeNil())
			created, err := s.Requests().Get(result.RequestId)
			Expect(err).To(BeNil())
			Expect(created.Status).To(Equal(v1.RequestStatusDraft))
			Expect(created.ItemsCount).To(Equal(result.Items))
			Expect(s.Notifications().Success).To(ContainSubstring("Request 9 created"))
		})

		It("reports an unsupported document as an upload error", func() {
			_, err := s.Upload(ctx, "order.txt", strings.NewReader("x"))
			Expect(client.IsUpload(err)).To(BeTrue())
			Expect(desk.UploadDocumentCalls()).To(BeEmpty())
		})
	})

	Context("moderator cabinet", func() {
		BeforeEach(func() {
			_, _ = s.SelectRequest(ctx, 7)
			Expect(s.SwitchCabinet(ctx, v1.CabinetModerator)).To(Succeed())
			Eventually(s.Tasks().Loaded).Should(BeTrue())
		})

		It("polls tasks and resets the view", func() {
			kind, running := s.Polling()
			Expect(running).To(BeTrue())
			Expect(kind).To(Equal(poller.KindTasks))

			view := s.View()
			Expect(view.Cabinet).To(Equal(v1.CabinetModerator))
			Expect(view.HasSelected).To(BeFalse())
			_, _, open := s.Requests().Detail()
			Expect(open).To(BeFalse())
		})

		It("rejects a task and clears the detail", func() {
			_, err := s.SelectTask(ctx, 42)
			Expect(err).To(BeNil())

			Expect(s.Reject(ctx, 42, "low confidence")).To(Succeed())

			for _, task := range s.Tasks().List() {
				Expect(task.TaskId).NotTo(Equal(int64(42)))
			}
			_, _, open := s.Tasks().Detail()
			Expect(open).To(BeFalse())
			Expect(s.View().HasSelected).To(BeFalse())
		})

		It("reports an empty reject reason without calling the server", func() {
			err := s.Reject(ctx, 42, "")
			Expect(client.IsValidation(err)).To(BeTrue())
			Expect(desk.RejectTaskCalls()).To(BeEmpty())
			Expect(s.Notifications().Error).NotTo(BeEmpty())
		})

		It("refreshes tasks once after the parse delay", func() {
			before := len(desk.ListTasksCalls())

			_, err := s.Parse(ctx, 41, v1.ParseMethodInProcess)
			Expect(err).To(BeNil())
			clk.Step(time.Second)
			_, err = s.Parse(ctx, 41, v1.ParseMethodQueuedWorker)
			Expect(err).To(BeNil())

			clk.Step(time.Second)
			Expect(desk.ListTasksCalls()).To(HaveLen(before))

			clk.Step(time.Second)
			Eventually(desk.ListTasksCalls).Should(HaveLen(before + 1))
		})

		It("cancels the delayed refresh on cabinet switch", func() {
			_, err := s.Parse(ctx, 41, v1.ParseMethodBrowserAutomation)
			Expect(err).To(BeNil())
			before := len(desk.ListTasksCalls())

			Expect(s.SwitchCabinet(ctx, v1.CabinetUser)).To(Succeed())
			clk.Step(3 * time.Second)

			Expect(desk.ListTasksCalls()).To(HaveLen(before))
			kind, running := s.Polling()
			Expect(running).To(BeTrue())
			Expect(kind).To(Equal(poller.KindRequests))
		})
	})
})
