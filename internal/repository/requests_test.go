package repository_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	v1 "github.com/supplydesk/desk/api/v1"
	"github.com/supplydesk/desk/internal/client"
	"github.com/supplydesk/desk/internal/repository"
	"github.com/supplydesk/desk/internal/store"
)

// fakeRequests is an in-memory request backend behind a DeskMock.
type fakeRequests struct {
	requests []v1.Request
	nextID   int64
	mu       sync.Mutex
}

func (f *fakeRequests) mock() *client.DeskMock {
	return &client.DeskMock{
		ListRequestsFunc: func(ctx context.Context) ([]v1.Request, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			out := make([]v1.Request, len(f.requests))
			copy(out, f.requests)
			return out, nil
		},
		GetRequestFunc: func(ctx context.Context, id int64) (*v1.RequestDetail, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			for _, r := range f.requests {
				if r.Id == id {
					return &v1.RequestDetail{Id: r.Id, Filename: r.Filename, Status: r.Status}, nil
				}
			}
			return nil, client.NewErrNotFound("request", id)
		},
		UploadDocumentFunc: func(ctx context.Context, filename string, content io.Reader) (v1.UploadResult, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.nextID++
			f.requests = append(f.requests, v1.Request{Id: f.nextID, Filename: filename, Status: v1.RequestStatusDraft, ItemsCount: 3})
			return v1.UploadResult{RequestId: f.nextID, Filename: filename, Items: 3}, nil
		},
		SubmitRequestFunc: func(ctx context.Context, id int64) (v1.SubmitResult, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i := range f.requests {
				if f.requests[i].Id == id {
					f.requests[i].Status = v1.RequestStatusSubmitted
					return v1.SubmitResult{RequestId: id, NewStatus: v1.RequestStatusSubmitted}, nil
				}
			}
			return v1.SubmitResult{}, client.NewErrNotFound("request", id)
		},
		DeleteRequestFunc: func(ctx context.Context, id int64) (v1.DeleteResult, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i := range f.requests {
				if f.requests[i].Id == id {
					if f.requests[i].Status != v1.RequestStatusDraft {
						return v1.DeleteResult{}, client.NewErrInvalidState("request %d is not a draft", id)
					}
					f.requests = append(f.requests[:i], f.requests[i+1:]...)
					return v1.DeleteResult{DeletedId: id}, nil
				}
			}
			return v1.DeleteResult{}, client.NewErrNotFound("request", id)
		},
	}
}

func confirmWith(answer bool) repository.ConfirmFunc {
	return func(ctx context.Context, message string) (bool, error) {
		return answer, nil
	}
}

var _ = Describe("request repository", func() {
	var (
		ctx     context.Context
		backend *fakeRequests
		desk    *client.DeskMock
		repo    *repository.RequestRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		backend = &fakeRequests{
			requests: []v1.Request{
				{Id: 7, Filename: "pumps.xlsx", Status: v1.RequestStatusDraft, ItemsCount: 2},
				{Id: 8, Filename: "valves.pdf", Status: v1.RequestStatusModeration, ItemsCount: 5},
			},
			nextID: 8,
		}
		desk = backend.mock()
		repo = repository.NewRequestRepository(desk)
		Expect(repo.Refresh(ctx)).To(Succeed())
	})

	Context("refresh", func() {
		It("keeps the previous list when the fetch fails", func() {
			desk.ListRequestsFunc = func(ctx context.Context) ([]v1.Request, error) {
				return nil, client.NewErrNetwork("list requests", errors.New("connection refused"))
			}

			err := repo.Refresh(ctx)
			Expect(client.IsNetwork(err)).To(BeTrue())
			Expect(repo.List()).To(HaveLen(2))
		})
	})

	Context("upload", func() {
		It("adds a draft with the extracted item count", func() {
			result, err := repo.Upload(ctx, "bearings.xlsx", strings.NewReader("data"))
			Expect(err).To(BeNil())

			Expect(repo.List()).To(HaveLen(3))
			created, err := repo.Get(result.RequestId)
			Expect(err).To(BeNil())
			Expect(created.Status).To(Equal(v1.RequestStatusDraft))
			Expect(created.ItemsCount).To(Equal(result.Items))
		})

		It("refuses unsupported formats without calling the server", func() {
			_, err := repo.Upload(ctx, "bearings.csv", strings.NewReader("data"))
			Expect(client.IsUpload(err)).To(BeTrue())
			Expect(desk.UploadDocumentCalls()).To(BeEmpty())
		})
	})

	Context("submit", func() {
		It("moves a draft forward and reloads the open detail", func() {
			_, err := repo.Open(ctx, 7)
			Expect(err).To(BeNil())

			_, err = repo.Submit(ctx, 7)
			Expect(err).To(BeNil())

			_, detail, open := repo.Detail()
			Expect(open).To(BeTrue())
			Expect(detail.Status).NotTo(Equal(v1.RequestStatusDraft))
			listed, _ := repo.Get(7)
			Expect(v1.RequestStatusDraft.Before(listed.Status)).To(BeTrue())
		})

		It("refuses a request known not to be a draft", func() {
			_, err := repo.Submit(ctx, 8)
			Expect(client.IsInvalidState(err)).To(BeTrue())
			Expect(desk.SubmitRequestCalls()).To(BeEmpty())
		})
	})

	Context("delete", func() {
		It("fails on a non draft request", func() {
			_, err := repo.Delete(ctx, 8, confirmWith(true))
			Expect(client.IsInvalidState(err)).To(BeTrue())
			Expect(desk.DeleteRequestCalls()).To(BeEmpty())
		})

		It("reports the server refusal as invalid state", func() {
			backend.mu.Lock()
			backend.requests[0].Status = v1.RequestStatusSubmitted
			backend.mu.Unlock()

			_, err := repo.Delete(ctx, 7, confirmWith(true))
			Expect(client.IsInvalidState(err)).To(BeTrue())
			Expect(desk.DeleteRequestCalls()).To(HaveLen(1))
		})

		It("does nothing when the confirmation is declined", func() {
			deleted, err := repo.Delete(ctx, 7, confirmWith(false))
			Expect(err).To(BeNil())
			Expect(deleted).To(BeFalse())
			Expect(desk.DeleteRequestCalls()).To(BeEmpty())
		})

		It("requires a confirmer", func() {
			_, err := repo.Delete(ctx, 7, nil)
			Expect(client.IsValidation(err)).To(BeTrue())
		})

		It("removes a confirmed draft and closes its detail", func() {
			_, err := repo.Open(ctx, 7)
			Expect(err).To(BeNil())

			deleted, err := repo.Delete(ctx, 7, confirmWith(true))
			Expect(err).To(BeNil())
			Expect(deleted).To(BeTrue())

			_, _, open := repo.Detail()
			Expect(open).To(BeFalse())
			_, err = repo.Get(7)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("detail", func() {
		It("drops a response for a request that is no longer open", func() {
			release := make(chan struct{})
			desk.GetRequestFunc = func(ctx context.Context, id int64) (*v1.RequestDetail, error) {
				if id == 7 {
					<-release
				}
				return &v1.RequestDetail{Id: id, Status: v1.RequestStatusDraft}, nil
			}

			done := make(chan error, 1)
			go func() {
				_, err := repo.Open(ctx, 7)
				done <- err
			}()
			Eventually(func() int { return len(desk.GetRequestCalls()) }).Should(Equal(1))

			_, err := repo.Open(ctx, 8)
			Expect(err).To(BeNil())
			close(release)

			Eventually(done).Should(Receive(MatchError(store.ErrStale)))
			id, detail, _ := repo.Detail()
			Expect(id).To(Equal(int64(8)))
			Expect(detail.Id).To(Equal(int64(8)))
		})
	})
})
