package poller_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/supplydesk/desk/internal/poller"
)

type countingRefresher struct {
	calls  atomic.Int32
	block  chan struct{}
	err    error
	panics bool
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	c.calls.Add(1)
	if c.panics {
		panic("boom")
	}
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
		}
	}
	return c.err
}

var _ = Describe("poller", func() {
	var (
		requests *countingRefresher
		tasks    *countingRefresher
		p        *poller.Poller
	)

	BeforeEach(func() {
		requests = &countingRefresher{}
		tasks = &countingRefresher{}
		p = poller.New(map[poller.Kind]poller.Refresher{
			poller.KindRequests: requests,
			poller.KindTasks:    tasks,
		}, time.Millisecond)
	})

	AfterEach(func() {
		p.Stop()
	})

	It("runs one loop when started twice for the same kind", func() {
		Expect(p.Start(context.Background(), poller.KindRequests, time.Hour)).To(Succeed())
		Expect(p.Start(context.Background(), poller.KindRequests, time.Hour)).To(Succeed())

		Eventually(requests.calls.Load).Should(Equal(int32(1)))
		Consistently(requests.calls.Load, 200*time.Millisecond).Should(Equal(int32(1)))
	})

	It("refreshes on every tick", func() {
		Expect(p.Start(context.Background(), poller.KindTasks, 20*time.Millisecond)).To(Succeed())
		Eventually(tasks.calls.Load).Should(BeNumerically(">=", 3))
	})

	It("stops pending ticks", func() {
		Expect(p.Start(context.Background(), poller.KindTasks, 20*time.Millisecond)).To(Succeed())
		Eventually(tasks.calls.Load).Should(BeNumerically(">=", 1))

		p.Stop()
		stopped := tasks.calls.Load()
		Consistently(tasks.calls.Load, 150*time.Millisecond).Should(Equal(stopped))

		_, running := p.Running()
		Expect(running).To(BeFalse())
	})

	It("stops the running kind before starting another", func() {
		Expect(p.Start(context.Background(), poller.KindRequests, 20*time.Millisecond)).To(Succeed())
		Eventually(requests.calls.Load).Should(BeNumerically(">=", 1))

		Expect(p.Start(context.Background(), poller.KindTasks, time.Hour)).To(Succeed())
		afterSwitch := requests.calls.Load()

		kind, running := p.Running()
		Expect(running).To(BeTrue())
		Expect(kind).To(Equal(poller.KindTasks))
		Consistently(requests.calls.Load, 100*time.Millisecond).Should(Equal(afterSwitch))
		Eventually(tasks.calls.Load).Should(Equal(int32(1)))
	})

	It("drops a refresh while one is in flight", func() {
		tasks.block = make(chan struct{})
		Expect(p.Start(context.Background(), poller.KindTasks, time.Hour)).To(Succeed())
		Eventually(tasks.calls.Load).Should(Equal(int32(1)))

		Expect(p.Refresh(context.Background())).To(BeFalse())
		Expect(p.RefreshKind(context.Background(), poller.KindTasks)).To(BeFalse())
		Expect(tasks.calls.Load()).To(Equal(int32(1)))

		close(tasks.block)
		Eventually(func() bool { return p.Refresh(context.Background()) }).Should(BeTrue())
	})

	It("keeps polling after a failed refresh", func() {
		requests.err = errors.New("server unavailable")
		Expect(p.Start(context.Background(), poller.KindRequests, 20*time.Millisecond)).To(Succeed())
		Eventually(requests.calls.Load).Should(BeNumerically(">=", 2))
	})

	It("survives a panicking refresh", func() {
		requests.panics = true
		Expect(p.Start(context.Background(), poller.KindRequests, 20*time.Millisecond)).To(Succeed())
		Eventually(requests.calls.Load).Should(BeNumerically(">=", 2))
	})

	It("refuses unknown kinds and non positive intervals", func() {
		Expect(p.Start(context.Background(), poller.Kind("suppliers"), time.Second)).NotTo(Succeed())
		Expect(p.Start(context.Background(), poller.KindTasks, 0)).NotTo(Succeed())
		Expect(p.Refresh(context.Background())).To(BeFalse())
	})

	It("stops when the parent context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		Expect(p.Start(ctx, poller.KindTasks, 20*time.Millisecond)).To(Succeed())
		Eventually(tasks.calls.Load).Should(BeNumerically(">=", 1))

		cancel()
		Eventually(func() int32 {
			before := tasks.calls.Load()
			time.Sleep(60 * time.Millisecond)
			return tasks.calls.Load() - before
		}).Should(Equal(int32(0)))
	})

	It("restarts after the parent context was cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		Expect(p.Start(ctx, poller.KindTasks, 20*time.Millisecond)).To(Succeed())
		Eventually(tasks.calls.Load).Should(BeNumerically(">=", 1))

		cancel()
		Eventually(func() bool {
			_, running := p.Running()
			return running
		}).Should(BeFalse())

		before := tasks.calls.Load()
		Expect(p.Start(context.Background(), poller.KindTasks, 20*time.Millisecond)).To(Succeed())
		Eventually(tasks.calls.Load).Should(BeNumerically(">", before))

		kind, running := p.Running()
		Expect(running).To(BeTrue())
		Expect(kind).To(Equal(poller.KindTasks))
	})
})
