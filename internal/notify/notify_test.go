package notify_test

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/supplydesk/desk/internal/notify"
	testingclock "k8s.io/utils/clock/testing"
)

var _ = Describe("notification center", func() {
	var (
		clk    *testingclock.FakeClock
		center *notify.Center
		seen   []notify.Snapshot
		mu     sync.Mutex
	)

	BeforeEach(func() {
		clk = testingclock.NewFakeClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
		seen = nil
		center = notify.NewCenter(clk, 5*time.Second, func(s notify.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, s)
		})
	})

	AfterEach(func() {
		center.Close()
	})

	It("clears a message after the ttl", func() {
		center.Error("upload failed")
		Expect(center.Current().Error).To(Equal("upload failed"))

		clk.Step(4 * time.Second)
		Expect(center.Current().Error).To(Equal("upload failed"))

		clk.Step(time.Second)
		Expect(center.Current().Error).To(BeEmpty())
	})

	It("does not let the clear of an older message wipe a newer one", func() {
		center.Error("first")
		clk.Step(3 * time.Second)
		center.Error("second")

		clk.Step(3 * time.Second)
		Expect(center.Current().Error).To(Equal("second"))

		clk.Step(2 * time.Second)
		Expect(center.Current().Error).To(BeEmpty())
	})

	It("keeps the error and success slots apart", func() {
		center.Error("delete failed")
		clk.Step(2 * time.Second)
		center.Success("request submitted")

		clk.Step(3 * time.Second)
		Expect(center.Current()).To(Equal(notify.Snapshot{Success: "request submitted"}))
	})

	It("publishes every change to the sink", func() {
		center.Successf("request %d deleted", 7)
		clk.Step(5 * time.Second)

		mu.Lock()
		defer mu.Unlock()
		Expect(seen).To(Equal([]notify.Snapshot{{Success: "request 7 deleted"}, {}}))
	})

	It("dismisses a message right away", func() {
		center.Error("timeout")
		center.Dismiss(notify.KindError)
		Expect(center.Current().Error).To(BeEmpty())
		Expect(clk.HasWaiters()).To(BeFalse())
	})

	It("ignores messages after close", func() {
		center.Close()
		center.Error("late")
		Expect(center.Current().Error).To(BeEmpty())
	})

	It("ends on the latest state when messages race", func() {
		var (
			last    notify.Snapshot
			inSink  atomic.Int32
			overlap atomic.Bool
			lastMu  sync.Mutex
		)
		racing := notify.NewCenter(clk, 5*time.Second, func(s notify.Snapshot) {
			if inSink.Add(1) > 1 {
				overlap.Store(true)
			}
			defer inSink.Add(-1)
			lastMu.Lock()
			last = s
			lastMu.Unlock()
		})
		defer racing.Close()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()
				if i%2 == 0 {
					racing.Errorf("refresh %d failed", i)
				} else {
					racing.Successf("request %d submitted", i)
				}
			}(i)
		}
		wg.Wait()

		lastMu.Lock()
		defer lastMu.Unlock()
		Expect(last).To(Equal(racing.Current()))
		Expect(overlap.Load()).To(BeFalse())
	})
})
