package suppliers_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	v1 "github.com/supplydesk/desk/api/v1"
	"github.com/supplydesk/desk/internal/client"
	"github.com/supplydesk/desk/internal/suppliers"
)

type expandSet struct {
	keys map[int]bool
	mu   sync.Mutex
}

func (s *expandSet) Toggle(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = !s.keys[key]
	return s.keys[key]
}

var _ = Describe("supplier cache", func() {
	var (
		ctx   context.Context
		desk  *client.DeskMock
		cache *suppliers.Cache
		set   *expandSet
	)

	BeforeEach(func() {
		ctx = context.Background()
		set = &expandSet{keys: map[int]bool{}}
		desk = &client.DeskMock{
			SearchSuppliersFunc: func(ctx context.Context, query string) ([]v1.Supplier, error) {
				return []v1.Supplier{{Id: 1, CompanyName: query + " Ltd", Rating: 4}}, nil
			},
		}
		cache = suppliers.NewCache(desk)
	})

	It("searches once across expand, collapse and expand", func() {
		expanded, err := cache.ToggleExpand(ctx, set, 3, "Bearing 608")
		Expect(err).To(BeNil())
		Expect(expanded).To(BeTrue())

		expanded, err = cache.ToggleExpand(ctx, set, 3, "Bearing 608")
		Expect(err).To(BeNil())
		Expect(expanded).To(BeFalse())

		expanded, err = cache.ToggleExpand(ctx, set, 3, "Bearing 608")
		Expect(err).To(BeNil())
		Expect(expanded).To(BeTrue())

		Expect(desk.SearchSuppliersCalls()).To(HaveLen(1))
		Expect(desk.SearchSuppliersCalls()[0].Query).To(Equal("Bearing 608"))
		Expect(cache.Entry(3).State).To(Equal(suppliers.Fetched))
	})

	It("keeps positions with the same name apart", func() {
		_, _ = cache.ToggleExpand(ctx, set, 1, "Bolt M8")
		_, _ = cache.ToggleExpand(ctx, set, 2, "Bolt M8")

		Expect(desk.SearchSuppliersCalls()).To(HaveLen(2))
		Expect(cache.Entry(1).State).To(Equal(suppliers.Fetched))
		Expect(cache.Entry(2).State).To(Equal(suppliers.Fetched))
	})

	It("stores a failed search as empty and never retries it on expand", func() {
		desk.SearchSuppliersFunc = func(ctx context.Context, query string) ([]v1.Supplier, error) {
			return nil, errors.New("search unavailable")
		}

		expanded, err := cache.ToggleExpand(ctx, set, 5, "Gasket")
		Expect(err).To(HaveOccurred())
		Expect(expanded).To(BeTrue())
		Expect(cache.Entry(5).State).To(Equal(suppliers.Empty))

		_, _ = cache.ToggleExpand(ctx, set, 5, "Gasket")
		_, err = cache.ToggleExpand(ctx, set, 5, "Gasket")
		Expect(err).To(BeNil())
		Expect(desk.SearchSuppliersCalls()).To(HaveLen(1))
	})

	It("stores an empty result as empty", func() {
		desk.SearchSuppliersFunc = func(ctx context.Context, query string) ([]v1.Supplier, error) {
			return []v1.Supplier{}, nil
		}
		_, err := cache.ToggleExpand(ctx, set, 9, "Unobtainium")
		Expect(err).To(BeNil())
		Expect(cache.Entry(9).State).To(Equal(suppliers.Empty))
	})

	It("searches again after invalidation", func() {
		_, _ = cache.ToggleExpand(ctx, set, 3, "Bearing 608")
		cache.Invalidate(3)
		_, _ = cache.ToggleExpand(ctx, set, 3, "Bearing 608")
		_, _ = cache.ToggleExpand(ctx, set, 3, "Bearing 608")

		Expect(desk.SearchSuppliersCalls()).To(HaveLen(2))
	})

	It("collapses concurrent lookups of one key into one search", func() {
		release := make(chan struct{})
		desk.SearchSuppliersFunc = func(ctx context.Context, query string) ([]v1.Supplier, error) {
			<-release
			return []v1.Supplier{{Id: 2, Rating: 3}}, nil
		}
		sets := []*expandSet{{keys: map[int]bool{}}, {keys: map[int]bool{}}}

		var wg sync.WaitGroup
		for _, s := range sets {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				_, err := cache.ToggleExpand(ctx, s, 4, "Valve DN50")
				Expect(err).To(BeNil())
			}()
		}
		Eventually(func() int { return len(desk.SearchSuppliersCalls()) }).Should(Equal(1))
		close(release)
		wg.Wait()

		Expect(desk.SearchSuppliersCalls()).To(HaveLen(1))
		Expect(cache.Entry(4).Suppliers).To(HaveLen(1))
	})

	It("does not keep a result that arrives after reset", func() {
		release := make(chan struct{})
		desk.SearchSuppliersFunc = func(ctx context.Context, query string) ([]v1.Supplier, error) {
			<-release
			return []v1.Supplier{{Id: 2}}, nil
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = cache.ToggleExpand(ctx, set, 4, "Valve DN50")
		}()
		Eventually(func() int { return len(desk.SearchSuppliersCalls()) }).Should(Equal(1))

		cache.Reset()
		close(release)
		Eventually(done).Should(BeClosed())

		Expect(cache.Entry(4).State).To(Equal(suppliers.Unfetched))
	})
})

var _ = Describe("supplier directory", func() {
	It("uses the default page size", func() {
		desk := &client.DeskMock{
			ListSuppliersFunc: func(ctx context.Context, skip, limit int) ([]v1.Supplier, error) {
				return []v1.Supplier{}, nil
			},
		}
		_, err := suppliers.NewDirectory(desk).Browse(context.Background(), 0, 0)
		Expect(err).To(BeNil())
		Expect(desk.ListSuppliersCalls()[0].Limit).To(Equal(suppliers.DefaultPageSize))
	})

	It("refuses a negative offset", func() {
		_, err := suppliers.NewDirectory(&client.DeskMock{}).Browse(context.Background(), -1, 10)
		Expect(client.IsValidation(err)).To(BeTrue())
	})
})
