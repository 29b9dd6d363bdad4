package history_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/backend"
	"github.com/papercomputeco/recall/pkg/backend/file"
	"github.com/papercomputeco/recall/pkg/backend/remote"
	"github.com/papercomputeco/recall/pkg/eventstream"
	"github.com/papercomputeco/recall/pkg/history"
)

// closeTrackingPublisher rejects publishes once closed.
type closeTrackingPublisher struct {
	mu        sync.Mutex
	published int
	closed    bool
}

func (p *closeTrackingPublisher) Publish(_ context.Context, _ *eventstream.PersistEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("publisher closed")
	}
	p.published++
	return nil
}

func (p *closeTrackingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

var _ = Describe("Store", func() {
	var (
		ctx    context.Context
		tmpDir string
		path   string
		clock  time.Time
	)

	fixedClock := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	newFileStore := func() *history.Store {
		adapter, err := file.NewDriver[history.Entry](path, nil)
		Expect(err).NotTo(HaveOccurred())
		return history.NewStore(ctx, adapter, history.WithClock(fixedClock))
	}

	BeforeEach(func() {
		ctx = context.Background()
		clock = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

		var err error
		tmpDir, err = os.MkdirTemp("", "recall-history-test-*")
		Expect(err).NotTo(HaveOccurred())
		path = filepath.Join(tmpDir, "history.json")
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns recent messages and removes the file on clear", func() {
		s := newFileStore()
		s.SaveMessage(ctx, "user", "hi")
		s.SaveMessage(ctx, "bot", "hello")

		recent := s.Recent(1)
		Expect(recent).To(HaveLen(1))
		Expect(recent[0].Role).To(Equal("bot"))
		Expect(recent[0].Content).To(Equal("hello"))
		Expect(recent[0].Timestamp).To(Equal("2025-01-01T12:00:02Z"))

		res := s.Clear(ctx)
		Expect(res.Degraded()).To(BeFalse())
		Expect(s.History()).To(BeEmpty())

		_, err := os.Stat(path)
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})

	It("reloads the log in a fresh instance", func() {
		s := newFileStore()
		s.SaveMessage(ctx, "user", "one")
		s.SaveMessage(ctx, "bot", "two")

		reopened := newFileStore()
		Expect(reopened.History()).To(Equal(s.History()))
		Expect(reopened.LastLoad().Source).To(Equal(backend.SourceFile))
	})

	It("fills defaults for incomplete persisted entries", func() {
		Expect(os.WriteFile(path, []byte(`[{"content":"orphan"}, 5, {"role":"user","content":"x","timestamp":"t"}]`), 0o644)).To(Succeed())

		entries := newFileStore().History()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Role).To(BeEmpty())
		Expect(entries[0].Content).To(Equal("orphan"))
		_, err := time.Parse(time.RFC3339Nano, entries[0].Timestamp)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries[1].Timestamp).To(Equal("t"))
	})

	DescribeTable("Recent",
		func(n int, want []string) {
			s := history.NewStore(ctx, nil)
			for _, c := range []string{"a", "b", "c"} {
				s.SaveMessage(ctx, "user", c)
			}

			var got []string
			for _, e := range s.Recent(n) {
				got = append(got, e.Content)
			}
			if len(want) == 0 {
				Expect(got).To(BeEmpty())
				return
			}
			Expect(got).To(Equal(want))
		},
		Entry("zero", 0, []string{}),
		Entry("negative", -2, []string{}),
		Entry("fewer than the log", 2, []string{"b", "c"}),
		Entry("more than the log", 10, []string{"a", "b", "c"}),
	)

	It("returns copies", func() {
		s := history.NewStore(ctx, nil)
		s.SaveMessage(ctx, "user", "hi")

		h := s.History()
		h[0].Content = "mutated"
		Expect(s.History()[0].Content).To(Equal("hi"))
	})

	It("posts each message to the remote and mirrors it locally", func() {
		var mu sync.Mutex
		var methods []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			methods = append(methods, r.Method)
			mu.Unlock()
			if r.Method == http.MethodGet {
				_, _ = w.Write([]byte("[]"))
			}
		}))
		defer server.Close()

		fallback, err := file.NewDriver[history.Entry](path, nil)
		Expect(err).NotTo(HaveOccurred())
		adapter, err := remote.NewDriver(remote.Config[history.Entry]{URL: server.URL, Fallback: fallback}, nil)
		Expect(err).NotTo(HaveOccurred())

		s := history.NewStore(ctx, adapter)
		res := s.SaveMessage(ctx, "user", "hi")
		Expect(res.Source).To(Equal(backend.SourceRemote))
		s.Clear(ctx)

		Expect(methods).To(Equal([]string{http.MethodGet, http.MethodPost, http.MethodDelete}))
	})

	It("does not close a publisher shared with another store", func() {
		pub := &closeTrackingPublisher{}
		first := history.NewStore(ctx, nil, history.WithPublisher(pub))
		second := history.NewStore(ctx, nil, history.WithPublisher(pub))

		Expect(first.Close()).To(Succeed())
		second.SaveMessage(ctx, "user", "still publishing")

		Expect(pub.closed).To(BeFalse())
		Expect(pub.published).To(Equal(1))
		Expect(second.Close()).To(Succeed())
	})

	It("appends safely from many goroutines", func() {
		s := history.NewStore(ctx, nil)

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 25 {
					s.SaveMessage(ctx, "user", "x")
					_ = s.Recent(3)
				}
			}()
		}
		wg.Wait()

		Expect(s.Len()).To(Equal(250))
	})
})
