package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/knowledge"
	recalllogger "github.com/papercomputeco/recall/pkg/logger"
	"github.com/papercomputeco/recall/pkg/watcher"
	"github.com/papercomputeco/recall/pkg/worker"
)

// recordingQueue captures enqueued jobs.
type recordingQueue struct {
	mu   sync.Mutex
	jobs []worker.Job
}

func (q *recordingQueue) Enqueue(job worker.Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return true
}

func (q *recordingQueue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func (q *recordingQueue) Jobs() []worker.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]worker.Job(nil), q.jobs...)
}

const debounce = 50 * time.Millisecond

var _ = Describe("Watcher", func() {
	var (
		dir   string
		queue *recordingQueue
		w     *watcher.Watcher
		ctx   context.Context
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		queue = &recordingQueue{}
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(context.Background())
		DeferCleanup(cancel)

		w = watcher.New(dir, nil, queue,
			watcher.WithDebounce(debounce),
			watcher.WithLogger(recalllogger.Nop()),
		)
		Expect(w.Start(ctx)).To(Succeed())
		DeferCleanup(w.Stop)
	})

	It("enqueues a reload after a matching file is written", func() {
		Expect(os.WriteFile(filepath.Join(dir, "note.md"), []byte("hello"), 0o644)).To(Succeed())

		Eventually(queue.Count).Should(Equal(1))
		Expect(queue.Jobs()[0].Dir).To(Equal(filepath.Clean(dir)))
	})

	It("coalesces a burst of writes into one reload", func() {
		for i := range 5 {
			name := filepath.Join(dir, "burst.txt")
			Expect(os.WriteFile(name, []byte{byte('a' + i)}, 0o644)).To(Succeed())
		}

		Eventually(queue.Count).Should(Equal(1))
		Consistently(queue.Count, 4*debounce).Should(Equal(1))
	})

	It("ignores files with other suffixes", func() {
		Expect(os.WriteFile(filepath.Join(dir, "image.png"), []byte{0}, 0o644)).To(Succeed())

		Consistently(queue.Count, 4*debounce).Should(BeZero())
	})

	It("watches directories created after start", func() {
		sub := filepath.Join(dir, "sub")
		Expect(os.Mkdir(sub, 0o755)).To(Succeed())
		Eventually(queue.Count).Should(Equal(1))

		Expect(os.WriteFile(filepath.Join(sub, "deep.txt"), []byte("deep"), 0o644)).To(Succeed())
		Eventually(queue.Count).Should(Equal(2))
	})

	It("stops enqueueing after Stop", func() {
		w.Stop()
		Eventually(w.Done()).Should(BeClosed())

		Expect(os.WriteFile(filepath.Join(dir, "late.txt"), []byte("late"), 0o644)).To(Succeed())
		Consistently(queue.Count, 4*debounce).Should(BeZero())
	})

	It("fails to start on a missing directory", func() {
		missing := watcher.New(filepath.Join(dir, "missing"), nil, queue)
		Expect(missing.Start(ctx)).NotTo(Succeed())
	})

	It("drives a real reload through the worker pool", func() {
		store := knowledge.NewStore(ctx, nil)
		pool, err := worker.NewPool(&worker.Config{Store: store})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(pool.Close)

		sourceDir := GinkgoT().TempDir()
		live := watcher.New(sourceDir, []string{"txt"}, pool, watcher.WithDebounce(debounce))
		Expect(live.Start(ctx)).To(Succeed())
		DeferCleanup(live.Stop)

		Expect(os.WriteFile(filepath.Join(sourceDir, "cats.txt"), []byte("cats purr"), 0o644)).To(Succeed())

		Eventually(store.Len).Should(Equal(1))
		Expect(store.Search("cat", 1)[0].Document.Content).To(Equal("cats purr"))
	})
})
