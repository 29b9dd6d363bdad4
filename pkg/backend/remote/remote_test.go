package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
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
)

type item struct {
	Text string `json:"text"`
}

// fakeService records requests and answers with a configurable status/body.
type fakeService struct {
	mu       sync.Mutex
	status   int
	body     string
	requests []*http.Request
	bodies   []string
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, _ := io.ReadAll(r.Body)
	f.requests = append(f.requests, r)
	f.bodies = append(f.bodies, string(data))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

var _ = Describe("Driver", func() {
	var (
		ctx      context.Context
		svc      *fakeService
		server   *httptest.Server
		tmpDir   string
		fallback *file.Driver[item]
		driver   *remote.Driver[item]
	)

	newDriver := func(url string) *remote.Driver[item] {
		d, err := remote.NewDriver(remote.Config[item]{
			URL:      url,
			Token:    "secret",
			Timeout:  time.Second,
			Fallback: fallback,
		}, nil)
		Expect(err).NotTo(HaveOccurred())
		return d
	}

	BeforeEach(func() {
		ctx = context.Background()
		svc = &fakeService{status: http.StatusOK, body: "[]"}
		server = httptest.NewServer(svc)

		var err error
		tmpDir, err = os.MkdirTemp("", "recall-remote-test-*")
		Expect(err).NotTo(HaveOccurred())

		fallback, err = file.NewDriver[item](filepath.Join(tmpDir, "fallback.json"), nil)
		Expect(err).NotTo(HaveOccurred())

		driver = newDriver(server.URL + "/records/")
	})

	AfterEach(func() {
		server.Close()
		os.RemoveAll(tmpDir)
	})

	It("requires a URL", func() {
		_, err := remote.NewDriver(remote.Config[item]{URL: "  "}, nil)
		Expect(errors.Is(err, backend.ErrInvalidConfig)).To(BeTrue())
	})

	It("defaults to an in-memory fallback", func() {
		d, err := remote.NewDriver(remote.Config[item]{URL: server.URL}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Fallback().Kind()).To(Equal(backend.KindMemory))
		Expect(d.Kind()).To(Equal(backend.KindCloud))
	})

	Describe("Persist", func() {
		It("PUTs the full set with a bearer token and mirrors into the fallback", func() {
			res := driver.Persist(ctx, []item{{Text: "a"}, {Text: "b"}})
			Expect(res.Source).To(Equal(backend.SourceRemote))
			Expect(res.Degraded()).To(BeFalse())

			Expect(svc.requests).To(HaveLen(1))
			req := svc.requests[0]
			Expect(req.Method).To(Equal(http.MethodPut))
			Expect(req.URL.Path).To(Equal("/records"))
			Expect(req.Header.Get("Authorization")).To(Equal("Bearer secret"))
			Expect(req.Header.Get("Content-Type")).To(Equal("application/json"))

			var sent []item
			Expect(json.Unmarshal([]byte(svc.bodies[0]), &sent)).To(Succeed())
			Expect(sent).To(Equal([]item{{Text: "a"}, {Text: "b"}}))

			Expect(fallback.Load(ctx).Records).To(Equal(sent))
		})

		It("writes the fallback when the remote rejects the write", func() {
			svc.status = http.StatusInternalServerError
			svc.body = `{"error":"down"}`

			res := driver.Persist(ctx, []item{{Text: "kept"}})
			Expect(res.Source).To(Equal(backend.SourceFallback))
			Expect(res.Err).To(MatchError(ContainSubstring("status 500")))
			Expect(fallback.Load(ctx).Records).To(Equal([]item{{Text: "kept"}}))
		})

		It("writes the fallback when the remote is unreachable", func() {
			server.Close()

			res := driver.Persist(ctx, []item{{Text: "kept"}})
			Expect(res.Source).To(Equal(backend.SourceFallback))
			Expect(res.Degraded()).To(BeTrue())
			Expect(fallback.Load(ctx).Records).To(Equal([]item{{Text: "kept"}}))
		})

		It("gives up after the timeout", func() {
			slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			}))
			defer slow.Close()

			d, err := remote.NewDriver(remote.Config[item]{
				URL:      slow.URL,
				Timeout:  50 * time.Millisecond,
				Fallback: fallback,
			}, nil)
			Expect(err).NotTo(HaveOccurred())

			start := time.Now()
			res := d.Persist(ctx, []item{{Text: "late"}})
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))
			Expect(res.Source).To(Equal(backend.SourceFallback))
			Expect(fallback.Load(ctx).Records).To(Equal([]item{{Text: "late"}}))
		})
	})

	Describe("Load", func() {
		It("serves the remote list", func() {
			svc.body = `[{"text":"remote"}, 7]`

			res := driver.Load(ctx)
			Expect(res.Source).To(Equal(backend.SourceRemote))
			Expect(res.Records).To(Equal([]item{{Text: "remote"}}))
			Expect(svc.requests[0].Method).To(Equal(http.MethodGet))
		})

		DescribeTable("falls back on failures",
			func(status int, body string) {
				fallback.Persist(ctx, []item{{Text: "local"}})
				svc.status = status
				svc.body = body

				res := driver.Load(ctx)
				Expect(res.Source).To(Equal(backend.SourceFallback))
				Expect(res.Degraded()).To(BeTrue())
				Expect(res.Records).To(Equal([]item{{Text: "local"}}))
			},
			Entry("server error", http.StatusServiceUnavailable, `[]`),
			Entry("malformed JSON", http.StatusOK, `[{"text":`),
			Entry("non array payload", http.StatusOK, `{"text":"x"}`),
		)

		It("consults the fallback when the remote list is empty", func() {
			fallback.Persist(ctx, []item{{Text: "local"}})

			res := driver.Load(ctx)
			Expect(res.Source).To(Equal(backend.SourceFallback))
			Expect(res.Degraded()).To(BeFalse())
			Expect(res.Records).To(Equal([]item{{Text: "local"}}))
		})

		It("returns empty when neither side has data", func() {
			res := driver.Load(ctx)
			Expect(res.Source).To(Equal(backend.SourceRemote))
			Expect(res.Records).To(BeEmpty())
		})
	})

	Describe("Append and Clear", func() {
		It("POSTs a single record and appends to the fallback", func() {
			all := []item{{Text: "first"}, {Text: "second"}}
			res := driver.Append(ctx, all[1], all)
			Expect(res.Source).To(Equal(backend.SourceRemote))

			Expect(svc.requests[0].Method).To(Equal(http.MethodPost))
			Expect(svc.bodies[0]).To(MatchJSON(`{"text":"second"}`))
			Expect(fallback.Load(ctx).Records).To(Equal(all))
		})

		It("DELETEs and clears the fallback even when the remote fails", func() {
			fallback.Persist(ctx, []item{{Text: "x"}})
			svc.status = http.StatusBadGateway

			res := driver.Clear(ctx)
			Expect(res.Source).To(Equal(backend.SourceFallback))
			Expect(svc.requests[0].Method).To(Equal(http.MethodDelete))
			Expect(fallback.Load(ctx).Records).To(BeEmpty())
		})
	})
})
