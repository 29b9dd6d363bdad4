package mcp

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/history"
	"github.com/papercomputeco/recall/pkg/knowledge"
	recalllogger "github.com/papercomputeco/recall/pkg/logger"
	"github.com/papercomputeco/recall/pkg/storage/inmemory"
	testutils "github.com/papercomputeco/recall/pkg/utils/test"
)

var _ = Describe("Tools", func() {
	var (
		server *Server
		store  *knowledge.Store
		driver *inmemory.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = knowledge.NewStore(ctx, nil)
		driver = inmemory.NewDriver()

		var err error
		server, err = NewServer(Config{
			Knowledge: store,
			Storage:   driver,
			Logger:    recalllogger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("knowledge_search", func() {
		BeforeEach(func() {
			store.AddDocuments(ctx, []knowledge.Document{
				knowledge.NewDocument("cats purr", map[string]string{"path": "cats.txt"}),
				knowledge.NewDocument("dogs bark loudly", nil),
				knowledge.NewDocument(strings.Repeat("cat ", 100), nil),
			})
		})

		It("returns ranked documents", func() {
			result, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "cats", TopK: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Count).To(Equal(1))
			Expect(output.Results[0].Score).To(BeNumerically(">", 0))
		})

		It("defaults top_k to the store default", func() {
			_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "cats"})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(Equal(knowledge.DefaultTopK))
		})

		It("truncates long previews", func() {
			_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "cat", TopK: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Results[0].Preview).To(HaveSuffix("..."))
			Expect(output.Results[0].Content).To(HaveLen(400))
		})

		It("returns nothing for an empty query", func() {
			_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: ""})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(BeZero())
			Expect(output.Results).To(BeEmpty())
		})
	})

	Describe("history_recent", func() {
		BeforeEach(func() {
			for _, c := range []string{"one", "two", "three"} {
				Expect(driver.AppendEntry(ctx, history.Entry{Role: "user", Content: c, Timestamp: "t"})).To(Succeed())
			}
		})

		It("returns the newest messages oldest first", func() {
			_, output, err := server.handleHistoryRecent(ctx, nil, HistoryInput{Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(Equal(2))
			Expect(output.Messages[0].Content).To(Equal("two"))
			Expect(output.Messages[1].Content).To(Equal("three"))
		})

		It("returns the whole log when the limit exceeds it", func() {
			_, output, err := server.handleHistoryRecent(ctx, nil, HistoryInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(Equal(3))
		})

		It("reports storage failures as tool errors", func() {
			mock := testutils.NewMockStorageDriver()
			mock.FailReads = true
			failing, err := NewServer(Config{Knowledge: store, Storage: mock, Logger: recalllogger.Nop()})
			Expect(err).NotTo(HaveOccurred())

			result, _, err := failing.handleHistoryRecent(ctx, nil, HistoryInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})
})
