package testutils

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/history"
	"github.com/papercomputeco/recall/pkg/knowledge"
	"github.com/papercomputeco/recall/pkg/storage"
)

// DescribeStorageDriver registers the behavior every storage.Driver shares.
// newDriver is called before each test and the driver is closed after it.
func DescribeStorageDriver(newDriver func() storage.Driver) {
	var (
		driver storage.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = newDriver()
	})

	AfterEach(func() {
		if driver != nil {
			driver.Close()
		}
	})

	Describe("documents", func() {
		It("starts empty", func() {
			docs, err := driver.ListDocuments(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(BeEmpty())
		})

		It("lists documents in insertion order with metadata", func() {
			Expect(driver.ReplaceDocuments(ctx, []knowledge.Document{
				knowledge.NewDocument("first", map[string]string{"path": "a.txt"}),
				knowledge.NewDocument("second", nil),
			})).To(Succeed())

			docs, err := driver.ListDocuments(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(2))
			Expect(docs[0].Content).To(Equal("first"))
			Expect(docs[0].Metadata).To(HaveKeyWithValue("path", "a.txt"))
			Expect(docs[1].Content).To(Equal("second"))
			Expect(docs[1].Metadata).To(BeEmpty())
		})

		It("replaces rather than appends", func() {
			Expect(driver.ReplaceDocuments(ctx, []knowledge.Document{knowledge.NewDocument("old", nil)})).To(Succeed())
			Expect(driver.ReplaceDocuments(ctx, []knowledge.Document{knowledge.NewDocument("new", nil)})).To(Succeed())

			docs, err := driver.ListDocuments(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0].Content).To(Equal("new"))
		})

		It("is idempotent for the same document set", func() {
			set := []knowledge.Document{
				knowledge.NewDocument("a", nil),
				knowledge.NewDocument("b", nil),
			}
			Expect(driver.ReplaceDocuments(ctx, set)).To(Succeed())
			Expect(driver.ReplaceDocuments(ctx, set)).To(Succeed())

			docs, err := driver.ListDocuments(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(2))
		})

		It("clears the set when replaced with nothing", func() {
			Expect(driver.ReplaceDocuments(ctx, []knowledge.Document{knowledge.NewDocument("a", nil)})).To(Succeed())
			Expect(driver.ReplaceDocuments(ctx, nil)).To(Succeed())

			docs, err := driver.ListDocuments(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(BeEmpty())
		})
	})

	Describe("history", func() {
		It("appends entries oldest first", func() {
			Expect(driver.AppendEntry(ctx, history.Entry{Role: "user", Content: "hi", Timestamp: "t1"})).To(Succeed())
			Expect(driver.AppendEntry(ctx, history.Entry{Role: "assistant", Content: "hello", Timestamp: "t2"})).To(Succeed())

			entries, err := driver.ListEntries(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(Equal([]history.Entry{
				{Role: "user", Content: "hi", Timestamp: "t1"},
				{Role: "assistant", Content: "hello", Timestamp: "t2"},
			}))
		})

		It("clears the log", func() {
			Expect(driver.AppendEntry(ctx, history.Entry{Role: "user", Content: "hi", Timestamp: "t1"})).To(Succeed())
			Expect(driver.ClearEntries(ctx)).To(Succeed())

			entries, err := driver.ListEntries(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("keeps documents when the log is cleared", func() {
			Expect(driver.ReplaceDocuments(ctx, []knowledge.Document{knowledge.NewDocument("a", nil)})).To(Succeed())
			Expect(driver.ClearEntries(ctx)).To(Succeed())

			docs, err := driver.ListDocuments(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
		})
	})
}
