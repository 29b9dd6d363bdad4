package sqlite_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/history"
	"github.com/papercomputeco/recall/pkg/knowledge"
	"github.com/papercomputeco/recall/pkg/storage"
	"github.com/papercomputeco/recall/pkg/storage/sqlite"
	testutils "github.com/papercomputeco/recall/pkg/utils/test"
)

var _ = Describe("Driver", func() {
	testutils.DescribeStorageDriver(func() storage.Driver {
		driver, err := sqlite.NewDriver(context.Background(), ":memory:")
		Expect(err).NotTo(HaveOccurred())
		return driver
	})

	Describe("NewDriver", func() {
		It("creates a driver with file database", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "test.db")

			driver, err := sqlite.NewDriver(context.Background(), dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer driver.Close()

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps records across reopen", func() {
			ctx := context.Background()
			dbPath := filepath.Join(GinkgoT().TempDir(), "test.db")

			driver, err := sqlite.NewDriver(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.ReplaceDocuments(ctx, []knowledge.Document{
				knowledge.NewDocument("persisted", map[string]string{"path": "p.md"}),
			})).To(Succeed())
			Expect(driver.AppendEntry(ctx, history.Entry{Role: "user", Content: "hi", Timestamp: "t1"})).To(Succeed())
			Expect(driver.Close()).To(Succeed())

			reopened, err := sqlite.NewDriver(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer reopened.Close()

			docs, err := reopened.ListDocuments(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0].Metadata).To(HaveKeyWithValue("path", "p.md"))

			entries, err := reopened.ListEntries(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("fails for a path in a missing directory", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "missing", "test.db")

			_, err := sqlite.NewDriver(context.Background(), dbPath)
			Expect(err).To(HaveOccurred())
		})
	})
})
