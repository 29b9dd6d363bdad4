package knowledge_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/backend"
	"github.com/papercomputeco/recall/pkg/knowledge"
)

var _ = Describe("ReadDirectory", func() {
	var tmpDir string

	write := func(rel string, data []byte) string {
		p := filepath.Join(tmpDir, rel)
		Expect(os.MkdirAll(filepath.Dir(p), 0o755)).To(Succeed())
		Expect(os.WriteFile(p, data, 0o644)).To(Succeed())
		return p
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "recall-loader-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("reads matching files recursively in lexical order", func() {
		b := write("b.md", []byte("bravo"))
		a := write("a.txt", []byte("alpha"))
		c := write("sub/c.TXT", []byte("charlie"))
		write("skip.pdf", []byte("nope"))

		docs, err := knowledge.ReadDirectory(tmpDir, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(Equal([]knowledge.Document{
			{Content: "alpha", Metadata: map[string]string{"path": a}},
			{Content: "bravo", Metadata: map[string]string{"path": b}},
			{Content: "charlie", Metadata: map[string]string{"path": c}},
		}))
	})

	It("honours custom suffixes", func() {
		write("a.txt", []byte("alpha"))
		write("b.rst", []byte("bravo"))

		docs, err := knowledge.ReadDirectory(tmpDir, []string{"RST"})
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(1))
		Expect(docs[0].Content).To(Equal("bravo"))
	})

	It("decodes non UTF-8 content as latin-1", func() {
		write("latin.txt", []byte{'c', 'a', 'f', 0xe9})

		docs, err := knowledge.ReadDirectory(tmpDir, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs[0].Content).To(Equal("café"))
	})

	It("returns nothing for a missing directory", func() {
		docs, err := knowledge.ReadDirectory(filepath.Join(tmpDir, "missing"), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(BeEmpty())
	})

	It("rejects a file path", func() {
		p := write("a.txt", []byte("alpha"))
		_, err := knowledge.ReadDirectory(p, nil)
		Expect(err).To(HaveOccurred())
	})

	It("normalizes suffixes", func() {
		Expect(knowledge.NormalizeSuffixes(nil)).To(Equal([]string{".txt", ".md"}))
		Expect(knowledge.NormalizeSuffixes([]string{" MD", ".Txt", ""})).To(Equal([]string{".md", ".txt"}))
	})
})

var _ = Describe("Store.LoadDirectory", func() {
	var (
		ctx    context.Context
		tmpDir string
		store  *knowledge.Store
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		tmpDir, err = os.MkdirTemp("", "recall-loaddir-test-*")
		Expect(err).NotTo(HaveOccurred())
		Expect(os.WriteFile(filepath.Join(tmpDir, "graph.md"), []byte("graphs and nodes"), 0o644)).To(Succeed())

		store = knowledge.NewStore(ctx, nil)
		store.AddDocuments(ctx, []knowledge.Document{knowledge.NewDocument("existing", nil)})
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("replaces the store by default", func() {
		report, err := store.LoadDirectory(ctx, tmpDir, knowledge.LoadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Documents).To(Equal(1))
		Expect(report.Persist.Source).To(Equal(backend.SourceMemory))
		Expect(store.Len()).To(Equal(1))
		Expect(store.Search("graph", 1)[0].Score).To(BeNumerically(">", 0))
	})

	It("appends when asked", func() {
		_, err := store.LoadDirectory(ctx, tmpDir, knowledge.LoadOptions{Append: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Len()).To(Equal(2))
	})

	It("leaves the store untouched when nothing is found", func() {
		report, err := store.LoadDirectory(ctx, filepath.Join(tmpDir, "missing"), knowledge.LoadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Documents).To(Equal(0))
		Expect(report.Persist.Source).To(Equal(backend.SourceNone))
		Expect(store.Len()).To(Equal(1))
	})
})
