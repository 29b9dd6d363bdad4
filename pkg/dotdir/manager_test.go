package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/dotdir"
)

var _ = Describe("dotdir", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())

		// Resolve symlinks so paths match filepath.Abs results
		// (e.g. on macOS /var -> /private/var).
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	chdir := func(dir string) {
		origDir, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(dir)).To(Succeed())
		DeferCleanup(func() { os.Chdir(origDir) })
	}

	Describe("Target", func() {
		It("creates the directory if it doesn't exist", func() {
			dir := filepath.Join(tmpDir, "newdir")
			result, err := m.Target(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(dir))

			info, err := os.Stat(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("returns the override dir even when a local .recall dir exists", func() {
			Expect(os.Mkdir(filepath.Join(tmpDir, ".recall"), 0o755)).To(Succeed())
			chdir(tmpDir)

			overrideDir := filepath.Join(tmpDir, "override")
			result, err := m.Target(overrideDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(overrideDir))
		})

		It("returns the local .recall dir when it exists and no override is provided", func() {
			local := filepath.Join(tmpDir, ".recall")
			Expect(os.Mkdir(local, 0o755)).To(Succeed())
			chdir(tmpDir)

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(local))
		})

		It("finds a .recall dir in a parent of the working directory", func() {
			local := filepath.Join(tmpDir, ".recall")
			Expect(os.Mkdir(local, 0o755)).To(Succeed())
			nested := filepath.Join(tmpDir, "docs", "guides")
			Expect(os.MkdirAll(nested, 0o755)).To(Succeed())
			chdir(nested)

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(local))
		})

		It("prefers RECALL_HOME over a project dir", func() {
			Expect(os.Mkdir(filepath.Join(tmpDir, ".recall"), 0o755)).To(Succeed())
			chdir(tmpDir)

			envDir := filepath.Join(tmpDir, "state")
			Expect(os.Setenv(dotdir.HomeEnv, envDir)).To(Succeed())
			DeferCleanup(func() { os.Unsetenv(dotdir.HomeEnv) })

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(envDir))

			info, err := os.Stat(envDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("creates ~/.recall when nothing else is found", func() {
			emptyDir := filepath.Join(tmpDir, "empty")
			Expect(os.Mkdir(emptyDir, 0o755)).To(Succeed())
			chdir(emptyDir)

			origHome := os.Getenv("HOME")
			Expect(os.Setenv("HOME", emptyDir)).To(Succeed())
			DeferCleanup(func() { os.Setenv("HOME", origHome) })

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(filepath.Join(emptyDir, ".recall")))
		})
	})

	Describe("data files", func() {
		It("places default files inside the target", func() {
			kb, err := m.KnowledgePath(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(kb).To(Equal(filepath.Join(tmpDir, "knowledge.json")))

			h, err := m.HistoryPath(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(h).To(Equal(filepath.Join(tmpDir, "history.json")))

			db, err := m.SQLitePath(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(db).To(Equal(filepath.Join(tmpDir, "recall.sqlite")))
		})
	})
})
