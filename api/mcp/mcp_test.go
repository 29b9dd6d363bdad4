package mcp_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/api/mcp"
	"github.com/papercomputeco/recall/pkg/knowledge"
	recalllogger "github.com/papercomputeco/recall/pkg/logger"
	"github.com/papercomputeco/recall/pkg/storage/inmemory"
)

var _ = Describe("MCP Server", func() {
	var (
		server *mcp.Server
		store  *knowledge.Store
		driver *inmemory.Driver
	)

	BeforeEach(func() {
		store = knowledge.NewStore(context.Background(), nil)
		driver = inmemory.NewDriver()

		var err error
		server, err = mcp.NewServer(mcp.Config{
			Knowledge: store,
			Storage:   driver,
			Logger:    recalllogger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("returns an error when knowledge store is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Storage: driver,
				Logger:  recalllogger.Nop(),
			})
			Expect(err).To(MatchError(ContainSubstring("knowledge store is required")))
		})

		It("returns an error when storage driver is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Knowledge: store,
				Logger:    recalllogger.Nop(),
			})
			Expect(err).To(MatchError(ContainSubstring("storage driver is required")))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Knowledge: store,
				Storage:   driver,
			})
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})

		It("creates a server with valid config", func() {
			Expect(server).NotTo(BeNil())
		})

		It("returns an HTTP handler", func() {
			Expect(server.Handler()).NotTo(BeNil())
		})
	})
})
