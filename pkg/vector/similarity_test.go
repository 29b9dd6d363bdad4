package vector_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/vector"
)

var _ = Describe("CosineSimilarity", func() {
	It("returns 1 for identical vectors", func() {
		a := vector.Sparse{0: 0.5, 3: 0.5}
		Expect(vector.CosineSimilarity(a, a)).To(BeNumerically("~", 1.0, 1e-9))
	})

	It("stays within [0, 1] for vectors scored against themselves", func() {
		for n := 1; n < 60; n++ {
			v := vector.Sparse{}
			for i := 0; i < n; i++ {
				v[i] = float64(i%7+1) / float64(n*3+i%5)
			}
			score := vector.CosineSimilarity(v, v)
			Expect(score).To(BeNumerically("<=", 1.0), "vector of %d terms", n)
			Expect(score).To(BeNumerically(">=", 0.0))
			Expect(score).To(BeNumerically("~", 1.0, 1e-9))
		}
	})

	It("returns 0 for disjoint vectors", func() {
		a := vector.Sparse{0: 1}
		b := vector.Sparse{1: 1}
		Expect(vector.CosineSimilarity(a, b)).To(Equal(0.0))
	})

	It("returns 0 when either side is empty", func() {
		a := vector.Sparse{0: 1}
		Expect(vector.CosineSimilarity(a, vector.Sparse{})).To(Equal(0.0))
		Expect(vector.CosineSimilarity(nil, a)).To(Equal(0.0))
	})

	It("returns 0 for zero magnitude vectors", func() {
		a := vector.Sparse{0: 0}
		b := vector.Sparse{0: 1}
		Expect(vector.CosineSimilarity(a, b)).To(Equal(0.0))
	})

	It("is symmetric", func() {
		a := vector.Sparse{0: 0.2, 1: 0.8}
		b := vector.Sparse{1: 0.5, 2: 0.5}
		Expect(vector.CosineSimilarity(a, b)).To(BeNumerically("~", vector.CosineSimilarity(b, a), 1e-12))
	})
})

var _ = Describe("TopK", func() {
	var matrix []vector.Sparse

	BeforeEach(func() {
		matrix = []vector.Sparse{
			{1: 1},
			{0: 1},
			{0: 1, 1: 1},
			{0: 1},
		}
	})

	It("orders by score descending and keeps row order on ties", func() {
		got := vector.TopK(vector.Sparse{0: 1}, matrix, 4)

		Expect(got).To(HaveLen(4))
		Expect(got[0].Index).To(Equal(1))
		Expect(got[1].Index).To(Equal(3))
		Expect(got[2].Index).To(Equal(2))
		Expect(got[3].Index).To(Equal(0))
		Expect(got[3].Score).To(Equal(0.0))
	})

	It("truncates to k", func() {
		Expect(vector.TopK(vector.Sparse{0: 1}, matrix, 2)).To(HaveLen(2))
	})

	It("returns every row when k exceeds the matrix", func() {
		Expect(vector.TopK(vector.Sparse{0: 1}, matrix, 10)).To(HaveLen(4))
	})

	It("returns nothing for k <= 0, an empty query or an empty matrix", func() {
		Expect(vector.TopK(vector.Sparse{0: 1}, matrix, 0)).To(BeEmpty())
		Expect(vector.TopK(vector.Sparse{0: 1}, matrix, -1)).To(BeEmpty())
		Expect(vector.TopK(vector.Sparse{}, matrix, 3)).To(BeEmpty())
		Expect(vector.TopK(vector.Sparse{0: 1}, nil, 3)).To(BeEmpty())
	})
})
