package layout_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dbforge/mssql-provision-agent/pkg/layout"
)

var _ = Describe("PlanFileCount", func() {
	// Given an expected size and a per-file ceiling
	// When the file count is planned
	// Then the result is ceil(expected/threshold) clamped to [1, MaxDataFiles]
	DescribeTable("should plan the capped ceiling of expected over threshold",
		func(expectedMB, thresholdMB int64, want int) {
			count, err := layout.PlanFileCount(expectedMB, thresholdMB)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(want))
		},
		Entry("well under one file", int64(5120), int64(10240), 1),
		Entry("exactly one file, no off-by-one", int64(10240), int64(10240), 1),
		Entry("just over one file", int64(11264), int64(10240), 2),
		Entry("five files", int64(51200), int64(10240), 5),
		Entry("raw 10 capped to 8", int64(102400), int64(10240), 8),
		Entry("raw 103 capped to 8", int64(1048576), int64(10240), 8),
		Entry("zero expected size clamps to 1", int64(0), int64(10240), 1),
	)

	It("should be monotonically non-decreasing in expected size", func() {
		prev := 0
		for mb := int64(0); mb <= 120000; mb += 4096 {
			count, err := layout.PlanFileCount(mb, 10240)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeNumerically(">=", prev))
			Expect(count).To(And(BeNumerically(">=", 1), BeNumerically("<=", layout.MaxDataFiles)))
			prev = count
		}
	})

	It("should be monotonically non-increasing in threshold", func() {
		prev := layout.MaxDataFiles + 1
		for threshold := int64(1024); threshold <= 65536; threshold += 1024 {
			count, err := layout.PlanFileCount(51200, threshold)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeNumerically("<=", prev))
			prev = count
		}
	})

	// Given a zero or negative threshold
	// When the file count is planned
	// Then the division-by-zero guard rejects it
	It("should reject a non-positive threshold", func() {
		for _, threshold := range []int64{0, -1, -10240} {
			_, err := layout.PlanFileCount(51200, threshold)
			Expect(err).To(BeAssignableToTypeOf(&layout.InvalidThresholdError{}))
		}
	})
})

var _ = Describe("PlanPerFileSize", func() {
	It("should split evenly when the count divides the total", func() {
		size, err := layout.PlanPerFileSize(8192, 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(size).To(Equal(int64(1024)))
	})

	// Given a total that does not divide evenly
	// When the per-file size is planned
	// Then ceiling division over-provisions so the total is still covered
	It("should round up so all files cover the expected total", func() {
		size, err := layout.PlanPerFileSize(10000, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(size).To(Equal(int64(3334)))
		Expect(size * 3).To(BeNumerically(">=", 10000))
	})

	It("should reject a file count below 1", func() {
		for _, count := range []int{0, -1} {
			_, err := layout.PlanPerFileSize(10000, count)
			Expect(err).To(BeAssignableToTypeOf(&layout.InvalidFileCountError{}))
		}
	})
})
