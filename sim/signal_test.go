package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Signal", func() {
	It("should invert driven levels", func() {
		s, err := Invert(High)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(Low))

		s, err = Invert(Low)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(High))
	})

	It("should refuse to invert high impedance", func() {
		_, err := Invert(HighZ)

		var unsupported *UnsupportedOperationError
		Expect(errors.As(err, &unsupported)).To(BeTrue())
		Expect(unsupported.Op).To(Equal("invert"))
		Expect(unsupported.Signal).To(Equal(HighZ))
	})

	It("should tell driven levels apart", func() {
		Expect(High.IsDriven()).To(BeTrue())
		Expect(Low.IsDriven()).To(BeTrue())
		Expect(HighZ.IsDriven()).To(BeFalse())
	})

	DescribeTable("parsing",
		func(str string, expected Signal) {
			s, err := ParseSignal(str)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal(expected))
		},
		Entry("high", "high", High),
		Entry("HIGH", "HIGH", High),
		Entry("1", "1", High),
		Entry("low", " Low ", Low),
		Entry("0", "0", Low),
		Entry("z", "z", HighZ),
		Entry("HighZ", "HighZ", HighZ),
	)

	It("should reject unknown values", func() {
		_, err := ParseSignal("x")
		Expect(err).To(HaveOccurred())
	})

	It("should render names", func() {
		Expect(High.String()).To(Equal("High"))
		Expect(Low.String()).To(Equal("Low"))
		Expect(HighZ.String()).To(Equal("HighZ"))
		Expect(Signal(7).String()).To(Equal("Signal(7)"))
	})
})
