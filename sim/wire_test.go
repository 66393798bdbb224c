package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Wire", func() {
	var (
		mockCtrl *gomock.Controller
		clk      Clock
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		clk, _ = NewClock("clk", High, 10)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should fan the output value out to an inverter", func() {
		w := Wire(clk, Inverter("inv", 5))

		inst, err := w.Invoke()

		Expect(err).NotTo(HaveOccurred())
		Expect(w.Label()).To(Equal("clk"))
		Expect(inst.Signal).To(Equal(High))
		Expect(inst.Downstream).To(HaveLen(1))
		Expect(inst.Downstream[0].Delay).To(Equal(Delay(5)))
		Expect(inst.Downstream[0].Generator).To(Equal(
			Gate{Name: "inv", Op: OpNot, Input: High, Delay: 5}))
	})

	It("should keep the output's own progression and stay wired", func() {
		w := Wire(clk, Inverter("inv", 5))

		inst, _ := w.Invoke()

		Expect(inst.Self.Delay).To(Equal(Delay(10)))
		next, ok := inst.Self.Generator.(Wired)
		Expect(ok).To(BeTrue())
		Expect(next.Output()).To(Equal(Generator(mustClock("clk", Low, 10))))
		Expect(next.Consumers()).To(HaveLen(1))

		inst, _ = next.Invoke()
		Expect(inst.Signal).To(Equal(Low))
		Expect(inst.Downstream[0].Generator.(Gate).Input).To(Equal(Low))
	})

	It("should call consumers in order with the output value", func() {
		c1 := NewMockConsumer(mockCtrl)
		c2 := NewMockConsumer(mockCtrl)
		g1 := Gate{Name: "a", Input: High}
		g2 := Gate{Name: "b", Input: High}

		first := c1.EXPECT().Consume(High).
			Return([]ScheduledEvent{{Delay: 1, Generator: g1}})
		c2.EXPECT().Consume(High).
			Return([]ScheduledEvent{{Delay: 2, Generator: g2}}).
			After(first)

		inst, err := Wire(clk, c1, c2).Invoke()

		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Downstream).To(Equal([]ScheduledEvent{
			{Delay: 1, Generator: g1},
			{Delay: 2, Generator: g2},
		}))
	})

	It("should accept plain functions as consumers", func() {
		var seen []Signal
		f := ConsumerFunc(func(s Signal) []ScheduledEvent {
			seen = append(seen, s)
			return nil
		})

		inst, err := Wire(clk, f).Invoke()

		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]Signal{High}))
		Expect(inst.Downstream).To(BeEmpty())
	})

	It("should behave like the output when there is no consumer", func() {
		plain, _ := clk.Invoke()
		wired, _ := Wire(clk).Invoke()

		Expect(wired.Signal).To(Equal(plain.Signal))
		Expect(wired.Self.Delay).To(Equal(plain.Self.Delay))
		Expect(wired.Downstream).To(BeEmpty())
	})

	It("should keep downstream events of a nested wire first", func() {
		inner := Wire(clk, Inverter("a", 3))
		inst, err := Wire(inner, Inverter("b", 4)).Invoke()

		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Downstream).To(HaveLen(2))
		Expect(inst.Downstream[0].Generator.Label()).To(Equal("a"))
		Expect(inst.Downstream[1].Generator.Label()).To(Equal("b"))
	})

	It("should not be affected by later changes to the consumer slice", func() {
		consumers := []Consumer{Inverter("inv", 5)}
		w := Wire(clk, consumers...)
		consumers[0] = Inverter("other", 1)

		inst, _ := w.Invoke()

		Expect(inst.Downstream[0].Generator.Label()).To(Equal("inv"))
	})

	It("should fail when the output has no self-continuation", func() {
		g := Gate{Name: "inv", Op: OpNot, Input: High}

		_, err := Wire(g, Inverter("x", 1)).Invoke()

		var malformed *MalformedGeneratorError
		Expect(errors.As(err, &malformed)).To(BeTrue())
		Expect(malformed.Label).To(Equal("inv"))
	})

	It("should fail when the self-continuation has no generator", func() {
		out := NewMockGenerator(mockCtrl)
		out.EXPECT().Label().Return("broken").AnyTimes()
		out.EXPECT().Invoke().Return(Instant{
			Signal: High,
			Self:   &ScheduledEvent{Delay: 1},
		}, nil)

		_, err := Wire(out).Invoke()

		var malformed *MalformedGeneratorError
		Expect(errors.As(err, &malformed)).To(BeTrue())
		Expect(malformed.Label).To(Equal("broken"))
	})

	It("should pass output errors through", func() {
		out := NewMockGenerator(mockCtrl)
		boom := errors.New("boom")
		out.EXPECT().Invoke().Return(Instant{}, boom)

		_, err := Wire(out).Invoke()

		Expect(err).To(MatchError(boom))
	})
})

func mustClock(name string, level Signal, width Delay) Clock {
	c, err := NewClock(name, level, width)
	if err != nil {
		panic(err)
	}

	return c
}
