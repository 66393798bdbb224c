package circuit

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sarchlab/wavesim/sim"
)

const chainYAML = `
name: chain
ticks: 4
nodes:
  - label: clk
    kind: clock
    level: high
    pulse_width: 10
  - label: inv2
    kind: inverter
    delay: 3
    input: inv
  - label: inv
    kind: not
    delay: 5
    input: clk
`

var _ = Describe("Description", func() {
	It("should parse and build a netlist", func() {
		d, err := ParseDescription([]byte(chainYAML))
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Name).To(Equal("chain"))
		Expect(d.Ticks).To(Equal(4))
		Expect(d.Nodes).To(HaveLen(3))

		n, err := d.Build()
		Expect(err).NotTo(HaveOccurred())

		clk, _ := n.Lookup("clk")
		inv, _ := n.Lookup("inv")
		inv2, _ := n.Lookup("inv2")

		Expect(n.Node(clk).Level).To(Equal(sim.High))
		Expect(n.Node(clk).PulseWidth).To(Equal(sim.Delay(10)))
		Expect(n.Fanout(clk)).To(Equal([]NodeID{inv}))
		Expect(n.Fanout(inv)).To(Equal([]NodeID{inv2}))
		Expect(n.Node(inv2).Delay).To(Equal(sim.Delay(3)))
	})

	It("should load from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "chain.yaml")
		Expect(os.WriteFile(path, []byte(chainYAML), 0o600)).To(Succeed())

		d, err := LoadDescription(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(d.Name).To(Equal("chain"))
	})

	It("should report missing files", func() {
		_, err := LoadDescription("does-not-exist.yaml")
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("rejecting invalid descriptions",
		func(doc string) {
			_, err := ParseDescription([]byte(doc))
			Expect(err).To(HaveOccurred())
		},
		Entry("not yaml", "nodes: [\n"),
		Entry("no nodes", "name: empty\n"),
		Entry("unknown kind", `
nodes:
  - label: x
    kind: xor
    input: y
`),
		Entry("clock without pulse width", `
nodes:
  - label: clk
    kind: clock
    level: high
`),
		Entry("gate without input", `
nodes:
  - label: clk
    kind: clock
    level: high
    pulse_width: 2
  - label: inv
    kind: not
`),
		Entry("duplicate labels", `
nodes:
  - label: clk
    kind: clock
    level: high
    pulse_width: 2
  - label: clk
    kind: not
    input: clk
`),
		Entry("negative ticks", `
ticks: -1
nodes:
  - label: clk
    kind: clock
    level: high
    pulse_width: 2
`),
	)

	It("should reject a high impedance clock", func() {
		d, err := ParseDescription([]byte(`
nodes:
  - label: clk
    kind: clock
    level: z
    pulse_width: 2
`))
		Expect(err).NotTo(HaveOccurred())

		_, err = d.Build()
		Expect(errors.Is(err, sim.ErrInvalidClockLevel)).To(BeTrue())
	})

	It("should reject unknown inputs and driven clocks", func() {
		d, _ := ParseDescription([]byte(`
nodes:
  - label: clk
    kind: clock
    level: low
    pulse_width: 2
  - label: inv
    kind: not
    input: nowhere
`))
		_, err := d.Build()
		Expect(errors.Is(err, ErrUnknownNode)).To(BeTrue())

		d, _ = ParseDescription([]byte(`
nodes:
  - label: a
    kind: clock
    level: low
    pulse_width: 2
  - label: b
    kind: clock
    level: low
    pulse_width: 2
    input: a
`))
		_, err = d.Build()
		Expect(errors.Is(err, ErrDrivesClock)).To(BeTrue())
	})

	It("should reject bad levels", func() {
		d, _ := ParseDescription([]byte(`
nodes:
  - label: clk
    kind: clock
    level: maybe
    pulse_width: 2
`))
		_, err := d.Build()
		Expect(err).To(HaveOccurred())
	})
})
