package circuit

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sarchlab/wavesim/sim"
	"gopkg.in/yaml.v3"
)

var descriptionValidate = validator.New()

// NodeDescription describes one node of a netlist file.
type NodeDescription struct {
	Label      string `yaml:"label" validate:"required"`
	Kind       string `yaml:"kind" validate:"required,oneof=clock not inv inverter"`
	Level      string `yaml:"level" validate:"required_if=Kind clock"`
	PulseWidth uint64 `yaml:"pulse_width" validate:"required_if=Kind clock"`
	Delay      uint64 `yaml:"delay"`
	Input      string `yaml:"input" validate:"required_unless=Kind clock"`
}

// Description is the content of a netlist file.
//
//	name: clock-and-inverter
//	ticks: 4
//	nodes:
//	  - label: clk
//	    kind: clock
//	    level: high
//	    pulse_width: 10
//	  - label: inv
//	    kind: not
//	    delay: 5
//	    input: clk
type Description struct {
	Name  string            `yaml:"name"`
	Ticks int               `yaml:"ticks" validate:"gte=0"`
	Nodes []NodeDescription `yaml:"nodes" validate:"required,min=1,unique=Label,dive"`
}

// ParseDescription decodes and validates a netlist description.
func ParseDescription(data []byte) (*Description, error) {
	d := new(Description)

	err := yaml.Unmarshal(data, d)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode netlist")
	}

	err = d.Validate()
	if err != nil {
		return nil, err
	}

	return d, nil
}

// LoadDescription reads a netlist description from a file.
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read netlist")
	}

	d, err := ParseDescription(data)
	if err != nil {
		return nil, errors.Wrapf(err, "netlist %s", path)
	}

	return d, nil
}

// Validate checks the fields of the description.
func (d *Description) Validate() error {
	err := descriptionValidate.Struct(d)
	if err != nil {
		return errors.Wrap(err, "invalid netlist")
	}

	return nil
}

// Build creates the netlist. Inputs may refer to nodes declared later in the
// file.
func (d *Description) Build() (*Netlist, error) {
	n := NewNetlist()

	for _, nd := range d.Nodes {
		err := d.addNode(n, nd)
		if err != nil {
			return nil, err
		}
	}

	for _, nd := range d.Nodes {
		if nd.Input == "" {
			continue
		}

		err := n.ConnectLabels(nd.Input, nd.Label)
		if err != nil {
			return nil, errors.Wrapf(err, "input of %q", nd.Label)
		}
	}

	err := n.Validate()
	if err != nil {
		return nil, err
	}

	return n, nil
}

func (d *Description) addNode(n *Netlist, nd NodeDescription) error {
	if nd.Kind == "clock" {
		level, err := sim.ParseSignal(nd.Level)
		if err != nil {
			return errors.Wrapf(err, "clock %q", nd.Label)
		}

		_, err = n.AddClock(nd.Label, level, sim.Delay(nd.PulseWidth))

		return err
	}

	op, err := sim.ParseGateOp(nd.Kind)
	if err != nil {
		return errors.Wrapf(err, "gate %q", nd.Label)
	}

	_, err = n.AddGate(nd.Label, op, sim.Delay(nd.Delay))

	return err
}
