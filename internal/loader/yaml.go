package loader

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vinhtrinh326/schedsim/pkg/process"
)

type processDoc struct {
	Name      string `yaml:"name"`
	Arrival   int64  `yaml:"arrival"`
	Burst     int64  `yaml:"burst"`
	Algorithm string `yaml:"algorithm"`
	Priority  *int64 `yaml:"priority"`
}

type injectionDoc struct {
	At         int64 `yaml:"at"`
	processDoc `yaml:",inline"`
}

type scenarioDoc struct {
	Processes  []processDoc   `yaml:"processes"`
	Injections []injectionDoc `yaml:"injections"`
}

// LoadYAML reads a scenario document:
//
//	processes:
//	  - {name: P1, arrival: 0, burst: 5, algorithm: Priority, priority: 1}
//	injections:
//	  - {at: 6, name: P5, arrival: 6, burst: 2}
func LoadYAML(r io.Reader, alg process.Algorithm) (*Scenario, error) {
	var doc scenarioDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decoding YAML: %v", ErrUnsupportedFormat, err)
	}

	sc := &Scenario{}
	for i, d := range doc.Processes {
		p, err := d.build(alg)
		if err != nil {
			return nil, fmt.Errorf("%w: processes[%d]: %v", ErrInvalidRow, i, err)
		}
		sc.Processes = append(sc.Processes, p)
	}
	for i, d := range doc.Injections {
		p, err := d.build(alg)
		if err != nil {
			return nil, fmt.Errorf("%w: injections[%d]: %v", ErrInvalidRow, i, err)
		}
		if d.At < 0 {
			return nil, fmt.Errorf("%w: injections[%d]: negative time %d", ErrInvalidRow, i, d.At)
		}
		sc.Injections = append(sc.Injections, Injection{At: d.At, Process: p})
	}
	return sc, nil
}

func (d processDoc) build(alg process.Algorithm) (*process.Process, error) {
	if d.Name == "" {
		return nil, errors.New("empty name")
	}
	if d.Algorithm != "" {
		var err error
		if alg, err = process.ParseAlgorithm(d.Algorithm); err != nil {
			return nil, err
		}
	}
	p := process.New(d.Name, d.Arrival, d.Burst, alg)
	if d.Priority != nil {
		p.WithPriority(*d.Priority)
	}
	return p, nil
}
