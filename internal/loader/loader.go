// Package loader reads process workloads from CSV and YAML files.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vinhtrinh326/schedsim/pkg/process"
)

var (
	ErrInvalidRow        = errors.New("invalid row")
	ErrUnsupportedFormat = errors.New("unsupported scenario format")
)

// Injection is a process that enters a running simulation when the clock
// reaches At.
type Injection struct {
	At      int64
	Process *process.Process
}

// Scenario is a loaded workload.
type Scenario struct {
	Processes  []*process.Process
	Injections []Injection
}

// Load reads a scenario, choosing the format from the file extension.
// Processes that do not name an algorithm get alg.
func Load(path string, alg process.Algorithm) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%v: error opening scheduling file", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		ps, err := LoadCSV(f, alg)
		if err != nil {
			return nil, err
		}
		return &Scenario{Processes: ps}, nil
	case ".yaml", ".yml":
		return LoadYAML(f, alg)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// LoadCSV reads rows of name,burst,arrival[,priority[,algorithm]].
// A leading header row is skipped. An empty priority means none.
func LoadCSV(r io.Reader, alg process.Algorithm) ([]*process.Process, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV", err)
	}

	processes := make([]*process.Process, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		p, err := parseRow(row, alg)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrInvalidRow, i+1, err)
		}
		processes = append(processes, p)
	}
	return processes, nil
}

// isHeader reports whether both numeric columns hold labels.
func isHeader(row []string) bool {
	if len(row) < 3 {
		return false
	}
	_, errBurst := strToInt(row[1])
	_, errArrival := strToInt(row[2])
	return errBurst != nil && errArrival != nil
}

func parseRow(row []string, alg process.Algorithm) (*process.Process, error) {
	if len(row) < 3 || len(row) > 5 {
		return nil, fmt.Errorf("want 3 to 5 columns, got %d", len(row))
	}
	name := strings.TrimSpace(row[0])
	if name == "" {
		return nil, errors.New("empty name")
	}
	burst, err := strToInt(row[1])
	if err != nil {
		return nil, fmt.Errorf("burst: %w", err)
	}
	arrival, err := strToInt(row[2])
	if err != nil {
		return nil, fmt.Errorf("arrival: %w", err)
	}

	if len(row) == 5 && strings.TrimSpace(row[4]) != "" {
		if alg, err = process.ParseAlgorithm(row[4]); err != nil {
			return nil, err
		}
	}
	p := process.New(name, arrival, burst, alg)

	if len(row) >= 4 && strings.TrimSpace(row[3]) != "" && strings.TrimSpace(row[3]) != "-" {
		prio, err := strToInt(row[3])
		if err != nil {
			return nil, fmt.Errorf("priority: %w", err)
		}
		p.WithPriority(prio)
	}
	return p, nil
}

func strToInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
