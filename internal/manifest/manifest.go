// Package manifest derives a read-only workflow listing from the registry.
//
// The manifest catalogs every registered workflow's name, entry point, and
// step count. It is generated purely from registry contents — never
// hand-authored — and is consumed by external documentation tooling, which
// is why a CSV round-trip (encode and decode) is provided.
//
// CSV format:
//
//	workflow,entry,steps,description
//	demo,start,3,Three-step demonstration workflow
//	spending-review,collect,5,Monthly spending review
package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

// Entry describes one registered workflow.
type Entry struct {
	// Workflow is the registered workflow name.
	Workflow string

	// Entry is the workflow's entry-point step id.
	Entry string

	// Steps is the declared step count.
	Steps int

	// Description is the workflow's description text.
	Description string
}

// Manifest holds the derived listing, ordered by workflow name.
type Manifest struct {
	Entries []Entry
}

// Build derives a manifest from workflows, which are expected in registry
// order (sorted by name, as [skill.All] returns them).
func Build(workflows []*skill.Workflow) *Manifest {
	m := &Manifest{Entries: make([]Entry, 0, len(workflows))}
	for _, w := range workflows {
		m.Entries = append(m.Entries, Entry{
			Workflow:    w.Name,
			Entry:       w.Entry,
			Steps:       len(w.Steps),
			Description: w.Description,
		})
	}
	return m
}

// header is the fixed CSV column set.
var header = []string{"workflow", "entry", "steps", "description"}

// WriteCSV encodes the manifest.
func (m *Manifest) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write manifest header: %w", err)
	}
	for _, e := range m.Entries {
		record := []string{e.Workflow, e.Entry, strconv.Itoa(e.Steps), e.Description}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write manifest entry %s: %w", e.Workflow, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a manifest previously written by [Manifest.WriteCSV].
func ReadCSV(r io.Reader) (*Manifest, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest header: %w", err)
	}
	if len(head) != len(header) {
		return nil, fmt.Errorf("manifest header has %d columns, want %d", len(head), len(header))
	}
	for i, col := range header {
		if head[i] != col {
			return nil, fmt.Errorf("manifest column %d is %q, want %q", i, head[i], col)
		}
	}

	m := &Manifest{}
	line := 1
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest line %d: %w", line, err)
		}
		steps, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: bad step count %q: %w", line, record[2], err)
		}
		m.Entries = append(m.Entries, Entry{
			Workflow:    record[0],
			Entry:       record[1],
			Steps:       steps,
			Description: record[3],
		})
	}
	return m, nil
}

// Get returns the entry for a workflow name, or nil when absent.
func (m *Manifest) Get(workflow string) *Entry {
	for i := range m.Entries {
		if m.Entries[i].Workflow == workflow {
			return &m.Entries[i]
		}
	}
	return nil
}
