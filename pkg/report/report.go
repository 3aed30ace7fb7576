// Package report reads the cucumber JSON report written by a run and summarizes it per scenario.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// Step statuses as written by the cucumber formatter.
const (
	StatusPassed    = "passed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
	StatusPending   = "pending"
	StatusUndefined = "undefined"
	StatusAmbiguous = "ambiguous"
)

// scenarioQuery flattens the report to one object per scenario.
const scenarioQuery = `.[] | .name as $feature | (.elements // [])[] | {
	feature: $feature,
	name: .name,
	statuses: [(.steps // [])[] | .result.status],
	errors: [(.steps // [])[] | .result.error_message // empty],
	embeddings: ([(.steps // [])[] | (.embeddings // []) | length] | add // 0)
}`

var query = mustParse(scenarioQuery)

func mustParse(q string) *gojq.Query {
	parsed, err := gojq.Parse(q)
	if err != nil {
		panic(err)
	}
	return parsed
}

type Scenario struct {
	Feature    string   `json:"feature"`
	Name       string   `json:"name"`
	Statuses   []string `json:"statuses"`
	Errors     []string `json:"errors"`
	Embeddings int      `json:"embeddings"`
}

// statusRank orders statuses from least to most severe.
var statusRank = map[string]int{
	StatusPassed:    0,
	StatusSkipped:   1,
	StatusPending:   2,
	StatusUndefined: 3,
	StatusAmbiguous: 4,
	StatusFailed:    5,
}

// Status is the most severe status of the scenario's steps, passed when there are none.
func (s Scenario) Status() string {
	status := StatusPassed
	for _, st := range s.Statuses {
		if statusRank[st] > statusRank[status] {
			status = st
		}
	}
	return status
}

// beforeScenarioHookFailed prefixes the error godog reports on the first step when a before
// scenario hook fails. That step never ran.
const beforeScenarioHookFailed = "before scenario hook failed"

// Executed counts the steps that ran to a verdict of their own, passed or failed.
func (s Scenario) Executed() int {
	n := 0
	for i, st := range s.Statuses {
		switch st {
		case StatusPassed:
			n++
		case StatusFailed:
			if i == 0 && strings.HasPrefix(s.Error(), beforeScenarioHookFailed) {
				continue
			}
			n++
		}
	}
	return n
}

// Error returns the first step error, empty when no step failed.
func (s Scenario) Error() string {
	if len(s.Errors) == 0 {
		return ""
	}
	return s.Errors[0]
}

type Summary struct {
	Scenarios []Scenario
}

// Parse summarizes a cucumber JSON report.
func Parse(data []byte) (*Summary, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding cucumber report")
	}

	summary := &Summary{}
	iter := query.Run(doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, errors.Wrap(err, "querying cucumber report")
		}
		// round trip through json to go from gojq values to the struct
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		var scenario Scenario
		if err := json.Unmarshal(raw, &scenario); err != nil {
			return nil, errors.WithStack(err)
		}
		summary.Scenarios = append(summary.Scenarios, scenario)
	}
	return summary, nil
}

// ReadFile summarizes the report at path.
func ReadFile(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading cucumber report %s", path)
	}
	return Parse(data)
}

// Find returns the scenario with the given name.
func (s *Summary) Find(name string) (Scenario, bool) {
	for _, scenario := range s.Scenarios {
		if scenario.Name == name {
			return scenario, true
		}
	}
	return Scenario{}, false
}

// Counts returns the number of scenarios per status.
func (s *Summary) Counts() map[string]int {
	counts := map[string]int{}
	for _, scenario := range s.Scenarios {
		counts[scenario.Status()]++
	}
	return counts
}

func (s *Summary) Failed() bool {
	for _, scenario := range s.Scenarios {
		if scenario.Status() != StatusPassed {
			return true
		}
	}
	return false
}

// Render writes the summary as a table, failed scenarios first.
func (s *Summary) Render(w io.Writer) {
	scenarios := append([]Scenario(nil), s.Scenarios...)
	sort.SliceStable(scenarios, func(i, j int) bool {
		return statusRank[scenarios[i].Status()] > statusRank[scenarios[j].Status()]
	})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Feature", "Scenario", "Status", "Steps", "Screenshots", "Error"})
	table.SetAutoWrapText(false)
	for _, scenario := range scenarios {
		table.Append([]string{
			scenario.Feature,
			scenario.Name,
			scenario.Status(),
			fmt.Sprintf("%d/%d", scenario.Executed(), len(scenario.Statuses)),
			strconv.Itoa(scenario.Embeddings),
			scenario.Error(),
		})
	}
	table.Render()
}
