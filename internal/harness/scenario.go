// Package harness executes YAML-described scenarios against a real
// session and checks the resulting trace, either with inline assertions
// or against golden files.
package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario describes one scripted playthrough: the content to load, the
// steps to take, and the assertions on what must have happened.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files use it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Content is the CUE catalog directory, relative to the scenario file.
	Content string `yaml:"content"`

	// SessionID pins the session id for deterministic traces.
	// Defaults to "scenario-session".
	SessionID string `yaml:"session_id,omitempty"`

	// InitialBudget and InitialReputation seed session state.
	InitialBudget     int64 `yaml:"initial_budget,omitempty"`
	InitialReputation int64 `yaml:"initial_reputation,omitempty"`

	// Steps is the scripted action sequence.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state and trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one scripted action. Exactly one field must be set.
type Step struct {
	// Advance moves the clock forward N slots.
	Advance int `yaml:"advance,omitempty"`

	// Interact clicks a stakeholder on the map.
	Interact string `yaml:"interact,omitempty"`

	// Call phones a stakeholder.
	Call string `yaml:"call,omitempty"`

	// Choose takes an option at a decision node.
	Choose *ChooseStep `yaml:"choose,omitempty"`

	// Reschedule moves a scheduled event to another cell.
	Reschedule *MoveStep `yaml:"reschedule,omitempty"`

	// ExecuteWeek advances a full week and resolves inevitables.
	ExecuteWeek bool `yaml:"execute_week,omitempty"`

	// ReadEmail / ReadDocument mark material as read.
	ReadEmail    string `yaml:"read_email,omitempty"`
	ReadDocument string `yaml:"read_document,omitempty"`

	// Assign posts a stakeholder to a duty station.
	Assign *AssignStep `yaml:"assign,omitempty"`

	// Notes replaces the player's scratch notes.
	Notes *string `yaml:"notes,omitempty"`
}

// ChooseStep names a node and the option to take there.
type ChooseStep struct {
	Node   string `yaml:"node"`
	Option string `yaml:"option"`
}

// AssignStep names a stakeholder and the post to assign them to.
type AssignStep struct {
	Staff string `yaml:"staff"`
	Post  string `yaml:"post"`
}

// MoveStep names an event and its new cell.
type MoveStep struct {
	Event string `yaml:"event"`
	Day   int    `yaml:"day"`
	Slot  string `yaml:"slot"`
}

// Assertion validates final state or trace.
type Assertion struct {
	// Type selects the check:
	// - "completed": sequence is in the completed set
	// - "decision": node resolved with the given option
	// - "budget" / "reputation": final value equals Value
	// - "outcome": a comparison for Expected ended with Outcome
	// - "availability": event reads Status in the cell (day, slot)
	Type string `yaml:"type"`

	Sequence string `yaml:"sequence,omitempty"`
	Node     string `yaml:"node,omitempty"`
	Option   string `yaml:"option,omitempty"`
	Value    int64  `yaml:"value,omitempty"`
	Expected string `yaml:"expected,omitempty"`
	Outcome  string `yaml:"outcome,omitempty"`
	Event    string `yaml:"event,omitempty"`
	Day      int    `yaml:"day,omitempty"`
	Slot     string `yaml:"slot,omitempty"`
	Status   string `yaml:"status,omitempty"`
}

// Assertion type constants.
const (
	AssertCompleted    = "completed"
	AssertDecision     = "decision"
	AssertBudget       = "budget"
	AssertReputation   = "reputation"
	AssertOutcome      = "outcome"
	AssertAvailability = "availability"
)

// LoadScenario reads and parses a scenario YAML file. The content path is
// resolved relative to the scenario file's directory. Unknown YAML fields
// are rejected to catch typos.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Content != "" && !filepath.IsAbs(scenario.Content) {
		scenario.Content = filepath.Join(filepath.Dir(path), scenario.Content)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Content == "" {
		return fmt.Errorf("content directory is required")
	}
	if info, err := os.Stat(s.Content); err != nil || !info.IsDir() {
		return fmt.Errorf("content directory not found: %s", s.Content)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, s *Step) error {
	set := 0
	if s.Advance > 0 {
		set++
	}
	if s.Interact != "" {
		set++
	}
	if s.Call != "" {
		set++
	}
	if s.Choose != nil {
		set++
		if s.Choose.Node == "" || s.Choose.Option == "" {
			return fmt.Errorf("steps[%d].choose: node and option are required", index)
		}
	}
	if s.Reschedule != nil {
		set++
		if s.Reschedule.Event == "" || s.Reschedule.Day < 1 || s.Reschedule.Slot == "" {
			return fmt.Errorf("steps[%d].reschedule: event, day and slot are required", index)
		}
	}
	if s.ExecuteWeek {
		set++
	}
	if s.ReadEmail != "" {
		set++
	}
	if s.ReadDocument != "" {
		set++
	}
	if s.Assign != nil {
		set++
		if s.Assign.Staff == "" || s.Assign.Post == "" {
			return fmt.Errorf("steps[%d].assign: staff and post are required", index)
		}
	}
	if s.Notes != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one action per step, got %d", index, set)
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertCompleted:
		if a.Sequence == "" {
			return fmt.Errorf("assertions[%d]: sequence is required for completed", index)
		}
	case AssertDecision:
		if a.Node == "" || a.Option == "" {
			return fmt.Errorf("assertions[%d]: node and option are required for decision", index)
		}
	case AssertBudget, AssertReputation:
		// Value may legitimately be zero.
	case AssertOutcome:
		if a.Expected == "" || a.Outcome == "" {
			return fmt.Errorf("assertions[%d]: expected and outcome are required for outcome", index)
		}
	case AssertAvailability:
		if a.Event == "" || a.Day < 1 || a.Slot == "" || a.Status == "" {
			return fmt.Errorf("assertions[%d]: event, day, slot and status are required for availability", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
