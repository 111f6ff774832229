package runner

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/internal/handlers"
)

// Special action values that trigger non-turn steps
const (
	ResetGameStateAction = "RESET_GAMESTATE"
	OpenSceneAction      = "OPEN_SCENE"
)

// TestSuite defines a complete integration test scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name  string                          `json:"name"`
	Seed  handlers.CreateGameStateRequest `json:"seed"`            // Used for regular tests
	Steps []TestStep                      `json:"steps,omitempty"` // Used for regular tests
	Cases []string                        `json:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep defines a single test interaction and its expected outcomes.
// Exactly one of Action and PlayerAction is used. Action "RESET_GAMESTATE" starts
// over from the seed; "OPEN_SCENE" asks for the opening narration.
type TestStep struct {
	Name         string                  `json:"name,omitempty"`
	Action       string                  `json:"action,omitempty"`
	PlayerAction *handlers.ActionRequest `json:"player_action,omitempty"`
	Expectations Expectations            `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	// Status is the expected HTTP status when the step should be rejected
	Status *int `json:"status,omitempty"`

	// GameState properties - aligned with pkg/state/gamestate.go
	Location    *string           `json:"location,omitempty"`
	Realm       *string           `json:"realm,omitempty"`
	Level       *int              `json:"level,omitempty"`
	Turn        *int              `json:"turn,omitempty"`
	Inventory   map[string]int    `json:"inventory,omitempty"`    // item name -> quantity, 0 means absent
	Currencies  map[string]int    `json:"currencies,omitempty"`   // currency name -> balance
	Quests      map[string]string `json:"quests,omitempty"`       // quest title -> status
	Equipped    map[string]string `json:"equipped,omitempty"`     // slot -> item name, "" means empty
	LogContains []string          `json:"log_contains,omitempty"` // some story log entry contains each
	MinChoices  *int              `json:"min_choices,omitempty"`

	// Response Analysis
	ResponseContains    []string `json:"response_contains,omitempty"`
	ResponseNotContains []string `json:"response_not_contains,omitempty"`
	ResponseRegex       string   `json:"response_regex,omitempty"`
	ResponseMinLength   *int     `json:"response_min_length,omitempty"`
	ResponseMaxLength   *int     `json:"response_max_length,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName     string
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	ResponseText string
	IsReset      bool // True if this was a RESET_GAMESTATE step (should not count toward pass/fail metrics)
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job       TestJob
	Results   []TestResult
	Error     error
	Duration  time.Duration
	GameState uuid.UUID // ID of the gamestate used for this test
}
