package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/pkg/state"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running realm-engine API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 2 * time.Minute},
		Timeout:           60 * time.Second,
		Logger:            func(string, ...any) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	gs, err := CreateGameState(ctx, r.Client, r.BaseURL, suite.Seed)
	if err != nil {
		result.Error = fmt.Errorf("failed to seed gamestate: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.GameState = gs.ID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)

		stepCtx, cancel := context.WithTimeout(ctx, r.Timeout)
		stepResult, gameID := r.runStep(stepCtx, result.GameState, step, suite)
		cancel()

		stepResult.TestName = suite.Name
		result.GameState = gameID
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// runStep executes a single test step and checks expectations. It returns the game id
// to use from now on, which changes after a reset.
func (r *Runner) runStep(ctx context.Context, gameStateID uuid.UUID, step TestStep, suite TestSuite) (TestResult, uuid.UUID) {
	start := time.Now()
	result := TestResult{StepName: step.Name}
	fail := func(err error) (TestResult, uuid.UUID) {
		result.Error = err
		result.Duration = time.Since(start)
		return result, gameStateID
	}

	var stepErr error
	switch {
	case step.Action == ResetGameStateAction:
		// There is no way to rewind a game, so a reset starts a new one from the seed
		gs, err := CreateGameState(ctx, r.Client, r.BaseURL, suite.Seed)
		if err != nil {
			return fail(fmt.Errorf("failed to reset gamestate: %w", err))
		}
		gameStateID = gs.ID
		result.IsReset = true
		result.ResponseText = "[GAMESTATE RESET]"

	case step.PlayerAction != nil:
		resp, err := PostAction(ctx, r.Client, r.BaseURL, gameStateID, *step.PlayerAction)
		stepErr = err
		if err == nil {
			result.ResponseText = resp.Action
		}

	case step.Action == OpenSceneAction:
		resp, err := OpenScene(ctx, r.Client, r.BaseURL, gameStateID)
		stepErr = err
		if err == nil {
			result.ResponseText = resp.Story
		}

	default:
		resp, err := PostTurn(ctx, r.Client, r.BaseURL, gameStateID, step.Action)
		stepErr = err
		if err == nil {
			result.ResponseText = resp.Story
		}
	}

	if want := step.Expectations.Status; want != nil {
		if got := StatusOf(stepErr); got != *want {
			return fail(fmt.Errorf("expected status %d, got %d (%v)", *want, got, stepErr))
		}
	} else if stepErr != nil {
		return fail(stepErr)
	}

	postState, err := GetGameState(ctx, r.Client, r.BaseURL, gameStateID)
	if err != nil {
		return fail(fmt.Errorf("failed to get gamestate after step: %w", err))
	}

	if err := checkExpectations(step.Expectations, postState, result.ResponseText); err != nil {
		return fail(fmt.Errorf("expectation failed: %w", err))
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result, gameStateID
}

// checkExpectations validates the test expectations against the game after the step
func checkExpectations(exp Expectations, postState *state.GameState, responseText string) error {
	if exp.Location != nil && postState.Location != *exp.Location {
		return fmt.Errorf("expected location %s, got %s", *exp.Location, postState.Location)
	}

	if exp.Realm != nil && postState.Character.Realm != *exp.Realm {
		return fmt.Errorf("expected realm %s, got %s", *exp.Realm, postState.Character.Realm)
	}

	if exp.Level != nil && postState.Character.Stats.Level != *exp.Level {
		return fmt.Errorf("expected level %d, got %d", *exp.Level, postState.Character.Stats.Level)
	}

	if exp.Turn != nil && postState.Turn != *exp.Turn {
		return fmt.Errorf("expected turn to be %d, got %d", *exp.Turn, postState.Turn)
	}

	for name, want := range exp.Inventory {
		got := 0
		for _, it := range postState.Inventory {
			if it.Name == name {
				got += it.Quantity
			}
		}
		if got != want {
			return fmt.Errorf("expected %d of '%s' in inventory, got %d", want, name, got)
		}
	}

	for name, want := range exp.Currencies {
		got, ok := postState.Character.Currencies.Get(name)
		if !ok {
			return fmt.Errorf("expected currency %s to exist, but it doesn't", name)
		}
		if got != want {
			return fmt.Errorf("expected currency %s to be %d, got %d", name, want, got)
		}
	}

	for title, want := range exp.Quests {
		var found *state.Quest
		for i := range postState.Quests {
			if postState.Quests[i].Title == title {
				found = &postState.Quests[i]
				break
			}
		}
		if found == nil {
			return fmt.Errorf("expected quest %s to exist, but it doesn't", title)
		}
		if string(found.Status) != want {
			return fmt.Errorf("expected quest %s to be %s, got %s", title, want, found.Status)
		}
	}

	for slot, want := range exp.Equipped {
		s := postState.Slot(state.Slot(slot))
		if s == nil {
			return fmt.Errorf("unknown equipment slot %s", slot)
		}
		got := ""
		if s.Item != nil {
			got = s.Item.Name
		}
		if got != want {
			return fmt.Errorf("expected slot %s to hold '%s', got '%s'", slot, want, got)
		}
	}

	for _, text := range exp.LogContains {
		found := false
		for _, e := range postState.StoryLog {
			if strings.Contains(e.Text, text) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("expected a story log entry containing '%s'", text)
		}
	}

	if exp.MinChoices != nil && len(postState.CurrentChoices) < *exp.MinChoices {
		return fmt.Errorf("expected at least %d choices, got %d", *exp.MinChoices, len(postState.CurrentChoices))
	}

	lowerResponse := strings.ToLower(responseText)
	for _, expectedText := range exp.ResponseContains {
		if !strings.Contains(lowerResponse, strings.ToLower(expectedText)) {
			return fmt.Errorf("expected response to contain '%s', but it didn't", expectedText)
		}
	}
	for _, unexpectedText := range exp.ResponseNotContains {
		if strings.Contains(lowerResponse, strings.ToLower(unexpectedText)) {
			return fmt.Errorf("expected response to NOT contain '%s', but it did", unexpectedText)
		}
	}

	if exp.ResponseRegex != "" {
		matched, err := regexp.MatchString(exp.ResponseRegex, responseText)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("response didn't match regex pattern: %s", exp.ResponseRegex)
		}
	}

	length := len([]rune(responseText))
	if exp.ResponseMinLength != nil && length < *exp.ResponseMinLength {
		return fmt.Errorf("expected response length >= %d, got %d", *exp.ResponseMinLength, length)
	}
	if exp.ResponseMaxLength != nil && length > *exp.ResponseMaxLength {
		return fmt.Errorf("expected response length <= %d, got %d", *exp.ResponseMaxLength, length)
	}

	return nil
}
