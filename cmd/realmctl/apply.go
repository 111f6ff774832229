package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

type applyOptions struct {
	statePath     string
	tagsPath      string
	narrationPath string
	verbose       bool
}

// applyResult is what apply prints: the new state plus what the engine reported.
type applyResult struct {
	GameState   *state.GameState  `json:"gamestate"`
	Ignored     []string          `json:"ignored,omitempty"`
	Discoveries []state.Discovery `json:"discoveries,omitempty"`
}

func newApplyCmd() *cobra.Command {
	opts := &applyOptions{}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply narrator tags to a game state file",
		Long: `Apply reads a game state JSON file and applies tag commands to it, printing the
resulting state. Tags come from --tags, or from the tag block of a raw narrator
response given with --narration. With --narration, newly mentioned NPCs, locations
and factions are also discovered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.statePath, "state", "", "game state JSON file")
	cmd.Flags().StringVar(&opts.tagsPath, "tags", "", "file of tag lines")
	cmd.Flags().StringVar(&opts.narrationPath, "narration", "", "raw narrator response file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log each ignored command")
	_ = cmd.MarkFlagRequired("state")
	cmd.MarkFlagsOneRequired("tags", "narration")
	cmd.MarkFlagsMutuallyExclusive("tags", "narration")
	return cmd
}

func runApply(cmd *cobra.Command, opts *applyOptions) error {
	gs, err := readGameState(opts.statePath)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	var tagText, story string
	if opts.narrationPath != "" {
		raw, err := os.ReadFile(opts.narrationPath)
		if err != nil {
			return fmt.Errorf("failed to read narration %s: %w", opts.narrationPath, err)
		}
		n := chat.ParseNarration(string(raw))
		if n.IsSystemError() {
			return fmt.Errorf("narration is a system error: %s", n.Story)
		}
		tagText = n.Tags
		story = n.Story + " " + strings.Join(n.Choices, " ")
	} else {
		raw, err := os.ReadFile(opts.tagsPath)
		if err != nil {
			return fmt.Errorf("failed to read tags %s: %w", opts.tagsPath, err)
		}
		tagText = string(raw)
	}

	next, ignored := state.ApplyTags(gs, tagText, logger)
	result := applyResult{GameState: next}
	for _, ig := range ignored {
		result.Ignored = append(result.Ignored, ig.Error())
	}
	if story != "" {
		result.GameState, result.Discoveries = state.DiscoverEntities(next, story)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readGameState(path string) (*state.GameState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	var gs state.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("file %s is not a game state: %w", path, err)
	}
	return &gs, nil
}
