package main

import (
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRaceCommandRejectsUnknownRace(t *testing.T) {
	rootCmd.SetArgs([]string{"race", "naga", "Happy#2384"})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), `unknown race "naga"`) {
		t.Fatalf("expected unknown race error, got %v", err)
	}
}

func TestCommandsRequireArguments(t *testing.T) {
	for _, args := range [][]string{{"ladder", "a#1", "b#2"}, {"race"}, {"vs", "Happy#2384"}, {"prune", "extra"}} {
		rootCmd.SetArgs(args)
		rootCmd.SetOut(io.Discard)
		rootCmd.SetErr(io.Discard)
		if err := rootCmd.Execute(); err == nil {
			t.Errorf("%v: expected an argument error", args)
		}
	}
}

func TestLadderCommandsTakeOptionalPlayer(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		args []string
	}{
		{ladderCmd, nil},
		{ladderCmd, []string{"Happy#2384"}},
		{raceCmd, []string{"undead"}},
		{raceCmd, []string{"undead", "Happy#2384"}},
	}
	for _, tc := range tests {
		if err := tc.cmd.Args(tc.cmd, tc.args); err != nil {
			t.Errorf("%s %v: unexpected argument error %v", tc.cmd.Name(), tc.args, err)
		}
	}
}

func TestOptionalArg(t *testing.T) {
	if got := optionalArg([]string{"undead"}, 1); got != "" {
		t.Errorf("expected empty identifier, got %q", got)
	}
	if got := optionalArg([]string{"undead", "Happy#2384"}, 1); got != "Happy#2384" {
		t.Errorf("expected the battletag, got %q", got)
	}
}
