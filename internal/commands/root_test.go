// internal/commands/root_test.go
package edumetrics

import (
	"bytes"
	"strings"
	"testing"
)

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)

	rootCmd.SetArgs([]string{"nonexistent"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	_, err := rootCmd.ExecuteC()

	if err == nil {
		t.Error("Expected an error for a nonexistent command, but got none")
	}

	expected := "unknown command \"nonexistent\" for \"edumetrics\""
	if !strings.Contains(b.String(), expected) {
		t.Errorf("Expected output to contain '%s', but got '%s'", expected, b.String())
	}
}

func TestListCommandsSkipsCompletion(t *testing.T) {
	commands := visibleCommands(collectCommandData(rootCmd, "", ""))

	var paths []string
	for _, c := range commands {
		if strings.Contains(c.Path, "completion") {
			t.Fatalf("completion should be filtered, got %q", c.Path)
		}
		paths = append(paths, strings.TrimSpace(c.Path))
	}
	joined := strings.Join(paths, "\n")
	for _, want := range []string{"edumetrics analyze marks", "edumetrics show top", "edumetrics check data", "edumetrics list commands"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in command list:\n%s", want, joined)
		}
	}

	var buf bytes.Buffer
	ListCommands(&buf, []CommandInfo{{Path: "a", Description: "first"}, {Path: "  a b", Description: "second"}})
	if !strings.Contains(buf.String(), "  a      first") {
		t.Fatalf("expected aligned columns, got %q", buf.String())
	}
}
