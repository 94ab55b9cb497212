package commands_test

import (
	"flag"
	"io"
	"testing"

	"tasco/internal/commands"
)

// setFlags parses args into cmd's flags the way the dispatcher does.
func setFlags(t *testing.T, cmd commands.Command, args ...string) {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
}
