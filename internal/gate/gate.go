// Package gate verifies access to a workspace root before any read or
// write. In this host the capability is filesystem access: an existing
// readable directory is granted, a missing one can be created with the
// user's consent. Denial is a normal false result, never an error.
package gate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sidenote-labs/satchel/internal/logger"
)

// Prompter asks the user a yes/no question. Callers are responsible for
// invoking prompting paths from an interactive context; the gate only
// attempts the prompt and reports the outcome.
type Prompter interface {
	Confirm(question string) bool
}

// TermPrompter reads y/N answers from a terminal.
type TermPrompter struct {
	In  io.Reader
	Out io.Writer
}

// Confirm prints the question and reads one line. Anything other than an
// explicit yes counts as a dismissal.
func (p *TermPrompter) Confirm(question string) bool {
	fmt.Fprintf(p.Out, "%s [y/N]: ", question)
	scanner := bufio.NewScanner(p.In)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// Gate checks and, with consent, establishes access to workspace roots.
type Gate struct {
	prompter Prompter
	log      logger.Logger
}

// New creates a Gate. A nil prompter makes every prompting path a denial,
// which is what background reconnection wants anyway.
func New(prompter Prompter, log logger.Logger) *Gate {
	return &Gate{prompter: prompter, log: log}
}

// Verify reports whether the root is accessible. The passive check comes
// first and has no side effects. When the root is missing and mayPrompt
// is set, the user is asked once for consent to create it; a dismissal is
// a plain false. With mayPrompt unset the gate never surprises the user
// with a dialog.
func (g *Gate) Verify(root string, writeRequired, mayPrompt bool) bool {
	info, err := os.Stat(root)
	switch {
	case err == nil:
		if !info.IsDir() {
			g.log.Debug("root exists but is not a directory", logger.String("root", root))
			return false
		}
		if writeRequired && !g.probeWrite(root) {
			g.log.Debug("write probe failed", logger.String("root", root))
			return false
		}
		return true

	case os.IsNotExist(err):
		if !mayPrompt || g.prompter == nil {
			return false
		}
		if !g.prompter.Confirm(fmt.Sprintf("Workspace root %s does not exist. Create it?", root)) {
			g.log.Debug("root creation declined", logger.String("root", root))
			return false
		}
		if mkErr := os.MkdirAll(root, 0o755); mkErr != nil {
			g.log.Warn("creating root failed", logger.String("root", root), logger.Error(mkErr))
			return false
		}
		return true

	default:
		g.log.Debug("stat root failed", logger.String("root", root), logger.Error(err))
		return false
	}
}

// probeWrite checks write capability by creating and removing a probe
// file inside the root.
func (g *Gate) probeWrite(root string) bool {
	f, err := os.CreateTemp(root, ".satchel-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(filepath.Clean(name))
	return true
}
