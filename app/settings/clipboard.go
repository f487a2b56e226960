package settings

import (
	"fmt"
	"os/exec"
	"strings"
)

// clipboardCommands are tried in order; the first one installed wins.
var clipboardCommands = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
	{"clip.exe"},
}

type Copier struct {
	commands [][]string
	lookPath func(string) (string, error)
	run      func(name string, args []string, input string) error
}

func NewCopier() *Copier {
	return &Copier{
		commands: clipboardCommands,
		lookPath: exec.LookPath,
		run: func(name string, args []string, input string) error {
			cmd := exec.Command(name, args...)
			cmd.Stdin = strings.NewReader(input)
			return cmd.Run()
		},
	}
}

// Copy writes text to the system clipboard. It returns false without an
// error when no clipboard tool is available, leaving the caller to print
// the text instead.
func (c *Copier) Copy(text string) (bool, error) {
	for _, command := range c.commands {
		path, err := c.lookPath(command[0])
		if err != nil {
			continue
		}
		if err := c.run(path, command[1:], text); err != nil {
			return false, fmt.Errorf("failed to copy with %s: %w", command[0], err)
		}
		return true, nil
	}
	return false, nil
}
