package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeCopier(installed map[string]bool, runErr error) (*Copier, *[]string) {
	var calls []string
	c := &Copier{
		commands: clipboardCommands,
		lookPath: func(name string) (string, error) {
			if installed[name] {
				return "/usr/bin/" + name, nil
			}
			return "", errors.New("not found")
		},
		run: func(name string, args []string, input string) error {
			calls = append(calls, name+" <- "+input)
			return runErr
		},
	}
	return c, &calls
}

func TestCopierUsesFirstInstalled(t *testing.T) {
	c, calls := fakeCopier(map[string]bool{"xclip": true, "clip.exe": true}, nil)

	ok, err := c.Copy("http://example.com/overlay")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"/usr/bin/xclip <- http://example.com/overlay"}, *calls)
}

func TestCopierNoTool(t *testing.T) {
	c, calls := fakeCopier(nil, nil)

	ok, err := c.Copy("x")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, *calls)
}

func TestCopierToolFails(t *testing.T) {
	c, _ := fakeCopier(map[string]bool{"pbcopy": true}, errors.New("exit status 1"))

	ok, err := c.Copy("x")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "pbcopy")
}
