package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserCommand(t *testing.T) {
	onlyXdg := func(name string) (string, error) {
		if name == "xdg-open" {
			return "/usr/bin/xdg-open", nil
		}
		return "", errors.New("not found")
	}
	none := func(string) (string, error) { return "", errors.New("not found") }

	name, args, err := browserCommand("darwin", "file:///tmp/a.html", none)
	require.NoError(t, err)
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"file:///tmp/a.html"}, args)

	name, args, err = browserCommand("windows", "file:///tmp/a.html", none)
	require.NoError(t, err)
	assert.Equal(t, "cmd", name)
	assert.Equal(t, []string{"/c", "start", "file:///tmp/a.html"}, args)

	name, _, err = browserCommand("linux", "http://127.0.0.1:8765", onlyXdg)
	require.NoError(t, err)
	assert.Equal(t, "xdg-open", name)

	_, _, err = browserCommand("linux", "x", none)
	assert.Error(t, err)

	_, _, err = browserCommand("plan9", "x", none)
	assert.Error(t, err)
}
