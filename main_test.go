package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunHelpPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	for _, arg := range []string{"--help", "-h", "help"} {
		stdout.Reset()
		code := run([]string{arg}, &stdout, &stderr)
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout.String(), "Usage: overpass")
	}
	assert.Empty(t, stderr.String())
}

func TestRunUnknownArgument(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"sideways"}, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), `unknown argument "sideways"`)
	assert.Contains(t, stderr.String(), "Usage: overpass")
}

func TestBaseURLFor(t *testing.T) {
	assert.Equal(t, "http://localhost:8731", baseURLFor(":8731"))
	assert.Equal(t, "http://10.0.0.5:8080", baseURLFor("10.0.0.5:8080"))
}
