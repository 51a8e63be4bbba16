package sugar

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCommander(t *testing.T) {
	logger := zerolog.Nop()
	root := newRootCmd(func(int) {}, &logger)

	tests := []struct {
		args []string
		want []string
	}{
		{args: []string{}, want: []string{}},
		{args: []string{"--help"}, want: []string{"--help"}},
		{args: []string{"serve"}, want: []string{"serve"}},
		{args: []string{"migrate", "up"}, want: []string{"migrate", "up"}},
		{args: []string{"migrate", "help"}, want: []string{"migrate", "--help"}},
		{args: []string{"completion", "bash"}, want: []string{"completion", "bash"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, commander(root.cmd, tt.args), tt.args)
	}
}

func TestExecuteFailsOnInvalidConfig(t *testing.T) {
	t.Setenv("ALGORITHM", "RS256")

	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	code := -1
	Execute(func(c int) { code = c }, []string{"check-db", "--env-file", ""}, &logger)

	assert.Equal(t, 1, code)
	assert.Contains(t, logs.String(), "unsupported ALGORITHM")
}
