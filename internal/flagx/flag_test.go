package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-c", "conf.json", "-a", "http://localhost"},
			allowed: []string{"-c", "--config"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "long flag with equals",
			args:    []string{"--config=alt.json", "-a", "http://localhost"},
			allowed: []string{"-c", "--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "unknown flags ignored",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag without value at end is kept as-is",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "flag followed by another flag keeps no value",
			args:    []string{"-t", "-e", "60"},
			allowed: []string{"-t", "-e"},
			want:    []string{"-t", "-e", "60"},
		},
		{
			name:    "several allowed flags preserve order",
			args:    []string{"-l", "debug", "-c", "x.json", "-a", "http://h"},
			allowed: []string{"-a", "-l"},
			want:    []string{"-l", "debug", "-a", "http://h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed...))
		})
	}
}

func TestFilterArgs_NilInput(t *testing.T) {
	got := FilterArgs(nil, "-c")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestJSONConfigPath(t *testing.T) {
	assert.Equal(t, "a.json", JSONConfigPath([]string{"-a", "http://h", "-c", "a.json"}))
	assert.Equal(t, "b.json", JSONConfigPath([]string{"-config", "b.json"}))
	assert.Equal(t, "c.json", JSONConfigPath([]string{"-config=c.json", "-l", "debug"}))
	assert.Equal(t, "", JSONConfigPath([]string{"-a", "http://h"}))
	assert.Equal(t, "", JSONConfigPath(nil))
}
