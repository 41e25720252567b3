package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "stops at subcommand",
			args: []string{"-a", "http://api", "companies", "-sector", "AI"},
			want: []string{"-a", "http://api"},
		},
		{
			name: "bool flag does not swallow subcommand",
			args: []string{"-v", "shell"},
			want: []string{"-v"},
		},
		{
			name: "equals form",
			args: []string{"-config=cfg.json", "login"},
			want: []string{"-config=cfg.json"},
		},
		{
			name: "double dash terminates",
			args: []string{"-a", "x", "--", "-v"},
			want: []string{"-a", "x"},
		},
		{
			name: "no flags",
			args: []string{"logout"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GlobalArgs(tt.args, []string{"-v"}))
		})
	}
}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"-config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag followed by another flag keeps no value",
			args:         []string{"-c", "-v"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "a.json", ConfigPath([]string{"-a", "x", "-c", "a.json"}))
	assert.Equal(t, "b.json", ConfigPath([]string{"-config=b.json"}))
	assert.Equal(t, "", ConfigPath([]string{"-a", "x"}))
}
