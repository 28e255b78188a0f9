package flagx

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "unirent.yaml", "-a", "http://uni.example"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "unirent.yaml"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=dev.yaml", "-a", "http://uni.example"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=dev.yaml"},
		},
		{
			name:         "both short and long present, preserve order",
			args:         []string{"--config=first.yaml", "-c", "second.yaml", "-x", "1"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=first.yaml", "-c", "second.yaml"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-c"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag (no value)",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c"},
		},
		{
			name:         "value that looks like a flag but with equals form",
			args:         []string{"--config=--weird.yaml"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=--weird.yaml"},
		},
		{
			name:         "multiple allowed flags kept",
			args:         []string{"-a", "http://localhost:8080", "-c", "unirent.yaml", "--other", "x"},
			allowedFlags: []string{"-c", "-a"},
			want:         []string{"-a", "http://localhost:8080", "-c", "unirent.yaml"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "path with spaces remains single arg",
			args:         []string{"-c", "/home/user/unirent.yaml"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "/home/user/unirent.yaml"},
		},
		{
			name:         "do not treat next dash-starting token as value",
			args:         []string{"-c", "--config=dev.yaml"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "--config=dev.yaml"},
		},
		{
			name:         "repeated allowed flag is preserved in order",
			args:         []string{"-c", "one.yaml", "-c", "two.yaml"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.yaml", "-c", "two.yaml"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short -c with value", []string{"-c", "/etc/unirent.yaml"}, "/etc/unirent.yaml"},
		{"long -config with value", []string{"-config", "conf/unirent.json"}, "conf/unirent.json"},
		{"equals form", []string{"-config=dev.yaml", "-a", "http://localhost:8080"}, "dev.yaml"},
		{"unknown flags are ignored", []string{"-m", "offline", "-d", "x.db"}, ""},
		{"multiple flags, last wins", []string{"-c", "1.yaml", "-config", "2.yaml"}, "2.yaml"},
		{"no args", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}
