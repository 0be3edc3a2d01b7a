package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value kept",
			args:    []string{"-a", "localhost:8080", "-x", "1"},
			allowed: []string{"-a"},
			want:    []string{"-a", "localhost:8080"},
		},
		{
			name:    "equals form kept",
			args:    []string{"--config=conf.json", "-v"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-z", "5", "--other=1"},
			allowed: []string{"-a"},
			want:    []string{},
		},
		{
			name:    "flag without value kept alone",
			args:    []string{"-a", "-b", "x"},
			allowed: []string{"-a"},
			want:    []string{"-a"},
		},
		{
			name:    "empty args",
			args:    nil,
			allowed: []string{"-a"},
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterArgs(tc.args, tc.allowed)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"client", "-c", "settings.json", "-a", "host:80"}
	require.Equal(t, "settings.json", JsonConfigFlags())

	os.Args = []string{"client", "-config=other.json"}
	require.Equal(t, "other.json", JsonConfigFlags())

	os.Args = []string{"client", "-a", "host:80"}
	require.Equal(t, "", JsonConfigFlags())
}
