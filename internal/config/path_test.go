package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SPICEFX_TEST_DIR", "/var/tmp/spicefx")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty", path: "", want: ""},
		{name: "home only", path: "~", want: home},
		{name: "home relative", path: "~/.config/spicefx/config.yaml", want: filepath.Join(home, ".config/spicefx/config.yaml")},
		{name: "env var", path: "$SPICEFX_TEST_DIR/app.log", want: "/var/tmp/spicefx/app.log"},
		{name: "absolute", path: "/etc/spicefx.yaml", want: "/etc/spicefx.yaml"},
		{name: "tilde inside is literal", path: "/tmp/~/x", want: "/tmp/~/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.path))
		})
	}
}
