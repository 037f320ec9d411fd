package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "1.2.0", Commit: "abc123", Date: "2024-05-01", GoVersion: "go1.24.0", Platform: "linux/amd64"}
	assert.Equal(t, "dockplate version 1.2.0\n"+
		"  commit:   abc123\n"+
		"  built:    2024-05-01\n"+
		"  go:       go1.24.0\n"+
		"  platform: linux/amd64\n", info.String())
}
