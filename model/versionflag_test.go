package model

import (
	"bytes"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
)

func TestVersionFlag_IsBool(t *testing.T) {
	var v VersionFlag
	assert.True(t, v.IsBool())
}

func TestVersionFlag_BeforeApply_PrintsVersionAndExits(t *testing.T) {
	var out bytes.Buffer
	exitCode := -1
	app := &kong.Kong{
		Stdout: &out,
		Exit:   func(code int) { exitCode = code },
	}

	var v VersionFlag
	err := v.BeforeApply(app, kong.Vars{"version": "1.2.3-abc1234"})

	assert.NoError(t, err)
	assert.Equal(t, "1.2.3-abc1234\n", out.String())
	assert.Equal(t, 0, exitCode)
}

func TestGlobals_ConfigureLogging(t *testing.T) {
	t.Cleanup(func() {
		SetLogLevel(LogLevelInfo)
		SetJSONLogs(false)
	})

	g := &Globals{LogLevel: "error"}
	g.ConfigureLogging()
	assert.False(t, DefaultLogger().ShouldLog(LogLevelWarn))
	assert.True(t, DefaultLogger().ShouldLog(LogLevelError))

	g = &Globals{LogLevel: "error", Debug: true}
	g.ConfigureLogging()
	assert.True(t, DefaultLogger().ShouldLog(LogLevelDebug))
}
