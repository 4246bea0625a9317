package stdlogger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/logger/adapter/stdlogger"
)

type event struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component"`
}

// capture swaps the global logger for one writing json to a buffer.
func capture(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(level)

	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func events(t *testing.T, buf *bytes.Buffer) []event {
	t.Helper()

	var out []event

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var e event
		require.NoError(t, json.Unmarshal([]byte(line), &e), line)
		out = append(out, e)
	}

	return out
}

func TestLevels(t *testing.T) {
	buf := capture(t, zerolog.InfoLevel)

	l := stdlogger.New()
	l.Debugf("hidden %d", 1)
	l.Infof("info %d", 2)
	l.Warningf("warn %d", 3)
	l.Errorf("error %d", 4)

	assert.Equal(t, []event{
		{Level: "info", Message: "info 2"},
		{Level: "warn", Message: "warn 3"},
		{Level: "error", Message: "error 4"},
	}, events(t, buf))
}

func TestComponent(t *testing.T) {
	buf := capture(t, zerolog.DebugLevel)

	l := stdlogger.NewWithComponent("gorm")
	l.Printf("slow query %s", "SELECT 1")
	l.Debugf("debug")

	got := events(t, buf)
	require.Len(t, got, 2)

	for _, e := range got {
		assert.Equal(t, "gorm", e.Component)
	}

	assert.Equal(t, "slow query SELECT 1", got[0].Message)
}
