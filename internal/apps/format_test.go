package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMotorContext(t *testing.T) {
	assert.Equal(t, "No current motor status available.", formatMotorContext(nil, nil))
	assert.Equal(t, "No current motor status available.", formatMotorContext(nil, map[string]any{}))
	assert.Equal(t, "all idle", formatMotorContext(nil, "all idle"))

	got := formatMotorContext(nil, map[string]any{
		"m2": map[string]any{"running": false, "angle": 90.0, "temperature": 41.5},
		"m1": map[string]any{"running": true, "speed": 50.0},
		"m3": "offline",
	})
	assert.Equal(t, "Current Motor Status:\n"+
		"- m1: Running, Speed: 50%\n"+
		"- m2: Stopped, Angle: 90°, Temp: 41.5°C\n"+
		"- m3: offline", got)
}

func TestFormatHomeContext(t *testing.T) {
	assert.Equal(t, "No current home status available.", formatHomeContext(nil, nil))

	got := formatHomeContext(nil, map[string]any{
		"bedroom": map[string]any{
			"thermostat": map[string]any{"target": 21.0, "mode": "heat"},
		},
	})
	assert.Equal(t, "Current Home Status:\n\nBedroom:\n  - thermostat: mode: heat, target: 21", got)
}

func TestFormatSecurityContext(t *testing.T) {
	assert.Equal(t, "Event Type: unknown", formatSecurityContext(nil, nil))
	assert.Equal(t, "Event Type: unknown\nglass break in garage", formatSecurityContext(nil, "glass break in garage"))

	got := formatSecurityContext(nil, map[string]any{
		"smoke":  map[string]any{"value": 0.8, "timestamp": "12:00"},
		"camera": "recording",
	})
	assert.Equal(t, "Event Type: unknown\ncamera: recording\nsmoke: Value: 0.8, Time: 12:00", got)
}

func TestFormatSchedulerContext(t *testing.T) {
	got := formatSchedulerContext(nil, map[string]any{
		"system_status": map[string]any{"cpu": "idle"},
		"constraints":   map[string]any{"quiet_hours": "22-07"},
	})
	assert.Equal(t, "System Status:\n  cpu: idle\n\nScheduling Constraints: {\"quiet_hours\":\"22-07\"}", got)
	assert.Equal(t, "", formatSchedulerContext(nil, nil))
}

func TestFormatUnrecognisedContext(t *testing.T) {
	data := map[string]any{"battery": 80.0, "mode": "eco"}
	want := `{"battery":80,"mode":"eco"}`

	formatters := map[string]ContextFormatter{
		"lighting":   formatLightingContext,
		"navigation": formatNavigationContext,
		"scheduler":  formatSchedulerContext,
	}
	for name, format := range formatters {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, format(nil, data))
			assert.Equal(t, "", format(nil, map[string]any{}))
		})
	}
}

func TestTitleWords(t *testing.T) {
	assert.Equal(t, "Soil Moisture", titleWords("soil_moisture"))
	assert.Equal(t, "Uv Index", titleWords("UV_INDEX"))
	assert.Equal(t, "Rain", titleWords("rain"))
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "a, b", joinList([]any{"a", "b"}))
	assert.Equal(t, "1, true", joinList([]any{1.0, true}))
	assert.Equal(t, "x", joinList("x"))
	assert.Equal(t, "", joinList(nil))
}

func TestArgs(t *testing.T) {
	args := Args{"name": "x", "empty": "", "nil": nil, "n": 3.0}

	_, ok := args.Value("empty")
	assert.False(t, ok)
	_, ok = args.Value("nil")
	assert.False(t, ok)

	_, err := args.Require("missing")
	assert.ErrorIs(t, err, ErrMissingArgument)
	assert.Contains(t, err.Error(), "missing")

	assert.Equal(t, "3", args.Text("n", "0"))
	assert.Equal(t, "fallback", args.Text("empty", "fallback"))
}
