package apps

import (
	"context"
	"fmt"
	"testing"

	"ai_llm_mini/internal/models"
	"ai_llm_mini/internal/services/command"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNames(t *testing.T) {
	registry, err := NewRegistry(&fakeTransport{}, models.DefaultModelConfig(), 10, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"lighting", "motor", "navigation", "scheduler", "security", "smart_home", "weather",
	}, registry.Names())

	infos := registry.List()
	require.Len(t, infos, 7)
	assert.Equal(t, "lighting", infos[0].Name)
	assert.True(t, infos[0].Structured)
	assert.Equal(t, []string{"circadian_schedule", "scene", "usage_analysis"}, infos[0].Tasks)
	assert.False(t, infos[6].Structured)

	_, err = registry.New("toaster")
	assert.ErrorIs(t, err, ErrUnknownApp)

	_, ok := registry.Definition("motor")
	assert.True(t, ok)
}

func TestRegistryUnknownOverride(t *testing.T) {
	_, err := NewRegistry(&fakeTransport{}, models.DefaultModelConfig(), 10, map[string]Override{
		"toaster": {},
	})
	assert.ErrorIs(t, err, ErrUnknownApp)
}

func TestRegistryBadPromptOverride(t *testing.T) {
	_, err := NewRegistry(&fakeTransport{}, models.DefaultModelConfig(), 10, map[string]Override{
		"motor": {SystemPrompt: "Types: {{.Settings.no_such_setting}}"},
	})
	assert.Error(t, err)

	_, err = NewRegistry(&fakeTransport{}, models.DefaultModelConfig(), 10, map[string]Override{
		"motor": {SystemPrompt: "Types: {{.Settings"},
	})
	assert.Error(t, err)
}

func TestRegistryOverrides(t *testing.T) {
	transport := &fakeTransport{replies: []string{
		`{"action":"motor_command","command":"set_speed","explanation":"x","parameters":{"speed":60}}`,
	}}
	low := 0.0
	registry, err := NewRegistry(transport, models.DefaultModelConfig(), 10, map[string]Override{
		"motor": {
			Temperature:    &low,
			WindowMessages: 2,
			Limits:         map[string]Bound{"speed": {Min: float(10), Max: float(50)}},
			Settings:       Settings{"motor_types": []any{"servo"}},
		},
	})
	require.NoError(t, err)

	app, err := registry.New("motor")
	require.NoError(t, err)
	assert.Equal(t, 2, app.Session().WindowLimit())
	assert.Equal(t, 0.0, app.Session().ModelConfig().Temperature)
	assert.Contains(t, app.Session().SystemPrompt(), "Speed Range: 10-50%")
	assert.Contains(t, app.Session().SystemPrompt(), "Supported Types: servo\n")
	assert.Contains(t, app.Session().SystemPrompt(), "Angle Range: 0-180°")

	cmd, err := app.Command(context.Background(), "speed 60", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Speed 60% is outside safe range 10-50%"}, cmd.Warnings)

	// 覆盖项不影响内置定义
	def, _ := registry.Definition("lighting")
	assert.Equal(t, lightingDefinition().Limits, def.Limits)
	assert.Equal(t, command.Range{Min: 0, Max: 100}, motorDefinition().Limits["speed"])

	other, err := registry.New("lighting")
	require.NoError(t, err)
	assert.Equal(t, 10, other.Session().WindowLimit())
}

func float(v float64) *float64 {
	return &v
}

func TestRegistryPartialLimitOverride(t *testing.T) {
	transport := &fakeTransport{replies: []string{
		`{"action":"set_lights","command":"set","explanation":"x","parameters":{"color_temp":1000}}`,
	}}
	upper := 5000.0
	registry, err := NewRegistry(transport, models.DefaultModelConfig(), 10, map[string]Override{
		"lighting": {Limits: map[string]Bound{"color_temp": {Max: &upper}}},
	})
	require.NoError(t, err)

	def, _ := registry.Definition("lighting")
	assert.Equal(t, command.Range{Min: 2700, Max: 5000}, def.Limits["color_temp"])

	app, err := registry.New("lighting")
	require.NoError(t, err)
	cmd, err := app.Command(context.Background(), "warm light", nil)
	require.NoError(t, err)
	assert.Equal(t, command.SafetyWarning, cmd.SafetyCheck)
	require.Len(t, cmd.Warnings, 1)
	assert.Contains(t, cmd.Warnings[0], "1000")
	assert.Contains(t, cmd.Warnings[0], "2700-5000")
}

func TestRegistryInvalidLimitOverride(t *testing.T) {
	low, high := 90.0, 10.0
	tests := []struct {
		name     string
		override Override
	}{
		{name: "下限大于上限", override: Override{Limits: map[string]Bound{"speed": {Min: &low, Max: &high}}}},
		{name: "只给下限且超过内置上限", override: Override{Limits: map[string]Bound{"angle": {Min: float(200)}}}},
		{name: "新增字段缺少上限", override: Override{Limits: map[string]Bound{"torque": {Min: &high}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(&fakeTransport{}, models.DefaultModelConfig(), 10, map[string]Override{
				"motor": tt.override,
			})
			assert.ErrorIs(t, err, ErrInvalidLimit)
		})
	}
}

func TestNewInvalidModelConfig(t *testing.T) {
	bad := models.DefaultModelConfig()
	bad.MaxTokens = 0
	_, err := New(motorDefinition(), &fakeTransport{}, WithModelConfig(bad))
	assert.Error(t, err)

	hot := 3.0
	def := motorDefinition()
	def.Temperature = &hot
	_, err = New(def, &fakeTransport{})
	assert.Error(t, err)
}

func TestApplicationsAreIndependent(t *testing.T) {
	transport := &fakeTransport{}
	registry, err := NewRegistry(transport, models.DefaultModelConfig(), 10, nil)
	require.NoError(t, err)

	first, err := registry.New("weather")
	require.NoError(t, err)
	second, err := registry.New("weather")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := first.Ask(context.Background(), fmt.Sprintf("q%d", i), nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 6, first.Session().Len())
	assert.Equal(t, 0, second.Session().Len())
}
