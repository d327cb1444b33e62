package apps

import (
	"ai_llm_mini/internal/services/command"
)

const lightingPrompt = `
You are a lighting control assistant. You are responsible for:

1. Balancing comfort and productivity against energy use
2. Adapting light to the time of day and the current activity
3. Supporting the circadian rhythm with suitable color temperatures
4. Building lighting scenes and schedules
5. Acting on natural language lighting requests
6. Reporting energy usage and how to reduce it

Lighting Configuration:
- Zones: {{join .Settings.zones}}
- Light Types: {{join .Settings.light_types}}
- Features: {{join .Settings.features}}
- Brightness Range: {{num (index .Limits "brightness").Min}}-{{num (index .Limits "brightness").Max}}%
- Circadian Support: {{.Settings.circadian_rhythm}}

RESPONSE FORMAT:
Reply with a single JSON object only:
{
    "action": "set_brightness/set_color/create_scene/schedule",
    "zone": "target_zone_or_all",
    "lights": ["specific_light_ids"],
    "parameters": {
        "brightness": "0-100_percent",
        "color_temp": "2700-6500_kelvin",
        "rgb_color": "[r,g,b]_values",
        "transition_time": "seconds",
        "schedule": "time_based_rules"
    },
    "explanation": "reason_for_lighting_choice",
    "energy_impact": "estimated_power_usage",
    "circadian_benefit": "health_and_wellness_impact",
    "scene_name": "descriptive_scene_name"
}

Favor user comfort, energy efficiency and wellbeing.
`

// energyBrightnessThreshold 超过该亮度时给出节能建议
const energyBrightnessThreshold = 80

func lightingDefinition() Definition {
	return Definition{
		Name:         "lighting",
		Description:  "智能照明",
		SystemPrompt: lightingPrompt,
		Temperature:  temperature(0.4),
		Settings: Settings{
			"zones":             []any{"living_room", "bedroom", "kitchen", "outdoor"},
			"light_types":       []any{"main", "accent", "task", "ambient"},
			"features":          []any{"dimming", "color_change", "scheduling", "motion_detection"},
			"energy_efficiency": true,
			"circadian_rhythm":  true,
		},
		Limits: command.Limits{
			"brightness": {Min: 0, Max: 100},
			"color_temp": {Min: 2700, Max: 6500},
		},
		Schema: &command.Schema{
			Rules: []command.Rule{
				{Field: "brightness", Label: "Brightness", Unit: "%"},
				{Field: "color_temp", Label: "Color temperature", Unit: "K"},
			},
			PostProcessors:     []command.PostProcessor{suggestLightingEnergy},
			FailureExplanation: "Failed to parse lighting command",
		},
		FormatContext: formatLightingContext,
		Tasks: map[string]Task{
			"circadian_schedule": {
				Description: "生成符合昼夜节律的照明计划",
				Build:       buildCircadianSchedule,
			},
			"usage_analysis": {
				Description: "分析照明使用情况",
				Build:       buildLightingUsage,
			},
			"scene": {
				Description: "为活动推荐照明场景",
				Build:       buildLightingScene,
			},
		},
	}
}

// suggestLightingEnergy 亮度偏高时附加节能建议
func suggestLightingEnergy(check *command.Check) {
	params, ok := check.Command.Parameters()
	if !ok {
		return
	}
	brightness, ok := command.ToNumber(params["brightness"])
	if ok && brightness > energyBrightnessThreshold {
		check.Command.Set("energy_suggestion", "Consider 70-80% brightness for energy savings")
	}
}

// formatLightingContext 数据格式为 {"time_context": {...}, "current_status": {zone: {light: status}}}
func formatLightingContext(_ Settings, data any) string {
	m, ok := asMap(data)
	if !ok {
		return rawContext(data)
	}

	var lines contextLines
	if timeContext, ok := Args(m).Value("time_context"); ok {
		lines.add("Time Context: %s", jsonText(timeContext))
	}
	if status, ok := asMap(m["current_status"]); ok && len(status) > 0 {
		lines = append(lines, "Current Lighting Status:")
		for _, zone := range sortedKeys(status) {
			lines.add("  %s:", zone)
			lights, ok := asMap(status[zone])
			if !ok {
				continue
			}
			for _, lightID := range sortedKeys(lights) {
				lines.add("    - %s: %s", lightID, statusLine(lights[lightID]))
			}
		}
	}
	return lines.stringOr(data)
}

func buildCircadianSchedule(_ Settings, args Args) (string, string, error) {
	schedule, err := args.Require("schedule")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{"User Schedule: " + jsonText(schedule)}
	lines.addJSON("User Preferences", args, "preferences")

	query := "Create a circadian rhythm lighting schedule that supports natural sleep-wake cycles and productivity."
	return query, lines.String(), nil
}

func buildLightingUsage(_ Settings, args Args) (string, string, error) {
	usage, err := args.Require("usage")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{"Usage Data: " + jsonText(usage)}
	lines.add("Time Period: %s", args.Text("period", "unspecified"))

	query := "Analyze lighting usage patterns and recommend optimizations for energy savings and improved comfort."
	return query, lines.String(), nil
}

func buildLightingScene(_ Settings, args Args) (string, string, error) {
	activity, err := args.Require("activity")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{"Activity: " + plainText(activity)}
	lines.addText("Desired Mood", args, "mood")
	lines.addText("Room Occupancy", args, "occupancy")

	query := "Suggest the optimal lighting scene (brightness, color temperature, zones) for this activity and mood."
	return query, lines.String(), nil
}
