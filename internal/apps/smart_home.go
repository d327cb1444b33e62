package apps

import (
	"strings"

	"ai_llm_mini/internal/services/command"
	"ai_llm_mini/internal/services/response"
)

const smartHomePrompt = `
You are a smart home assistant. Your job is to:

1. Control devices from natural language commands
2. Keep the home comfortable without wasting energy
3. Create and manage automation schedules
4. Report on the state of the home and suggest improvements
5. Keep the home safe and secure
6. Learn what the residents prefer and adapt

Home Configuration:
- Rooms: {{join .Settings.rooms}}
- Available Devices: {{json .Settings.devices}}
- Energy Saving Mode: {{.Settings.energy_saving}}

RESPONSE FORMAT:
Reply with a single JSON object only:
{
    "action": "device_control/schedule/report/recommendation",
    "target": "device_name_or_room",
    "command": "specific_action",
    "parameters": {
        "value": "setting_value",
        "duration": "time_period",
        "conditions": "trigger_conditions"
    },
    "explanation": "what will happen, in plain words",
    "energy_impact": "low/medium/high",
    "safety_check": "passed/warning/failed",
    "suggestions": ["additional recommendations"]
}

Weigh energy efficiency, comfort and safety in every recommendation.
`

func smartHomeDefinition() Definition {
	return Definition{
		Name:         "smart_home",
		Description:  "智能家居",
		SystemPrompt: smartHomePrompt,
		Temperature:  temperature(0.3),
		Settings: Settings{
			"rooms": []any{"living_room", "bedroom", "kitchen", "bathroom"},
			"devices": map[string]any{
				"lights":     []any{"main_light", "accent_lights"},
				"climate":    []any{"thermostat", "fan"},
				"appliances": []any{"tv", "coffee_maker", "washing_machine"},
				"sensors":    []any{"motion", "door", "window", "smoke"},
			},
			"energy_saving": true,
		},
		Schema: &command.Schema{
			PostProcessors:     []command.PostProcessor{checkDeviceSafety},
			DefaultPassed:      true,
			FailureExplanation: "Failed to parse home command",
		},
		FormatContext: formatHomeContext,
		Tasks: map[string]Task{
			"energy_report": {
				Description: "分析能耗并给出建议",
				Build:       buildEnergyReport,
			},
			"automation_schedule": {
				Description: "生成自动化计划",
				Build:       buildAutomationSchedule,
			},
			"comfort": {
				Description: "优化舒适度设置",
				Build:       buildComfort,
			},
		},
	}
}

// checkDeviceSafety 对开烤箱和开门锁这类操作给出警告
func checkDeviceSafety(check *command.Check) {
	if check.Command.String("action") != "device_control" {
		return
	}
	target := strings.ToLower(check.Command.String("target"))
	cmd := strings.ToLower(check.Command.String("command"))

	if strings.Contains(target, "oven") && strings.Contains(cmd, "on") {
		check.Warn("Oven control requires manual confirmation for safety")
	}
	if strings.Contains(target, "door") && strings.Contains(cmd, "unlock") {
		check.Warn("Door unlock command should verify user identity")
	}
}

// formatHomeContext 数据格式为 {room: {device: status}}
func formatHomeContext(_ Settings, data any) string {
	rooms, ok := asMap(data)
	if !ok || len(rooms) == 0 {
		if text := rawContext(data); text != "" && !ok {
			return text
		}
		return "No current home status available."
	}

	lines := contextLines{"Current Home Status:"}
	for _, room := range sortedKeys(rooms) {
		lines.add("\n%s:", titleWords(room))
		devices, ok := asMap(rooms[room])
		if !ok {
			continue
		}
		for _, device := range sortedKeys(devices) {
			lines.add("  - %s: %s", device, statusLine(devices[device]))
		}
	}
	return lines.String()
}

func buildEnergyReport(_ Settings, args Args) (string, string, error) {
	usage, err := args.Require("usage")
	if err != nil {
		return "", "", err
	}
	query := "Analyze this energy usage data and provide optimization recommendations for reducing consumption while maintaining comfort."
	return query, "Energy Usage Data: " + jsonText(usage), nil
}

func buildAutomationSchedule(_ Settings, args Args) (string, string, error) {
	request, err := args.Require("request")
	if err != nil {
		return "", "", err
	}
	query := response.FormatPrompt(
		"Create a smart home automation schedule for: {request}. Include optimal timing and energy-efficient settings.",
		map[string]any{"request": plainText(request)},
	)
	return query, "", nil
}

func buildComfort(_ Settings, args Args) (string, string, error) {
	preferences, err := args.Require("preferences")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{"User Preferences: " + jsonText(preferences)}
	lines.addJSON("Current Conditions", args, "conditions")

	query := "Optimize home settings for maximum comfort while considering energy efficiency."
	return query, lines.String(), nil
}
