package apps

import (
	"ai_llm_mini/internal/services/command"
	"ai_llm_mini/internal/services/response"
)

const motorPrompt = `
You are a motor control assistant. Your job is to:

1. Turn natural language requests into motor commands
2. Pick concrete parameters (speed, direction, angle, duration)
3. Keep every command inside the safe operating limits
4. Explain clearly what the motor will do
5. Recommend settings that suit the task

Motor Configuration:
- Speed Range: {{num (index .Limits "speed").Min}}-{{num (index .Limits "speed").Max}}%
- Angle Range: {{num (index .Limits "angle").Min}}-{{num (index .Limits "angle").Max}}°
- Supported Types: {{join .Settings.motor_types}}

RESPONSE FORMAT:
Reply with a single JSON object only:
{
    "action": "motor_command",
    "motor_id": "motor_name_or_id",
    "command": "start/stop/set_speed/set_angle/rotate",
    "parameters": {
        "speed": 0-100,
        "angle": 0-180,
        "direction": "cw/ccw/forward/backward",
        "duration": "seconds or null for continuous"
    },
    "explanation": "what the command does, in plain words",
    "safety_check": "passed/warning/failed",
    "warnings": ["safety warnings, if any"]
}

When a request is unclear or unsafe, set safety_check to "failed" and say why.
`

func motorDefinition() Definition {
	return Definition{
		Name:         "motor",
		Description:  "电机控制",
		SystemPrompt: motorPrompt,
		Temperature:  temperature(0.2),
		Settings: Settings{
			"motor_types": []any{"servo", "stepper", "dc"},
		},
		Limits: command.Limits{
			"speed": {Min: 0, Max: 100},
			"angle": {Min: 0, Max: 180},
		},
		Schema: &command.Schema{
			RequiredFields: []string{"action", "command", "explanation"},
			Rules: []command.Rule{
				{Field: "speed", Label: "Speed", Unit: "%"},
				{Field: "angle", Label: "Angle", Unit: "°"},
			},
			DefaultPassed:      true,
			FailureExplanation: "Failed to parse motor command",
		},
		FormatContext: formatMotorContext,
		Tasks: map[string]Task{
			"sequence": {
				Description: "根据描述生成一组电机指令",
				Build:       buildMotorSequence,
			},
			"optimize": {
				Description: "为指定任务推荐电机参数",
				Build:       buildMotorOptimize,
			},
		},
	}
}

// formatMotorContext 输出每个电机的运行状态
func formatMotorContext(_ Settings, data any) string {
	status, ok := asMap(data)
	if !ok || len(status) == 0 {
		if text := rawContext(data); text != "" && !ok {
			return text
		}
		return "No current motor status available."
	}

	lines := contextLines{"Current Motor Status:"}
	for _, motorID := range sortedKeys(status) {
		line := "- " + motorID + ": "
		fields, ok := asMap(status[motorID])
		if !ok {
			lines = append(lines, line+plainText(status[motorID]))
			continue
		}
		var parts []string
		if running, ok := fields["running"]; ok {
			if b, _ := running.(bool); b {
				parts = append(parts, "Running")
			} else {
				parts = append(parts, "Stopped")
			}
		}
		if speed, ok := fields["speed"]; ok {
			parts = append(parts, "Speed: "+plainText(speed)+"%")
		}
		if angle, ok := fields["angle"]; ok {
			parts = append(parts, "Angle: "+plainText(angle)+"°")
		}
		if temp, ok := fields["temperature"]; ok {
			parts = append(parts, "Temp: "+plainText(temp)+"°C")
		}
		lines = append(lines, line+joinList(parts))
	}
	return lines.String()
}

func buildMotorSequence(_ Settings, args Args) (string, string, error) {
	description, err := args.Require("description")
	if err != nil {
		return "", "", err
	}
	query := response.FormatPrompt(
		"Create a sequence of motor commands for: {description}. Provide each step as a separate JSON command.",
		map[string]any{"description": plainText(description)},
	)
	return query, "", nil
}

func buildMotorOptimize(_ Settings, args Args) (string, string, error) {
	task, err := args.Require("task")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{"Task: " + plainText(task)}
	lines.addText("Motor Specifications", args, "motor_specs")

	query := "What are the optimal motor settings (speed, acceleration, etc.) for this task? Consider efficiency and precision."
	return query, lines.String(), nil
}
