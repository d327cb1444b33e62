package apps

import (
	"ai_llm_mini/internal/services/command"
)

const securityPrompt = `
You are a home security assistant. You are responsible for:

1. Reading security sensor data and events
2. Spotting threats and anomalies
3. Choosing the right response level
4. Giving security recommendations
5. Deciding on access control and user authentication
6. Writing security reports and alerts

Security Configuration:
- Monitored Zones: {{join .Settings.zones}}
- Sensor Types: {{join .Settings.sensors}}
- Alert Levels: {{join .Settings.alert_levels}}

RESPONSE FORMAT:
Reply with a single JSON object only:
{
    "threat_level": "none/low/medium/high/critical",
    "alert_type": "info/warning/critical/emergency",
    "zone": "affected_security_zone",
    "description": "detailed_threat_description",
    "recommended_actions": ["list_of_actions"],
    "confidence": "0-100_percent",
    "requires_human_verification": true/false,
    "emergency_response": "none/notify/alarm/authorities",
    "additional_monitoring": ["sensors_to_activate"]
}

Safety comes first. If in doubt, choose the higher alert level.
`

// securityConfidenceThreshold 高威胁事件低于该置信度时需要人工确认
const securityConfidenceThreshold = 70

func securityDefinition() Definition {
	return Definition{
		Name:         "security",
		Description:  "安防监控",
		SystemPrompt: securityPrompt,
		Temperature:  temperature(0.1),
		Settings: Settings{
			"zones":              []any{"entry", "perimeter", "interior", "garage"},
			"sensors":            []any{"motion", "door", "window", "camera", "smoke", "glass_break"},
			"alert_levels":       []any{"info", "warning", "critical", "emergency"},
			"response_protocols": []any{"notify", "alarm", "call_authorities"},
		},
		Schema: &command.Schema{
			ActionKey:      "threat_level",
			RequiredFields: []string{"threat_level", "alert_type", "description"},
			Missing:        command.MissingFillUnknown,
			PostProcessors: []command.PostProcessor{escalateLowConfidence},
			FailureFields: map[string]any{
				"threat_level":                "medium",
				"alert_type":                  "warning",
				"description":                 "Security analysis failed - manual review required",
				"recommended_actions":         []any{"Manual security check", "Review sensor data"},
				"requires_human_verification": true,
			},
		},
		FormatContext: formatSecurityContext,
		Tasks: map[string]Task{
			"access_check": {
				Description: "校验用户访问权限",
				Build:       buildAccessCheck,
			},
			"report": {
				Description: "生成安防报告",
				Build:       buildSecurityReport,
			},
		},
	}
}

// escalateLowConfidence 高威胁且置信度不足时要求人工确认，置信度缺失或无法解析按0处理
func escalateLowConfidence(check *command.Check) {
	switch check.Command.String("threat_level") {
	case "high", "critical":
	default:
		return
	}
	confidence, ok := command.ToNumber(check.Command.Fields["confidence"])
	if !ok {
		confidence = 0
	}
	if confidence < securityConfidenceThreshold {
		check.Command.Set("requires_human_verification", true)
	}
}

// formatSecurityContext 数据为传感器map，可选的 event_type 字段给出事件类型
func formatSecurityContext(_ Settings, data any) string {
	sensors, ok := asMap(data)
	if !ok {
		if text := rawContext(data); text != "" {
			return "Event Type: unknown\n" + text
		}
		return "Event Type: unknown"
	}

	eventType := Args(sensors).Text("event_type", "unknown")
	lines := contextLines{"Event Type: " + eventType}
	for _, sensor := range sortedKeys(sensors) {
		if sensor == "event_type" {
			continue
		}
		fields, ok := asMap(sensors[sensor])
		if !ok {
			lines.add("%s: %s", sensor, plainText(sensors[sensor]))
			continue
		}
		var details []string
		for _, item := range []struct{ key, label string }{
			{"status", "Status"},
			{"value", "Value"},
			{"timestamp", "Time"},
			{"zone", "Zone"},
		} {
			if value, ok := fields[item.key]; ok {
				details = append(details, item.label+": "+plainText(value))
			}
		}
		lines.add("%s: %s", sensor, joinList(details))
	}
	return lines.String()
}

func buildAccessCheck(_ Settings, args Args) (string, string, error) {
	userID, err := args.Require("user_id")
	if err != nil {
		return "", "", err
	}
	request, err := args.Require("request")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{"User ID: " + plainText(userID), "Access Request: " + plainText(request)}
	lines.addJSON("Biometric Data", args, "biometric")

	query := "Verify if this user should be granted access based on their credentials and the security context."
	return query, lines.String(), nil
}

func buildSecurityReport(_ Settings, args Args) (string, string, error) {
	incidents, err := args.Require("incidents")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{
		"Time Period: " + args.Text("period", "unspecified"),
		"Incident Data: " + jsonText(incidents),
	}

	query := "Generate a comprehensive security report including threat analysis, patterns, and recommendations for improvement."
	return query, lines.String(), nil
}
