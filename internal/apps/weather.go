package apps

import (
	"ai_llm_mini/internal/services/response"
)

const weatherPrompt = `
You are a weather data analyst. Your job is to:

1. Analyze sensor readings (temperature, humidity, pressure, wind and so on)
2. Describe the current conditions
3. Recommend actions such as irrigation or heating and cooling
4. Point out anomalies or worrying trends in the readings
5. Advise on outdoor activities and equipment operation

Location: {{.Settings.location}}
Units: {{.Settings.units}}

Always include:
- A clear analysis of the data
- Practical recommendations
- Warnings about extreme conditions
- How confident you are in the analysis

Keep the answer short and actionable so it fits on an IoT device display.
`

// weatherKnownFields 单独格式化的读数字段
var weatherKnownFields = map[string]bool{
	"temperature":    true,
	"humidity":       true,
	"pressure":       true,
	"wind_speed":     true,
	"wind_direction": true,
	"timestamp":      true,
}

func weatherDefinition() Definition {
	return Definition{
		Name:         "weather",
		Description:  "气象分析",
		SystemPrompt: weatherPrompt,
		Temperature:  temperature(0.3),
		Settings: Settings{
			"location": "Unknown",
			"units":    "metric",
		},
		FormatContext: formatWeatherContext,
		Tasks: map[string]Task{
			"analyze": {
				Description: "分析气象读数",
				Build:       weatherTask("Analyze this weather data and provide insights and recommendations."),
			},
			"irrigation": {
				Description: "给出灌溉建议",
				Build: weatherTask("Based on this weather data, should I irrigate my {crop} crops? Consider soil moisture needs and weather conditions.",
					"crop", "general"),
			},
			"hvac": {
				Description: "给出空调调节建议",
				Build: weatherTask("Based on this weather data, what HVAC adjustments should I make to maintain {target_temp}°C indoor temperature efficiently?",
					"target_temp", "22"),
			},
			"alerts": {
				Description: "检测极端天气预警",
				Build:       weatherTask("Analyze this weather data for any extreme conditions, alerts, or warnings I should be aware of. Focus on safety and equipment protection."),
			},
		},
	}
}

// weatherTask 构造基于传感器读数的任务，defaults 为成对的参数名和默认值
func weatherTask(queryTemplate string, defaults ...string) TaskBuilder {
	return func(settings Settings, args Args) (string, string, error) {
		sensors, err := args.Require("sensors")
		if err != nil {
			return "", "", err
		}

		vars := make(map[string]any, len(defaults)/2)
		for i := 0; i+1 < len(defaults); i += 2 {
			vars[defaults[i]] = args.Text(defaults[i], defaults[i+1])
		}
		query := response.FormatPrompt(queryTemplate, vars)
		if custom := args.Text("query", ""); custom != "" {
			query = custom
		}
		return query, formatWeatherContext(settings, sensors), nil
	}
}

// formatWeatherContext 按单位制格式化读数，其余字段按名称排序追加
func formatWeatherContext(settings Settings, data any) string {
	readings, ok := asMap(data)
	if !ok {
		return rawContext(data)
	}

	metric := settings.String("units") != "imperial"
	unit := func(metricUnit, imperialUnit string) string {
		if metric {
			return metricUnit
		}
		return imperialUnit
	}

	var lines contextLines
	if value, ok := readings["temperature"]; ok {
		lines.add("Temperature: %s%s", plainText(value), unit("°C", "°F"))
	}
	if value, ok := readings["humidity"]; ok {
		lines.add("Humidity: %s%%", plainText(value))
	}
	if value, ok := readings["pressure"]; ok {
		lines.add("Pressure: %s %s", plainText(value), unit("hPa", "inHg"))
	}
	if value, ok := readings["wind_speed"]; ok {
		lines.add("Wind Speed: %s %s", plainText(value), unit("m/s", "mph"))
	}
	if value, ok := readings["wind_direction"]; ok {
		lines.add("Wind Direction: %s°", plainText(value))
	}
	for _, key := range sortedKeys(readings) {
		if !weatherKnownFields[key] {
			lines.add("%s: %s", titleWords(key), plainText(readings[key]))
		}
	}
	if value, ok := readings["timestamp"]; ok {
		lines.add("Reading Time: %s", plainText(value))
	}
	return lines.String()
}
