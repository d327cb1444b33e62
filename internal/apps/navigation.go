package apps

import (
	"ai_llm_mini/internal/services/command"
)

const navigationPrompt = `
You are a robot navigation assistant. You are responsible for:

1. Planning safe and efficient paths
2. Using sensor data to detect and avoid obstacles
3. Understanding natural language navigation commands
4. Fitting routes to the robot's capabilities and constraints
5. Making navigation decisions in real time
6. Maintaining the map and the robot's position (SLAM)

Robot Configuration:
- Type: {{.Settings.robot_type}}
- Sensors: {{join .Settings.sensors}}
- Max Speed: {{num (index .Limits "speed").Max}} m/s
- Turning Radius: {{.Settings.turning_radius}} m
- Safety Distance: {{.Settings.safety_distance}} m

RESPONSE FORMAT:
Reply with a single JSON object only:
{
    "action": "move/turn/stop/scan/map",
    "direction": "forward/backward/left/right/custom_angle",
    "parameters": {
        "speed": "0.0-{{num (index .Limits "speed").Max}}_ms",
        "distance": "meters_to_travel",
        "angle": "degrees_to_turn",
        "duration": "seconds"
    },
    "path_points": [["x1,y1"], ["x2,y2"]],
    "obstacles_detected": [["obstacle_positions"]],
    "confidence": "0-100_percent",
    "safety_status": "safe/caution/danger",
    "alternative_routes": ["backup_navigation_options"],
    "explanation": "reasoning_for_navigation_decision"
}

Collision avoidance always takes priority.
`

func navigationDefinition() Definition {
	return Definition{
		Name:         "navigation",
		Description:  "机器人导航",
		SystemPrompt: navigationPrompt,
		Temperature:  temperature(0.2),
		Settings: Settings{
			"robot_type":      "mobile_robot",
			"sensors":         []any{"ultrasonic", "camera", "lidar", "imu", "encoders"},
			"capabilities":    []any{"navigation", "obstacle_avoidance", "mapping", "localization"},
			"turning_radius":  0.3,
			"safety_distance": 0.2,
		},
		Limits: command.Limits{
			"speed": {Min: 0, Max: 1.0},
		},
		Schema: &command.Schema{
			PostProcessors: []command.PostProcessor{clampNavigationSpeed, flagObstacles},
			FailureFields: map[string]any{
				"action":        "stop",
				"safety_status": "danger",
				"explanation":   "Navigation command parsing failed - stopping for safety",
			},
		},
		FormatContext: formatNavigationContext,
		Tasks: map[string]Task{
			"plan_path": {
				Description: "规划从起点到终点的路径",
				Build:       buildPlanPath,
			},
			"analyze_sensors": {
				Description: "分析传感器数据并给出避障建议",
				Build:       buildAnalyzeSensors,
			},
			"update_map": {
				Description: "用新的传感器数据更新地图",
				Build:       buildUpdateMap,
			},
		},
	}
}

// clampNavigationSpeed 速度超过上限时降到上限并给出警告
func clampNavigationSpeed(check *command.Check) {
	limit, ok := check.Limits["speed"]
	if !ok {
		return
	}
	params, ok := check.Command.Parameters()
	if !ok {
		return
	}
	speed, ok := command.ToNumber(params["speed"])
	if !ok || speed <= limit.Max {
		return
	}
	params["speed"] = limit.Max
	check.Warn("Speed reduced to maximum safe speed: %s m/s", command.FormatNumber(limit.Max))
}

// flagObstacles 检测到障碍物时把安全状态设为 caution
func flagObstacles(check *command.Check) {
	obstacles, ok := check.Command.Fields["obstacles_detected"].([]any)
	if !ok || len(obstacles) == 0 {
		return
	}
	check.Command.Set("safety_status", "caution")
	check.Warn("Obstacles detected - proceed with caution")
}

// formatNavigationContext 数据格式为 {"current_position": {...}, "sensor_data": {sensor: {...}}}
func formatNavigationContext(_ Settings, data any) string {
	m, ok := asMap(data)
	if !ok {
		return rawContext(data)
	}

	var lines contextLines
	if position, ok := Args(m).Value("current_position"); ok {
		lines.add("Current Position: %s", jsonText(position))
	}
	if sensors, ok := asMap(m["sensor_data"]); ok && len(sensors) > 0 {
		lines = append(lines, "Sensor Data:")
		for _, sensor := range sortedKeys(sensors) {
			fields, ok := asMap(sensors[sensor])
			if !ok {
				lines.add("  %s: %s", sensor, plainText(sensors[sensor]))
				continue
			}
			var details []string
			if distance, ok := fields["distance"]; ok {
				details = append(details, "Distance: "+plainText(distance)+"m")
			}
			if angle, ok := fields["angle"]; ok {
				details = append(details, "Angle: "+plainText(angle)+"°")
			}
			if obstacles, ok := fields["obstacles"].([]any); ok {
				details = append(details, "Obstacles: "+plainText(len(obstacles)))
			}
			lines.add("  %s: %s", sensor, joinList(details))
		}
	}
	return lines.stringOr(data)
}

func buildPlanPath(_ Settings, args Args) (string, string, error) {
	start, err := args.Require("start")
	if err != nil {
		return "", "", err
	}
	target, err := args.Require("target")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{"Start: " + jsonText(start), "Target: " + jsonText(target)}
	lines.addJSON("Obstacles", args, "obstacles")

	query := "Plan the optimal path considering robot constraints, obstacles, and safety margins."
	return query, lines.String(), nil
}

func buildAnalyzeSensors(_ Settings, args Args) (string, string, error) {
	readings, err := args.Require("readings")
	if err != nil {
		return "", "", err
	}
	query := "Analyze this sensor data and provide navigation recommendations including obstacle avoidance strategies."
	return query, "Sensor Readings: " + jsonText(readings), nil
}

func buildUpdateMap(_ Settings, args Args) (string, string, error) {
	sensorData, err := args.Require("sensor_data")
	if err != nil {
		return "", "", err
	}
	position, err := args.Require("position")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{"Position: " + jsonText(position), "New Sensor Data: " + jsonText(sensorData)}

	query := "Update the robot's map with this new sensor data and identify any changes in the environment."
	return query, lines.String(), nil
}
