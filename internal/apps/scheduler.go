package apps

import (
	"ai_llm_mini/internal/services/command"
)

const schedulerPrompt = `
You are a task scheduling assistant. You are responsible for:

1. Building schedules from priorities and constraints
2. Tracking task dependencies and resource allocation
3. Adjusting schedules when conditions change
4. Keeping energy use and system load low
5. Resolving conflicts and rescheduling
6. Reporting task status with recommendations

Scheduler Configuration:
- Task Types: {{join .Settings.task_types}}
- Priority Levels: {{join .Settings.priority_levels}}
- Max Concurrent Tasks: {{.Settings.max_concurrent_tasks}}
- Energy Optimization: {{.Settings.energy_optimization}}

RESPONSE FORMAT:
Reply with a single JSON object only:
{
    "schedule_action": "create/modify/cancel/execute",
    "task_id": "unique_task_identifier",
    "task_details": {
        "name": "task_name",
        "type": "task_category",
        "priority": "low/medium/high/critical",
        "estimated_duration": "minutes",
        "resource_requirements": ["required_resources"],
        "dependencies": ["prerequisite_tasks"]
    },
    "scheduling": {
        "start_time": "scheduled_start_time",
        "frequency": "once/daily/weekly/custom",
        "conditions": ["trigger_conditions"]
    },
    "optimization": {
        "energy_impact": "low/medium/high",
        "performance_impact": "minimal/moderate/significant",
        "alternative_times": ["backup_scheduling_options"]
    },
    "explanation": "reasoning_for_scheduling_decision"
}

Aim for efficient use of resources and good system performance.
`

func schedulerDefinition() Definition {
	return Definition{
		Name:         "scheduler",
		Description:  "任务调度",
		SystemPrompt: schedulerPrompt,
		Temperature:  temperature(0.3),
		Settings: Settings{
			"task_types":           []any{"cleaning", "maintenance", "monitoring", "data_collection"},
			"priority_levels":      []any{"low", "medium", "high", "critical"},
			"scheduling_modes":     []any{"time_based", "event_based", "condition_based"},
			"max_concurrent_tasks": 5,
			"energy_optimization":  true,
		},
		Schema: &command.Schema{
			ActionKey:          "schedule_action",
			FailureExplanation: "Failed to create task schedule",
		},
		Checks: func(settings Settings) []command.PostProcessor {
			return []command.PostProcessor{withEnergySuggestion(settings)}
		},
		FormatContext: formatSchedulerContext,
		Tasks: map[string]Task{
			"resolve_conflict": {
				Description: "解决任务冲突",
				Build:       buildResolveConflict,
			},
			"adapt": {
				Description: "根据新条件调整计划",
				Build:       buildAdaptSchedule,
			},
			"report": {
				Description: "生成调度报告",
				Build:       buildScheduleReport,
			},
		},
	}
}

// withEnergySuggestion 开启节能优化时为任务附加错峰建议
func withEnergySuggestion(settings Settings) command.PostProcessor {
	return func(check *command.Check) {
		if !settings.Bool("energy_optimization") || !check.Command.Has("task_details") {
			return
		}
		optimization, ok := check.Command.Fields["optimization"].(map[string]any)
		if !ok {
			optimization = make(map[string]any)
			check.Command.Set("optimization", optimization)
		}
		optimization["energy_suggestion"] = "Consider scheduling during off-peak hours for energy savings"
	}
}

// formatSchedulerContext 数据格式为 {"system_status": {...}, "constraints": {...}}
func formatSchedulerContext(_ Settings, data any) string {
	m, ok := asMap(data)
	if !ok {
		return rawContext(data)
	}

	var lines contextLines
	if status, ok := asMap(m["system_status"]); ok && len(status) > 0 {
		lines = append(lines, "System Status:")
		for _, component := range sortedKeys(status) {
			lines.add("  %s: %s", component, statusLine(status[component]))
		}
	}
	if constraints, ok := Args(m).Value("constraints"); ok {
		lines.add("\nScheduling Constraints: %s", jsonText(constraints))
	}
	return lines.stringOr(data)
}

func buildResolveConflict(_ Settings, args Args) (string, string, error) {
	tasks, err := args.Require("tasks")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{"Conflicting Tasks: " + jsonText(tasks)}
	lines.addJSON("Available Resources", args, "resources")

	query := "Resolve these task scheduling conflicts by prioritizing, rescheduling, or resource reallocation."
	return query, lines.String(), nil
}

func buildAdaptSchedule(_ Settings, args Args) (string, string, error) {
	schedule, err := args.Require("schedule")
	if err != nil {
		return "", "", err
	}
	conditions, err := args.Require("conditions")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{"Current Schedule: " + jsonText(schedule), "New Conditions: " + jsonText(conditions)}

	query := "Adapt the current schedule to accommodate these new conditions while maintaining efficiency."
	return query, lines.String(), nil
}

func buildScheduleReport(_ Settings, args Args) (string, string, error) {
	completed, err := args.Require("completed")
	if err != nil {
		return "", "", err
	}
	lines := contextLines{
		"Time Period: " + args.Text("period", "unspecified"),
		"Completed Tasks: " + jsonText(completed),
	}
	lines.addJSON("Performance", args, "metrics")

	query := "Generate a comprehensive report on scheduling performance, efficiency, and recommendations for improvement."
	return query, lines.String(), nil
}
