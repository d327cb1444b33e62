package command

import (
	"fmt"
)

// Range 数值字段的安全范围（闭区间）
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Contains 值是否在范围内
func (r Range) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

// Limits 各字段的安全范围，键为 parameters 中的字段名
type Limits map[string]Range

// Clone 返回副本
func (l Limits) Clone() Limits {
	out := make(Limits, len(l))
	for key, r := range l {
		out[key] = r
	}
	return out
}

// Rule 对 parameters 中某个数值字段做范围检查
type Rule struct {
	Field string // parameters 中的字段名，同时是 Limits 的键
	Label string // 警告中使用的名称，如 "Speed"
	Unit  string // 单位，如 "%"、"°"
}

// MissingPolicy 缺少必填字段时的处理方式
type MissingPolicy int

const (
	// MissingFail 标记为失败并立即返回
	MissingFail MissingPolicy = iota
	// MissingFillUnknown 用 "unknown" 补齐后继续校验
	MissingFillUnknown
)

// Check 单次校验的上下文，供后处理函数读写
type Check struct {
	Command  *ValidatedCommand
	Limits   Limits
	warnings []string
}

// Warn 追加一条警告
func (c *Check) Warn(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// Warnings 返回本次校验产生的警告
func (c *Check) Warnings() []string {
	return c.warnings
}

// PostProcessor 领域相关的后处理
type PostProcessor func(check *Check)

// Schema 描述一个领域的指令格式和校验规则
type Schema struct {
	ActionKey          string          // 动作字段名，默认 "action"
	RequiredFields     []string        // 必填的顶层字段
	Missing            MissingPolicy   // 缺少必填字段时的处理方式
	Rules              []Rule          // parameters 中的范围检查
	DefaultPassed      bool            // 没有问题时是否写入 safety_check=passed
	PostProcessors     []PostProcessor // 后处理，按顺序执行
	FailureExplanation string          // 解析失败时的说明
	FailureFields      map[string]any  // 解析失败时返回的字段，为空时使用通用错误格式
}

// Validator 按 Schema 和 Limits 校验指令
type Validator struct {
	schema Schema
	limits Limits
}

// NewValidator 创建校验器
func NewValidator(schema Schema, limits Limits) *Validator {
	if schema.ActionKey == "" {
		schema.ActionKey = "action"
	}
	if schema.FailureExplanation == "" {
		schema.FailureExplanation = "Failed to parse command"
	}
	return &Validator{schema: schema, limits: limits.Clone()}
}

// Limits 返回校验器使用的安全范围副本
func (v *Validator) Limits() Limits {
	return v.limits.Clone()
}

// Validate 校验解码后的回复，总是返回非nil结果
func (v *Validator) Validate(parsed any) *ValidatedCommand {
	fields, ok := parsed.(map[string]any)
	if !ok {
		return &ValidatedCommand{
			Fields: map[string]any{
				v.schema.ActionKey: "error",
				keyExplanation:     "Invalid command format",
			},
			SafetyCheck: SafetyFailed,
		}
	}

	cmd := NewValidatedCommand(fields)

	if missing := v.missingFields(cmd); len(missing) > 0 {
		switch v.schema.Missing {
		case MissingFillUnknown:
			for _, key := range missing {
				cmd.Set(key, "unknown")
			}
		default:
			cmd.SafetyCheck = SafetyFailed
			cmd.Warnings = make([]string, 0, len(missing))
			for _, key := range missing {
				cmd.Warnings = append(cmd.Warnings, "Missing required field: "+key)
			}
			return cmd
		}
	}

	check := &Check{Command: cmd, Limits: v.limits}
	v.checkBounds(check)
	for _, process := range v.schema.PostProcessors {
		process(check)
	}

	if len(check.warnings) > 0 {
		cmd.Warnings = check.warnings
		if cmd.SafetyCheck != SafetyFailed {
			cmd.SafetyCheck = SafetyWarning
		}
	} else if v.schema.DefaultPassed && cmd.SafetyCheck == SafetyUnset {
		cmd.SafetyCheck = SafetyPassed
	}

	return cmd
}

// Failure 构造解析失败时返回的指令
func (v *Validator) Failure(raw string) *ValidatedCommand {
	fields := make(map[string]any, len(v.schema.FailureFields)+3)
	if len(v.schema.FailureFields) == 0 {
		fields[v.schema.ActionKey] = "error"
		fields[keyExplanation] = v.schema.FailureExplanation
	}
	for key, value := range v.schema.FailureFields {
		fields[key] = value
	}
	fields[keyRawResponse] = raw

	cmd := NewValidatedCommand(fields)
	cmd.SafetyCheck = SafetyFailed
	return cmd
}

// missingFields 一次性找出所有缺少的必填字段
func (v *Validator) missingFields(cmd *ValidatedCommand) []string {
	var missing []string
	for _, key := range v.schema.RequiredFields {
		if !cmd.Has(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// checkBounds 检查 parameters 中配置了范围的数值字段
func (v *Validator) checkBounds(check *Check) {
	params, ok := check.Command.Parameters()
	if !ok {
		return
	}

	for _, rule := range v.schema.Rules {
		limit, ok := v.limits[rule.Field]
		if !ok {
			continue
		}
		raw, ok := params[rule.Field]
		if !ok {
			continue
		}
		value, ok := ToNumber(raw)
		if !ok {
			continue
		}
		if !limit.Contains(value) {
			check.Warn("%s %s%s is outside safe range %s-%s%s",
				rule.Label, FormatNumber(value), rule.Unit,
				FormatNumber(limit.Min), FormatNumber(limit.Max), rule.Unit)
		}
	}
}
