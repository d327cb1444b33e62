package apps

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"ai_llm_mini/internal/models"
	"ai_llm_mini/internal/services/command"
	"ai_llm_mini/internal/services/response"
	"ai_llm_mini/internal/services/session"
)

// Application 领域应用：一个对话会话加上该领域的提示词、上下文格式和指令校验。
// 和 session.Session 一样，同一个 Application 的调用必须串行化。
type Application struct {
	def       Definition
	session   *session.Session
	validator *command.Validator
}

// Option 应用选项
type Option func(*options)

type options struct {
	modelConfig models.ModelConfig
	windowLimit int
}

// WithModelConfig 设置基础模型配置，应用自己的温度会覆盖其中的 temperature
func WithModelConfig(modelConfig models.ModelConfig) Option {
	return func(o *options) {
		o.modelConfig = modelConfig
	}
}

// WithWindowLimit 设置历史窗口大小（消息条数）
func WithWindowLimit(limit int) Option {
	return func(o *options) {
		o.windowLimit = limit
	}
}

// New 根据定义创建应用
func New(def Definition, transport session.Transport, opts ...Option) (*Application, error) {
	o := options{
		modelConfig: models.DefaultModelConfig(),
		windowLimit: session.DefaultWindowLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}

	systemPrompt, err := def.RenderSystemPrompt()
	if err != nil {
		return nil, err
	}

	// 每个应用持有自己的模型配置副本
	modelConfig := o.modelConfig
	if def.Temperature != nil {
		modelConfig = modelConfig.WithTemperature(*def.Temperature)
	}
	if err := modelConfig.Validate(); err != nil {
		return nil, fmt.Errorf("%s 模型配置无效: %w", def.Name, err)
	}

	app := &Application{
		def: def,
		session: session.New(transport, systemPrompt,
			session.WithModelConfig(modelConfig),
			session.WithWindowLimit(o.windowLimit),
		),
	}
	if def.Schema != nil {
		schema := *def.Schema
		if def.Checks != nil {
			schema.PostProcessors = append(append([]command.PostProcessor(nil), schema.PostProcessors...), def.Checks(def.Settings)...)
		}
		app.validator = command.NewValidator(schema, def.Limits)
	}
	return app, nil
}

// Name 应用名称
func (a *Application) Name() string {
	return a.def.Name
}

// Definition 应用定义
func (a *Application) Definition() Definition {
	return a.def
}

// Session 底层对话会话
func (a *Application) Session() *session.Session {
	return a.session
}

// Validator 指令校验器，文本应用返回 nil
func (a *Application) Validator() *command.Validator {
	return a.validator
}

// Ask 通用问答，上下文数据按通用模板拼接
func (a *Application) Ask(ctx context.Context, input string, contextData any) (string, error) {
	return a.session.Turn(ctx, input, contextData)
}

// Analyze 用领域格式化后的上下文提问，返回文本回复
func (a *Application) Analyze(ctx context.Context, input string, contextData any) (string, error) {
	return a.session.Turn(ctx, input, a.formatContext(contextData))
}

// Command 处理自然语言指令并返回校验后的结构化结果。
// 模型没有回复时返回 session.ErrNoResponse；回复无法解析时返回该领域的失败对象。
func (a *Application) Command(ctx context.Context, input string, contextData any) (*command.ValidatedCommand, error) {
	if a.validator == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotStructured, a.def.Name)
	}

	reply, err := a.session.Turn(ctx, input, a.formatContext(contextData))
	if err != nil {
		return nil, err
	}

	parsed, err := response.ParseStructured(reply)
	if err != nil {
		var failure *response.ParseFailure
		if errors.As(err, &failure) {
			log.Printf("%s 指令解析失败，回复长度 %d: %v", a.def.Name, len(failure.Raw), failure.Err)
		}
		return a.validator.Failure(reply), nil
	}

	return a.validator.Validate(parsed), nil
}

// RunTask 执行预定义任务
func (a *Application) RunTask(ctx context.Context, name string, args Args) (string, error) {
	task, ok := a.def.Tasks[name]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrUnknownTask, a.def.Name, name)
	}
	if args == nil {
		args = Args{}
	}

	query, contextText, err := task.Build(a.def.Settings, args)
	if err != nil {
		return "", err
	}
	return a.session.Turn(ctx, query, contextText)
}

// Tasks 按字母序返回任务名称
func (a *Application) Tasks() []string {
	return taskNames(a.def)
}

// Clear 清除对话历史
func (a *Application) Clear() {
	a.session.Clear()
}

// History 返回对话历史
func (a *Application) History() []models.Message {
	return a.session.History()
}

// SetSystemPrompt 替换系统提示词（不再经过模板渲染）
func (a *Application) SetSystemPrompt(prompt string) {
	a.session.SetSystemPrompt(prompt)
}

func (a *Application) formatContext(contextData any) any {
	if a.def.FormatContext == nil {
		return contextData
	}
	return a.def.FormatContext(a.def.Settings, contextData)
}

func taskNames(def Definition) []string {
	names := make([]string, 0, len(def.Tasks))
	for name := range def.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
