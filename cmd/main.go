package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ai_llm_mini/internal/apps"
	"ai_llm_mini/internal/clients/ollama"
	"ai_llm_mini/internal/clients/openai"
	"ai_llm_mini/internal/config"
	"ai_llm_mini/internal/handlers"
	"ai_llm_mini/internal/middleware"
	"ai_llm_mini/internal/routes"
	"ai_llm_mini/internal/services/session"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// options 命令行参数
type options struct {
	configPath string
	addr       string
	console    string
	envFile    string
}

// parseFlags 解析命令行参数
func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("ai_llm_mini", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "配置文件路径，为空时使用默认配置")
	flagSet.StringVar(&opts.addr, "addr", "", "监听地址，覆盖配置文件中的 server.host/port")
	flagSet.StringVar(&opts.console, "console", "", "进入命令行模式并与指定应用对话，例如 motor")
	flagSet.StringVar(&opts.envFile, "env-file", ".env", "环境变量文件")

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, fmt.Errorf("多余的参数: %s", rest[0])
	}
	return opts, nil
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("解析参数失败: %v", err)
	}

	// .env 不存在时忽略
	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("加载环境变量文件失败: %v", err)
	}

	log.Println("AI LLM 网关启动中...")

	// 加载配置
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 创建模型客户端和应用注册表
	transport := newTransport(cfg)
	registry, err := apps.NewRegistry(transport, cfg.LLM.Model, cfg.Session.WindowMessages, cfg.Apps)
	if err != nil {
		log.Fatalf("创建应用失败: %v", err)
	}
	log.Printf("模型服务: %s, 模型: %s, 应用: %v", cfg.LLM.Provider, cfg.LLM.Model.ModelName, registry.Names())

	if opts.console != "" {
		app, err := registry.New(opts.console)
		if err != nil {
			log.Fatalf("创建应用失败: %v", err)
		}
		handleCommands(context.Background(), app, os.Stdin, os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 启动会话回收
	sessions := session.NewManager[*apps.Application]()
	go sessions.StartReaper(ctx, cfg.Session.ReapInterval, cfg.Session.IdleTTL)

	// 创建HTTP服务
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	middleware.Setup(r)
	routes.RegisterRoutes(r,
		handlers.NewAppHandler(registry, sessions),
		handlers.NewChatHandler(registry, cfg.WebSocket),
	)

	listenAddr := cfg.Server.Addr()
	if opts.addr != "" {
		listenAddr = opts.addr
	}
	server := &http.Server{
		Addr:    listenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("HTTP服务监听: %s", listenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP服务启动失败: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("关闭HTTP服务失败: %v", err)
	}
	log.Println("服务已停止")
}

// newTransport 按配置创建模型客户端
func newTransport(cfg *config.Config) session.Transport {
	if cfg.LLM.Provider == config.ProviderOllama {
		return ollama.NewClient(ollama.Config{
			Host:    cfg.Ollama.Host,
			Model:   cfg.Ollama.Model,
			Timeout: cfg.LLM.Timeout,
		})
	}
	return openai.NewClient(openai.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Timeout: cfg.LLM.Timeout,
	}, cfg.LLM.Model)
}
