package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"ai_llm_mini/internal/apps"
)

// printHelp 输出可用命令
func printHelp(out io.Writer, app *apps.Application) {
	fmt.Fprintln(out, "可用命令:")
	fmt.Fprintln(out, "  <text>              - 提问")
	if app.Definition().Structured() {
		fmt.Fprintln(out, "  cmd <text>          - 发送指令并输出校验结果")
	}
	fmt.Fprintf(out, "  task <name> [json]  - 执行任务 %v\n", app.Tasks())
	fmt.Fprintln(out, "  clear               - 清除对话历史")
	fmt.Fprintln(out, "  quit/exit           - 退出程序")
}

// handleCommands 处理用户在命令行输入的命令
func handleCommands(ctx context.Context, app *apps.Application, in io.Reader, out io.Writer) {
	reader := bufio.NewReader(in)
	printHelp(out, app)

	for {
		fmt.Fprintf(out, "%s> ", app.Name())
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("读取命令失败: %v", err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		verb, rest, _ := strings.Cut(line, " ")
		switch verb {
		case "quit", "exit":
			return
		case "help":
			printHelp(out, app)
		case "clear":
			app.Clear()
			fmt.Fprintln(out, "对话历史已清除")
		case "cmd":
			cmd, err := app.Command(ctx, rest, nil)
			if err != nil {
				log.Printf("处理指令失败: %v", err)
				continue
			}
			data, _ := json.MarshalIndent(cmd, "", "  ")
			fmt.Fprintln(out, string(data))
		case "task":
			name, rawArgs, _ := strings.Cut(strings.TrimSpace(rest), " ")
			args := apps.Args{}
			if rawArgs = strings.TrimSpace(rawArgs); rawArgs != "" {
				if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
					log.Printf("任务参数格式错误: %v", err)
					continue
				}
			}
			reply, err := app.RunTask(ctx, name, args)
			if err != nil {
				log.Printf("执行任务失败: %v", err)
				continue
			}
			fmt.Fprintln(out, reply)
		default:
			reply, err := app.Ask(ctx, line, nil)
			if err != nil {
				log.Printf("请求失败: %v", err)
				continue
			}
			fmt.Fprintln(out, reply)
		}
	}
}
