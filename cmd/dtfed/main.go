// =============================================================================
// dtfed 主入口
// =============================================================================
// 使用方法:
//
//	dtfed get alice/t1                         # 解析单个数据表
//	dtfed batch alice/t1 bob/t2                # 批量解析
//	dtfed list --status Available alice        # 列出节点数据表
//	dtfed route set alice center               # 维护路由表
//	dtfed migrate up --config dtfed.yaml       # 运行数据库迁移
//	dtfed version                              # 显示版本信息
// =============================================================================

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/dtfed/config"
	"github.com/BaSui01/dtfed/types"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// 退出码
const (
	exitOK       = 0
	exitError    = 1
	exitUsage    = 2
	exitNotFound = 3
)

// errUsage 参数错误
var errUsage = errors.New("invalid usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(exitUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1], os.Args[2:], os.Stdout)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// run 分发子命令
func run(ctx context.Context, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "get", "batch", "group", "list", "delete":
		return runResolve(ctx, cmd, args, out)
	case "route":
		return runRoute(ctx, args, out)
	case "feature":
		return runFeature(ctx, args, out)
	case "migrate":
		return runMigrate(ctx, args, out)
	case "version":
		printVersion(out)
		return nil
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return exitUsage
	case types.IsNotFound(err):
		return exitNotFound
	default:
		return exitError
	}
}

// loadConfig 加载并校验配置
func loadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	if path != "" {
		loader = loader.WithConfigPath(path)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// 📋 版本和帮助
// =============================================================================

func printVersion(out io.Writer) {
	fmt.Fprintf(out, "dtfed %s\n", Version)
	fmt.Fprintf(out, "  Build Time: %s\n", BuildTime)
	fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, `dtfed - federated datatable metadata resolution

Usage:
  dtfed <command> [options] [arguments]

Commands:
  get <node/table>              Resolve one datatable
  batch <node/table>...         Resolve datatables into a keyed result
  group <node/table>...         Resolve datatables grouped by target node
  list <node>                   List datatables registered on a node
  delete <node/table>           Delete a datatable from its node catalog
  route <set|delete|list>       Maintain the logical to physical route table
  feature <add|delete|list>     Maintain locally registered feature tables
  migrate <subcommand>          Database migration commands
  version                       Show version information
  help                          Show this help message

Common options:
  --config <path>   Path to configuration file (YAML)

Options for 'batch':
  --project         Resolve through the project configuration entry point

Options for 'list':
  --status <s>      Keep only Available or Unavailable datatables
  --name <s>        Keep datatables whose name contains s
  --source-types    Comma separated datasource type allow-list
  --all             Skip the filters and return every datatable
  --vendor <v>      Query a single catalog vendor

Examples:
  dtfed get alice/t1
  dtfed batch --config /etc/dtfed/dtfed.yaml alice/t1 bob/t2
  dtfed list --status Available --source-types OSS,HTTP alice
  dtfed route set --hint project-1 alice center
  dtfed migrate up
  dtfed version`)
}

// =============================================================================
// 🔧 日志初始化
// =============================================================================

func initLogger(cfg config.LogConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := "json"
	if cfg.Format == "console" {
		encoding = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       encoding == "console",
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !cfg.EnableCaller,
		DisableStacktrace: !cfg.EnableStacktrace,
	}

	logger, err := zapConfig.Build()
	if err != nil {
		// 回退到基本 logger
		logger, _ = zap.NewProduction()
	}
	return logger
}
