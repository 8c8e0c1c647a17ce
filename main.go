package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/jocilejr/docs/cmd"
	"github.com/jocilejr/docs/internal/config"
	"github.com/jocilejr/docs/internal/events"
	"github.com/jocilejr/docs/internal/logging"
	"github.com/jocilejr/docs/internal/orchestrator"
	"github.com/jocilejr/docs/internal/process"
	"github.com/jocilejr/docs/internal/report"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"installer.toml"`

	// Target settings
	FrontendPath string `help:"Path to the front-end project directory" default:"frontend" toml:"target.frontend_path" env:"FRONTEND_PATH"`
	Port         int    `help:"Port the Baileys service listens on" short:"p" default:"3002" toml:"target.port" env:"PORT"`

	// Baileys settings
	BaileysCommand string `help:"Override command for the Baileys service" toml:"baileys.command" env:"BAILEYS_COMMAND"`
	BaileysScript  string `help:"Baileys entry script relative to the front-end directory" default:"baileys-service.js" toml:"baileys.script" env:"BAILEYS_SCRIPT"`

	// Step toggles
	SkipBuild   bool `help:"Skip the npm build step" default:"false" toml:"steps.skip_build" env:"SKIP_BUILD"`
	SkipStart   bool `help:"Do not launch the front-end server" default:"false" toml:"steps.skip_start" env:"SKIP_START"`
	SkipBaileys bool `help:"Do not launch the Baileys service" default:"false" toml:"steps.skip_baileys" env:"SKIP_BAILEYS"`

	// Shutdown settings
	GracePeriod string `help:"How long to wait after SIGINT before killing tasks" default:"5s" toml:"shutdown.grace_period" env:"GRACE_PERIOD"`

	// Logging settings
	LoggingLevel        string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat       string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingProcess      string `help:"Process supervision logging level" default:"info" toml:"logging.process" env:"LOGGING_PROCESS"`
	LoggingOrchestrator string `help:"Orchestrator logging level" default:"info" toml:"logging.orchestrator" env:"LOGGING_ORCHESTRATOR"`
}

func main() {
	// Create Huma CLI. The callback runs inside cli.Run(), so cli is
	// assigned by the time the closure reads it.
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically. The root command carries the
		// changed-flag set, keeping explicit CLI flags above env and TOML.
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system
		loggingConfig := logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"process":      opts.LoggingProcess,
				"orchestrator": opts.LoggingOrchestrator,
			},
		}
		logging.Initialize(loggingConfig)

		logger := logging.GetLogger("main")

		gracePeriod, err := time.ParseDuration(opts.GracePeriod)
		if err != nil {
			logger.Warn("Invalid grace period, using default", "value", opts.GracePeriod)
			gracePeriod = orchestrator.DefaultGracePeriod
		}

		var baileysCommand []string
		if opts.BaileysCommand != "" {
			baileysCommand, err = process.SplitCommand(opts.BaileysCommand)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid baileys command: %v\n", err)
				os.Exit(1)
			}
		}

		// Event bus carries lifecycle events to any in-process subscriber.
		eventBus := events.New()
		eventBus.Subscribe(func(ev events.TaskStateChangedEvent) {
			logging.GetLogger("orchestrator").Debug("Task state changed",
				"task", ev.Task, "state", ev.State)
		})

		orch := orchestrator.New(orchestrator.Options{
			FrontendPath:   opts.FrontendPath,
			Port:           opts.Port,
			BaileysCommand: baileysCommand,
			BaileysScript:  opts.BaileysScript,
			SkipBuild:      opts.SkipBuild,
			SkipStart:      opts.SkipStart,
			SkipBaileys:    opts.SkipBaileys,
			GracePeriod:    gracePeriod,
			Logger:         logging.GetLogger("orchestrator"),
			Bus:            eventBus,
		})

		done := make(chan struct{})

		hooks.OnStart(func() {
			res := orch.Run()
			report.New(os.Stdout).PrintResult(res)
			if code := res.ExitCode(); code != 0 {
				os.Exit(code)
			}
			close(done)
		})

		hooks.OnStop(func() {
			orch.Shutdown()
			<-done
		})
	})

	cli.Root().Use = "installer"
	cli.Root().AddCommand(cmd.CreateDoctorCmd())
	cli.Root().AddCommand(cmd.CreateUpdateCmd())
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	// Run the CLI
	cli.Run()
}
