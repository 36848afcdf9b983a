// Command folioagent runs the Foliolabs Studio operations assistant as an
// HTTP service. Configuration comes from the environment; a .env file in the
// working directory is loaded first when present.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/foliolabs/folioagent/assistant"
	"github.com/foliolabs/folioagent/calendar"
	"github.com/foliolabs/folioagent/catalog"
	"github.com/foliolabs/folioagent/config"
	"github.com/foliolabs/folioagent/logging"
	"github.com/foliolabs/folioagent/mail"
	"github.com/foliolabs/folioagent/model"
	anthropicmodel "github.com/foliolabs/folioagent/model/anthropic"
	openaimodel "github.com/foliolabs/folioagent/model/openai"
	"github.com/foliolabs/folioagent/proposal"
	"github.com/foliolabs/folioagent/server"
	"github.com/foliolabs/folioagent/session"
	"github.com/foliolabs/folioagent/tool"
)

var version = "dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "folioagent",
		Short:   "Foliolabs Studio operations assistant",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Best effort; absence of a .env file is the normal case in prod.
			_ = godotenv.Load()
		},
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	cfg := config.Load()
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	store := session.Select(ctx, session.Config{
		RestURL:   cfg.RestURL,
		RestToken: cfg.RestToken,
		RedisAddr: cfg.RedisAddr,
		Window:    cfg.SessionWindow,
		TTL:       cfg.SessionTTL,
		Logger:    logger,
	})

	operator := mail.Operator{Name: cfg.OperatorName, Email: cfg.OperatorEmail}
	mailer := newMailer(cfg, logger)

	tz := cfg.DefaultTimezone
	if tz == "" {
		tz = calendar.DefaultTimezone
	}
	scheduler := calendar.NewScheduler(calendar.NewMemoryService(), mailer, operator, tz, logger)

	tools := catalog.Tools(cat)
	tools = append(tools, mail.NewSendEmailTool(mailer, operator))
	tools = append(tools, proposal.NewGenerateTool())
	tools = append(tools, calendar.Tools(scheduler)...)
	registry, err := tool.NewRegistry(tools...)
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}

	m := newModel(cfg)
	logger.Info("model.selected", "provider", m.Info().Provider, "model", m.Info().Name)

	a := assistant.New(m, registry, store, assistant.Options{HistoryWindow: cfg.SessionWindow}, logger)
	handler := server.New(a, store, m.Info(), logger)

	return server.Run(ctx, ":"+cfg.Port, handler, logger)
}

func newLogger(cfg *config.Config) logging.Logger {
	level := logging.LogLevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = logging.LogLevelDebug
	case "warn":
		level = logging.LogLevelWarn
	case "error":
		level = logging.LogLevelError
	}
	return logging.New(level, cfg.LogFormat, os.Stderr)
}

func newMailer(cfg *config.Config, logger logging.Logger) mail.Mailer {
	if cfg.SMTPAddr == "" {
		logger.Warn("mail.transport.capture", "reason", "SMTP_ADDR not set; messages are recorded, not delivered")
		return &mail.CaptureMailer{}
	}
	logger.Info("mail.transport.smtp", "addr", cfg.SMTPAddr)
	return mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPass, cfg.OperatorEmail)
}

func newModel(cfg *config.Config) model.Model {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			o.Model = cfg.OpenAIModel
		})
	case config.ProviderAnthropic:
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.Model = anthropicsdk.Model(cfg.AnthropicModel)
			o.APIKey = cfg.AnthropicKey
		})
	default:
		return model.NewMockModel("mock-assistant")
	}
}
