package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"script-split/internal/app"
	"script-split/internal/config"
	"script-split/internal/logger"
)

// overrides holds flags layered over the environment config.
type overrides struct {
	logLevel string
	provider string
	model    string
	timeout  time.Duration
	attempts int
}

func registerFlags(fs *pflag.FlagSet, o *overrides) {
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error (default LOG_LEVEL)")
	fs.StringVar(&o.provider, "provider", "", "Smart split provider: gemini, openai, none (default LLM_PROVIDER)")
	fs.StringVar(&o.model, "model", "", "Smart split model (default LLM_MODEL)")
	fs.DurationVar(&o.timeout, "timeout", 0, "Total smart split timeout (default SMART_SPLIT_TIMEOUT)")
	fs.IntVar(&o.attempts, "attempts", 0, "Smart split attempts (default SMART_SPLIT_ATTEMPTS)")
}

func (o overrides) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if fs.Changed("provider") {
		cfg.LLMProvider = o.provider
	}
	if fs.Changed("model") {
		cfg.LLMModel = o.model
	}
	if fs.Changed("timeout") {
		cfg.SmartSplitTimeout = o.timeout
	}
	if fs.Changed("attempts") {
		cfg.SmartSplitAttempts = o.attempts
	}
}

// session is the state shared between the root command and its subcommands.
type session struct {
	deps   app.Deps
	loaded bool
}

func (s *session) require() (app.Deps, error) {
	if !s.loaded {
		return app.Deps{}, errors.New("configuration not loaded")
	}
	return s.deps, nil
}

func NewRootCmd() *cobra.Command {
	var o overrides
	s := &session{}

	cmd := &cobra.Command{
		Use:           "scriptsplit",
		Short:         "Split long scripts into bounded chunks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			o.apply(cmd.Flags(), &cfg)

			log := logger.New(cfg.LogLevel, cmd.ErrOrStderr())
			deps, err := app.Assemble(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			s.deps = deps
			s.loaded = true
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if s.loaded {
				s.deps.Close()
			}
		},
	}

	registerFlags(cmd.PersistentFlags(), &o)

	cmd.AddCommand(newSplitCmd(s))

	return cmd
}
