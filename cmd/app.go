package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yates-Labs/promptchain/internal/catalog"
	"github.com/Yates-Labs/promptchain/internal/chain"
	"github.com/Yates-Labs/promptchain/internal/config"
	"github.com/Yates-Labs/promptchain/internal/console"
	"github.com/Yates-Labs/promptchain/internal/demo"
	"github.com/Yates-Labs/promptchain/internal/llm"
	"github.com/Yates-Labs/promptchain/internal/logging"
	"github.com/Yates-Labs/promptchain/internal/repl"
)

const assistantTemplate = "assistant"

// app is the state shared by every command once flags are parsed.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *catalog.Catalog
	backend llm.Backend
	theme   console.Theme
}

// newApp loads the environment, configuration, logger and template catalog.
// The backend is only built when withBackend is set, so commands that never
// call a model work without credentials.
func newApp(cmd *cobra.Command, withBackend bool) (*app, error) {
	if err := loadEnv(envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug("configuration loaded", zap.Stringer("config", cfg))

	cat, err := catalog.Load(templateDirs(cfg.TemplateDir)...)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		catalog: cat,
		theme:   console.DefaultTheme(),
	}

	if withBackend {
		if err := cfg.Resolve(config.EnvSecrets{}); err != nil {
			_ = logger.Sync()
			return nil, err
		}
		bc := cfg.BackendConfig()
		bc.Logger = logger
		a.backend, err = llm.New(bc)
		if err != nil {
			_ = logger.Sync()
			return nil, err
		}
		logger.Info("backend ready", zap.String("provider", a.backend.Provider()), zap.String("model", cfg.Model))
	}

	return a, nil
}

// Close flushes buffered log entries.
func (a *app) Close() {
	_ = a.logger.Sync()
}

// chainFor builds a chain for the named catalog template using the
// configured defaults overlaid with the template's own settings.
func (a *app) chainFor(name string) (*chain.Chain, error) {
	entry, err := a.catalog.Get(name)
	if err != nil {
		return nil, err
	}
	opts := a.cfg.Overlay(entry.Options(a.cfg.Options()))
	return chain.New(entry.Name, entry.Prompt, a.backend, opts, a.logger)
}

// demoRunner builds a demo runner writing to out. An explicit temperature
// replaces the per-template demo temperatures.
func (a *app) demoRunner(out io.Writer) *demo.Runner {
	runner := demo.NewRunner(a.catalog, a.backend, a.cfg.Options(), out, a.theme, a.logger)
	if a.cfg.TemperatureSet {
		runner.PinTemperature(a.cfg.Temperature)
	}
	return runner
}

// chat runs the interactive loop on the assistant template.
func (a *app) chat(ctx context.Context, prompter *console.Prompter, out io.Writer) error {
	c, err := a.chainFor(assistantTemplate)
	if err != nil {
		return err
	}
	session, err := repl.NewSession(c, prompter, out, a.theme, a.logger)
	if err != nil {
		return err
	}
	return session.Run(ctx)
}

// loadEnv loads a .env file. The default file is optional; an explicit
// --env-file must exist.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// applyFlags overrides environment configuration with flags the user set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.SetProvider(providerName, modelName)
	} else if flags.Changed("model") {
		cfg.Model = modelName
	}
	if flags.Changed("temperature") {
		cfg.SetTemperature(temperature)
	}
	if flags.Changed("template-dir") {
		cfg.TemplateDir = templateDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(logLevel))
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// templateDirs lists template directories in precedence order: the
// configured directory, then the project and user directories.
func templateDirs(configured string) []string {
	var dirs []string
	if configured != "" {
		dirs = append(dirs, configured)
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	return append(dirs, catalog.SearchPaths(wd)...)
}
