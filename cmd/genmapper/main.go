// Package main provides the genmapper command-line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/inodb/genmapper/internal/genbank"
	"github.com/inodb/genmapper/internal/ncbi"
	"github.com/inodb/genmapper/internal/render"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const configName = ".genmapper"

// config mirrors the keys of ~/.genmapper.yaml.
type config struct {
	Parser struct {
		BufferSize int `mapstructure:"buffer_size"`
	} `mapstructure:"parser"`
	Cache struct {
		Enabled bool   `mapstructure:"enabled"`
		Dir     string `mapstructure:"dir"`
	} `mapstructure:"cache"`
	Index struct {
		DB      string `mapstructure:"db"`
		Workers int    `mapstructure:"workers"`
	} `mapstructure:"index"`
	NCBI struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
	} `mapstructure:"ncbi"`
	Map render.Settings `mapstructure:"map"`
}

// app holds state shared by all subcommands once flags are parsed.
type app struct {
	cfgFile string
	verbose bool
	cfg     config
	logger  *zap.Logger
}

// usageError marks errors caused by bad arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{logger: zap.NewNop()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.logger.Sync()
	if err == nil {
		return ExitSuccess
	}

	red := color.New(color.FgRed, color.Bold)
	red.Fprint(stderr, "Error: ")
	fmt.Fprintln(stderr, err)

	var uerr *usageError
	switch {
	case errors.As(err, &uerr):
		fmt.Fprintln(stderr, "Run 'genmapper --help' for usage.")
		return ExitUsage
	case errors.Is(err, genbank.ErrNoFeatures):
		fmt.Fprintln(stderr, "Hint: the file needs a FEATURES table with a source feature and /organism qualifier")
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(stderr, "Hint: Check that the file path is correct")
	}
	return ExitError
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "genmapper",
		Short: "Draw circular genome maps from GenBank files",
		Long: `genmapper reads the FEATURES table of GenBank flat files and draws
circular genome maps, prints gene tables, and indexes gene locations
across many records.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetVersionTemplate("genmapper version {{.Version}}\n")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ~/.genmapper.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log skipped lines and cache activity")

	root.AddCommand(
		newMapCmd(a),
		newInspectCmd(a),
		newIndexCmd(a),
		newLookupCmd(a),
		newFetchCmd(a),
		newCacheCmd(a),
		newConfigCmd(a),
	)
	return root
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// minimumArgs is cobra.MinimumNArgs reporting a usage error.
func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// init reads the config file and environment and builds the logger.
func (a *app) init() error {
	if err := initConfig(a.cfgFile); err != nil {
		return err
	}
	if err := viper.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	logger, err := newLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = logger
	return nil
}

func initConfig(cfgFile string) error {
	setDefaults()

	viper.SetEnvPrefix("GENMAPPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults() {
	dataDir := ".genmapper"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".genmapper")
	}

	viper.SetDefault("parser.buffer_size", genbank.DefaultBufferSize)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dir", filepath.Join(dataDir, "cache"))
	viper.SetDefault("index.db", filepath.Join(dataDir, "index.duckdb"))
	viper.SetDefault("index.workers", 0)
	viper.SetDefault("ncbi.base_url", ncbi.DefaultBaseURL)
	viper.SetDefault("ncbi.api_key", "")

	for k, v := range settingsMap(render.DefaultSettings()) {
		viper.SetDefault("map."+k, v)
	}
}

// settingsMap flattens render settings into their yaml keys.
func settingsMap(s render.Settings) map[string]any {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil
	}
	m := make(map[string]any)
	if err := yaml.Unmarshal(out, &m); err != nil {
		return nil
	}
	return m
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !verbose
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}
