package clubar

import (
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/clubar/internal/version"
	"github.com/arthur-debert/clubar/pkg/bar"
	"github.com/arthur-debert/clubar/pkg/cobrax/topics"
	"github.com/arthur-debert/clubar/pkg/config"
	"github.com/arthur-debert/clubar/pkg/frontend/ansi"
	"github.com/arthur-debert/clubar/pkg/frontend/tui"
	"github.com/arthur-debert/clubar/pkg/logging"
	"github.com/arthur-debert/clubar/pkg/metrics"
)

// barFlags holds the flags that override configuration keys.
type barFlags struct {
	configPath  string
	topBar      bool
	geometry    string
	padding     string
	margin      string
	foreground  string
	background  string
	fonts       []string
	frontend    string
	color       string
	customFile  string
	metricsAddr string
}

// overrides returns the config keys of the flags set on the command line.
func (f *barFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	values := map[string]interface{}{
		"topbar":       f.topBar,
		"geometry":     f.geometry,
		"padding":      f.padding,
		"margin":       f.margin,
		"foreground":   f.foreground,
		"background":   f.background,
		"fonts":        f.fonts,
		"frontend":     f.frontend,
		"color":        f.color,
		"custom_file":  f.customFile,
		"metrics_addr": f.metricsAddr,
	}
	flagNames := map[string]string{
		"topbar":       "topbar",
		"geometry":     "geometry",
		"padding":      "padding",
		"margin":       "margin",
		"foreground":   "foreground",
		"background":   "background",
		"fonts":        "fonts",
		"frontend":     "frontend",
		"color":        "color",
		"custom_file":  "custom-file",
		"metrics_addr": "metrics-addr",
	}

	overrides := make(map[string]interface{})
	for key, flag := range flagNames {
		if cmd.Flags().Changed(flag) {
			overrides[key] = values[key]
		}
	}
	return overrides
}

func (f *barFlags) loadOptions(cmd *cobra.Command) config.LoadOptions {
	return config.LoadOptions{
		Path:      f.configPath,
		Overrides: f.overrides(cmd),
	}
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		flags     barFlags
	)

	rootCmd := &cobra.Command{
		Use:     "clubar",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBar(cmd, &flags, verbosity)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", MsgFlagConfig)

	f := rootCmd.PersistentFlags()
	f.BoolVarP(&flags.topBar, "topbar", "t", false, MsgFlagTopBar)
	f.StringVarP(&flags.geometry, "geometry", "g", "", MsgFlagGeometry)
	f.StringVarP(&flags.padding, "padding", "p", "", MsgFlagPadding)
	f.StringVarP(&flags.margin, "margin", "m", "", MsgFlagMargin)
	f.StringVarP(&flags.foreground, "foreground", "f", "", MsgFlagForeground)
	f.StringVarP(&flags.background, "background", "b", "", MsgFlagBackground)
	f.StringSliceVar(&flags.fonts, "fonts", nil, MsgFlagFonts)
	f.StringVar(&flags.frontend, "frontend", "", MsgFlagFrontend)
	f.StringVar(&flags.color, "color", "", MsgFlagColor)
	f.StringVar(&flags.customFile, "custom-file", "", MsgFlagCustomFile)
	f.StringVar(&flags.metricsAddr, "metrics-addr", "", MsgFlagMetricsAddr)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "config", Title: "CONFIGURATION:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newParseCmd(&flags))
	rootCmd.AddCommand(newGenConfigCmd(&flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	if _, err := topics.Initialize(rootCmd, Topics(), topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	}); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// pickFrontend resolves "auto" from where output goes.
func pickFrontend(name string, out io.Writer) string {
	if name != config.FrontendAuto {
		return name
	}
	if file, ok := out.(*os.File); ok && ansi.IsTerminal(file) {
		return config.FrontendTUI
	}
	return config.FrontendANSI
}

func runBar(cmd *cobra.Command, flags *barFlags, verbosity int) error {
	opts := flags.loadOptions(cmd)
	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}

	name := pickFrontend(cfg.Frontend, cmd.OutOrStdout())
	logging.SetupLoggerWithOptions(logging.Options{
		Verbosity: verbosity,
		Console:   name != config.FrontendTUI,
	})

	reg := prometheus.NewRegistry()
	b, err := bar.New(cfg, bar.WithMetrics(metrics.New(reg)))
	if err != nil {
		return err
	}

	var frontend bar.Frontend
	switch name {
	case config.FrontendTUI:
		t, err := tui.New(nil)
		if err != nil {
			b.Close()
			return err
		}
		frontend = t
	default:
		frontend = ansi.New(cmd.OutOrStdout(), cfg.Color)
	}

	runner := &bar.Runner{
		Bar:         b,
		Frontend:    frontend,
		Input:       cmd.InOrStdin(),
		ExitOnEOF:   name == config.FrontendANSI && cfg.CustomFile == "",
		CustomFile:  cfg.CustomFile,
		MetricsAddr: cfg.MetricsAddr,
		Gatherer:    reg,
	}
	if cfg.Source != "" {
		opts.Path = cfg.Source
		runner.Config = &opts
	}

	log.Info().
		Str("frontend", name).
		Str("config", cfg.Source).
		Str("custom", cfg.CustomFile).
		Msg("Starting bar")
	return runner.Run(cmd.Context())
}
