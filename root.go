package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"scratchcalc/app"
	"scratchcalc/hal"
	"scratchcalc/internal/config"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
)

const logFile = config.AppName + "/scratchcalc.log"

// NewRootCmd creates the root command. Without a subcommand it runs the
// calculator.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scratchcalc",
		Short: "Calculator that reveals results on a scratch card",
		Long: `scratchcalc is a four-function calculator. Pressing = hides the result
under a metallic scratch-off card; rub the card with the mouse or a finger
until enough of it is gone and the result lands on the display.

By default a desktop window is opened. Use --terminal to draw into the
current terminal or --headless to run without any output.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runRoot,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.Flags().StringP("config", "c", "",
		fmt.Sprintf("Config file (default: search %s in the XDG config dirs)", config.DefaultConfigFile))
	cmd.Flags().Bool("headless", false, "Run without a window")
	cmd.Flags().Bool("terminal", false, "Draw into the terminal")
	cmd.Flags().Float64("density", 0, "Framebuffer pixels per display pixel (0 = monitor default)")
	cmd.Flags().Int("zoom", config.DefaultZoom, "Window zoom factor")
	cmd.Flags().Float64("brush", config.DefaultBrushRadius, "Scratch brush radius in display pixels")
	cmd.Flags().String("locale", config.DefaultLocale, "Locale used to format revealed results")
	cmd.Flags().Bool("sound", false, "Play chimes while scratching")
	cmd.Flags().Int("hz", config.DefaultHz, "Frame rate in headless mode")
	cmd.Flags().Uint64("ticks", 0, "Stop after N frames in headless mode (0 = run forever)")
	cmd.MarkFlagsMutuallyExclusive("headless", "terminal")

	cmd.AddCommand(NewSimCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	headless, _ := cmd.Flags().GetBool("headless")
	terminal, _ := cmd.Flags().GetBool("terminal")

	appCfg := app.Config{
		BrushRadius: cfg.Card.BrushRadius,
		Seed:        cfg.Card.Seed,
		Locale:      cfg.Language(),
		Sound:       cfg.Sound.Enabled,
		Volume:      cfg.Sound.Volume,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case headless:
		logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
		_, err = runApp(appCfg, func(newApp func(hal.HAL) func() error) error {
			return hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
				Width:  cfg.Window.Width,
				Height: cfg.Window.Height,
				Scale:  cfg.Card.Density,
				Hz:     cfg.Headless.Hz,
				Ticks:  cfg.Headless.Ticks,
				Log:    logger,
			})
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err

	case terminal:
		// The terminal is the display, so logs go to a file.
		path, err := xdg.StateFile(logFile)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path comes from xdg
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		defer f.Close()
		_, err = runApp(appCfg, func(newApp func(hal.HAL) func() error) error {
			return hal.RunTerminal(ctx, newApp, hal.TerminalConfig{
				Hz:  cfg.Headless.Hz,
				Log: setupLogger(f, cfg.Verbose),
			})
		})
		return err

	default:
		_, err = runApp(appCfg, func(newApp func(hal.HAL) func() error) error {
			return hal.RunWindow(newApp, hal.WindowConfig{
				Width:  cfg.Window.Width,
				Height: cfg.Window.Height,
				Scale:  cfg.Card.Density,
				Zoom:   cfg.Window.Zoom,
				Log:    setupLogger(cmd.ErrOrStderr(), cfg.Verbose),
			})
		})
		return err
	}
}

// runApp hands run the constructor the hal runners expect and stops the
// system it built once run returns.
func runApp(cfg app.Config, run func(newApp func(hal.HAL) func() error) error) (*app.System, error) {
	var sys *app.System
	err := run(func(h hal.HAL) func() error {
		sys = app.Start(h, cfg)
		return sys.Step
	})
	if sys != nil {
		sys.Stop()
	}
	return sys, err
}

// loadConfig layers the config file and the changed flags over the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg := config.NewConfig()
	path := config.FindConfigFile(explicit)
	switch {
	case path != "":
		cfg, err = config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	case explicit != "":
		return nil, fmt.Errorf("%s: %w", explicit, config.ErrConfigNotFound)
	}

	flags := cmd.Flags()
	if flags.Changed("density") {
		cfg.Card.Density, _ = flags.GetFloat64("density")
	}
	if flags.Changed("zoom") {
		cfg.Window.Zoom, _ = flags.GetInt("zoom")
	}
	if flags.Changed("brush") {
		cfg.Card.BrushRadius, _ = flags.GetFloat64("brush")
	}
	if flags.Changed("locale") {
		cfg.Locale, _ = flags.GetString("locale")
	}
	if flags.Changed("sound") {
		cfg.Sound.Enabled, _ = flags.GetBool("sound")
	}
	if flags.Changed("hz") {
		cfg.Headless.Hz, _ = flags.GetInt("hz")
	}
	if flags.Changed("ticks") {
		cfg.Headless.Ticks, _ = flags.GetUint64("ticks")
	}
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err == nil && verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger creates a text logger at info level, or debug when verbose.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return hal.NewLogWriterLogger(w, level)
}
