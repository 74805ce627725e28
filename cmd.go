package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"markestedt/clipslots/config"
	"markestedt/clipslots/report"
	"markestedt/clipslots/slots"
	"markestedt/clipslots/systray"
)

// loadConfig loads the config from path, or the default location when empty
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		forceColor bool
	)

	rootCmd := &cobra.Command{
		Use:   "clipslots",
		Short: "clipslots - ten clipboard slots on global hotkeys",
		Long: `clipslots keeps ten persistent clipboard slots.

Ctrl+Shift+<digit> copies the current selection into a slot,
Ctrl+Alt+<digit> pastes it back. Digit 0 addresses slot 10.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(configPath)
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Changed("color") {
				report.SetColor(forceColor)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&forceColor, "color", false, "Force colored output on or off (default: on for terminals)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Start the hotkey listener (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDaemon(configPath)
			},
		},
		&cobra.Command{
			Use:   "slots",
			Short: "List the stored slots",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := openStore(configPath)
				if err != nil {
					return err
				}
				printSlots(cmd.OutOrStdout(), store.Snapshot())
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear <slot>",
			Short: "Clear one slot (1-10)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				index, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid slot %q: %w", args[0], err)
				}
				store, err := openStore(configPath)
				if err != nil {
					return err
				}
				store.Subscribe(report.New(cmd.OutOrStdout()).Handle)
				cleared, err := store.Reset(index)
				if err != nil {
					return err
				}
				if !cleared {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already empty.\n", slots.Label(index))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "config",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Path())
				return nil
			},
		},
	)

	return rootCmd
}

// openStore loads the slot file named by the config, without a clipboard
// bridge. Only Reset and reads are available on it.
func openStore(configPath string) (*slots.Store, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return slots.Open(slots.Options{Path: cfg.SlotFile()})
}

func printSlots(w io.Writer, snapshot []slots.Slot) {
	for _, s := range snapshot {
		content := s.Content
		if s.Empty() {
			content = "-"
		}
		fmt.Fprintf(w, "%-4s %s\n", slots.Label(s.Index), content)
	}
}

func runDaemon(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(cfg)
	slog.Info("Configuration loaded", "path", cfg.Path())

	agent, err := NewAgent(cfg)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !cfg.Tray.Enabled {
		return agent.Run(ctx)
	}

	webPort := 0
	if cfg.Web.Enabled {
		webPort = cfg.Web.Port
	}
	tray := systray.NewSystrayManager(agent.Store(), agent.Sampler(), webPort, cfg.MetricsInterval())

	err = runWithTray(ctx, cancel, tray, agent.Run)
	slog.Info("clipslots stopped")
	return err
}

// trayRunner is the part of the tray runDaemon drives
type trayRunner interface {
	Run()
	Stop()
	Ready() <-chan struct{}
	WaitForQuit() <-chan struct{}
}

// runWithTray runs the tray on the calling goroutine and run beside it.
// run starts only once the tray is ready, so every Stop lands on a live
// tray. A run failure stops the tray and is returned.
func runWithTray(ctx context.Context, cancel context.CancelFunc, tray trayRunner, run func(context.Context) error) error {
	errCh := make(chan error, 1)
	go func() {
		<-tray.Ready()

		go func() {
			errCh <- run(ctx)
			tray.Stop()
		}()

		select {
		case <-tray.WaitForQuit():
			cancel()
		case <-ctx.Done():
			tray.Stop()
		}
	}()

	tray.Run()
	cancel()

	select {
	case <-tray.Ready():
	default:
		return errors.New("system tray exited before it was ready")
	}
	return <-errCh
}
