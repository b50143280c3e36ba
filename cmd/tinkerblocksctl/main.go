package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tinkerblocks/core/core/types"
	"github.com/tinkerblocks/core/hardware"
	"github.com/tinkerblocks/core/internal/config"
	"github.com/tinkerblocks/core/internal/gridwatch"
	"github.com/tinkerblocks/core/runtime/executor"
	"github.com/tinkerblocks/core/runtime/grid"
)

func main() {
	var configPath string
	var mock bool

	rootCmd := &cobra.Command{
		Use:   "tinkerblocksctl",
		Short: "Run and watch TinkerBlocks program grids",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&mock, "mock", false, "use the in-memory mock hardware backend instead of hardware_kind from config")

	rootCmd.AddCommand(newRunCmd(&configPath, &mock), newWatchCmd(&configPath, &mock))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd(configPath *string, mock *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "run <grid.json>",
		Short: "Execute a single grid file and print its result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *mock)
			if err != nil {
				return err
			}
			result, err := runGridFile(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}
			return json.NewEncoder(os.Stdout).Encode(result)
		},
	}
}

func newWatchCmd(configPath *string, mock *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-run every grid file in a directory whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *mock)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			sink := stderrSink()
			return gridwatch.Watch(ctx, args[0], sink, func(path string) {
				result, err := runGridFile(ctx, path, cfg)
				if err != nil {
					sink(fmt.Sprintf("%s: %v", path, err), types.Error)
					return
				}
				data, _ := json.Marshal(result)
				fmt.Println(string(data))
			})
		},
	}
}

// loadConfig loads cfg from configPath, forcing HardwareKind to "mock" when
// the --mock flag is set, regardless of what the config file says.
func loadConfig(configPath string, mock bool) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if mock {
		cfg.HardwareKind = "mock"
	}
	return cfg, nil
}

func runGridFile(ctx context.Context, path string, cfg config.Config) (executor.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return executor.Result{}, fmt.Errorf("read grid file: %w", err)
	}

	validator, err := grid.NewValidator(cfg.GridRows, cfg.GridCols)
	if err != nil {
		return executor.Result{}, fmt.Errorf("build grid validator: %w", err)
	}
	g, err := validator.ValidateJSON(data)
	if err != nil {
		return executor.Result{}, fmt.Errorf("invalid grid: %w", err)
	}

	exec, err := executor.New(cfg)
	if err != nil {
		return executor.Result{}, fmt.Errorf("build executor: %w", err)
	}

	hw, err := newHardware(cfg)
	if err != nil {
		return executor.Result{}, err
	}

	result := exec.Execute(ctx, g, stderrSink(), hw, cfg)
	return result, nil
}

// newHardware builds the backend named by cfg.HardwareKind.
func newHardware(cfg config.Config) (hardware.Interface, error) {
	switch cfg.HardwareKind {
	case "", "http":
		return hardware.NewHTTPCar(cfg.HardwareBaseURL, cfg.HardwareTimeout, cfg.HardwareHMACKey), nil
	case "mock":
		return hardware.NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown hardware_kind %q (want \"http\" or \"mock\")", cfg.HardwareKind)
	}
}

func stderrSink() types.Sink {
	return func(text string, level types.LogLevel) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", level, text)
	}
}

// signalContext cancels on SIGINT/SIGTERM so a running grid's hardware
// calls and WAITs unwind through ctx.Done() instead of the process dying
// mid-move.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}
