package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sradmap/internal/config"
	"sradmap/internal/logging"
	"sradmap/internal/metrics"
	"sradmap/internal/session"
)

var version = "0.1.0"

// app is the state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     logging.Logger
}

// setup loads configuration and builds the logger. The TUI keeps its logs
// off the terminal.
func (a *app) setup(forTUI bool) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if forTUI {
		cfg.ForTUI()
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(log)
	a.cfg, a.log = cfg, log
	return nil
}

func (a *app) sessionOptions(m *metrics.Metrics) (session.Options, error) {
	ro, err := a.cfg.RenderOptions()
	if err != nil {
		return session.Options{}, err
	}
	hl, err := a.cfg.Highlight()
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		MaxScale:   a.cfg.Render.MaxScale,
		ZoomFactor: a.cfg.View.ZoomFactor,
		Render:     ro,
		Highlight:  hl,
		Logger:     a.log,
		Metrics:    m,
	}, nil
}

func (a *app) sync() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "sradmap",
		Short:         "Interactive solar radiation hex map",
		Long:          "sradmap draws a GeoJSON hex grid of monthly solar radiation medians and lets you pan, zoom and inspect it.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.BindFlags(a.v, cmd.Root().PersistentFlags())
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./sradmap.yaml or ~/.config/sradmap/sradmap.yaml)")
	pf.String("source", "", "GeoJSON path or http(s) URL")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: json or console")

	tuiCmd := newTUICmd(a)
	root.RunE = tuiCmd.RunE
	root.AddCommand(
		tuiCmd,
		newWindowCmd(a),
		newRenderCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newOpenAPICmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log := logging.Default()
		log.Error("command failed", logging.Err(err))
		_ = log.Sync()
		fmt.Fprintln(os.Stderr, "sradmap:", err)
		os.Exit(1)
	}
}
