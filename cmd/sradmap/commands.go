package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sradmap/internal/config"
	"sradmap/internal/logging"
	"sradmap/internal/metrics"
	"sradmap/internal/server"
	"sradmap/internal/session"
	"sradmap/internal/tui"
	"sradmap/internal/window"
)

// bindSize ties --width and --height of cmd to the render size keys. It runs
// in PreRunE so only the invoked command's flags are bound.
func bindSize(a *app, cmd *cobra.Command) error {
	if err := a.v.BindPFlag("render.width", cmd.Flags().Lookup("width")); err != nil {
		return err
	}
	return a.v.BindPFlag("render.height", cmd.Flags().Lookup("height"))
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Explore the map in the terminal (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(true); err != nil {
				return err
			}
			defer a.sync()
			opts, err := a.sessionOptions(nil)
			if err != nil {
				return err
			}
			m := tui.New(tui.Options{Source: a.cfg.Source, Session: opts, Logger: a.log})
			if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}

func newWindowCmd(a *app) *cobra.Command {
	var maxScale float64
	cmd := &cobra.Command{
		Use:     "window",
		Short:   "Explore the map in a desktop window",
		PreRunE: func(cmd *cobra.Command, args []string) error { return bindSize(a, cmd) },
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			defer a.sync()
			opts, err := a.sessionOptions(nil)
			if err != nil {
				return err
			}
			// A full K=12 surface of a window-sized viewport exceeds GPU
			// texture limits, so the window oversamples less by default.
			opts.MaxScale = maxScale

			w, h := a.cfg.Render.Width, a.cfg.Render.Height
			s, err := session.Open(cmd.Context(), a.cfg.Source, float64(w), float64(h), opts)
			if err != nil {
				return err
			}
			return window.Run(s, w, h, "sradmap", a.log)
		},
	}
	cmd.Flags().Int("width", 1280, "window width")
	cmd.Flags().Int("height", 800, "window height")
	cmd.Flags().Float64Var(&maxScale, "max-scale", 3, "surface oversampling factor")
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:     "render",
		Short:   "Draw the map to a PNG file",
		PreRunE: func(cmd *cobra.Command, args []string) error { return bindSize(a, cmd) },
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			defer a.sync()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts, err := a.sessionOptions(nil)
			if err != nil {
				return err
			}
			s, err := session.Open(ctx, a.cfg.Source, float64(a.cfg.Render.Width), float64(a.cfg.Render.Height), opts)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if err := png.Encode(f, s.Surface().Image()); err != nil {
				f.Close()
				return fmt.Errorf("render: encode: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			sum := s.Summary()
			a.log.Info("surface written",
				logging.String("out", out),
				logging.Int("width", sum.Width),
				logging.Int("height", sum.Height),
				logging.Int("shapes", sum.Shapes),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "map.png", "output PNG path")
	cmd.Flags().Int("width", 1280, "viewport width the surface is fitted to")
	cmd.Flags().Int("height", 800, "viewport height the surface is fitted to")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the map over HTTP",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindSize(a, cmd); err != nil {
				return err
			}
			if err := a.v.BindPFlag("server.host", cmd.Flags().Lookup("host")); err != nil {
				return err
			}
			return a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(false); err != nil {
				return err
			}
			defer a.sync()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := metrics.New(true)
			opts, err := a.sessionOptions(m)
			if err != nil {
				return err
			}
			s, err := session.Open(ctx, a.cfg.Source, float64(a.cfg.Render.Width), float64(a.cfg.Render.Height), opts)
			if err != nil {
				return err
			}
			srv := server.New(server.Config{Addr: a.cfg.Addr(), Version: version}, s, m, a.log)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().String("host", "127.0.0.1", "host to bind to")
	cmd.Flags().IntP("port", "p", 8080, "port to listen on")
	cmd.Flags().Int("width", 1280, "viewport width the surface is fitted to")
	cmd.Flags().Int("height", 800, "viewport height the surface is fitted to")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newOpenAPICmd(a *app) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Export the HTTP API description (JSON by default, --yaml for YAML)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			spec := server.New(server.Config{Addr: cfg.Addr(), Version: version}, nil, nil, nil).OpenAPI()
			var out []byte
			if asYAML {
				out, err = yaml.Marshal(spec)
			} else {
				out, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("openapi: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&asYAML, "yaml", "y", false, "output as YAML instead of JSON")
	return cmd
}
