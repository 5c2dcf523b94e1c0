// Package config loads sradmap settings from flags, environment, an optional
// YAML file and built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"sradmap/internal/colormap"
	"sradmap/internal/geom"
	"sradmap/internal/logging"
	"sradmap/internal/render"
	"sradmap/internal/view"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

const (
	envPrefix = "SRADMAP"
	fileName  = "sradmap"

	// DefaultSource is where the hex solar-radiation dataset is usually served.
	DefaultSource = "data/hex025-srad-median.geo.json"
	// TUILogFile keeps log lines off the terminal while the TUI owns it.
	TUILogFile = "sradmap.log"
)

type Config struct {
	Source string         `mapstructure:"source" yaml:"source"`
	Log    logging.Config `mapstructure:"log" yaml:"log"`
	Render RenderConfig   `mapstructure:"render" yaml:"render"`
	Value  ValueConfig    `mapstructure:"value" yaml:"value"`
	View   ViewConfig     `mapstructure:"view" yaml:"view"`
	Server ServerConfig   `mapstructure:"server" yaml:"server"`
}

type RenderConfig struct {
	// MaxScale is the oversampling factor K.
	MaxScale       float64 `mapstructure:"max_scale" yaml:"max_scale"`
	Width          int     `mapstructure:"width" yaml:"width"`
	Height         int     `mapstructure:"height" yaml:"height"`
	Ramp           string  `mapstructure:"ramp" yaml:"ramp"`
	MinValue       float64 `mapstructure:"min_value" yaml:"min_value"`
	MaxValue       float64 `mapstructure:"max_value" yaml:"max_value"`
	StrokeColor    string  `mapstructure:"stroke_color" yaml:"stroke_color"`
	StrokeAlpha    float64 `mapstructure:"stroke_alpha" yaml:"stroke_alpha"`
	StrokeWidth    float64 `mapstructure:"stroke_width" yaml:"stroke_width"`
	HighlightColor string  `mapstructure:"highlight_color" yaml:"highlight_color"`
}

type ValueConfig struct {
	Mode   string   `mapstructure:"mode" yaml:"mode"`
	Field  string   `mapstructure:"field" yaml:"field"`
	Fields []string `mapstructure:"fields" yaml:"fields"`
}

type ViewConfig struct {
	ZoomFactor float64 `mapstructure:"zoom_factor" yaml:"zoom_factor"`
}

type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// New returns a viper instance with defaults and SRADMAP_ env binding, so
// that render.max_scale can be set with SRADMAP_RENDER_MAX_SCALE.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("source", DefaultSource)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_paths", []string{"stderr"})

	v.SetDefault("render.max_scale", geom.MaxScale)
	v.SetDefault("render.width", 1280)
	v.SetDefault("render.height", 800)
	v.SetDefault("render.ramp", "spectral")
	v.SetDefault("render.min_value", 0.0)
	v.SetDefault("render.max_value", 25500.0)
	v.SetDefault("render.stroke_color", "#000000")
	v.SetDefault("render.stroke_alpha", 0.25)
	v.SetDefault("render.stroke_width", 1.0)
	v.SetDefault("render.highlight_color", "#cccccc")

	v.SetDefault("value.mode", string(render.Average))
	v.SetDefault("value.field", render.MonthlyFields[0])
	v.SetDefault("value.fields", render.MonthlyFields)

	v.SetDefault("view.zoom_factor", view.DefaultZoomFactor)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
}

// BindFlags ties the global persistent flags to their keys.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	binds := map[string]string{
		"source":     "source",
		"log.level":  "log-level",
		"log.format": "log-format",
	}
	for key, name := range binds {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("config: bind %s: %w", name, err)
		}
	}
	return nil
}

// Load reads path, or looks for sradmap.yaml in the working directory and
// $HOME/.config/sradmap when path is empty. A missing default file is not
// an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(fileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "sradmap"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	r := c.Render
	if r.MaxScale <= 0 {
		errs = append(errs, fmt.Errorf("render.max_scale must be positive, got %g", r.MaxScale))
	}
	if r.Width <= 0 || r.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %dx%d", r.Width, r.Height))
	}
	if r.MinValue >= r.MaxValue {
		errs = append(errs, fmt.Errorf("render.min_value %g must be below render.max_value %g", r.MinValue, r.MaxValue))
	}
	if _, err := colormap.Lookup(r.Ramp); err != nil {
		errs = append(errs, err)
	}
	if r.StrokeAlpha < 0 || r.StrokeAlpha > 1 {
		errs = append(errs, fmt.Errorf("render.stroke_alpha must be within [0,1], got %g", r.StrokeAlpha))
	}
	if r.StrokeWidth < 0 {
		errs = append(errs, fmt.Errorf("render.stroke_width must not be negative, got %g", r.StrokeWidth))
	}
	if _, err := colormap.ParseHex(r.StrokeColor, 1); err != nil {
		errs = append(errs, fmt.Errorf("render.stroke_color: %w", err))
	}
	if _, err := colormap.ParseHex(r.HighlightColor, 1); err != nil {
		errs = append(errs, fmt.Errorf("render.highlight_color: %w", err))
	}

	mode, err := render.ParseValueMode(c.Value.Mode)
	if err != nil {
		errs = append(errs, err)
	}
	if mode == render.Single && c.Value.Field == "" {
		errs = append(errs, errors.New("value.field is required in single mode"))
	}
	if mode == render.Average && len(c.Value.Fields) == 0 {
		errs = append(errs, errors.New("value.fields is required in average mode"))
	}

	if z := c.View.ZoomFactor; z < 1.1 || z > 1.2 {
		errs = append(errs, fmt.Errorf("view.zoom_factor must be within [1.1,1.2], got %g", z))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// RenderOptions converts the render and value sections for the painter.
func (c *Config) RenderOptions() (render.Options, error) {
	opts := render.DefaultOptions()
	ramp, err := colormap.Lookup(c.Render.Ramp)
	if err != nil {
		return opts, err
	}
	mode, err := render.ParseValueMode(c.Value.Mode)
	if err != nil {
		return opts, err
	}
	stroke, err := colormap.ParseHex(c.Render.StrokeColor, c.Render.StrokeAlpha)
	if err != nil {
		return opts, err
	}
	opts.Ramp = ramp
	opts.Mode = mode
	opts.Field = c.Value.Field
	opts.Fields = c.Value.Fields
	opts.MinValue = c.Render.MinValue
	opts.MaxValue = c.Render.MaxValue
	opts.Stroke = stroke
	opts.StrokeWidth = c.Render.StrokeWidth
	return opts, nil
}

// Highlight parses the click highlight colour.
func (c *Config) Highlight() (color.NRGBA, error) {
	return colormap.ParseHex(c.Render.HighlightColor, 1)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ForTUI sends logs to TUILogFile when they would otherwise hit the
// terminal.
func (c *Config) ForTUI() {
	var paths []string
	for _, p := range c.Log.OutputPaths {
		if p != "stdout" && p != "stderr" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		paths = []string{TUILogFile}
	}
	c.Log.OutputPaths = paths
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
