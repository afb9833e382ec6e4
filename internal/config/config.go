// Package config loads docstruct settings from a YAML or TOML file.
//
// A file only needs to name the settings it changes; everything else
// keeps the library defaults:
//
//	paragraphs:
//	  paragraph_threshold: 24
//	output:
//	  format: markdown
//	  number_blocks: true
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/docstruct/layout"
	"github.com/tsawler/docstruct/render"
)

// Config is the top-level docstruct configuration.
type Config struct {
	ReadingOrder ReadingOrderConfig `yaml:"reading_order" toml:"reading_order"`
	Classifier   ClassifierConfig   `yaml:"classifier" toml:"classifier"`
	Tables       TablesConfig       `yaml:"tables" toml:"tables"`
	Lists        ListsConfig        `yaml:"lists" toml:"lists"`
	Paragraphs   ParagraphsConfig   `yaml:"paragraphs" toml:"paragraphs"`
	Output       OutputConfig       `yaml:"output" toml:"output"`
	Server       ServerConfig       `yaml:"server" toml:"server"`
	Log          LogConfig          `yaml:"log" toml:"log"`
}

// ReadingOrderConfig controls element ordering.
type ReadingOrderConfig struct {
	YTolerance    float64 `yaml:"y_tolerance" toml:"y_tolerance"`
	InvertedY     bool    `yaml:"inverted_y" toml:"inverted_y"`
	NormalizeText bool    `yaml:"normalize_text" toml:"normalize_text"`
}

// ClassifierConfig names the structural path markers.
type ClassifierConfig struct {
	TitleMarker     string   `yaml:"title_marker" toml:"title_marker"`
	HeadingPrefix   string   `yaml:"heading_prefix" toml:"heading_prefix"`
	FigureMarker    string   `yaml:"figure_marker" toml:"figure_marker"`
	TableMarker     string   `yaml:"table_marker" toml:"table_marker"`
	CellMarkers     []string `yaml:"cell_markers" toml:"cell_markers"`
	ListMarker      string   `yaml:"list_marker" toml:"list_marker"`
	ListLabelMarker string   `yaml:"list_label_marker" toml:"list_label_marker"`
	ListBodyMarker  string   `yaml:"list_body_marker" toml:"list_body_marker"`
	InlineMarkers   []string `yaml:"inline_markers" toml:"inline_markers"`
}

// TablesConfig controls table reconstruction.
type TablesConfig struct {
	HeaderCellMarker string `yaml:"header_cell_marker" toml:"header_cell_marker"`
	Parallel         bool   `yaml:"parallel" toml:"parallel"`
	MaxWorkers       int    `yaml:"max_workers" toml:"max_workers"`
	MaxRows          int    `yaml:"max_rows" toml:"max_rows"`
	MaxCols          int    `yaml:"max_cols" toml:"max_cols"`
}

// ListsConfig controls list label and body pairing.
type ListsConfig struct {
	LookAhead        int     `yaml:"look_ahead" toml:"look_ahead"`
	LineHeightFactor float64 `yaml:"line_height_factor" toml:"line_height_factor"`
	MinLineTolerance float64 `yaml:"min_line_tolerance" toml:"min_line_tolerance"`
}

// ParagraphsConfig controls line and paragraph segmentation.
type ParagraphsConfig struct {
	LineThreshold       float64 `yaml:"line_threshold" toml:"line_threshold"`
	ParagraphThreshold  float64 `yaml:"paragraph_threshold" toml:"paragraph_threshold"`
	MarginTolerance     float64 `yaml:"margin_tolerance" toml:"margin_tolerance"`
	ContinueAcrossPages bool    `yaml:"continue_across_pages" toml:"continue_across_pages"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format       string `yaml:"format" toml:"format"`
	NumberBlocks bool   `yaml:"number_blocks" toml:"number_blocks"`
	Sanitize     bool   `yaml:"sanitize" toml:"sanitize"`
	Standalone   bool   `yaml:"standalone" toml:"standalone"`
	Indent       bool   `yaml:"indent" toml:"indent"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr            string   `yaml:"addr" toml:"addr"`
	MaxBodyBytes    int64    `yaml:"max_body_bytes" toml:"max_body_bytes"`
	ReadTimeout     Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	RateLimit       float64  `yaml:"rate_limit" toml:"rate_limit"` // requests per second, 0 disables
	RateBurst       int      `yaml:"rate_burst" toml:"rate_burst"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug | info | warn | error
	Format string `yaml:"format" toml:"format"` // text | json
}

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the configuration matching the library defaults.
func Default() *Config {
	a := layout.DefaultAnalyzerConfig()
	r := render.DefaultOptions()
	return &Config{
		ReadingOrder: ReadingOrderConfig{
			YTolerance:    a.ReadingOrderConfig.YTolerance,
			InvertedY:     a.ReadingOrderConfig.InvertedY,
			NormalizeText: a.ReadingOrderConfig.NormalizeText,
		},
		Classifier: ClassifierConfig{
			TitleMarker:     a.ClassifierConfig.TitleMarker,
			HeadingPrefix:   a.ClassifierConfig.HeadingPrefix,
			FigureMarker:    a.ClassifierConfig.FigureMarker,
			TableMarker:     a.ClassifierConfig.TableMarker,
			CellMarkers:     a.ClassifierConfig.CellMarkers,
			ListMarker:      a.ClassifierConfig.ListMarker,
			ListLabelMarker: a.ClassifierConfig.ListLabelMarker,
			ListBodyMarker:  a.ClassifierConfig.ListBodyMarker,
			InlineMarkers:   a.ClassifierConfig.InlineMarkers,
		},
		Tables: TablesConfig{
			HeaderCellMarker: a.TableConfig.HeaderCellMarker,
			Parallel:         a.TableConfig.Parallel,
			MaxWorkers:       a.TableConfig.MaxWorkers,
			MaxRows:          a.TableConfig.MaxRows,
			MaxCols:          a.TableConfig.MaxCols,
		},
		Lists: ListsConfig{
			LookAhead:        a.ListConfig.LookAhead,
			LineHeightFactor: a.ListConfig.LineHeightFactor,
			MinLineTolerance: a.ListConfig.MinLineTolerance,
		},
		Paragraphs: ParagraphsConfig{
			LineThreshold:       a.ParagraphConfig.LineThreshold,
			ParagraphThreshold:  a.ParagraphConfig.ParagraphThreshold,
			MarginTolerance:     a.ParagraphConfig.MarginTolerance,
			ContinueAcrossPages: a.ParagraphConfig.ContinueAcrossPages,
		},
		Output: OutputConfig{
			Format:       render.FormatHTML.String(),
			NumberBlocks: a.NumberBlocks,
			Sanitize:     r.Sanitize,
			Standalone:   r.Standalone,
			Indent:       r.Indent,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxBodyBytes:    32 << 20,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file over the defaults. Files ending in
// .toml are read as TOML, anything else as YAML. Unknown keys are errors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.ReadingOrder.YTolerance < 0 {
		errs = append(errs, errors.New("reading_order.y_tolerance must not be negative"))
	}
	if c.Tables.MaxWorkers < 1 {
		errs = append(errs, errors.New("tables.max_workers must be at least 1"))
	}
	if c.Tables.MaxRows < 1 || c.Tables.MaxCols < 1 {
		errs = append(errs, errors.New("tables.max_rows and tables.max_cols must be at least 1"))
	}
	if c.Lists.LookAhead < 0 {
		errs = append(errs, errors.New("lists.look_ahead must not be negative"))
	}
	if c.Paragraphs.LineThreshold > c.Paragraphs.ParagraphThreshold {
		errs = append(errs, errors.New("paragraphs.line_threshold must not exceed paragraph_threshold"))
	}
	if _, err := render.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit must not be negative"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// AnalyzerConfig maps the settings onto the pipeline configuration.
func (c *Config) AnalyzerConfig() layout.AnalyzerConfig {
	a := layout.DefaultAnalyzerConfig()

	a.ReadingOrderConfig.YTolerance = c.ReadingOrder.YTolerance
	a.ReadingOrderConfig.InvertedY = c.ReadingOrder.InvertedY
	a.ReadingOrderConfig.NormalizeText = c.ReadingOrder.NormalizeText

	cc := &a.ClassifierConfig
	cc.TitleMarker = c.Classifier.TitleMarker
	cc.HeadingPrefix = c.Classifier.HeadingPrefix
	cc.FigureMarker = c.Classifier.FigureMarker
	cc.TableMarker = c.Classifier.TableMarker
	cc.CellMarkers = append([]string(nil), c.Classifier.CellMarkers...)
	cc.ListMarker = c.Classifier.ListMarker
	cc.ListLabelMarker = c.Classifier.ListLabelMarker
	cc.ListBodyMarker = c.Classifier.ListBodyMarker
	cc.InlineMarkers = append([]string(nil), c.Classifier.InlineMarkers...)

	a.TableConfig.HeaderCellMarker = c.Tables.HeaderCellMarker
	a.TableConfig.Parallel = c.Tables.Parallel
	a.TableConfig.MaxWorkers = c.Tables.MaxWorkers
	a.TableConfig.MaxRows = c.Tables.MaxRows
	a.TableConfig.MaxCols = c.Tables.MaxCols

	a.ListConfig.LookAhead = c.Lists.LookAhead
	a.ListConfig.LineHeightFactor = c.Lists.LineHeightFactor
	a.ListConfig.MinLineTolerance = c.Lists.MinLineTolerance

	a.ParagraphConfig.LineThreshold = c.Paragraphs.LineThreshold
	a.ParagraphConfig.ParagraphThreshold = c.Paragraphs.ParagraphThreshold
	a.ParagraphConfig.MarginTolerance = c.Paragraphs.MarginTolerance
	a.ParagraphConfig.ContinueAcrossPages = c.Paragraphs.ContinueAcrossPages

	a.NumberBlocks = c.Output.NumberBlocks
	return a
}

// RenderOptions maps the output settings onto render options.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Sanitize:   c.Output.Sanitize,
		Standalone: c.Output.Standalone,
		Indent:     c.Output.Indent,
	}
}

// Format returns the configured output format.
func (c *Config) Format() (render.Format, error) {
	return render.ParseFormat(c.Output.Format)
}

// NewLogger builds a logger writing to w with the configured level and
// format.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch c.Log.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", c.Log.Format)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, err
	}
	return level, nil
}
