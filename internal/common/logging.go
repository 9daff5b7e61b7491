// Package common holds the logger shared by the vire-options binaries.
//
// Three entry points cover the ways the service runs:
//   - NewLoggerFromConfig for the HTTP server (console and/or rotating file),
//   - NewStdioLogger for MCP over stdio, where stdout carries JSON-RPC,
//   - NewCLILogger for vire-suggest, silent unless --debug is set.
//
// Console output always goes to stderr.
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

const (
	logTimeFormat = "2006-01-02T15:04:05Z07:00"

	OutputConsole = "console"
	OutputFile    = "file"

	defaultLogFile    = "logs/vire-options.log"
	defaultStdioFile  = "logs/vire-mcp.log"
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 5
)

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string
	Outputs    []string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// normalize lower-cases outputs, maps "stderr" to console, drops duplicates
// and returns the names it did not recognise.
func (c LoggingConfig) normalize() (LoggingConfig, []string) {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = defaultMaxSizeMB
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = defaultMaxBackups
	}
	if c.FilePath == "" {
		c.FilePath = defaultLogFile
	}

	var outputs, unknown []string
	seen := map[string]bool{}
	for _, out := range c.Outputs {
		name := strings.ToLower(strings.TrimSpace(out))
		if name == "stderr" {
			name = OutputConsole
		}
		switch name {
		case OutputConsole, OutputFile:
			if !seen[name] {
				seen[name] = true
				outputs = append(outputs, name)
			}
		case "":
		default:
			unknown = append(unknown, out)
		}
	}
	if len(outputs) == 0 {
		outputs = []string{OutputConsole}
	}
	c.Outputs = outputs
	return c, unknown
}

// Logger wraps arbor.ILogger to provide a consistent interface
type Logger struct {
	arbor.ILogger
}

// discardWriter drops everything, including events dispatched to writers
// registered globally by NewLoggerWithOutput.
type discardWriter struct{}

func (w *discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (w *discardWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *discardWriter) GetFilePath() string                   { return "" }
func (w *discardWriter) Close() error                          { return nil }

// lineWriter renders arbor's JSON events as "message key=value" lines with
// fields in key order.
type lineWriter struct {
	out   io.Writer
	level log.Level
}

func (w *lineWriter) Write(p []byte) (int, error) {
	var evt models.LogEvent
	if err := json.Unmarshal(p, &evt); err != nil {
		return w.out.Write(p)
	}
	if evt.Level < w.level {
		return len(p), nil
	}

	keys := make([]string, 0, len(evt.Fields))
	for k := range evt.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(evt.Message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, evt.Fields[k])
	}
	if evt.Error != "" {
		fmt.Fprintf(&b, " error=%s", evt.Error)
	}
	b.WriteByte('\n')
	return w.out.Write([]byte(b.String()))
}

func (w *lineWriter) WithLevel(level log.Level) writers.IWriter {
	w.level = level
	return w
}

func (w *lineWriter) GetFilePath() string { return "" }
func (w *lineWriter) Close() error        { return nil }

// NewLogger creates a stderr logger at the given level.
func NewLogger(level string) *Logger {
	return NewLoggerFromConfig(LoggingConfig{
		Level:   level,
		Outputs: []string{OutputConsole},
	})
}

// NewLoggerFromConfig creates the server logger. Outputs are "console"
// (alias "stderr") and "file"; none configured means console. Unknown outputs
// are reported once at warn level and otherwise ignored.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	cfg, unknown := cfg.normalize()

	l := arbor.NewLogger()
	for _, out := range cfg.Outputs {
		switch out {
		case OutputConsole:
			l = l.WithConsoleWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeConsole,
				Writer:     os.Stderr,
				TimeFormat: logTimeFormat,
			})
		case OutputFile:
			l = l.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   cfg.FilePath,
				MaxSize:    int64(cfg.MaxSizeMB) * 1024 * 1024,
				MaxBackups: cfg.MaxBackups,
				TimeFormat: logTimeFormat,
			})
		}
	}

	l = l.WithMemoryWriter(models.WriterConfiguration{
		Type: models.LogWriterTypeMemory,
	}).WithLevelFromString(cfg.Level)

	logger := &Logger{ILogger: l}
	if len(unknown) > 0 {
		logger.Warn().Strs("outputs", unknown).Msg("unknown log outputs ignored")
	}
	return logger
}

// StdioConfig returns cfg restricted to the file writer. The configured file
// path is replaced by the MCP log unless it was set explicitly.
func StdioConfig(cfg LoggingConfig) LoggingConfig {
	cfg.Outputs = []string{OutputFile}
	if cfg.FilePath == "" || cfg.FilePath == defaultLogFile {
		cfg.FilePath = defaultStdioFile
	}
	return cfg
}

// NewStdioLogger creates a logger that never writes to stdout or stderr.
func NewStdioLogger(cfg LoggingConfig) *Logger {
	return NewLoggerFromConfig(StdioConfig(cfg))
}

// NewCLILogger returns a stderr debug logger when debug is set and a silent
// logger otherwise.
func NewCLILogger(debug bool) *Logger {
	if !debug {
		return NewSilentLogger()
	}
	return NewLogger("debug")
}

// NewLoggerWithOutput creates a logger writing plain lines to w.
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	arbor.RegisterWriter(arbor.WRITER_CONSOLE, &lineWriter{out: w, level: log.TraceLevel})

	arborLogger := arbor.NewLogger().
		WithMemoryWriter(models.WriterConfiguration{
			Type: models.LogWriterTypeMemory,
		}).
		WithLevelFromString(level)

	return &Logger{ILogger: arborLogger}
}

// NewSilentLogger creates a logger that discards all output.
func NewSilentLogger() *Logger {
	arborLogger := arbor.NewLogger().WithWriters([]writers.IWriter{&discardWriter{}})
	return &Logger{ILogger: arborLogger}
}

// WithCorrelationId returns a new Logger tagged with a request correlation ID.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
