// Package cli provides the ambient stack shared by the interp binary:
// structured logging, a JSON config file for default flag values, and
// version/error reporting. Adapted from the teacher's
// internal/cli/common.go, trimmed to a single-binary CLI (interp has no
// sub-commands, so CommandInfo/FlagInfo/PrintUsage's command-table
// machinery has no place here).
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/mu-lang/mu/internal/buildinfo"
)

// PrintVersion prints interp's own version, grounded on buildinfo.Parse,
// either as JSON (-version-json) or as the teacher's plain-text block.
func PrintVersion(jsonOutput bool) error {
	info, err := buildinfo.Parse()
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]interface{}{
			"version":    info.Version.Original(),
			"commit_sha": info.CommitSHA,
			"build_date": info.BuildDate,
			"go_version": runtime.Version(),
			"platform":   runtime.GOOS,
			"arch":       runtime.GOARCH,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal version info: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("interp v%s\n", info.Version.Original())
	fmt.Printf("Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Printf("Commit: %s\n", info.CommitSHA)
	}
	fmt.Printf("Go Version: %s\n", runtime.Version())
	fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}

// ExitWithError prints an error message to stderr and exits with code 1.
func ExitWithError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// ExitWithCode exits with the given code, printing an optional message
// first.
func ExitWithCode(code int, format string, args ...interface{}) {
	if format != "" {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
	os.Exit(code)
}

// Logger provides structured, level-gated logging for the CLI: Info and
// Debug are silent unless requested, Warn and Error always print.
type Logger struct {
	Verbose   bool
	DebugMode bool
}

// NewLogger creates a Logger with the given verbosity settings.
func NewLogger(verbose, debug bool) *Logger {
	return &Logger{Verbose: verbose, DebugMode: debug}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.Verbose {
		fmt.Printf("[INFO] %s: %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.DebugMode {
		fmt.Printf("[DEBUG] %s: %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	fmt.Printf("[WARN] %s: %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Printf("[ERROR] %s: %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
}

// HandleError reports err through logger (or directly to stderr if logger
// is nil) and exits with code 1. A nil err is a no-op.
func HandleError(err error, logger *Logger) {
	if err == nil {
		return
	}
	if logger != nil {
		logger.Error("%v", err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

// Config holds default flag values loadable from a JSON file, so a project
// can pin its preferred interp invocation (e.g. always -watch) without
// repeating flags on every call.
type Config struct {
	Verbose    bool   `json:"verbose"`
	Debug      bool   `json:"debug"`
	Watch      bool   `json:"watch"`
	MinVersion string `json:"min_version,omitempty"`
}

// LoadConfig reads configPath, returning a zero-value Config if the path
// is empty or the file doesn't exist yet.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig writes c to configPath as indented JSON.
func (c *Config) SaveConfig(configPath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
