package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// variablePattern matches ${...} expressions
var variablePattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ExpandVariables replaces ${userHome}, ${cwd}, ${configDir},
// ${pathSeparator} and ${env:NAME} in text. A leading "~/" is treated as
// ${userHome}/. configDir is the directory of the loaded config file.
func ExpandVariables(text, configDir string) (string, error) {
	if text == "~" || strings.HasPrefix(text, "~/") {
		text = "${userHome}" + text[1:]
	}

	var lastErr error
	result := variablePattern.ReplaceAllStringFunc(text, func(match string) string {
		expr := match[2 : len(match)-1]

		resolved, err := resolveVariable(expr, configDir)
		if err != nil {
			lastErr = err
			return match
		}
		return resolved
	})

	return result, lastErr
}

func resolveVariable(expr, configDir string) (string, error) {
	switch {
	case expr == "userHome":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home: %w", err)
		}
		return home, nil

	case expr == "cwd":
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get cwd: %w", err)
		}
		return cwd, nil

	case expr == "configDir":
		if configDir == "" {
			return "", fmt.Errorf("${configDir} used without a config file")
		}
		return configDir, nil

	case expr == "pathSeparator":
		return string(os.PathSeparator), nil

	case strings.HasPrefix(expr, "env:"):
		return os.Getenv(strings.TrimPrefix(expr, "env:")), nil

	default:
		return "", fmt.Errorf("unknown variable: ${%s}", expr)
	}
}

// expandPaths resolves variables in the path-like fields
func (c *Config) expandPaths(configPath string) error {
	configDir := ""
	if configPath != "" {
		if abs, err := filepath.Abs(configPath); err == nil {
			configDir = filepath.Dir(abs)
		}
	}

	expand := func(field string, value *string) error {
		v, err := ExpandVariables(*value, configDir)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		*value = v
		return nil
	}

	if err := expand("historyFile", &c.HistoryFile); err != nil {
		return err
	}
	if err := expand("gdb.path", &c.GDB.Path); err != nil {
		return err
	}
	for i := range c.GDB.Args {
		if err := expand(fmt.Sprintf("gdb.args[%d]", i), &c.GDB.Args[i]); err != nil {
			return err
		}
	}
	return nil
}
