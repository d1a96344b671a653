package middleware

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// DefaultEnvFile is read from the working directory when --env-file is
// not given.
const DefaultEnvFile = ".env"

// SecretsBeforeFunc loads the --env-file into the process environment.
// Variables that are already set win, so a key exported in the shell
// overrides the file. A missing default file is not an error.
func SecretsBeforeFunc(c *cli.Context) error {
	log := GetLogger(c)

	path := c.String("env-file")
	explicit := c.IsSet("env-file")
	if path == "" {
		path = DefaultEnvFile
	}

	secretsPath := expandPath(path)
	if _, err := os.Stat(secretsPath); os.IsNotExist(err) {
		if explicit {
			return fmt.Errorf("env file %s does not exist", secretsPath)
		}
		log.Debug("No env file, skipping", zap.String("path", secretsPath))
		return nil
	}

	log.Debug("Loading secrets from file", zap.String("path", secretsPath))

	envVars, err := loadEnvFile(secretsPath)
	if err != nil {
		return fmt.Errorf("failed to load secrets from %s: %w", secretsPath, err)
	}

	for key, value := range envVars {
		if _, set := os.LookupEnv(key); set {
			log.Debug("Environment variable already set, skipping", zap.String("key", key))
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			log.Warn("Failed to set environment variable", zap.String("key", key), zap.Error(err))
			continue
		}
		log.Debug("Set environment variable from env file",
			zap.String("key", key),
			zap.Bool("hasValue", value != ""))
	}

	log.Debug("Loaded secrets from file",
		zap.String("path", secretsPath),
		zap.Int("count", len(envVars)))
	return nil
}

// loadEnvFile reads KEY=VALUE lines. Comments, blank and malformed lines
// are skipped; surrounding quotes are removed from values.
func loadEnvFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	envVars := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		envVars[key] = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return envVars, nil
}

// expandPath expands a leading ~ to the user's home directory
func expandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}
