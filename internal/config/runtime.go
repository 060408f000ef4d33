package config

import (
	"os"
	"path/filepath"
)

const defaultRuntimePath = ".topicscribe"

func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("SCRIBE_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = defaultRuntimePath
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
