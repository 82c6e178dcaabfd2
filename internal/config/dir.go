package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// configDirName is a directory in the user's config directory where jira-stats configuration is stored
	configDirName string = "jira-stats"
)

func MustConfigDir() string {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		panic(fmt.Errorf("cannot obtain user config dir: %w", err))
	}

	return filepath.Join(userConfigDir, configDirName)
}
