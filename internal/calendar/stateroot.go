package calendar

import (
	"os"
	"path/filepath"
)

// StateRootEnv overrides state root discovery when set.
const StateRootEnv = "SOCIALMCP_STATE"

// FindStateRoot locates the directory holding .socialmcp/ state.
// Precedence: the SOCIALMCP_STATE environment variable, then the nearest
// ancestor of the working directory that already contains .socialmcp/,
// then the working directory itself.
func FindStateRoot() (string, error) {
	if root := os.Getenv(StateRootEnv); root != "" {
		return root, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if info, err := os.Stat(filepath.Join(dir, RootDir)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd, nil
}
