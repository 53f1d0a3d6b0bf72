package pyscan

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// PyProject is the subset of pyproject.toml the pipeline cares about.
type PyProject struct {
	Project struct {
		Name           string `toml:"name"`
		RequiresPython string `toml:"requires-python"`
	} `toml:"project"`
}

// ReadPyProject parses the top-level pyproject.toml under root and returns
// the declared requires-python constraint. A missing or malformed manifest
// returns ok=false; the checkout was discovered through this file, so its
// absence usually means the repository moved or rewrote history between
// discovery and clone.
func ReadPyProject(root string) (requiresPython string, ok bool) {
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		return "", false
	}
	var pp PyProject
	if err := toml.Unmarshal(data, &pp); err != nil {
		return "", false
	}
	return pp.Project.RequiresPython, true
}
