package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Load reads each file (e.g. ".env") and sets environment variables for its
// KEY=VALUE lines. Variables already set in the process win. Missing files are
// skipped; the names of the files that were read are returned.
func Load(paths ...string) ([]string, error) {
	var loaded []string
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("env: %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
