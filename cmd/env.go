package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
)

// loadDotEnv loads variables from path into the environment without
// overriding the ones already set. A missing file is not an error.
func loadDotEnv(path string, logger *log.Logger) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	logger.Printf("Loaded environment from %s\n", path)
	return nil
}
