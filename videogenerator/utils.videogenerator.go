package videogenerator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

func getFileNameWithoutExtension(filePath string) string {
	fileName := filepath.Base(filePath)
	return fileName[:len(fileName)-len(filepath.Ext(fileName))]
}

func isMidiFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi", ".smf":
		return true
	}
	return false
}

// framePath names frame i; numbering starts at 1 as ffmpeg expects.
func framePath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf(framePattern, i+1))
}

// removeFrames deletes every frame image in dir.
func removeFrames(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "fr*.png"))
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	sem := make(chan struct{}, maxRemoveWorkers)
	for _, f := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(f string) {
			defer wg.Done()
			if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			<-sem
		}(f)
	}
	wg.Wait()
	return errors.Join(errs...)
}
