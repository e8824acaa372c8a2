package videogenerator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// convertMidiToWav renders the soundtrack with timidity into dir.
func (g *Generator) convertMidiToWav(ctx context.Context, midiFilePath, dir string) (string, error) {
	outputPath := filepath.Join(dir, getFileNameWithoutExtension(midiFilePath)+".wav")
	timidityCmdArgs := []string{
		midiFilePath, "-Ow",
		"--preserve-silence",
		"-o", outputPath,
	}
	if err := g.run(ctx, "timidity", timidityCmdArgs...); err != nil {
		return "", fmt.Errorf("executing timidity: %w", err)
	}
	return outputPath, nil
}

func removeAudioFile(filePath string) {
	if filePath != "" {
		os.Remove(filePath)
	}
}
