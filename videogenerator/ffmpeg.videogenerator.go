package videogenerator

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// runner executes an external tool.
type runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		tail := strings.TrimSpace(string(out))
		if i := strings.LastIndexByte(tail, '\n'); i >= 0 {
			tail = tail[i+1:]
		}
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, tail)
	}
	return nil
}

func ffmpegArgs(o *Options, audioFilePath, outputPath string, frames int) []string {
	cmdArgs := []string{
		"-framerate", fmt.Sprintf("%d", o.FPS),
		"-i", filepath.Join(o.FramesDir, framePattern),
	}
	if audioFilePath != "" {
		cmdArgs = append(cmdArgs,
			"-itsoffset", fmt.Sprintf("%fs", o.StartDelay),
			"-i", audioFilePath,
			"-map", "0:v", "-map", "1:a",
		)
	}
	return append(cmdArgs,
		"-preset", "veryfast",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-tune", "animation",
		"-y",
		"-t", fmt.Sprintf("%f", float64(frames)/float64(o.FPS)),
		outputPath,
	)
}

func (g *Generator) createVideoFromFrames(ctx context.Context, o *Options, audioFilePath, outputPath string, frames int) error {
	if err := g.run(ctx, "ffmpeg", ffmpegArgs(o, audioFilePath, outputPath, frames)...); err != nil {
		return fmt.Errorf("executing ffmpeg: %w", err)
	}
	return nil
}
