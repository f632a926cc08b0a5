// Package assembler trims downloaded clips and joins them into a single mp3.
package assembler

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mashup-cli/mashup/fetcher"
	"github.com/mashup-cli/mashup/filesystem"
	"github.com/mashup-cli/mashup/key"
	"github.com/mashup-cli/mashup/log"
	"github.com/mashup-cli/mashup/util"
	"github.com/spf13/viper"
)

// Mashup is the joined output.
type Mashup struct {
	Path     string
	Duration time.Duration
	// Clips are the sources that made it into the output, in order.
	Clips []*fetcher.Clip
}

// Assembler drives ffmpeg and ffprobe through a Runner.
type Assembler struct {
	Runner  Runner
	FFmpeg  string
	FFprobe string
	// Offset is the number of seconds skipped at the start of every clip.
	Offset  int
	Bitrate string
}

// New creates an assembler configured from the global settings.
func New(runner Runner) *Assembler {
	return &Assembler{
		Runner:  runner,
		FFmpeg:  viper.GetString(key.FFmpegPath),
		FFprobe: viper.GetString(key.FFprobePath),
		Offset:  viper.GetInt(key.MashupIntroOffset),
		Bitrate: viper.GetString(key.MashupBitrate),
	}
}

// Assemble trims every clip of the sequence to seconds and concatenates the survivors into output.
//
// Trimmed files are written to workdir. Clips shorter than the offset plus seconds are dropped.
// An error yielded by the sequence is returned unchanged.
func (a *Assembler) Assemble(ctx context.Context, clips iter.Seq2[*fetcher.Clip, error], seconds int, workdir, output string) (*Mashup, error) {
	if err := filesystem.API().MkdirAll(workdir, os.ModePerm); err != nil {
		return nil, &AssemblyError{Op: "trim", Err: err}
	}

	var (
		survivors []*fetcher.Clip
		trimmed   []string
	)

	for clip, err := range clips {
		if err != nil {
			return nil, err
		}

		duration, err := a.Probe(ctx, clip.Path)
		if err != nil {
			return nil, &AssemblyError{Op: "probe", Clip: clip.Path, Err: err}
		}

		if need := float64(a.Offset + seconds); duration < need {
			log.WithFields(map[string]any{
				"id":       clip.SourceID,
				"duration": duration,
				"needed":   need,
			}).Warn("dropping short clip")
			continue
		}

		name := fmt.Sprintf("%03d_%s.mp3", clip.Index, util.SanitizeFilename(clip.SourceID))
		target := filepath.Join(workdir, name)

		if err := a.Trim(ctx, clip.Path, target, seconds); err != nil {
			return nil, &AssemblyError{Op: "trim", Clip: clip.Path, Err: err}
		}

		survivors = append(survivors, clip)
		trimmed = append(trimmed, target)
	}

	if len(trimmed) == 0 {
		return nil, &AssemblyError{Op: "trim", Err: ErrNoClips}
	}

	if err := a.Concat(ctx, trimmed, workdir, output); err != nil {
		return nil, &AssemblyError{Op: "concat", Err: err}
	}

	return &Mashup{
		Path:     output,
		Duration: time.Duration(len(survivors)*seconds) * time.Second,
		Clips:    survivors,
	}, nil
}

// Probe returns the duration of the media file in seconds.
func (a *Assembler) Probe(ctx context.Context, path string) (float64, error) {
	out, err := a.Runner.Run(ctx, a.FFprobe, probeArgs(path)...)
	if err != nil {
		return 0, err
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return duration, nil
}

// Trim re-encodes seconds of input, starting at the offset, into output.
func (a *Assembler) Trim(ctx context.Context, input, output string, seconds int) error {
	_, err := a.Runner.Run(ctx, a.FFmpeg, trimArgs(input, output, a.Offset, seconds, a.Bitrate)...)
	return err
}

// Concat joins inputs in order into output using the concat demuxer.
// The list file is written to listDir and removed afterwards.
func (a *Assembler) Concat(ctx context.Context, inputs []string, listDir, output string) error {
	api := filesystem.API()

	var list strings.Builder
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		list.WriteString(listEntry(filepath.ToSlash(abs)))
	}

	listPath := filepath.Join(listDir, ListFileName)
	if err := api.WriteFile(listPath, []byte(list.String()), 0644); err != nil {
		return err
	}
	defer util.Ignore(func() error { return api.Remove(listPath) })

	if err := api.MkdirAll(filepath.Dir(output), os.ModePerm); err != nil {
		return err
	}

	_, err := a.Runner.Run(ctx, a.FFmpeg, concatArgs(listPath, output)...)
	return err
}
