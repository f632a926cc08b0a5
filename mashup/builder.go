// Package mashup runs the whole pipeline for one request: fetch, assemble and deliver.
package mashup

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/mashup-cli/mashup/assembler"
	"github.com/mashup-cli/mashup/fetcher"
	"github.com/mashup-cli/mashup/history"
	"github.com/mashup-cli/mashup/key"
	"github.com/mashup-cli/mashup/log"
	"github.com/mashup-cli/mashup/query"
	"github.com/mashup-cli/mashup/request"
	"github.com/mashup-cli/mashup/util"
	"github.com/mashup-cli/mashup/where"
	"github.com/spf13/viper"
)

// Stage identifies a step of a run in progress updates.
type Stage int

const (
	StageSearch Stage = iota
	StageDownload
	StageAssemble
	StageDeliver
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageSearch:
		return "search"
	case StageDownload:
		return "download"
	case StageAssemble:
		return "assemble"
	case StageDeliver:
		return "deliver"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Source produces the clips of a run.
type Source interface {
	Fetch(ctx context.Context, singer string, n int, dir string) iter.Seq2[*fetcher.Clip, error]
}

// Joiner turns clips into a single mashup.
type Joiner interface {
	Assemble(ctx context.Context, clips iter.Seq2[*fetcher.Clip, error], seconds int, workdir, output string) (*assembler.Mashup, error)
}

// Deliverer hands the mashup to the user and returns where it went.
// scratch is a directory inside the run workspace for intermediate files.
type Deliverer interface {
	Deliver(ctx context.Context, m *assembler.Mashup, scratch string) (string, error)
}

// Builder runs requests.
type Builder struct {
	Source   Source
	Joiner   Joiner
	TempDir  string
	Progress func(Stage, string)
	Remember bool
}

// NewBuilder creates a builder backed by yt-dlp and ffmpeg.
func NewBuilder() *Builder {
	backend := fetcher.NewYTDLP()
	return &Builder{
		Source:   fetcher.New(backend, backend),
		Joiner:   assembler.New(assembler.ExecRunner{}),
		Remember: viper.GetBool(key.HistorySave),
	}
}

// Run executes req and delivers the result with d.
// The run workspace is removed before Run returns, whatever the outcome.
func (b *Builder) Run(ctx context.Context, req *request.Request, d Deliverer) (*Report, error) {
	started := time.Now()

	root := b.TempDir
	if root == "" {
		root = where.Temp()
	}

	ws, err := NewWorkspace(root)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Remove(); err != nil {
			log.Warnf("removing workspace %s: %s", ws.Root, err)
		}
	}()

	logger := log.WithFields(map[string]any{
		"run":     ws.ID,
		"singer":  req.Singer,
		"videos":  req.Videos,
		"seconds": req.Seconds,
	})
	logger.Info("run started")

	b.notify(StageSearch, fmt.Sprintf("Searching videos of %s", req.Singer))
	clips := b.observe(b.Source.Fetch(ctx, req.Singer, req.Videos, ws.Downloads), req.Videos)

	m, err := b.Joiner.Assemble(ctx, clips, req.Seconds, ws.Trimmed, ws.Output())
	if err != nil {
		logger.Errorf("assemble: %s", err)
		return nil, err
	}

	b.notify(StageDeliver, "Delivering "+util.Quantify(len(m.Clips), "clip", "clips"))
	destination, err := d.Deliver(ctx, m, ws.Root)
	if err != nil {
		logger.Errorf("deliver: %s", err)
		return nil, err
	}

	report := &Report{
		ID:          ws.ID,
		Singer:      req.Singer,
		Requested:   req.Videos,
		Used:        len(m.Clips),
		Seconds:     req.Seconds,
		Duration:    m.Duration,
		Destination: destination,
		CreatedAt:   started,
		Elapsed:     time.Since(started),
	}

	b.remember(report)
	b.notify(StageDone, "Mashup delivered to "+destination)
	logger.Infof("run finished in %s", report.Elapsed)

	return report, nil
}

// observe reports every clip passing from the fetcher to the assembler.
func (b *Builder) observe(clips iter.Seq2[*fetcher.Clip, error], total int) iter.Seq2[*fetcher.Clip, error] {
	return func(yield func(*fetcher.Clip, error) bool) {
		b.notify(StageDownload, "Downloading "+util.Quantify(total, "clip", "clips"))
		for clip, err := range clips {
			if clip != nil {
				b.notify(StageAssemble, fmt.Sprintf("Trimming %d of %d: %s", clip.Index+1, total, clip.Title))
			}
			if !yield(clip, err) {
				return
			}
		}
	}
}

func (b *Builder) notify(stage Stage, message string) {
	if b.Progress != nil {
		b.Progress(stage, message)
	}
}

func (b *Builder) remember(report *Report) {
	if !b.Remember {
		return
	}

	if err := history.Save(report.Record()); err != nil {
		log.Warnf("saving history: %s", err)
	}
	if err := query.Remember(report.Singer, 1); err != nil {
		log.Warnf("saving query: %s", err)
	}
}
