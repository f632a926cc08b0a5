package mashup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mashup-cli/mashup/assembler"
	"github.com/mashup-cli/mashup/delivery"
	"github.com/mashup-cli/mashup/fetcher"
	"github.com/mashup-cli/mashup/filesystem"
	"github.com/mashup-cli/mashup/history"
	"github.com/mashup-cli/mashup/request"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

type stubSearcher struct{ n int }

func (s stubSearcher) Search(context.Context, string, int) ([]*fetcher.Candidate, error) {
	list := make([]*fetcher.Candidate, s.n)
	for i := range list {
		list[i] = &fetcher.Candidate{ID: fmt.Sprintf("v%02d", i), Title: fmt.Sprintf("Song %d", i)}
	}
	return list, nil
}

type stubDownloader struct{ fail bool }

func (d stubDownloader) Download(_ context.Context, c *fetcher.Candidate, dir string) (string, error) {
	if d.fail {
		return "", errors.New("HTTP Error 429: Too Many Requests")
	}
	path := filepath.Join(dir, c.ID+".mp3")
	return path, filesystem.API().WriteFile(path, []byte("audio"), 0644)
}

// stubRunner pretends to be ffprobe and ffmpeg.
type stubRunner struct {
	fail bool
}

func (r stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	if name == "ffprobe" {
		return []byte("200.0\n"), nil
	}
	if r.fail {
		return nil, errors.New("ffmpeg exited with status 1")
	}
	return nil, filesystem.API().WriteFile(args[len(args)-1], []byte("mp3"), 0644)
}

type failingDeliverer struct{}

func (failingDeliverer) Deliver(context.Context, *assembler.Mashup, string) (string, error) {
	return "", &delivery.IOError{Path: "/readonly/out.mp3", Err: errors.New("permission denied")}
}

type capturingSender struct {
	mails []*delivery.Mail
	names []string
}

func (s *capturingSender) Send(_ context.Context, m *delivery.Mail) error {
	s.mails = append(s.mails, m)
	for _, path := range m.Attachments {
		if lo.Must(filesystem.API().Exists(path)) {
			s.names = append(s.names, filepath.Base(path))
		}
	}
	return nil
}

func newTestBuilder(searchResults int, downloader stubDownloader, runner stubRunner) *Builder {
	f := &fetcher.Fetcher{
		Searcher:   stubSearcher{n: searchResults},
		Downloader: downloader,
		Retry:      fetcher.RetryPolicy{Attempts: 1, StableChecks: 2},
		Suffix:     "songs",
		Factor:     2,
		Floor:      20,
	}
	a := &assembler.Assembler{Runner: runner, FFmpeg: "ffmpeg", FFprobe: "ffprobe", Bitrate: "192k"}
	return &Builder{Source: f, Joiner: a, TempDir: "/tmp/mashup"}
}

func workspaces() []string {
	entries, err := filesystem.API().ReadDir("/tmp/mashup")
	if err != nil {
		return nil
	}
	return lo.Map(entries, func(e os.FileInfo, _ int) string { return e.Name() })
}

func TestRun(t *testing.T) {
	Convey("Given a builder with stub backends", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		So(filesystem.API().MkdirAll("/tmp/mashup", 0755), ShouldBeNil)

		req := lo.Must(request.Validate(request.Raw{Singer: "Test", Videos: "11", Seconds: "21", Output: "/out/test.mp3"}, request.WithOutput()))
		ctx := context.Background()

		Convey("A CLI run should save a 231 second mashup", func() {
			b := newTestBuilder(22, stubDownloader{}, stubRunner{})

			var stages []Stage
			b.Progress = func(s Stage, _ string) { stages = append(stages, s) }

			report, err := b.Run(ctx, req, &delivery.Saver{Path: req.Output})
			So(err, ShouldBeNil)
			So(report.Duration, ShouldEqual, 231*time.Second)
			So(report.Used, ShouldEqual, 11)
			So(report.Requested, ShouldEqual, 11)
			So(report.Destination, ShouldEqual, "/out/test.mp3")
			So(lo.Must(filesystem.API().Exists("/out/test.mp3")), ShouldBeTrue)

			So(stages[0], ShouldEqual, StageSearch)
			So(stages, ShouldContain, StageAssemble)
			So(stages[len(stages)-1], ShouldEqual, StageDone)

			So(workspaces(), ShouldBeEmpty)
		})

		Convey("A web run should email the zipped mashup", func() {
			b := newTestBuilder(22, stubDownloader{}, stubRunner{})
			sender := &capturingSender{}

			report, err := b.Run(ctx, req, &delivery.Emailer{Sender: sender, To: "fan@example.com", Singer: "Test"})
			So(err, ShouldBeNil)
			So(report.Destination, ShouldEqual, "fan@example.com")
			So(sender.names, ShouldResemble, []string{"Test_mashup.zip"})
			So(sender.mails[0].Body, ShouldContainSubstring, "3m51s")

			So(workspaces(), ShouldBeEmpty)
		})

		Convey("The workspace should be removed when fetching fails", func() {
			b := newTestBuilder(22, stubDownloader{fail: true}, stubRunner{})
			_, err := b.Run(ctx, req, &delivery.Saver{Path: req.Output})

			var fetchErr *fetcher.FetchError
			So(errors.As(err, &fetchErr), ShouldBeTrue)
			So(fetchErr.Obtained, ShouldEqual, 0)
			So(workspaces(), ShouldBeEmpty)
		})

		Convey("The workspace should be removed when the search finds nothing", func() {
			b := newTestBuilder(0, stubDownloader{}, stubRunner{})
			_, err := b.Run(ctx, req, &delivery.Saver{Path: req.Output})
			So(errors.Is(err, fetcher.ErrNoResults), ShouldBeTrue)
			So(workspaces(), ShouldBeEmpty)
		})

		Convey("The workspace should be removed when assembling fails", func() {
			b := newTestBuilder(22, stubDownloader{}, stubRunner{fail: true})
			_, err := b.Run(ctx, req, &delivery.Saver{Path: req.Output})

			var asmErr *assembler.AssemblyError
			So(errors.As(err, &asmErr), ShouldBeTrue)
			So(workspaces(), ShouldBeEmpty)
		})

		Convey("The workspace should be removed when delivery fails", func() {
			b := newTestBuilder(22, stubDownloader{}, stubRunner{})
			_, err := b.Run(ctx, req, failingDeliverer{})

			var ioErr *delivery.IOError
			So(errors.As(err, &ioErr), ShouldBeTrue)
			So(workspaces(), ShouldBeEmpty)
		})

		Convey("The workspace should be removed when the run is cancelled", func() {
			b := newTestBuilder(22, stubDownloader{}, stubRunner{})
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := b.Run(cancelled, req, &delivery.Saver{Path: req.Output})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(workspaces(), ShouldBeEmpty)
		})

		Convey("Finished runs should be remembered when enabled", func() {
			b := newTestBuilder(22, stubDownloader{}, stubRunner{})
			b.Remember = true

			report, err := b.Run(ctx, req, &delivery.Saver{Path: req.Output})
			So(err, ShouldBeNil)

			records := lo.Must(history.List())
			ids := lo.Map(records, func(r *history.Record, _ int) string { return r.ID })
			So(slices.Contains(ids, report.ID), ShouldBeTrue)
		})
	})
}

func TestWorkspace(t *testing.T) {
	Convey("NewWorkspace should lay out a unique run directory", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		a := lo.Must(NewWorkspace("/tmp/mashup"))
		b := lo.Must(NewWorkspace("/tmp/mashup"))
		So(a.Root, ShouldNotEqual, b.Root)
		So(strings.HasPrefix(filepath.Base(a.Root), "run-"), ShouldBeTrue)
		So(lo.Must(filesystem.API().IsDir(a.Downloads)), ShouldBeTrue)
		So(lo.Must(filesystem.API().IsDir(a.Trimmed)), ShouldBeTrue)
		So(a.Output(), ShouldEqual, filepath.Join(a.Root, "mashup.mp3"))

		So(a.Remove(), ShouldBeNil)
		So(lo.Must(filesystem.API().Exists(a.Root)), ShouldBeFalse)
	})
}

func TestSweep(t *testing.T) {
	Convey("Given a workspace parent with runs of different ages", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		const parent = "/tmp/mashup"
		api := filesystem.API()
		week := 7 * 24 * time.Hour

		live := lo.Must(NewWorkspace(parent))

		// Same layout as a run started a week ago.
		id := lo.Must(uuid.NewV7())
		ms := time.Now().Add(-week).UnixMilli()
		for i := range 6 {
			id[5-i] = byte(ms >> (8 * i))
		}
		old := filepath.Join(parent, "run-"+id.String())
		So(api.MkdirAll(filepath.Join(old, "downloads"), os.ModePerm), ShouldBeNil)

		leftover := filepath.Join(parent, "run-leftover")
		So(api.MkdirAll(leftover, os.ModePerm), ShouldBeNil)
		So(api.Chtimes(leftover, time.Now().Add(-week), time.Now().Add(-week)), ShouldBeNil)

		unrelated := filepath.Join(parent, "notes")
		So(api.MkdirAll(unrelated, os.ModePerm), ShouldBeNil)
		So(api.Chtimes(unrelated, time.Now().Add(-week), time.Now().Add(-week)), ShouldBeNil)

		removed := Sweep(parent, StaleAfter)

		Convey("A run in progress should keep its directories", func() {
			So(lo.Must(api.IsDir(live.Downloads)), ShouldBeTrue)
			So(lo.Must(api.IsDir(live.Trimmed)), ShouldBeTrue)
		})

		Convey("Runs older than the limit should be removed", func() {
			So(removed, ShouldEqual, 2)
			So(lo.Must(api.Exists(old)), ShouldBeFalse)
			So(lo.Must(api.Exists(leftover)), ShouldBeFalse)
		})

		Convey("Directories that are not runs should be left alone", func() {
			So(lo.Must(api.Exists(unrelated)), ShouldBeTrue)
		})
	})
}

func TestStage(t *testing.T) {
	Convey("Stages should have names", t, func() {
		So(StageSearch.String(), ShouldEqual, "search")
		So(StageDone.String(), ShouldEqual, "done")
		So(Stage(42).String(), ShouldEqual, "unknown")
	})
}
