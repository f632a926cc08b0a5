package mashup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mashup-cli/mashup/filesystem"
	"github.com/mashup-cli/mashup/log"
	"github.com/mashup-cli/mashup/util"
	"github.com/spf13/afero"
)

const (
	outputName      = "mashup.mp3"
	workspacePrefix = "run-"
)

// StaleAfter is the age past which a leftover workspace is considered abandoned.
const StaleAfter = 24 * time.Hour

// Workspace is the scratch directory tree of a single run.
type Workspace struct {
	ID        string
	Root      string
	Downloads string
	Trimmed   string
}

// NewWorkspace creates a uniquely named workspace under parent.
func NewWorkspace(parent string) (*Workspace, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	root := filepath.Join(parent, workspacePrefix+id.String())
	ws := &Workspace{
		ID:        id.String(),
		Root:      root,
		Downloads: filepath.Join(root, "downloads"),
		Trimmed:   filepath.Join(root, "trimmed"),
	}

	for _, dir := range []string{ws.Downloads, ws.Trimmed} {
		if err := filesystem.API().MkdirAll(dir, os.ModePerm); err != nil {
			_ = ws.Remove()
			return nil, fmt.Errorf("create workspace: %w", err)
		}
	}

	return ws, nil
}

// Output is where the assembled mashup is written before delivery.
func (w *Workspace) Output() string {
	return filepath.Join(w.Root, outputName)
}

// Remove deletes the workspace and everything in it.
func (w *Workspace) Remove() error {
	return util.Delete(w.Root)
}

// Sweep removes workspaces under parent older than maxAge and returns how many were removed.
// The age comes from the UUIDv7 in the directory name, or the modification time when the name carries none.
func Sweep(parent string, maxAge time.Duration) int {
	api := filesystem.API()

	entries, err := afero.ReadDir(api, parent)
	if err != nil {
		return 0
	}

	var removed int
	now := time.Now()
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), workspacePrefix) {
			continue
		}

		if now.Sub(createdAt(entry)) <= maxAge {
			continue
		}

		path := filepath.Join(parent, entry.Name())
		if err := util.Delete(path); err != nil {
			log.Warnf("removing stale workspace %s: %s", path, err)
			continue
		}
		removed++
	}

	return removed
}

// CollectGarbage sweeps abandoned workspaces in the background.
func CollectGarbage(parent string) {
	go Sweep(parent, StaleAfter)
}

func createdAt(entry os.FileInfo) time.Time {
	id, err := uuid.Parse(strings.TrimPrefix(entry.Name(), workspacePrefix))
	if err != nil || id.Version() != 7 {
		return entry.ModTime()
	}

	// The first 48 bits of a UUIDv7 are the Unix time in milliseconds.
	var ms int64
	for _, b := range id[:6] {
		ms = ms<<8 | int64(b)
	}
	return time.UnixMilli(ms)
}
