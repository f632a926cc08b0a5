package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/mashup-cli/mashup/filesystem"
	"github.com/mashup-cli/mashup/key"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	audioFormat    = "mp3"
	audioSelector  = "bestaudio/best"
	searchTemplate = "ytsearch%d:%s"
	watchTemplate  = "https://www.youtube.com/watch?v=%s"
)

// YTDLP searches and downloads through the yt-dlp executable.
type YTDLP struct {
	// Executable overrides the yt-dlp binary. Empty uses the one found by go-ytdlp.
	Executable string
	// Quality is the extracted audio quality, e.g. "192K".
	Quality string
	// Retries is the yt-dlp internal retry count for fragments and network errors.
	Retries int
}

// NewYTDLP creates a yt-dlp backend configured from the global settings.
func NewYTDLP() *YTDLP {
	return &YTDLP{
		Executable: viper.GetString(key.YtdlpPath),
		Quality:    viper.GetString(key.FetchAudioQuality),
		Retries:    viper.GetInt(key.FetchYtdlpRetries),
	}
}

func (y *YTDLP) command() *ytdlp.Command {
	cmd := ytdlp.New().Quiet().NoWarnings()
	if y.Executable != "" {
		cmd.SetExecutable(y.Executable)
	}
	return cmd
}

type searchEntry struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	WebpageURL string  `json:"webpage_url"`
	Duration   float64 `json:"duration"`
}

type searchResult struct {
	Entries []*searchEntry `json:"entries"`
}

// Search runs a flat yt-dlp search and returns up to limit candidates.
func (y *YTDLP) Search(ctx context.Context, query string, limit int) ([]*Candidate, error) {
	result, err := y.command().
		FlatPlaylist().
		DumpSingleJSON().
		Run(ctx, fmt.Sprintf(searchTemplate, limit, query))
	if err != nil {
		return nil, err
	}

	return parseSearch([]byte(result.Stdout))
}

func parseSearch(data []byte) ([]*Candidate, error) {
	var result searchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}

	candidates := make([]*Candidate, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if entry == nil || entry.ID == "" {
			continue
		}

		url := entry.WebpageURL
		if !strings.HasPrefix(url, "http") {
			url = entry.URL
		}
		if !strings.HasPrefix(url, "http") {
			url = fmt.Sprintf(watchTemplate, entry.ID)
		}

		candidates = append(candidates, &Candidate{
			ID:       entry.ID,
			Title:    entry.Title,
			URL:      url,
			Duration: entry.Duration,
		})
	}

	return candidates, nil
}

// Download extracts the best audio of candidate into dir as {id}.mp3.
func (y *YTDLP) Download(ctx context.Context, candidate *Candidate, dir string) (string, error) {
	_, err := y.command().
		Format(audioSelector).
		ExtractAudio().
		AudioFormat(audioFormat).
		AudioQuality(y.Quality).
		NoPlaylist().
		Retries(strconv.Itoa(max(y.Retries, 1))).
		Output(filepath.Join(dir, candidate.ID+".%(ext)s")).
		Run(ctx, candidate.URL)
	if err != nil {
		return "", err
	}

	return Locate(dir, candidate.ID)
}

// Locate finds the downloaded file for id in dir, preferring the extracted mp3.
// Partial downloads are ignored.
func Locate(dir, id string) (string, error) {
	api := filesystem.API()

	preferred := filepath.Join(dir, id+"."+audioFormat)
	if exists, _ := api.Exists(preferred); exists {
		return preferred, nil
	}

	matches, err := afero.Glob(api.Fs, filepath.Join(dir, id+".*"))
	if err != nil {
		return "", err
	}

	for _, match := range matches {
		switch filepath.Ext(match) {
		case ".part", ".ytdl", ".temp":
			continue
		}
		return match, nil
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, id)
}
