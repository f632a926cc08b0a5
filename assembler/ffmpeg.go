package assembler

import (
	"strconv"
	"strings"
)

// FFmpeg settings shared by every produced file.
const (
	AudioCodec   = "libmp3lame"
	SampleRate   = "44100"
	Channels     = "2"
	LogLevel     = "error"
	ConcatFormat = "concat"
	ListFileName = "concat.txt"
)

func trimArgs(input, output string, offset, seconds int, bitrate string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", LogLevel,
		"-ss", strconv.Itoa(offset),
		"-t", strconv.Itoa(seconds),
		"-i", input,
		"-vn",
		"-acodec", AudioCodec,
		"-b:a", bitrate,
		"-ar", SampleRate,
		"-ac", Channels,
		output,
	}
}

func concatArgs(list, output string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", LogLevel,
		"-f", ConcatFormat,
		"-safe", "0",
		"-i", list,
		"-c", "copy",
		output,
	}
}

func probeArgs(input string) []string {
	return []string{
		"-v", LogLevel,
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		input,
	}
}

// listEntry formats a concat demuxer line, quoting path for the demuxer.
func listEntry(path string) string {
	return "file '" + strings.ReplaceAll(path, "'", `'\''`) + "'\n"
}
