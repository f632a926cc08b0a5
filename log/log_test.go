package log

import (
	"bytes"
	"testing"

	"github.com/mashup-cli/mashup/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestFacade(t *testing.T) {
	Convey("Given the logging facade", t, func() {
		Convey("Disabled logging drops everything", func() {
			enabled = false
			entry := WithFields(map[string]any{"singer": "Test"})
			So(entry.Logger, ShouldEqual, discard)
		})

		Convey("SetOutput routes entries to the writer", func() {
			viper.Set(key.LogsLevel, "debug")
			viper.Set(key.LogsJson, false)

			var buf bytes.Buffer
			SetOutput(&buf)
			Warnf("skipping %s", "abc123")
			WithFields(map[string]any{"clip": 3}).Info("trimmed")

			So(buf.String(), ShouldContainSubstring, "skipping abc123")
			So(buf.String(), ShouldContainSubstring, "clip=3")
		})

		Convey("JSON format is honoured", func() {
			viper.Set(key.LogsJson, true)

			var buf bytes.Buffer
			SetOutput(&buf)
			Info("hello")

			So(buf.String(), ShouldContainSubstring, `"msg":"hello"`)
			viper.Set(key.LogsJson, false)
		})
	})
}
