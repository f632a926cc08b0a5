package tui

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mashup-cli/mashup/key"
	"github.com/mashup-cli/mashup/mashup"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestModel(t *testing.T) {
	Convey("Given a progress model", t, func() {
		viper.Set(key.IconsVariant, "plain")
		cancelled := false
		m := newModel("Test", func() { cancelled = true })

		Convey("Progress should move finished stages above the spinner", func() {
			m.Update(progressMsg{stage: mashup.StageSearch, message: "Searching videos of Test"})
			m.Update(progressMsg{stage: mashup.StageDownload, message: "Downloading 11 clips"})

			So(m.finished, ShouldResemble, []string{"Searching videos of Test"})
			So(m.View(), ShouldContainSubstring, "Downloading 11 clips")
		})

		Convey("Updates within a stage should replace the message", func() {
			m.Update(progressMsg{stage: mashup.StageAssemble, message: "Trimming 1 of 11"})
			m.Update(progressMsg{stage: mashup.StageAssemble, message: "Trimming 2 of 11"})
			So(m.message, ShouldEqual, "Trimming 2 of 11")
			So(m.finished, ShouldHaveLength, 1)
		})

		Convey("Cancel keys should cancel once", func() {
			m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
			So(cancelled, ShouldBeTrue)
			So(m.cancelling, ShouldBeTrue)
			So(m.message, ShouldEqual, "Cancelling")
		})

		Convey("Completion should quit with the job error", func() {
			failure := errors.New("boom")
			_, cmd := m.Update(doneMsg{err: failure})
			So(cmd, ShouldNotBeNil)
			So(m.done, ShouldBeTrue)
			So(m.err, ShouldEqual, failure)
			So(m.View(), ShouldContainSubstring, "✗")
		})
	})
}

func TestPlain(t *testing.T) {
	Convey("Plain should print one line per update", t, func() {
		viper.Set(key.IconsVariant, "plain")
		var buf bytes.Buffer
		notify := Plain(&buf)

		notify(mashup.StageSearch, "Searching videos of Test")
		notify(mashup.StageDone, "Mashup delivered to out.mp3")

		So(buf.String(), ShouldEqual, "~ Searching videos of Test\n✓ Mashup delivered to out.mp3\n")
	})
}
