package filesystem

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestMove(t *testing.T) {
	Convey("Given a file in memory", t, func() {
		SetMemMapFs()
		defer SetOsFs()

		fs := API()
		So(fs.WriteFile("/tmp/run/mashup.mp3", []byte("audio"), 0644), ShouldBeNil)

		Convey("Move should create missing parents", func() {
			So(Move("/tmp/run/mashup.mp3", "/out/nested/result.mp3"), ShouldBeNil)

			data := lo.Must(fs.ReadFile("/out/nested/result.mp3"))
			So(string(data), ShouldEqual, "audio")
			So(lo.Must(fs.Exists("/tmp/run/mashup.mp3")), ShouldBeFalse)
		})

		Convey("Copy should keep the source", func() {
			So(Copy("/tmp/run/mashup.mp3", "/tmp/copy.mp3"), ShouldBeNil)
			So(lo.Must(fs.Exists("/tmp/run/mashup.mp3")), ShouldBeTrue)
			So(string(lo.Must(fs.ReadFile("/tmp/copy.mp3"))), ShouldEqual, "audio")
		})

		Convey("Move of a missing file should fail", func() {
			So(Move("/tmp/run/missing.mp3", "/out/x.mp3"), ShouldNotBeNil)
		})
	})
}
