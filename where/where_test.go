package where

import (
	"path/filepath"
	"testing"

	"github.com/mashup-cli/mashup/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Config() honours the override", func() {
			t.Setenv(EnvConfigPath, "/custom/mashup")
			So(Config(), ShouldEqual, "/custom/mashup")
			So(History(), ShouldEqual, filepath.Join("/custom/mashup", "history.json"))
		})

		Convey("Searches() lives under Cache()", func() {
			path := Searches()
			So(filepath.Dir(path), ShouldEqual, Cache())
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Temp()", func() {
			path := Temp()
			So(filepath.Base(path), ShouldEqual, "mashup")
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})
	})
}
