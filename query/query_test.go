package query

import (
	"testing"

	"github.com/mashup-cli/mashup/filesystem"
	"github.com/mashup-cli/mashup/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given remembered singers", t, func() {
		So(Remember("Arijit Singh", 1), ShouldBeNil)
		So(Remember("Sharry Maan", 10), ShouldBeNil)

		Convey("Suggestions should be sorted by rank", func() {
			s := SuggestMany("a")
			So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
			So(s[0], ShouldEqual, "sharry maan")
		})

		Convey("Suggest should pick the best match", func() {
			So(Suggest("arij").MustGet(), ShouldEqual, "arijit singh")
			So(Suggest("zzzz").IsAbsent(), ShouldBeTrue)
		})

		Convey("Remembering should refresh cached suggestions", func() {
			_ = SuggestMany("sh")
			So(Remember("Shreya Ghoshal", 100), ShouldBeNil)
			So(SuggestMany("sh")[0], ShouldEqual, "shreya ghoshal")
		})

		Convey("Disabled suggestions should return nothing", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			defer viper.Set(key.SearchShowQuerySuggestions, true)
			So(SuggestMany("a"), ShouldBeEmpty)
		})

		Convey("Blank names should be ignored", func() {
			So(Remember("   ", 1), ShouldBeNil)
			So(SuggestMany(""), ShouldNotContain, "")
		})

		Convey("It sanitizes input", func() {
			So(sanitize("  Sharry   MAAN  "), ShouldEqual, "sharry maan")
		})
	})
}
