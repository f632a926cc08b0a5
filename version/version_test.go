package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mashup-cli/mashup/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		So(lo.Must(Compare("0.2.0", "0.1.9")), ShouldEqual, 1)
		So(lo.Must(Compare("v1.0.0", "1.0.0")), ShouldEqual, 0)
		So(lo.Must(Compare("1.0.0", "1.0.1")), ShouldEqual, -1)

		_, err := Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a release registry", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits++
			_, _ = w.Write([]byte(`{"tag_name":"v0.3.1"}`))
		}))
		defer server.Close()

		defer func(prev string) { latestURL = prev }(latestURL)
		latestURL = server.URL

		Convey("Latest should strip the prefix and cache the answer", func() {
			v, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.3.1")

			v, err = Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.3.1")
			So(hits, ShouldEqual, 1)
		})
	})
}
