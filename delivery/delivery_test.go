package delivery

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/mashup-cli/mashup/assembler"
	"github.com/mashup-cli/mashup/config"
	"github.com/mashup-cli/mashup/fetcher"
	"github.com/mashup-cli/mashup/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	gomail "github.com/wneessen/go-mail"
)

type fakeSender struct {
	sent []*Mail
	err  error
	// archive holds the attachment content at send time.
	archive []byte
}

func (s *fakeSender) Send(_ context.Context, m *Mail) error {
	s.sent = append(s.sent, m)
	if s.err != nil {
		return s.err
	}
	s.archive = lo.Must(filesystem.API().ReadFile(m.Attachments[0]))
	return nil
}

func testMashup() *assembler.Mashup {
	clips := make([]*fetcher.Clip, 11)
	for i := range clips {
		clips[i] = &fetcher.Clip{Index: i}
	}
	return &assembler.Mashup{Path: "/run/mashup.mp3", Duration: 231 * time.Second, Clips: clips}
}

func TestSaver(t *testing.T) {
	Convey("Given a finished mashup", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		fs := filesystem.API()
		So(fs.WriteFile("/run/mashup.mp3", []byte("mp3"), 0644), ShouldBeNil)

		Convey("Saver should move it to the output path", func() {
			path, err := (&Saver{Path: "/music/out.mp3"}).Deliver(context.Background(), testMashup(), "/run")
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/music/out.mp3")
			So(string(lo.Must(fs.ReadFile("/music/out.mp3"))), ShouldEqual, "mp3")
			So(lo.Must(fs.Exists("/run/mashup.mp3")), ShouldBeFalse)
		})

		Convey("Saver should report an IOError when the source is gone", func() {
			So(fs.Remove("/run/mashup.mp3"), ShouldBeNil)
			_, err := (&Saver{Path: "/music/out.mp3"}).Deliver(context.Background(), testMashup(), "/run")

			var ioErr *IOError
			So(errors.As(err, &ioErr), ShouldBeTrue)
			So(ioErr.Path, ShouldEqual, "/music/out.mp3")
		})
	})
}

func TestZip(t *testing.T) {
	Convey("Zip should store one deflated file under its base name", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		fs := filesystem.API()

		content := bytes.Repeat([]byte("frame"), 1000)
		So(fs.WriteFile("/run/mashup.mp3", content, 0644), ShouldBeNil)
		So(Zip("/run/mashup.mp3", "/run/out/test.zip"), ShouldBeNil)

		data := lo.Must(fs.ReadFile("/run/out/test.zip"))
		reader := lo.Must(zip.NewReader(bytes.NewReader(data), int64(len(data))))
		So(reader.File, ShouldHaveLength, 1)
		So(reader.File[0].Name, ShouldEqual, "mashup.mp3")
		So(reader.File[0].Method, ShouldEqual, zip.Deflate)

		rc := lo.Must(reader.File[0].Open())
		defer rc.Close()
		So(lo.Must(io.ReadAll(rc)), ShouldResemble, content)
	})
}

func TestEmailer(t *testing.T) {
	Convey("Given an emailer with a fake sender", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		So(filesystem.API().WriteFile("/run/mashup.mp3", []byte("mp3"), 0644), ShouldBeNil)

		sender := &fakeSender{}
		e := &Emailer{Sender: sender, To: "fan@example.com", Singer: "Sharry Maan", Subject: "Your mashup file"}

		Convey("It should mail the zipped mashup", func() {
			to, err := e.Deliver(context.Background(), testMashup(), "/run")
			So(err, ShouldBeNil)
			So(to, ShouldEqual, "fan@example.com")
			So(sender.sent, ShouldHaveLength, 1)

			m := sender.sent[0]
			So(m.Subject, ShouldEqual, "Your mashup file")
			So(m.Attachments, ShouldResemble, []string{"/run/Sharry_Maan_mashup.zip"})
			So(m.Body, ShouldContainSubstring, "Sharry Maan")
			So(m.Body, ShouldContainSubstring, "11 x 21s")
			So(m.Body, ShouldContainSubstring, "3m51s")
			So(sender.archive, ShouldNotBeEmpty)
		})

		Convey("Sender failures should become delivery errors", func() {
			sender.err = errors.New("535 authentication failed")
			_, err := e.Deliver(context.Background(), testMashup(), "/run")

			var deliveryErr *DeliveryError
			So(errors.As(err, &deliveryErr), ShouldBeTrue)
			So(deliveryErr.To, ShouldEqual, "fan@example.com")
			So(err.Error(), ShouldContainSubstring, "authentication failed")
		})

		Convey("A missing mashup should be an IO error", func() {
			So(filesystem.API().Remove("/run/mashup.mp3"), ShouldBeNil)
			_, err := e.Deliver(context.Background(), testMashup(), "/run")

			var ioErr *IOError
			So(errors.As(err, &ioErr), ShouldBeTrue)
			So(sender.sent, ShouldBeEmpty)
		})
	})
}

func TestMailer(t *testing.T) {
	Convey("Given a mailer", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		So(filesystem.API().WriteFile("/run/Test_mashup.zip", []byte("zip"), 0644), ShouldBeNil)

		cfg := config.SMTP{Server: "smtp.example.com", Port: 587, From: "bot@example.com", Subject: "Your mashup file"}
		mail := &Mail{To: "fan@example.com", Subject: "Your mashup file", Body: "hi", Attachments: []string{"/run/Test_mashup.zip"}}

		Convey("It should refuse to send without credentials", func() {
			err := NewMailer(cfg).Send(context.Background(), mail)
			So(errors.Is(err, ErrMissingCredentials), ShouldBeTrue)

			var deliveryErr *DeliveryError
			So(errors.As(err, &deliveryErr), ShouldBeTrue)
		})

		Convey("It should build a message with the attachment", func() {
			msg, err := NewMailer(cfg).message(mail)
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			_, err = msg.WriteTo(&buf)
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Subject: Your mashup file")
			So(buf.String(), ShouldContainSubstring, "<bot@example.com>")
			So(buf.String(), ShouldContainSubstring, "Test_mashup.zip")
		})

		Convey("It should reject a malformed recipient", func() {
			mail.To = "not an address"
			_, err := NewMailer(cfg).message(mail)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestTransportSecurity(t *testing.T) {
	Convey("Given SMTP ports", t, func() {
		Convey("Port 465 should use implicit TLS", func() {
			s := securityFor(465)
			So(s.implicitTLS, ShouldBeTrue)
		})

		Convey("Port 587 should require STARTTLS", func() {
			s := securityFor(587)
			So(s.implicitTLS, ShouldBeFalse)
			So(s.policy, ShouldEqual, gomail.TLSMandatory)
		})

		Convey("Any other port should require STARTTLS", func() {
			s := securityFor(2525)
			So(s.implicitTLS, ShouldBeFalse)
			So(s.policy, ShouldEqual, gomail.TLSMandatory)
		})

		Convey("The options should build a client for both modes", func() {
			for _, port := range []int{465, 587} {
				cfg := config.SMTP{Server: "smtp.example.com", Port: port, Username: "bot", Password: "secret"}
				client, err := gomail.NewClient(cfg.Server, NewMailer(cfg).options()...)
				So(err, ShouldBeNil)
				So(client, ShouldNotBeNil)
			}
		})
	})
}
