package delivery

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/mashup-cli/mashup/assembler"
	"github.com/mashup-cli/mashup/constant"
	"github.com/mashup-cli/mashup/util"
	"github.com/samber/lo"
)

var bodyTemplate = lo.Must(template.New("body").Parse(constant.MailBodyTemplate))

// Emailer zips the mashup and mails it as an attachment.
type Emailer struct {
	Sender  Sender
	To      string
	Singer  string
	Subject string
}

// ArchiveName returns the attachment name for singer.
func ArchiveName(singer string) string {
	return fmt.Sprintf(constant.ArchiveNameTemplate, util.SanitizeFilename(singer))
}

// Deliver writes the archive into scratch and sends it to the recipient, whose address is returned.
func (e *Emailer) Deliver(ctx context.Context, m *assembler.Mashup, scratch string) (string, error) {
	archive := filepath.Join(scratch, ArchiveName(e.Singer))
	if err := Zip(m.Path, archive); err != nil {
		return "", &IOError{Path: archive, Err: err}
	}

	body, err := e.body(m)
	if err != nil {
		return "", &DeliveryError{To: e.To, Err: err}
	}

	err = e.Sender.Send(ctx, &Mail{
		To:          e.To,
		Subject:     e.Subject,
		Body:        body,
		Attachments: []string{archive},
	})
	if err != nil {
		var deliveryErr *DeliveryError
		if errors.As(err, &deliveryErr) {
			return "", err
		}
		return "", &DeliveryError{To: e.To, Err: err}
	}

	return e.To, nil
}

func (e *Emailer) body(m *assembler.Mashup) (string, error) {
	var seconds int
	if len(m.Clips) > 0 {
		seconds = int(m.Duration/time.Second) / len(m.Clips)
	}

	var b strings.Builder
	err := bodyTemplate.Execute(&b, map[string]any{
		"Singer":   e.Singer,
		"Clips":    len(m.Clips),
		"Seconds":  seconds,
		"Duration": m.Duration,
		"App":      constant.Mashup,
		"Version":  constant.Version,
	})
	return b.String(), err
}
