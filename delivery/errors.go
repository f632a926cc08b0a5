package delivery

import (
	"errors"
	"fmt"
)

var ErrMissingCredentials = errors.New("SMTP credentials are missing. Set smtp.username and smtp.password or run \"mashup smtp login\"")

// IOError reports a failure writing the mashup to its destination.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("write %s: %s", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// DeliveryError reports a failure sending the mashup by email.
type DeliveryError struct {
	To  string
	Err error
}

func (e *DeliveryError) Error() string {
	if e.To == "" {
		return "send mail: " + e.Err.Error()
	}
	return fmt.Sprintf("send mail to %s: %s", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
