// Package web serves the mashup form: a submitted form is validated, built and emailed as a zip.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/mashup-cli/mashup/constant"
	"github.com/mashup-cli/mashup/delivery"
	"github.com/mashup-cli/mashup/log"
	"github.com/mashup-cli/mashup/mashup"
	"github.com/mashup-cli/mashup/request"
	"github.com/samber/lo"
)

const (
	tokenTTL        = 2 * time.Hour
	shutdownTimeout = 10 * time.Second
	maxFormBytes    = 64 << 10
)

//go:embed templates/form.html
var templates embed.FS

var formTemplate = lo.Must(template.ParseFS(templates, "templates/form.html"))

// Runner builds and delivers a validated request.
type Runner interface {
	Run(ctx context.Context, req *request.Request, d mashup.Deliverer) (*mashup.Report, error)
}

// Server handles the form.
type Server struct {
	Runner  Runner
	Sender  delivery.Sender
	Subject string
	Tokens  *Tokens
}

// New creates a form server. secret signs form tokens.
func New(runner Runner, sender delivery.Sender, subject, secret string) *Server {
	return &Server{
		Runner:  runner,
		Sender:  sender,
		Subject: subject,
		Tokens:  NewTokens(secret, tokenTTL),
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /{$}", s.handleSubmit)
	mux.HandleFunc("GET /healthz", handleHealth)
	return mux
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

type page struct {
	Form        request.Raw
	Errors      []string
	Failure     string
	Success     string
	Token       string
	MinVideos   int
	NextVideos  int
	MinSeconds  int
	NextSeconds int
	App         string
	Version     string
}

func (s *Server) newPage() *page {
	return &page{
		Token:       s.Tokens.Issue(),
		MinVideos:   request.MinVideos,
		NextVideos:  request.MinVideos + 1,
		MinSeconds:  request.MinSeconds,
		NextSeconds: request.MinSeconds + 1,
		App:         constant.Mashup,
		Version:     constant.Version,
	}
}

func (s *Server) render(w http.ResponseWriter, status int, p *page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, p); err != nil {
		log.Errorf("render form: %s", err)
	}
}

func (s *Server) handleForm(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, s.newPage())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	p := s.newPage()

	if err := r.ParseForm(); err != nil {
		p.Errors = []string{"the form could not be read"}
		s.render(w, http.StatusBadRequest, p)
		return
	}

	p.Form = request.Raw{
		Singer:  r.PostFormValue("singer"),
		Videos:  r.PostFormValue("videos"),
		Seconds: r.PostFormValue("seconds"),
		Email:   r.PostFormValue("email"),
	}

	if !s.Tokens.Verify(r.PostFormValue("token")) {
		p.Errors = []string{"the form has expired, please submit it again"}
		s.render(w, http.StatusForbidden, p)
		return
	}

	req, err := request.Validate(p.Form, request.WithEmail())
	if err != nil {
		var verrs request.ValidationErrors
		if errors.As(err, &verrs) {
			p.Errors = verrs.Messages()
		} else {
			p.Errors = []string{err.Error()}
		}
		s.render(w, http.StatusBadRequest, p)
		return
	}

	emailer := &delivery.Emailer{
		Sender:  s.Sender,
		To:      req.Email,
		Singer:  req.Singer,
		Subject: s.Subject,
	}

	report, err := s.Runner.Run(r.Context(), req, emailer)
	if err != nil {
		log.WithFields(map[string]any{"singer": req.Singer, "email": req.Email}).Errorf("run failed: %s", err)
		p.Failure = err.Error()
		s.render(w, http.StatusBadGateway, p)
		return
	}

	p.Form = request.Raw{}
	p.Success = report.Destination
	s.render(w, http.StatusOK, p)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": constant.Version,
	})
}
