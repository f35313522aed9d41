package html

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

const (
	sectionTemplate = "section.tmpl"
	thanksTemplate  = "thanks.tmpl"
)

// Labels shown next to the rating radios, lowest first.
var ratingLabels = [...]string{"Poor", "Fair", "Good", "Very good", "Excellent"}

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS    fs.FS
	theme         *theme.RendererConfig
	stylesheetURL string
	actionURL     func(sessionID string) string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTheme applies a go-theme renderer config. Its AssetURL, when set,
// resolves the stylesheet location.
func WithTheme(rc *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = rc
	}
}

// WithStylesheetURL sets where pages link the stylesheet from when no theme
// asset resolver is configured.
func WithStylesheetURL(url string) Option {
	return func(cfg *config) {
		cfg.stylesheetURL = url
	}
}

// WithActionURL sets the URL the section form posts to.
func WithActionURL(fn func(sessionID string) string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.actionURL = fn
		}
	}
}

// Renderer turns wizard views into HTML pages.
type Renderer struct {
	engine        *engine
	theme         pageTheme
	stylesheetURL string
	actionURL     func(string) string
}

// New constructs the renderer with the embedded templates.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:    TemplatesFS(),
		stylesheetURL: "/static/" + StylesheetName,
		actionURL: func(id string) string {
			return "/v1/sessions/" + id + "/page"
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	eng, err := newEngine(cfg.templateFS)
	if err != nil {
		return nil, fmt.Errorf("html renderer: configure templates: %w", err)
	}

	stylesheet := cfg.stylesheetURL
	if cfg.theme != nil && cfg.theme.AssetURL != nil {
		if resolved := cfg.theme.AssetURL(StylesheetName); resolved != "" {
			stylesheet = resolved
		}
	}

	return &Renderer{
		engine:        eng,
		theme:         buildThemeContext(cfg.theme),
		stylesheetURL: stylesheet,
		actionURL:     cfg.actionURL,
	}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the media type written by Render.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the page for view: the current section, or the thank-you page
// once the session has been submitted.
func (r *Renderer) Render(ctx context.Context, out io.Writer, view wizard.View) error {
	if ctx == nil {
		return errors.New("html renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if r == nil || r.engine == nil {
		return errors.New("html renderer: engine is nil")
	}

	data := pongo2.Context{"page": r.buildPage(view)}
	name := sectionTemplate
	if view.Submitted {
		name = thanksTemplate
	}
	return r.engine.execute(name, data, out)
}

type page struct {
	Title              string
	FormID             string
	SessionID          string
	Course             string
	Instructor         string
	Term               string
	Action             string
	StylesheetURL      string
	Theme              pageTheme
	Progress           int
	SectionID          string
	SectionNumber      int
	SectionCount       int
	SectionTitle       string
	SectionDescription string
	Questions          []pageQuestion
	NoticeVisible      bool
	Missing            []string
	Controls           wizard.Controls
	SubmittedAt        string
}

type pageQuestion struct {
	ID       string
	Text     string
	Required bool
	IsRating bool
	Value    string
	Missing  bool
	Ratings  []pageRating
}

type pageRating struct {
	Value   string
	Label   string
	Checked bool
}

func (r *Renderer) buildPage(view wizard.View) page {
	p := page{
		Title:              view.Title,
		FormID:             view.FormID,
		SessionID:          view.SessionID,
		Course:             view.Metadata.Course,
		Instructor:         view.Metadata.Instructor,
		Term:               view.Metadata.Term,
		StylesheetURL:      r.stylesheetURL,
		Theme:              r.theme,
		Progress:           view.Progress,
		SectionID:          view.Section.ID,
		SectionNumber:      view.SectionIndex + 1,
		SectionCount:       view.SectionCount,
		SectionTitle:       view.Section.Title,
		SectionDescription: sanitizeDescription(view.Section.Description),
		NoticeVisible:      view.ValidationError,
		Missing:            view.Missing,
		Controls:           view.Controls,
	}
	if r.actionURL != nil {
		p.Action = r.actionURL(view.SessionID)
	}
	if view.SubmittedAt != nil {
		p.SubmittedAt = view.SubmittedAt.UTC().Format(time.RFC1123)
	}

	missing := make(map[string]struct{}, len(view.Missing))
	for _, id := range view.Missing {
		missing[id] = struct{}{}
	}
	for _, q := range view.Section.Questions {
		value, _ := view.Answers.Get(q.ID)
		_, isMissing := missing[q.ID]
		pq := pageQuestion{
			ID:       q.ID,
			Text:     q.Text,
			Required: q.Required,
			IsRating: q.Type == form.QuestionTypeRating,
			Value:    value,
			Missing:  isMissing,
		}
		if pq.IsRating {
			for n := form.RatingMin; n <= form.RatingMax; n++ {
				v := strconv.Itoa(n)
				pq.Ratings = append(pq.Ratings, pageRating{
					Value:   v,
					Label:   v + " " + ratingLabels[n-form.RatingMin],
					Checked: v == value,
				})
			}
		}
		p.Questions = append(p.Questions, pq)
	}
	return p
}
