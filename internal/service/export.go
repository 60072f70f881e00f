package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/domain/settings"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// exportLimit caps each collection in an export document.
const exportLimit = 1000

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

type jmespathLibEvaluator struct{}

func (jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// ExportServiceOptions groups dependencies for ExportService.
type ExportServiceOptions struct {
	Settings  SettingsSource         // Required
	News      core.NewsRepository    // Required
	Gallery   core.GalleryRepository // Required
	Contacts  core.ContactRepository // Required
	Users     core.UserRepository    // Required
	Evaluator JMESPathEvaluator      // Optional; defaults to go-jmespath
	Now       func() time.Time       // Optional
}

// ExportService builds the site-wide JSON export and projects it with JMESPath.
type ExportService struct {
	opts ExportServiceOptions
	eval JMESPathEvaluator
	now  func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(opts ExportServiceOptions) *ExportService {
	if opts.Settings == nil || opts.News == nil || opts.Gallery == nil || opts.Contacts == nil || opts.Users == nil {
		panic("NewExportService: Settings, News, Gallery, Contacts and Users are required")
	}
	eval := opts.Evaluator
	if eval == nil {
		eval = jmespathLibEvaluator{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ExportService{opts: opts, eval: eval, now: now}
}

// ExportDocument is the full export before projection. Users never carry password hashes.
type ExportDocument struct {
	ExportedAt time.Time               `json:"exported_at"`
	Settings   settings.SchoolSettings `json:"settings"`
	News       []*model.News           `json:"news"`
	Gallery    []*model.GalleryItem    `json:"gallery"`
	Contacts   []*model.Contact        `json:"contacts"`
	Users      []*model.User           `json:"users"`
}

// Document collects every collection into one document.
func (s *ExportService) Document(ctx context.Context) (*ExportDocument, error) {
	doc := &ExportDocument{ExportedAt: s.now().UTC(), Settings: s.opts.Settings.Current()}
	var err error
	if doc.News, err = s.opts.News.List(ctx, model.NewsListOptions{Limit: exportLimit}); err != nil {
		return nil, fmt.Errorf("export news: %w", err)
	}
	if doc.Gallery, err = s.opts.Gallery.List(ctx, model.GalleryListOptions{Limit: exportLimit}); err != nil {
		return nil, fmt.Errorf("export gallery: %w", err)
	}
	if doc.Contacts, err = s.opts.Contacts.List(ctx, model.ContactListOptions{Limit: exportLimit}); err != nil {
		return nil, fmt.Errorf("export contacts: %w", err)
	}
	if doc.Users, err = s.opts.Users.List(ctx, model.UserListOptions{Limit: exportLimit}); err != nil {
		return nil, fmt.Errorf("export users: %w", err)
	}
	return doc, nil
}

// Export returns the document, projected by query when it is not blank.
// An expression that does not compile is a validation error on field "query".
func (s *ExportService) Export(ctx context.Context, query string) (any, error) {
	query = strings.TrimSpace(query)
	if err := s.eval.Validate(query); err != nil {
		return nil, apperrors.ValidationField("query", "Ekspresi JMESPath tidak valid: "+err.Error())
	}
	doc, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return doc, nil
	}

	// JMESPath walks generic JSON values, so the typed document is round-tripped first.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	out, err := s.eval.Evaluate(query, generic)
	if err != nil {
		return nil, apperrors.ValidationField("query", "Ekspresi JMESPath gagal dijalankan: "+err.Error())
	}
	return out, nil
}
