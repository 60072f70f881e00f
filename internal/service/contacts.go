package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/domain/settings"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// SettingsSource exposes the current school settings.
type SettingsSource interface {
	Current() settings.SchoolSettings
}

// ContactServiceOptions groups dependencies for ContactService.
type ContactServiceOptions struct {
	Repo     core.ContactRepository // Required
	Activity ActivityRecorder       // Optional
	Config   ContactConfig
}

// ContactConfig holds the WhatsApp forwarding settings.
type ContactConfig struct {
	// AdminWhatsApp receives forwarded public messages.
	AdminWhatsApp string
	Settings      SettingsSource // Optional: school name in message templates
	Now           func() time.Time
}

// ContactService handles public contact messages and their follow-up in the console.
type ContactService struct {
	repo     core.ContactRepository
	activity ActivityRecorder
	admin    string
	settings SettingsSource
	now      func() time.Time
}

// NewContactService constructs a new ContactService.
func NewContactService(opts ContactServiceOptions) *ContactService {
	if opts.Repo == nil {
		panic("NewContactService: Repo is required")
	}
	now := opts.Config.Now
	if now == nil {
		now = time.Now
	}
	return &ContactService{
		repo:     opts.Repo,
		activity: recorderOrNoop(opts.Activity),
		admin:    opts.Config.AdminWhatsApp,
		settings: opts.Config.Settings,
		now:      now,
	}
}

func (s *ContactService) schoolName() string {
	if s.settings == nil {
		return settings.Defaults().SchoolName
	}
	return s.settings.Current().SchoolName
}

// SubmitResult is returned to the visitor after a successful submission.
type SubmitResult struct {
	Contact     *model.Contact
	WhatsAppURL string
}

// Submit stores a visitor's message as Pending and builds the WhatsApp link
// that forwards it to the school. Public submissions default to priority Sedang.
func (s *ContactService) Submit(ctx context.Context, in *model.ContactInput) (*SubmitResult, error) {
	if in.Priority == "" {
		in.Priority = model.ContactPrioritySedang
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, model.ActivityContact, "Pesan kontak baru dari "+c.Name, c.Name)

	res := &SubmitResult{Contact: c}
	if s.admin != "" {
		res.WhatsAppURL = model.WhatsAppURL(s.admin, model.ForwardMessage(s.schoolName(), in, s.now()))
	}
	return res, nil
}

// Create records a message entered by an admin.
func (s *ContactService) Create(ctx context.Context, in *model.ContactInput, actor string) (*model.Contact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, model.ActivityContact, "Kontak ditambahkan: "+c.Subject, actor)
	return c, nil
}

// Update replaces a message's fields; the status is unchanged.
func (s *ContactService) Update(ctx context.Context, id string, in *model.ContactInput, actor string) (*model.Contact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, model.ActivityContact, "Kontak diperbarui: "+c.Subject, actor)
	return c, nil
}

// SetStatus moves a message to status.
func (s *ContactService) SetStatus(ctx context.Context, id string, status model.ContactStatus, actor string) error {
	if !status.Valid() {
		return apperrors.ValidationField("status", "Status tidak valid")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.activity.Record(ctx, model.ActivityContact, "Status pesan diubah menjadi "+string(status), actor)
	return nil
}

// Delete removes a message.
func (s *ContactService) Delete(ctx context.Context, id, actor string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, model.ActivityContact, "Pesan dihapus: "+c.Subject, actor)
	return nil
}

// Get returns one message.
func (s *ContactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

// Inbox is the console's message list with per-status counts.
type Inbox struct {
	Page[*model.Contact]
	Counts model.ContactStatusCounts
}

// List returns the messages matching opts and the count for every status.
func (s *ContactService) List(ctx context.Context, opts model.ContactListOptions) (*Inbox, error) {
	opts.Normalize()
	items, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}
	total := counts.Total()
	if opts.Status != "" {
		total = counts[opts.Status]
	}
	return &Inbox{
		Page:   Page[*model.Contact]{Items: items, Total: total, Limit: opts.Limit, Offset: opts.Offset},
		Counts: counts,
	}, nil
}

// ReplyURL builds the WhatsApp link the console uses to answer c.
func (s *ContactService) ReplyURL(c *model.Contact) string {
	return model.WhatsAppURL(c.Phone, model.ReplyMessage(s.schoolName(), c))
}
