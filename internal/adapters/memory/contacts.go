package memory

import (
	"context"
	"errors"
	"time"

	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// ContactRepository implements core.ContactRepository in memory.
type ContactRepository struct {
	rows *table[model.Contact]
	now  func() time.Time
}

// NewContactRepository creates an empty ContactRepository.
func NewContactRepository() *ContactRepository {
	return &ContactRepository{rows: newTable[model.Contact]("contacts"), now: time.Now}
}

func applyContact(c *model.Contact, req *model.ContactInput) {
	c.Name, c.Phone, c.Email = req.Name, req.Phone, req.Email
	c.Subject, c.Message = req.Subject, req.Message
	c.Category, c.Priority = req.Category, req.Priority
}

func (r *ContactRepository) Create(_ context.Context, req *model.ContactInput) (*model.Contact, error) {
	if req == nil {
		return nil, errors.New("contact input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := r.now().UTC()
	c := model.Contact{Status: model.ContactStatusPending, CreatedAt: now, UpdatedAt: now}
	applyContact(&c, req)
	out, _ := r.rows.insert(c, func(v *model.Contact, id string) { v.ID = id }, nil)
	return &out, nil
}

func (r *ContactRepository) GetByID(_ context.Context, id string) (*model.Contact, error) {
	c, err := r.rows.get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) List(_ context.Context, opts model.ContactListOptions) ([]*model.Contact, error) {
	opts.Normalize()
	rows := r.rows.newestFirst(func(c *model.Contact) bool {
		return opts.Status == "" || c.Status == opts.Status
	})
	return page(rows, opts.Limit, opts.Offset), nil
}

func (r *ContactRepository) CountByStatus(context.Context) (model.ContactStatusCounts, error) {
	counts := model.ContactStatusCounts{}
	for _, s := range model.ContactStatuses() {
		counts[s] = 0
	}
	for _, c := range r.rows.newestFirst(nil) {
		counts[c.Status]++
	}
	return counts, nil
}

func (r *ContactRepository) Update(_ context.Context, id string, req *model.ContactInput) (*model.Contact, error) {
	if req == nil {
		return nil, errors.New("contact input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := r.now().UTC()
	c, err := r.rows.update(id, func(c *model.Contact) error {
		applyContact(c, req)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) UpdateStatus(_ context.Context, id string, status model.ContactStatus) error {
	if !status.Valid() {
		return apperrors.ValidationField("status", "Status tidak valid")
	}
	now := r.now().UTC()
	_, err := r.rows.update(id, func(c *model.Contact) error {
		c.Status = status
		c.UpdatedAt = now
		return nil
	})
	return err
}

func (r *ContactRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}
