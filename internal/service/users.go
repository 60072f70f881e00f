package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/domain/model"
)

// PasswordHasher turns a plain-text password into a storable hash.
type PasswordHasher func(password string) (string, error)

func bcryptHash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Repo     core.UserRepository // Required
	Activity ActivityRecorder    // Optional
	Hash     PasswordHasher      // Optional: bcrypt by default
}

// UserService manages console accounts.
type UserService struct {
	repo     core.UserRepository
	activity ActivityRecorder
	hash     PasswordHasher
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	if opts.Repo == nil {
		panic("NewUserService: Repo is required")
	}
	hash := opts.Hash
	if hash == nil {
		hash = bcryptHash
	}
	return &UserService{repo: opts.Repo, activity: recorderOrNoop(opts.Activity), hash: hash}
}

// Create validates the account, hashes its password and stores it.
// A duplicate email is a conflict on field "email".
func (s *UserService) Create(ctx context.Context, in model.UserInput, actor string) (*model.User, error) {
	if err := in.ValidateCreate(); err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	in.Password = ""
	u, err := s.repo.Create(ctx, core.CreateUserParams{Input: in, PasswordHash: hash})
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, model.ActivityUser, "Pengguna baru ditambahkan: "+u.Name, actor)
	return u, nil
}

// Update changes an account. The password changes only when one is given.
func (s *UserService) Update(ctx context.Context, id string, in model.UserInput, actor string) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var hash string
	if in.Password != "" {
		h, err := s.hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}
	in.Password = ""
	u, err := s.repo.Update(ctx, id, core.CreateUserParams{Input: in, PasswordHash: hash})
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, model.ActivityUser, "Data pengguna diperbarui: "+u.Name, actor)
	return u, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id, actor string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, model.ActivityUser, "Pengguna dihapus: "+u.Name, actor)
	return nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the accounts matching opts.
func (s *UserService) List(ctx context.Context, opts model.UserListOptions) ([]*model.User, error) {
	return s.repo.List(ctx, opts)
}
