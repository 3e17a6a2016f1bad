package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/blacklytning/alc/core"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrAccountDeactivated = errors.New("account deactivated")

	// mockable now
	nowFunc = time.Now
)

type Repository interface {
	CheckUsernameUniqueness(username, email string, excludedUsers ...User) error
	CreateUser(ctx context.Context, u User) error
	QueryAllUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByUsernameOrEmail(ctx context.Context, username string) (User, error)
	UpdateUser(ctx context.Context, u User) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(username, email string, excl ...User) error {
	return svc.repo.CheckUsernameUniqueness(username, email, excl...)
}

// Create validates and persists a new staff account.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(core.Validate, svc); err != nil {
		return User{}, err
	}

	now := nowFunc().UTC()
	usr := User{
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		IsActive:  true,
		Role:      nu.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	if err := svc.repo.CreateUser(ctx, usr); err != nil {
		return User{}, errors.Wrap(err, "creating user")
	}
	return svc.repo.GetUserByUsernameOrEmail(ctx, usr.Username)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, username string) (User, error) {
	return svc.repo.GetUserByUsernameOrEmail(ctx, core.CleanString(username, true))
}

// Authenticate checks the credentials and stamps the last login on success.
func (svc *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	usr, err := svc.GetByUsernameOrEmail(ctx, username)
	if err != nil {
		return User{}, err
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}
	if err = usr.CheckPassword(password); err != nil {
		return User{}, errors.Wrap(ErrNotFound, err.Error())
	}
	if err = svc.SetLastLogin(ctx, &usr); err != nil {
		return User{}, err
	}
	return usr, nil
}

func (svc *Service) SetLastLogin(ctx context.Context, usr *User) error {
	usr.LastLogin = nowFunc().UTC()
	return errors.Wrap(svc.repo.UpdateUser(ctx, *usr), "setting last login")
}

// SetPassword validates, hashes and persists a new password for the account.
func (svc *Service) SetPassword(ctx context.Context, usr *User, password string) error {
	if err := usr.SetPassword(password); err != nil {
		return err
	}
	usr.UpdatedAt = nowFunc().UTC()
	return errors.Wrap(svc.repo.UpdateUser(ctx, *usr), "setting password")
}
