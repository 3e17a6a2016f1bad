package main

import (
	"context"
	"time"

	"github.com/blacklytning/alc/core"
	"github.com/blacklytning/alc/core/user"
)

// addStaff updates or creates a staff account.
func (cli *commandLine) addStaff(uname, email, name, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Username:  uname,
			Email:     email,
			Name:      name,
			Role:      user.RoleClerk,
			CreatedAt: now,
		}
	}
	if name != "" {
		usr.Name = name
	}
	if email != "" {
		usr.Email = email
	}
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	usr.IsActive = true
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		return cli.usrRepo.CreateUser(ctx, usr)
	}
	return cli.usrRepo.UpdateUser(ctx, usr)
}
