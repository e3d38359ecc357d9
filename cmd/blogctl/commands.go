package main

import (
	"blog/internal/entity/common"
	"blog/internal/entity/db"
	"blog/internal/model"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gorm.io/gorm"
)

var errUsage = errors.New("invalid arguments")

func run(ctx context.Context, repo model.Repository, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "promote", "demote":
		if len(args) != 2 {
			return errUsage
		}
		level := common.LevelAdmin
		if args[0] == "demote" {
			level = common.LevelDefault
		}
		return setLevel(ctx, repo, args[1], level, out)
	case "list-admins":
		return listAdmins(ctx, repo, out)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

// resolveUser accepts a numeric id or a username.
func resolveUser(ctx context.Context, repo model.Repository, ref string) (*db.User, error) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		user, err := repo.GetUserByID(ctx, uint(id))
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	users, err := repo.FindUsersByUsername(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %q not found", ref)
	}
	return &users[0], nil
}

func setLevel(ctx context.Context, repo model.Repository, ref string, level common.AccountLevel, out io.Writer) error {
	user, err := resolveUser(ctx, repo, ref)
	if err != nil {
		return err
	}
	if user.Permission == level {
		fmt.Fprintf(out, "%s (ID: %d) is already %s\n", user.Username, user.ID, level)
		return nil
	}
	if err := repo.UpdateUserPermission(ctx, user.ID, level); err != nil {
		return fmt.Errorf("update permission: %w", err)
	}
	fmt.Fprintf(out, "%s (ID: %d) is now %s\n", user.Username, user.ID, level)
	return nil
}

func listAdmins(ctx context.Context, repo model.Repository, out io.Writer) error {
	admins, err := repo.ListUsersByPermission(ctx, common.LevelAdmin)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	if len(admins) == 0 {
		fmt.Fprintln(out, "no admins")
		return nil
	}
	for _, admin := range admins {
		fmt.Fprintf(out, "ID: %d | Username: %s | Email: %s\n", admin.ID, admin.Username, admin.Email)
	}
	return nil
}
