package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/service"
)

const defaultCommandTimeout = 30 * time.Second

type createUserOptions struct {
	Timeout time.Duration
	Input   model.UserInput
}

type listUsersOptions struct {
	Timeout time.Duration
	Query   string
	Role    string
	Limit   int
}

func parseCreateUserFlags(args []string) (createUserOptions, error) {
	fs := newFlagSet("create-user")
	opts := createUserOptions{}
	var role, status string
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration for the command")
	fs.StringVar(&opts.Input.Name, "name", "", "Full name (required)")
	fs.StringVar(&opts.Input.Email, "email", "", "Login email (required)")
	fs.StringVar(&opts.Input.Phone, "phone", "", "Phone number")
	fs.StringVar(&role, "role", string(auth.RoleStaff), "Role: admin, kepala_sekolah, guru or staff")
	fs.StringVar(&status, "status", string(model.UserStatusActive), "Status: active or inactive")
	fs.StringVar(&opts.Input.Password, "password", "", "Password; prompted for when omitted")
	if err := fs.Parse(args); err != nil {
		return createUserOptions{}, err
	}
	if err := checkTimeout(opts.Timeout); err != nil {
		return createUserOptions{}, err
	}
	if strings.TrimSpace(opts.Input.Name) == "" || strings.TrimSpace(opts.Input.Email) == "" {
		return createUserOptions{}, errors.New("--name and --email are required")
	}
	opts.Input.Role = auth.Role(strings.ToLower(strings.TrimSpace(role)))
	if !opts.Input.Role.Valid() {
		return createUserOptions{}, fmt.Errorf("unknown role %q", role)
	}
	opts.Input.Status = model.UserStatus(strings.ToLower(strings.TrimSpace(status)))
	if !opts.Input.Status.Valid() {
		return createUserOptions{}, fmt.Errorf("unknown status %q", status)
	}
	return opts, nil
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateUserFlags(args)
	if err != nil {
		return err
	}
	if opts.Input.Password == "" {
		pw, promptErr := promptPassword(os.Stdin, os.Stderr)
		if promptErr != nil {
			return promptErr
		}
		opts.Input.Password = pw
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		repos, repoErr := postgresRepositories(cmdCtx, db)
		if repoErr != nil {
			return repoErr
		}
		users := service.NewUserService(service.UserServiceOptions{Repo: repos.Users})
		u, createErr := users.Create(ctx, opts.Input, "portal-admin")
		if createErr != nil {
			return fmt.Errorf("create user: %w", createErr)
		}
		return writef(os.Stdout, "Created %s <%s> as %s (%s)\n", u.Name, u.Email, u.Role.Label(), u.ID)
	})
}

// promptPassword reads a password without echo when in is a terminal.
func promptPassword(in *os.File, out io.Writer) (string, error) {
	if err := write(out, "Password: "); err != nil {
		return "", fmt.Errorf("print password prompt: %w", err)
	}
	fd := int(in.Fd()) //nolint:gosec // file descriptors fit in int
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		if lnErr := writeln(out); lnErr != nil {
			return "", lnErr
		}
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func parseListUsersFlags(args []string) (listUsersOptions, error) {
	fs := newFlagSet("list-users")
	opts := listUsersOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration for the command")
	fs.StringVar(&opts.Query, "q", "", "Filter by name or email")
	fs.StringVar(&opts.Role, "role", "", "Filter by role")
	fs.IntVar(&opts.Limit, "limit", 100, "Maximum number of users to list")
	if err := fs.Parse(args); err != nil {
		return listUsersOptions{}, err
	}
	if err := checkTimeout(opts.Timeout); err != nil {
		return listUsersOptions{}, err
	}
	if opts.Role != "" && !auth.Role(opts.Role).Valid() {
		return listUsersOptions{}, fmt.Errorf("unknown role %q", opts.Role)
	}
	if opts.Limit <= 0 {
		return listUsersOptions{}, errors.New("--limit must be greater than zero")
	}
	return opts, nil
}

func runListUsers(cmdCtx *commandContext, args []string) error {
	opts, err := parseListUsersFlags(args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		repos, repoErr := postgresRepositories(cmdCtx, db)
		if repoErr != nil {
			return repoErr
		}
		users, listErr := repos.Users.List(ctx, model.UserListOptions{
			Q: opts.Query, Role: auth.Role(opts.Role), Limit: opts.Limit,
		})
		if listErr != nil {
			return fmt.Errorf("list users: %w", listErr)
		}
		return printUsers(os.Stdout, users)
	})
}

func printUsers(out io.Writer, users []*model.User) error {
	if len(users) == 0 {
		return writeln(out, "No users found.")
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if err := writeln(tw, "NAME\tEMAIL\tROLE\tSTATUS\tLAST LOGIN"); err != nil {
		return err
	}
	for _, u := range users {
		last := "never"
		if u.LastLogin != nil {
			last = u.LastLogin.Local().Format("2006-01-02 15:04")
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			u.Name, u.Email, u.Role.Label(), u.Status.Label(), last); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func write(w io.Writer, args ...any) error {
	_, err := fmt.Fprint(w, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
