package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/lubsanchez/pos-console/internal/access"
	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/session"
)

const (
	maxStartupDelay = 24 * time.Hour
	passwordEnv     = "POS_ADMIN_PASSWORD"
)

type loginOptions struct {
	Email    string
	Password string
}

func parseLoginFlags(args []string) (loginOptions, error) {
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts loginOptions
	fs.StringVar(&opts.Email, "email", "", "Operator email (required)")
	fs.StringVar(&opts.Password, "password", "", "Operator password (defaults to $"+passwordEnv+")")
	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Password == "" {
		opts.Password = os.Getenv(passwordEnv)
	}
	if opts.Email == "" || opts.Password == "" {
		return loginOptions{}, errors.New("--email and a password are required")
	}
	return opts, nil
}

func runLogin(c *commandContext, args []string) error {
	opts, err := parseLoginFlags(args)
	if err != nil {
		return err
	}
	store, done, err := openSession(c)
	if err != nil {
		return err
	}
	defer done()

	identity, err := store.Login(c.Ctx, domainauth.Credentials{Email: opts.Email, Password: opts.Password})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return printIdentity(c.Out, identity)
}

func runWhoami(c *commandContext, args []string) error {
	if err := parseNoFlags("whoami", args); err != nil {
		return err
	}
	store, done, err := openSession(c)
	if err != nil {
		return err
	}
	defer done()

	if !store.IsAuthenticated() {
		return errNotSignedIn
	}
	identity, err := store.GetCurrentIdentity(c.Ctx)
	if err != nil {
		return fmt.Errorf("fetch identity: %w", err)
	}
	return printIdentity(c.Out, identity)
}

func runValidate(c *commandContext, args []string) error {
	if err := parseNoFlags("validate", args); err != nil {
		return err
	}
	store, done, err := openSession(c)
	if err != nil {
		return err
	}
	defer done()

	if !store.IsAuthenticated() {
		return errNotSignedIn
	}
	outcome, checkErr := store.Check(c.Ctx)
	if err = writef(c.Out, "Outcome: %s\n", outcome); err != nil {
		return err
	}
	switch outcome {
	case session.OutcomeValid:
		identity, _ := store.CurrentIdentity()
		return printIdentity(c.Out, identity)
	case session.OutcomeInvalid:
		return writef(c.Out, "The credential was rejected and has been cleared.\n")
	default:
		return writef(c.Out, "Could not reach a verdict; the credential was kept (%v).\n", checkErr)
	}
}

func runLogout(c *commandContext, args []string) error {
	if err := parseNoFlags("logout", args); err != nil {
		return err
	}
	store, done, err := openSession(c)
	if err != nil {
		return err
	}
	defer done()

	if !store.IsAuthenticated() {
		return writef(c.Out, "No operator is signed in.\n")
	}
	store.Logout(c.Ctx)
	return writef(c.Out, "Signed out.\n")
}

type permissionsOptions struct {
	File string
	Role string
}

func parsePermissionsFlags(args []string, defaultFile string) (permissionsOptions, error) {
	fs := pflag.NewFlagSet("permissions", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts permissionsOptions
	fs.StringVar(&opts.File, "file", defaultFile, "Permission matrix YAML (defaults to the built-in matrix)")
	fs.StringVar(&opts.Role, "role", "", "Only list actions granted to this role")
	if err := fs.Parse(args); err != nil {
		return permissionsOptions{}, err
	}
	opts.File = strings.TrimSpace(opts.File)
	opts.Role = strings.ToLower(strings.TrimSpace(opts.Role))
	return opts, nil
}

func runPermissions(c *commandContext, args []string) error {
	opts, err := parsePermissionsFlags(args, c.Config.Session.PermissionsFile)
	if err != nil {
		return err
	}
	var matrix *access.Matrix
	if opts.File == "" {
		matrix, err = access.DefaultMatrix()
	} else {
		matrix, err = access.LoadMatrixFile(opts.File)
	}
	if err != nil {
		return fmt.Errorf("load permissions: %w", err)
	}
	return printMatrix(c.Out, matrix, domainauth.Role(opts.Role))
}

func parseNoFlags(name string, args []string) error {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%s takes no arguments", name)
	}
	return nil
}

func printIdentity(w io.Writer, id domainauth.Identity) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	lines := [][2]string{
		{"ID", fmt.Sprint(id.ID)},
		{"Name", id.FullName},
		{"Email", id.Email},
		{"Role", string(id.Role)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", l[0], l[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printMatrix(w io.Writer, m *access.Matrix, role domainauth.Role) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ACTION\tROLES"); err != nil {
		return err
	}
	for _, action := range m.Actions() {
		if role != "" && !m.Allows(role, action) {
			continue
		}
		roles := m.Roles(action)
		names := make([]string, 0, len(roles))
		for _, r := range roles {
			names = append(names, string(r))
		}
		label := strings.Join(names, ", ")
		if label == "" {
			label = "-"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", action, label); err != nil {
			return err
		}
	}
	return tw.Flush()
}
