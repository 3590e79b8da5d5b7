package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/service"
)

// LoginCommand represents the login command
type LoginCommand struct {
	g             *globalOptions
	username      string
	passwordStdin bool
}

// NewLoginCmd creates and returns the login cobra command
func NewLoginCmd(g *globalOptions) *cobra.Command {
	c := &LoginCommand{g: g}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the TextScope backend",
		Long: `Sign in and store the access token for later commands.

The password is prompted without echo. Use --password-stdin to pipe it in.

Examples:
  textscope login --username ada
  echo "$PASSWORD" | textscope login -u ada --password-stdin`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	cmd.Flags().StringVarP(&c.username, "username", "u", "", "Username (prompted when omitted)")
	cmd.Flags().BoolVar(&c.passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func (c *LoginCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := c.g.setup(cmd, nil)
	if err != nil {
		return err
	}

	in := lineReader(cmd)
	username := c.username
	if username == "" {
		if username, err = service.ReadLine(in, rt.stderr, "Username: "); err != nil {
			return err
		}
	}
	password, err := readSecret(cmd, in, "Password: ", c.passwordStdin)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if err := rt.dispatch(ctx, "Signing in", app.Login{Username: username, Password: password}); err != nil {
		return err
	}
	fmt.Fprintf(rt.stdout, "Logged in as %s\n", describeUser(rt.app.Session().Snapshot().User))
	return nil
}

// RegisterCommand represents the register command
type RegisterCommand struct {
	g             *globalOptions
	email         string
	username      string
	passwordStdin bool
}

// NewRegisterCmd creates and returns the register cobra command
func NewRegisterCmd(g *globalOptions) *cobra.Command {
	c := &RegisterCommand{g: g}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a TextScope account",
		Long: `Create an account. Log in afterwards with textscope login.

Examples:
  textscope register --email ada@example.com --username ada`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	cmd.Flags().StringVar(&c.email, "email", "", "Email address")
	cmd.Flags().StringVarP(&c.username, "username", "u", "", "Username")
	cmd.Flags().BoolVar(&c.passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (c *RegisterCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := c.g.setup(cmd, nil)
	if err != nil {
		return err
	}
	password, err := readSecret(cmd, lineReader(cmd), "Password: ", c.passwordStdin)
	if err != nil {
		return err
	}
	ev := app.Register{Email: c.email, Username: c.username, Password: password}
	return rt.dispatch(commandContext(cmd), "Creating account", ev)
}

// NewLogoutCmd creates and returns the logout cobra command
func NewLogoutCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.setup(cmd, nil)
			if err != nil {
				return err
			}
			if err := rt.dispatch(commandContext(cmd), "Signing out", app.Logout{}); err != nil {
				return err
			}
			fmt.Fprintln(rt.stdout, "Logged out")
			return nil
		},
	}
}

// WhoamiCommand represents the whoami command
type WhoamiCommand struct {
	g   *globalOptions
	out outputOptions
}

// NewWhoamiCmd creates and returns the whoami cobra command
func NewWhoamiCmd(g *globalOptions) *cobra.Command {
	c := &WhoamiCommand{g: g}
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and token expiry",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.out.register(cmd, g, false, false)
	return cmd
}

func (c *WhoamiCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := c.g.setup(cmd, nil)
	if err != nil {
		return err
	}
	format, err := c.out.resolve(rt.cfg, domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML)
	if err != nil {
		return err
	}
	if err := rt.start(commandContext(cmd)); err != nil {
		return err
	}
	if err := rt.requireSession(); err != nil {
		return err
	}

	view := service.ProfileView{
		User:    rt.app.Session().Snapshot().User,
		BaseURL: rt.client.BaseURL(),
	}
	if claims, err := service.InspectToken(rt.app.Session().Token()); err == nil && claims.ExpiresAt != nil {
		view.ExpiresAt = claims.ExpiresAt.UTC().Format(time.RFC3339)
	} else if err != nil {
		rt.logger.Debug("token claims unavailable", "error", err)
	}

	return c.out.write(rt, format, func(w io.Writer) error {
		return rt.formatter.WriteProfile(w, view, format)
	})
}

func describeUser(u *domain.UserProfile) string {
	if u == nil {
		return "unknown user"
	}
	return strings.TrimSpace(u.Username)
}
