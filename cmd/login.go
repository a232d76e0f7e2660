// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"examdesk/cli/internal/auth"
	apperrors "examdesk/cli/internal/errors"
	"examdesk/cli/internal/httperrors"
	"examdesk/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmail    string
	loginRedirect string
)

// loginCmd signs in with email and password.
// The issued credential is verified against the profile endpoint before it is
// stored in the OS keychain.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in with email and password",
	Long: `The login command asks for your email and password, signs in to the booking
service and stores the issued credential in the OS keychain. If already signed in
with a valid session, it skips the prompt.

When stdin is not a terminal, the email (unless --email is given) and the
password are read one per line from stdin. Use --redirect to open a page right
after signing in.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		// If already logged in with a valid session, short-circuit
		if ok, _ := a.auth.CheckAuth(ctx); ok {
			fmt.Printf("Already logged in as %s\n", a.auth.State().User.DisplayName())
			return followRedirect(ctx, a, loginRedirect)
		}

		in := bufio.NewReader(os.Stdin)
		email := strings.TrimSpace(loginEmail)
		if email == "" {
			if email, err = promptLine(in, "Email: "); err != nil {
				return err
			}
		}
		password, err := promptPassword(in, "Password: ")
		if err != nil {
			return err
		}

		stop := startSpinner("Signing in")
		err = a.auth.Login(ctx, auth.Credentials{Email: email, Password: password})
		stop()
		if err != nil {
			switch {
			case apperrors.IsKind(err, apperrors.NetworkFailure):
				return httperrors.FormatNetworkError(err, "signing in", a.cfg.APIURL)
			case apperrors.IsKind(err, apperrors.AuthRejected):
				pterm.Error.Println("Invalid email or password.")
				return err
			default:
				return err
			}
		}

		fmt.Println(getRandomLoginGreeting(a.auth.State().User.DisplayName()))
		return followRedirect(ctx, a, loginRedirect)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email (prompted when empty)")
	loginCmd.Flags().StringVar(&loginRedirect, "redirect", "", "Page to open after signing in, e.g. /book")
	rootCmd.AddCommand(loginCmd)
}

// followRedirect opens path after a successful login. Empty path is a no-op.
func followRedirect(ctx context.Context, a *app, path string) error {
	if path == "" {
		return nil
	}
	fmt.Println()
	return openPath(ctx, a, path)
}

// promptLine reads one line from in. On a terminal the prompt and answer are
// cleared afterwards.
func promptLine(in *bufio.Reader, prompt string) (string, error) {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Print(prompt)
	}
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	line = strings.TrimSpace(line)
	if interactive {
		terminal.ClearPreviousLines(os.Stdout, len(prompt)+len(line))
	}
	return line, nil
}

// promptPassword reads a password without echo on a terminal, or one line from
// in otherwise.
func promptPassword(in *bufio.Reader, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Print(prompt)
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s! Ready to book?",
		"💫 Successfully authenticated as %s",
		"✅ Authentication complete! Hi %s!",
		"🔓 Access granted! Welcome %s!",
	}

	return fmt.Sprintf(greetings[rand.Intn(len(greetings))], identifier)
}
