package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/careeriq/internal/session"
	"github.com/jonathan/careeriq/internal/types"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	RunE:  runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and clear stored credentials",
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the backend and session status",
	RunE:  runStatus,
}

var (
	authName     string
	authEmail    string
	authPassword string
)

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, signupCmd} {
		cmd.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
		cmd.Flags().StringVarP(&authPassword, "password", "p", "", "Account password (prompted on stdin when omitted)")
	}
	signupCmd.Flags().StringVarP(&authName, "name", "n", "", "Full name")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, statusCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}
	req := types.LoginRequest{Email: strings.TrimSpace(authEmail), Password: password}
	if err := current.session.SignIn(cmd.Context(), current.api, req); err != nil {
		return signInError(err)
	}
	return printSignedIn(cmd)
}

func runSignup(cmd *cobra.Command, _ []string) error {
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}
	req := types.SignupRequest{
		Name:     strings.TrimSpace(authName),
		Email:    strings.TrimSpace(authEmail),
		Password: password,
	}
	if err := current.session.SignUp(cmd.Context(), current.api, req); err != nil {
		return signInError(err)
	}
	return printSignedIn(cmd)
}

func runLogout(cmd *cobra.Command, _ []string) error {
	wasActive := current.session.IsActive()
	current.session.Logout()
	if !wasActive {
		fmt.Fprintln(cmd.OutOrStdout(), "No active session")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Backend: %s\n", current.cfg.APIBaseURL())

	user, ok := current.session.User()
	if !ok {
		fmt.Fprintln(out, "Session: not logged in")
		return nil
	}
	fmt.Fprintf(out, "Session: logged in as %s <%s>\n", user.Name, user.Email)
	if exp, ok := current.session.ExpiresAt(); ok {
		fmt.Fprintf(out, "Expires: %s\n", exp.Local().Format("2006-01-02 15:04 MST"))
	}
	return nil
}

// signInError reports err unless only persisting the new session failed.
func signInError(err error) error {
	var persistErr *session.PersistError
	if errors.As(err, &persistErr) {
		current.log.WithError(err).Warn("signed in, but the session could not be saved", nil)
		return nil
	}
	return errors.New(authMessage(err))
}

func printSignedIn(cmd *cobra.Command) error {
	user, _ := current.session.User()
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func readPassword(cmd *cobra.Command) (string, error) {
	if authPassword != "" {
		return authPassword, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", nil
	}
	return strings.TrimRight(line, "\r\n"), nil
}
