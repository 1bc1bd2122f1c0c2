package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/aidlink/aidlink/src/aidlinkctl/internal/output"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the AidLink server",
	Long:  `Authenticates with the AidLink server and stores the session locally.`,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from the AidLink server",
	Long:  `Drops the local session and revokes the token server-side (best effort).`,
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new AidLink account",
	Long: `Creates a new account on the AidLink server and stores the session
locally. Until the account is verified it can browse but not publish.`,
	RunE: runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current user information",
	Long:  `Validates the current token and displays user information.`,
	RunE:  runWhoami,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify an account with the emailed token",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset token",
	Args:  cobra.ExactArgs(1),
	RunE:  runForgotPassword,
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Reset the account password with a reset token",
	RunE:  runResetPassword,
}

func init() {
	loginCmd.Flags().StringP("email", "e", "", "Account email")
	loginCmd.Flags().StringP("password", "p", "", "Password")

	registerCmd.Flags().StringP("email", "e", "", "Account email (required)")
	registerCmd.Flags().StringP("password", "p", "", "Password")
	registerCmd.Flags().StringP("name", "n", "", "Display name (required)")
	registerCmd.Flags().StringP("type", "t", "individual", "Account type (individual, org)")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("name")

	verifyCmd.Flags().StringP("email", "e", "", "Account email (required)")
	_ = verifyCmd.MarkFlagRequired("email")

	resetPasswordCmd.Flags().StringP("email", "e", "", "Account email (required)")
	resetPasswordCmd.Flags().String("token", "", "Reset token (required)")
	resetPasswordCmd.Flags().StringP("password", "p", "", "New password")
	_ = resetPasswordCmd.MarkFlagRequired("email")
	_ = resetPasswordCmd.MarkFlagRequired("token")
}

// promptLine reads a single line from stdin with a prompt
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// promptPassword reads a password from the terminal without echo
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return string(bytePassword), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	if email == "" {
		var err error
		email, err = promptLine("Email: ")
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}

	if password == "" {
		var err error
		password, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	s := getSession()
	ctx := context.Background()

	user, err := s.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	serverURL := viper.GetString("server.url")

	if getOutputFormat() == "json" {
		return output.PrintJSON(map[string]interface{}{
			"message":  "Login successful",
			"email":    user.Email,
			"name":     user.Name,
			"type":     user.Type,
			"verified": user.Verified,
			"server":   serverURL,
		})
	}

	output.PrintMessage(fmt.Sprintf("Logged in as %s (%s) on %s", user.Name, user.Email, serverURL))
	if !user.Verified {
		output.PrintMessage("Account is not verified yet: you can browse, but not publish.")
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	s := getSession()
	ctx := context.Background()

	// Local state goes first; the server-side revocation is best effort
	if err := s.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if getOutputFormat() == "json" {
		return output.PrintJSON(map[string]string{"message": "Logged out"})
	}

	output.PrintMessage("Logged out successfully.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	name, _ := cmd.Flags().GetString("name")
	accountType, _ := cmd.Flags().GetString("type")

	if password == "" {
		var err error
		password, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	s := getSession()
	ctx := context.Background()

	user, err := s.Register(ctx, email, password, name, accountType)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if getOutputFormat() == "json" {
		return output.PrintJSON(map[string]interface{}{
			"message": "Account created",
			"email":   user.Email,
			"name":    user.Name,
			"type":    user.Type,
		})
	}

	output.PrintMessage(fmt.Sprintf("Account created for %s (%s).", user.Name, user.Email))
	output.PrintMessage("Check your email for a verification token, then run 'aidlinkctl verify <token> -e " + user.Email + "'.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	resp, err := c.Validate(ctx)
	if err != nil {
		return fmt.Errorf("token validation failed: %w", err)
	}

	if getOutputFormat() == "json" {
		return output.PrintJSON(resp)
	}

	output.PrintTable(
		[]string{"FIELD", "VALUE"},
		[][]string{
			{"Name", resp.User.Name},
			{"Email", resp.User.Email},
			{"Slug", resp.User.Slug},
			{"Type", resp.User.Type},
			{"Verified", fmt.Sprintf("%t", resp.User.Verified)},
			{"User ID", resp.User.ID},
		},
	)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")

	c := getClient()
	ctx := context.Background()

	if err := c.Verify(ctx, args[0], email); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if getOutputFormat() == "json" {
		return output.PrintJSON(map[string]string{"message": "Account verified", "email": email})
	}

	output.PrintMessage("Account verified. You can now publish posts.")
	return nil
}

func runForgotPassword(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	if err := c.ForgotPassword(ctx, args[0]); err != nil {
		return err
	}

	output.PrintMessage("If the account exists, a reset token has been sent.")
	return nil
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	token, _ := cmd.Flags().GetString("token")
	password, _ := cmd.Flags().GetString("password")

	if password == "" {
		var err error
		password, err = promptPassword("New password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	c := getClient()
	ctx := context.Background()

	if err := c.ResetPassword(ctx, email, token, password); err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}

	output.PrintMessage("Password updated. Previous sessions have been revoked; run 'aidlinkctl login'.")
	return nil
}
