package cli

import (
	"bufio"
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the gophauth command tree.
func NewRootCommand(dial Dialer) *cobra.Command {
	a := &App{dial: dial}

	root := &cobra.Command{
		Use:           "gophauth",
		Short:         "Client for the gophauth account service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (JSON)")
	root.PersistentFlags().StringVarP(&a.addr, "addr", "a", "", "Server address (host:port)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Per-request timeout")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.refreshCmd(),
		a.verifyCmd(),
		a.forgotPasswordCmd(),
		a.resendVerificationCmd(),
		a.resetPasswordCmd(),
		a.confirmVerificationCmd(),
	)
	return root
}

func (a *App) registerCmd() *cobra.Command {
	req := &pb.RegisterRequest{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (password is prompted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			for _, field := range []struct {
				value  *string
				prompt string
			}{
				{&req.Username, "Username"},
				{&req.Email, "Email"},
				{&req.PhoneNumber, "Phone number (digits only)"},
			} {
				if *field.value != "" {
					continue
				}
				v, err := GetSimpleText(reader, field.prompt, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				*field.value = v
			}

			pw, err := readNewPassword(cmd)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)
			req.Password = string(pw)

			return a.call(cmd, func(ctx context.Context, c AccountClient) (any, error) {
				resp, err := c.Register(ctx, req)
				if err != nil {
					return nil, err
				}
				return resp.GetAccount(), nil
			})
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Username (3-20 letters, digits or _)")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&req.PhoneNumber, "phone", "p", "", "Phone number, 10-15 digits")
	return cmd
}

// readNewPassword prompts twice and fails when the entries differ.
func readNewPassword(cmd *cobra.Command) ([]byte, error) {
	pw, err := GetPassword(cmd.OutOrStdout(), "Password")
	if err != nil {
		return nil, err
	}
	confirm, err := GetPassword(cmd.OutOrStdout(), "Repeat password")
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(confirm)
	if string(pw) != string(confirm) {
		common.WipeByteArray(pw)
		return nil, errors.New("passwords do not match")
	}
	return pw, nil
}

func (a *App) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email|username|phone>",
		Short: "Log in and print a token pair (password is prompted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := GetPassword(cmd.OutOrStdout(), "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			return a.call(cmd, func(ctx context.Context, c AccountClient) (any, error) {
				return c.Login(ctx, &pb.LoginRequest{Identifier: args[0], Password: string(pw)})
			})
		},
	}
}

func (a *App) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <refresh-token>",
		Short: "Exchange a refresh token for a new token pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, func(ctx context.Context, c AccountClient) (any, error) {
				return c.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: args[0]})
			})
		},
	}
}

func (a *App) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <access-token>",
		Short: "Check an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, func(ctx context.Context, c AccountClient) (any, error) {
				return c.VerifyToken(ctx, &pb.VerifyTokenRequest{Token: args[0]})
			})
		},
	}
}

func (a *App) forgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email|username|phone>",
		Short: "Request a password reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, func(ctx context.Context, c AccountClient) (any, error) {
				return c.ForgotPassword(ctx, &pb.IdentifierRequest{Identifier: args[0]})
			})
		},
	}
}

func (a *App) resendVerificationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resend-verification <email|username|phone>",
		Short: "Request a new verification token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, func(ctx context.Context, c AccountClient) (any, error) {
				return c.ResendVerification(ctx, &pb.IdentifierRequest{Identifier: args[0]})
			})
		},
	}
}

func (a *App) resetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <reset-token>",
		Short: "Set a new password using a reset token (password is prompted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readNewPassword(cmd)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			return a.call(cmd, func(ctx context.Context, c AccountClient) (any, error) {
				return c.ResetPassword(ctx, &pb.ResetPasswordRequest{Token: args[0], NewPassword: string(pw)})
			})
		},
	}
}

func (a *App) confirmVerificationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm-verification <verification-token>",
		Short: "Mark the account as verified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, func(ctx context.Context, c AccountClient) (any, error) {
				return c.ConfirmVerification(ctx, &pb.ConfirmVerificationRequest{Token: args[0]})
			})
		},
	}
}
