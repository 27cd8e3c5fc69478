/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/poseidon-capital/console/internal/db"
	"github.com/poseidon-capital/console/internal/mq"
	"github.com/poseidon-capital/console/internal/security"
	"github.com/poseidon-capital/console/internal/services"
	"github.com/poseidon-capital/console/internal/store"
	"github.com/poseidon-capital/console/internal/validation"
	"github.com/poseidon-capital/console/types"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage console accounts",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, closeFn, err := openUserService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		list, err := users.List(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSERNAME\tFULL NAME\tROLE")
		for _, u := range list {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.FullName, u.Role)
		}
		return tw.Flush()
	},
}

var userFlags struct {
	fullname string
	role     string
	password string
}

var userCreateCmd = &cobra.Command{
	Use:   "create USERNAME",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user := types.User{
			Username: strings.TrimSpace(args[0]),
			FullName: strings.TrimSpace(userFlags.fullname),
			Role:     types.Role(strings.ToUpper(strings.TrimSpace(userFlags.role))),
		}
		if user.FullName == "" {
			user.FullName = user.Username
		}
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		v := validation.New()
		errs := validation.FieldErrors{}
		errs.Merge(v.Struct(user))
		errs.Merge(v.Password(password))
		if len(errs) > 0 {
			return errs
		}

		users, closeFn, err := openUserService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		created, err := users.Create(cmd.Context(), user, password)
		if err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fmt.Errorf("username %q already exists", user.Username)
			}
			return err
		}
		slog.Info("user created", "id", created.ID, "username", created.Username, "role", created.Role)
		return nil
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd USERNAME",
	Short: "Set the password of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		if errs := validation.New().Password(password); errs != nil {
			return errs
		}

		users, closeFn, err := openUserService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		user, err := users.GetByUsername(cmd.Context(), args[0])
		if err != nil {
			return lookupError(args[0], err)
		}
		if err := users.UpdatePassword(cmd.Context(), user.ID, password); err != nil {
			return err
		}
		slog.Info("password updated", "username", user.Username)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete USERNAME",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users, closeFn, err := openUserService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		user, err := users.GetByUsername(cmd.Context(), args[0])
		if err != nil {
			return lookupError(args[0], err)
		}
		if err := users.Delete(cmd.Context(), user.ID); err != nil {
			return err
		}
		slog.Info("user deleted", "username", user.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd, userCreateCmd, userPasswdCmd, userDeleteCmd)

	userCreateCmd.Flags().StringVar(&userFlags.fullname, "fullname", "", "display name (defaults to the username)")
	userCreateCmd.Flags().StringVar(&userFlags.role, "role", string(types.RoleUser), "ADMIN or USER")
	for _, c := range []*cobra.Command{userCreateCmd, userPasswdCmd} {
		c.Flags().StringVar(&userFlags.password, "password", "", "password (prompted for when omitted)")
	}
}

// openUserService wires a UserService over the configured database. Changes
// made here publish events but cannot reach sessions held by a running
// server; those end at their idle timeout.
func openUserService(ctx context.Context) (*services.UserService, func(), error) {
	conn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	backend, err := mq.Open(ctx, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	publisher := mq.NewPublisher(backend, cfg.Events.Channel, slog.Default())
	users := services.NewUserService(store.NewUserRepository(conn), security.NewBCryptHasher(cfg.Security.BcryptCost), publisher, nil, slog.Default())
	return users, func() { closeConn(conn, backend) }, nil
}

func closeConn(conn *sql.DB, backend mq.Backend) {
	if backend != nil {
		_ = backend.Close()
	}
	_ = conn.Close()
}

func lookupError(username string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("user %q not found", username)
	}
	return err
}

// readPassword returns the --password flag, prompts on a terminal, or reads
// one line from piped stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	if userFlags.password != "" {
		return userFlags.password, nil
	}
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		first, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		fmt.Fprint(cmd.ErrOrStderr(), "Repeat password: ")
		second, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		if string(first) != string(second) {
			return "", errors.New("passwords do not match")
		}
		return string(first), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
