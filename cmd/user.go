package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	coreUser "github.com/frahmantamala/finance-tracker/internal/core/user"
	"github.com/frahmantamala/finance-tracker/internal/user"
	userPostgres "github.com/frahmantamala/finance-tracker/internal/user/postgres"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
}

var (
	newUserEmail string
	newUserName  string
	newUserAdmin bool
)

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user, prompting for the password",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		lg := logger.Init(cfg.Logging.Level, cfg.Logging.Format)

		dbs, err := initDB(cfg.Database, false)
		if err != nil {
			return err
		}
		defer dbs.Close()

		svc := user.NewService(userPostgres.NewUserRepository(dbs.Gorm), coreUser.NewHasher(cfg.Security.BCryptCost), lg)

		roleID := internal.RoleRegular
		if newUserAdmin {
			roleID = internal.RoleAdmin
		}
		created, err := svc.Create(context.Background(), user.CreateUserDTO{
			Name:     newUserName,
			Email:    newUserEmail,
			Password: password,
			RoleID:   roleID,
		})
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok {
				return errors.New(appErr.GetDetailedMessage())
			}
			return err
		}

		fmt.Printf("Created user %d (%s, role %d)\n", created.ID, created.Email, created.RoleID)
		return nil
	},
}

// readPassword prompts twice on a terminal and reads one line from piped stdin.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func init() {
	createUserCmd.Flags().StringVar(&newUserEmail, "email", "", "email address")
	createUserCmd.Flags().StringVar(&newUserName, "name", "", "display name")
	createUserCmd.Flags().BoolVar(&newUserAdmin, "admin", false, "grant the admin role")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("name")

	userCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(userCmd)
}
