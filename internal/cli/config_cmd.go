package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newConfigCmd prints the settings the portal would run with.
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			rows := [][2]string{
				{"PORT", cfg.GetPort()},
				{"ENV", cfg.GetEnv()},
				{"IAM_SERVICE_URL", cfg.GetIAMServiceURL()},
				{"PROFILE_SERVICE_URL", cfg.GetProfileServiceURL()},
				{"STALL_SERVICE_URL", cfg.GetStallServiceURL()},
				{"RESERVATION_SERVICE_URL", cfg.GetReservationServiceURL()},
				{"REQUEST_TIMEOUT", cfg.GetRequestTimeout().String()},
				{"NOTICE_TTL", cfg.GetNoticeTTL().String()},
				{"LOGOUT_TIMEOUT", cfg.GetLogoutTimeout().String()},
				{"MAX_SESSION_AGE", cfg.GetMaxSessionAge().String()},
				{"SESSION_COOKIE_NAME", cfg.GetSessionCookieName()},
				{"ALLOWED_ORIGINS", cfg.GetAllowedOrigins().String()},
			}
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
			}
			return w.Flush()
		},
	}
}
