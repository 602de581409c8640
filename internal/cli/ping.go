package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/csv2pg/csv2pg-go/internal/config"
	"github.com/csv2pg/csv2pg-go/internal/database"
)

type pingOptions struct {
	timeout time.Duration
}

func (a *app) newPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the database settings can connect",
		Long: `Connects with the database flags (or the database section of --config)
and pings the server. The CSV workflow itself never connects.`,
		Args: cobra.NoArgs,
		RunE: a.runPing,
	}
	cmd.Flags().DurationVar(&a.pingOpts.timeout, "timeout", config.DefaultTimeout, "Give up after this long")
	return cmd
}

func (a *app) runPing(cmd *cobra.Command, _ []string) error {
	db := a.cfg.DB
	if db.Port < 0 || db.Port > 65535 {
		return fmt.Errorf("invalid port: %d", db.Port)
	}

	rep := a.reporter(cmd)
	port, err := a.resolvePort(rep)
	if err != nil {
		return err
	}
	rep.Debugf("Arguments:")
	rep.DebugFields(a.debugFields(port))

	rep.Verbosef("Connecting to %s on %s:%d.", db.Type, db.Host, port)

	ctx, cancel := context.WithTimeout(cmd.Context(), a.pingOpts.timeout)
	defer cancel()

	conn, err := database.Connect(ctx, db.Type, database.Credentials{
		User:     db.User,
		Password: db.Password,
		Host:     db.Host,
		Port:     port,
		DBName:   db.Name,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	rep.Successf("Connected to %s database %s", database.ParseType(db.Type), db.Name)
	return nil
}
