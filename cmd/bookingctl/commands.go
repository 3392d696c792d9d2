package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/salon-booking/config"
	"github.com/jwalitptl/salon-booking/internal/availability"
	"github.com/jwalitptl/salon-booking/internal/migrate"
	"github.com/jwalitptl/salon-booking/internal/model"
	"github.com/jwalitptl/salon-booking/internal/service/booking"
	"github.com/jwalitptl/salon-booking/internal/service/notification"
	"github.com/jwalitptl/salon-booking/internal/store"
	"github.com/jwalitptl/salon-booking/pkg/logger"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

type app struct {
	configPaths []string
	cfg         *config.Config
	log         *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "bookingctl",
		Short:         "Operate the salon booking store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(a.configPaths...)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logCfg := cfg.Log.ToLoggerConfig()
			logCfg.Output = cmd.ErrOrStderr()
			a.log = logger.NewLogger(&logCfg)
			a.log.SetGlobal()
			return nil
		},
	}
	root.PersistentFlags().StringSliceVar(&a.configPaths, "config-path", nil, "directories searched for config.yaml")

	root.AddCommand(
		a.migrateCmd(),
		a.servicesCmd(),
		a.hoursCmd(),
		a.slotsCmd(),
	)
	return root
}

func (a *app) open(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, a.cfg, metrics.NewNop(), a.log)
}

func (a *app) migrateCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				files, err := migrate.Files()
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(cmd.OutOrStdout(), f)
				}
				return nil
			}

			if a.cfg.Store.Driver != config.StorePostgres {
				return fmt.Errorf("migrate requires the %q store driver", config.StorePostgres)
			}
			st, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			applied, err := migrate.Up(cmd.Context(), st.DB)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			}
			for _, f := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", f)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list embedded migrations without applying them")
	return cmd
}

func (a *app) servicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List bookable services",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			loc, err := a.cfg.Business.Location()
			if err != nil {
				return err
			}
			cat, _, err := st.Snapshots(cmd.Context(), loc)
			if err != nil {
				return err
			}
			return printServices(cmd.OutOrStdout(), cat.List())
		},
	}
}

func (a *app) hoursCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hours",
		Short: "Show the weekly opening hours",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			loc, err := a.cfg.Business.Location()
			if err != nil {
				return err
			}
			_, cal, err := st.Snapshots(cmd.Context(), loc)
			if err != nil {
				return err
			}
			return printHours(cmd.OutOrStdout(), cal.Hours())
		},
	}
}

func (a *app) slotsCmd() *cobra.Command {
	var date, serviceID string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Show the slot grid for a date and service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := model.ParseDate(date)
			if err != nil {
				return err
			}

			st, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			loc, err := a.cfg.Business.Location()
			if err != nil {
				return err
			}
			cat, cal, err := st.Snapshots(cmd.Context(), loc)
			if err != nil {
				return err
			}

			svc := booking.NewService(cat, cal, st.Bookings, notification.NewLogNotifier(a.log),
				booking.Config{}, metrics.NewNop(), a.log)
			slots, err := svc.GetAvailableSlots(cmd.Context(), day, serviceID)
			if err != nil {
				return err
			}
			return printSlots(cmd.OutOrStdout(), slots)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVar(&serviceID, "service", "", "service id")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

func printServices(out io.Writer, services []model.Service) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tMINUTES")
	for _, s := range services {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\n", s.ID, s.Name, s.Price, s.DurationMinutes)
	}
	return w.Flush()
}

func printHours(out io.Writer, hours []model.DayHours) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tOPEN\tCLOSE")
	for _, h := range hours {
		if h.IsClosed {
			fmt.Fprintf(w, "%s\tclosed\t\n", h.Weekday())
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", h.Weekday(), h.OpenTime, h.CloseTime)
	}
	return w.Flush()
}

func printSlots(out io.Writer, slots []model.Slot) error {
	fmt.Fprintf(out, "state: %s\n", availability.DayState(slots))
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "START\tEND\tAVAILABLE")
	for _, s := range slots {
		fmt.Fprintf(w, "%s\t%s\t%t\n", s.Start, s.End, s.Available)
	}
	return w.Flush()
}
