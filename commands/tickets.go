package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hms-platform/hmstrack/ticket"
)

func newTicketsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Manage work tickets",
	}

	cmd.AddCommand(
		newTicketsListCmd(app),
		newTicketsShowCmd(app),
		newTicketsUpdateCmd(app),
		newTicketsCloseCmd(app),
	)

	return cmd
}

func newTicketsListCmd(app *App) *cobra.Command {
	var (
		assignee  string
		component string
		state     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			tickets, err := app.Tickets().List(ticket.Filter{
				AssignedTo: assignee,
				Component:  component,
				Status:     ticket.Status(state),
			})
			if err != nil {
				return err
			}

			if len(tickets) == 0 {
				fmt.Println("No matching work tickets.")
				return nil
			}

			for _, t := range tickets {
				fmt.Printf("%s  %-8s  %-10s  %-16s  %s\n",
					t.ID, t.Priority, t.Status, t.AssignedTo, t.Component)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&assignee, "assignee", "", "Filter by assigned agent")
	cmd.Flags().StringVarP(&component, "component", "C", "", "Filter by component")
	cmd.Flags().StringVar(&state, "status", string(ticket.StatusOpen), "Filter by status (empty for all)")

	return cmd
}

func newTicketsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ticket-id>",
		Short: "Show a work ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Tickets().Load(args[0])
			if err != nil {
				return err
			}
			return printTicket(t)
		},
	}
}

func newTicketsUpdateCmd(app *App) *cobra.Command {
	var updatesJSON string

	cmd := &cobra.Command{
		Use:   "update <ticket-id>",
		Short: "Apply updates to a work ticket",
		Long: `Apply a JSON object of field updates to a ticket. The details field
is merged key-by-key; all other fields are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var updates map[string]any
			if err := json.Unmarshal([]byte(updatesJSON), &updates); err != nil {
				return fmt.Errorf("invalid --updates JSON: %w", err)
			}
			if len(updates) == 0 {
				return fmt.Errorf("--updates must contain at least one field")
			}

			t, err := app.Tickets().Update(args[0], updates)
			if err != nil {
				return err
			}
			return printTicket(t)
		},
	}

	cmd.Flags().StringVar(&updatesJSON, "updates", "", "JSON object of field updates")
	_ = cmd.MarkFlagRequired("updates")

	return cmd
}

func newTicketsCloseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "close <ticket-id>",
		Short: "Close a work ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Tickets().Close(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Closed ticket %s\n", t.ID)
			return nil
		},
	}
}

func printTicket(t *ticket.WorkTicket) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}
