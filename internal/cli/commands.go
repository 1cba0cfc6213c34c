package cli

import (
	"context"
	"io"

	"github.com/abgdnv/productctl/internal/app"
	"github.com/abgdnv/productctl/internal/controller"
	"github.com/abgdnv/productctl/internal/notify"
	"github.com/abgdnv/productctl/internal/render"
	"github.com/spf13/cobra"
)

// tableView prints every rendering of the collection as a table.
type tableView struct {
	out io.Writer
}

func (v tableView) Show(d render.Display) {
	_ = render.WriteTable(v.out, d)
}

// oneShot runs fn with a controller printing to the command streams.
// One-shot commands only log when --log-level is given, so that stdout stays a table.
func (o *rootOptions) oneShot(cmd *cobra.Command, confirmer controller.Confirmer, fn func(ctx context.Context, ctrl *controller.Controller) error) error {
	logTo := io.Discard
	if cmd.Flags().Changed("log-level") {
		logTo = o.streams.ErrOut
	}
	return o.withEnvironment(cmd, logTo, func(ctx context.Context, env *environment) error {
		deps := app.SetupDependencies(env.cfg, env.logger)
		printer := &notify.Printer{Out: o.streams.Out, Err: o.streams.ErrOut}
		ctrl := controller.New(deps.Client, tableView{out: o.streams.Out}, printer, confirmer, env.logger)
		if err := fn(ctx, ctrl); err != nil {
			return &reportedError{err: err}
		}
		return nil
	})
}

func newListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.oneShot(cmd, declineAll{}, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.Refresh(ctx)
			})
		},
	}
}

func newCreateCmd(o *rootOptions) *cobra.Command {
	var form controller.CreateForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product with the next free numeric id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !anyChanged(cmd, "name", "price", "description") {
				if err := promptCreate(o.streams, &form); err != nil {
					return err
				}
			}
			return o.oneShot(cmd, declineAll{}, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.Create(ctx, form)
			})
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "Product name (required)")
	cmd.Flags().StringVar(&form.Price, "price", "", "Price, a positive number")
	cmd.Flags().StringVar(&form.Description, "description", "", "Description")
	return cmd
}

func newUpdateCmd(o *rootOptions) *cobra.Command {
	var form controller.UpdateForm
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a product, keeping the others",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.ID = args[0]
			if !anyChanged(cmd, "name", "price", "description") {
				if err := promptUpdate(o.streams, &form); err != nil {
					return err
				}
			}
			return o.oneShot(cmd, declineAll{}, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.Update(ctx, form)
			})
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "New name")
	cmd.Flags().StringVar(&form.Price, "price", "", "New price, a positive number")
	cmd.Flags().StringVar(&form.Description, "description", "", "New description")
	return cmd
}

func newDeleteCmd(o *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirmer controller.Confirmer = &promptConfirmer{streams: o.streams}
			if yes {
				confirmer = acceptAll{}
			}
			return o.oneShot(cmd, confirmer, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.Delete(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}
