package cli

import (
	"context"

	"github.com/abgdnv/productctl/internal/controller"
	"github.com/charmbracelet/huh"
)

func promptCreate(streams Streams, form *controller.CreateForm) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&form.Name),
			huh.NewInput().
				Title("Price").
				Placeholder("19.99").
				Value(&form.Price),
			huh.NewInput().
				Title("Description").
				Value(&form.Description),
		),
	).WithInput(streams.In).WithOutput(streams.ErrOut).Run()
}

func promptUpdate(streams Streams, form *controller.UpdateForm) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("Leave empty to keep the current value").
				Value(&form.Name),
			huh.NewInput().
				Title("Price").
				Description("Leave empty to keep the current value").
				Value(&form.Price),
			huh.NewInput().
				Title("Description").
				Description("Leave empty to keep the current value").
				Value(&form.Description),
		),
	).WithInput(streams.In).WithOutput(streams.ErrOut).Run()
}

// promptConfirmer asks on the terminal. An aborted prompt counts as a no.
type promptConfirmer struct {
	streams Streams
}

func (p *promptConfirmer) Confirm(_ context.Context, question string) bool {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).WithInput(p.streams.In).WithOutput(p.streams.ErrOut).Run()
	return err == nil && ok
}

type acceptAll struct{}

func (acceptAll) Confirm(context.Context, string) bool { return true }

type declineAll struct{}

func (declineAll) Confirm(context.Context, string) bool { return false }
