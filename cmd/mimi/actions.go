package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonaustin/mimi/internal/pet"
	"github.com/jonaustin/mimi/internal/ui"
)

// NewStatsCmd creates the stats subcommand.
func NewStatsCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the saved pet's stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			loaded, err := a.loadPet()
			if err != nil {
				return err
			}
			if !loaded {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved pet yet. Run mimi to hatch one.")
				return nil
			}

			st := a.engine.State()
			if plain {
				fmt.Fprint(cmd.OutOrStdout(), ui.RenderCard(st, a.cfg.Pet.StatMax))
				fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", pet.GetStatusWithLabel(st))
				return nil
			}
			return ui.DisplayStats(st, a.cfg.Pet.StatMax)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the card instead of opening a popup")
	return cmd
}

// NewFeedCmd creates the feed subcommand.
func NewFeedCmd() *cobra.Command {
	foods := pet.DefaultConfig().FoodNames()
	return &cobra.Command{
		Use:       "feed <food>",
		Short:     "Feed the pet (" + strings.Join(foods, ", ") + ")",
		Args:      cobra.ExactArgs(1),
		ValidArgs: foods,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPet(cmd, func(a *app) error {
				wasSleeping := a.engine.State().Sleeping
				if err := a.engine.Feed(args[0]); err != nil {
					if pet.IsInvalidArgument(err) {
						return fmt.Errorf("unknown food %q, try one of: %s", args[0], strings.Join(a.cfg.Pet.FoodNames(), ", "))
					}
					return err
				}
				st := a.engine.State()
				if wasSleeping {
					fmt.Fprintf(cmd.OutOrStdout(), "%s woke up!\n", st.Name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Fed %s some %s. Hunger is now %d.\n", st.Name, args[0], st.Stats.Hunger)
				return nil
			})
		},
	}
}

// NewPetCmd creates the pet subcommand.
func NewPetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pet",
		Short: "Pet the pet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPet(cmd, func(a *app) error {
				if err := requireAwake(a); err != nil {
					return err
				}
				if err := a.engine.Pet(); err != nil {
					return err
				}
				st := a.engine.State()
				fmt.Fprintf(cmd.OutOrStdout(), "%s purrs. Happiness is now %d.\n", st.Name, st.Stats.Happiness)
				return nil
			})
		},
	}
}

// NewCleanCmd creates the clean subcommand.
func NewCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Give the pet a bath",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPet(cmd, func(a *app) error {
				if err := requireAwake(a); err != nil {
					return err
				}
				if err := a.engine.Clean(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is squeaky clean.\n", a.engine.State().Name)
				return nil
			})
		},
	}
}

// NewResetCmd creates the reset subcommand.
func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved pet and start over with a new egg",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.engine.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Started over with a new egg.")
			return nil
		},
	}
}

var errSleeping = errors.New("pet is sleeping")

func requireAwake(a *app) error {
	if st := a.engine.State(); st.Sleeping {
		return fmt.Errorf("%w: %s is sleeping, feed them to wake up", errSleeping, st.Name)
	}
	return nil
}

// withPet loads the saved pet, or hatches one, and runs fn against it
func withPet(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	loaded, err := a.loadPet()
	if err != nil {
		return err
	}
	if !loaded {
		fmt.Fprintf(cmd.OutOrStdout(), "A new egg appears! Say hello to %s.\n", a.engine.State().Name)
	}
	return fn(a)
}
