package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/seed"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing store before initialization."`
	Seed  bool `help:"Load the predefined sample habits after initializing." default:"true" negatable:""`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		storePath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(storePath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(storePath); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			fmt.Printf("Deleted existing store at: %s\n", storePath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habitkit storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Seed {
		habits, err := seed.Bootstrap(ctx.Store)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %d sample habits.\n", len(habits))
	}

	return nil
}
