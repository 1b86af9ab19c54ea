package main

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jonaustin/mimi/internal/config"
	"github.com/jonaustin/mimi/internal/logging"
	"github.com/jonaustin/mimi/internal/pet"
	"github.com/jonaustin/mimi/internal/store"
)

// NewRootCmd creates the root command. Without a subcommand it starts the game.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mimi",
		Short: "Mimi - a virtual kitten in your terminal",
		Long: `Mimi is a virtual pet that hatches from an egg, grows into a kitten
and then an adult cat. Keep it fed, happy and clean; it gets hungry
even while you are not looking, as long as the game is running.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runPlay,
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewPlayCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewFeedCmd())
	cmd.AddCommand(NewPetCmd())
	cmd.AddCommand(NewCleanCmd())
	cmd.AddCommand(NewResetCmd())

	return cmd
}

// app is what a command needs to drive the engine
type app struct {
	cfg    config.Config
	store  store.Store
	logger *log.Logger
	engine *pet.Engine

	logCloser io.Closer
}

// openApp loads the configuration and wires store, logger and engine.
// Interactive sessions log to a file; one-shot commands log to stderr.
func openApp(cmd *cobra.Command, logToFile bool) (*app, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	if logToFile {
		path := cfg.LogFile
		if path == "" {
			path = filepath.Join(cfg.DataDir, "mimi.log")
		}
		a.logger, a.logCloser, err = logging.OpenFile(path, cfg.LogLevel)
	} else {
		a.logger, err = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	}
	if err != nil {
		return nil, err
	}

	a.store, err = store.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		a.close()
		return nil, err
	}
	a.logger.Debug("opened store", "backend", cfg.Store, "dir", cfg.DataDir)

	a.engine = pet.NewEngine(cfg.Pet, a.store, a.logger)
	return a, nil
}

// loadPet restores the saved pet. A corrupt save is replaced by a fresh egg.
func (a *app) loadPet() (bool, error) {
	loaded, err := a.engine.Load()
	if pet.IsCorruptSave(err) {
		a.logger.Warn("save data is corrupt, starting over", "err", err)
		return false, a.engine.Reset()
	}
	return loaded, err
}

// close releases the store and the log file, logging anything that fails.
// The log file goes last so store errors still reach it.
func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("failed to close store", "err", err)
		}
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			log.Error("failed to close log file", "err", err)
		}
	}
}
