package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/zooshift/internal/config"
	"github.com/marcus/zooshift/internal/db"
	"github.com/marcus/zooshift/internal/journal"
	"github.com/marcus/zooshift/internal/logging"
	"github.com/marcus/zooshift/internal/orchestrator"
	"github.com/marcus/zooshift/internal/roster"
	"github.com/marcus/zooshift/internal/schedule"
	"github.com/marcus/zooshift/internal/zoo"
)

// env is everything one session needs: configuration, a zoo built from the
// roster, the orchestrator over it and, when enabled, the journal.
type env struct {
	cfg      *config.Config
	orch     *orchestrator.Orchestrator
	database *db.DB
	journal  *journal.Journal
	logger   *logging.Logger
}

// loadConfig reads configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if path, _ := cmd.Flags().GetString("roster"); path != "" {
		cfg.Zoo.Roster = logging.ExpandPath(path)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// openEnv builds a fresh zoo and orchestrator. source is recorded on the
// journal session. Extra handlers receive every orchestrator event.
func openEnv(cmd *cobra.Command, source string, handlers ...orchestrator.EventHandler) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := logging.Init(logging.Config{
		Level:         cfg.Logging.Level,
		Path:          cfg.Logging.Path,
		Format:        cfg.Logging.Format,
		RetentionDays: cfg.Logging.RetentionDays,
	}); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	e := &env{cfg: cfg, logger: logging.Component("cli")}

	name, _ := cmd.Flags().GetString("zoo")
	registry, err := buildRegistry(cfg, name)
	if err != nil {
		return nil, err
	}

	if noJournal, _ := cmd.Flags().GetBool("no-journal"); !noJournal {
		e.openJournal(registry.Name, source)
	}
	if e.journal != nil {
		handlers = append(handlers, e.journal.Handler())
	}

	e.orch = orchestrator.New(registry, schedule.NewStore(),
		orchestrator.WithConfig(orchestrator.Config{
			CleaningThreshold: cfg.Schedule.CleaningThreshold,
			CleanEnough:       cfg.Schedule.CleanEnough,
		}),
		orchestrator.WithEventHandler(fanOut(handlers)),
	)
	e.logger.InfoCtx("session started", map[string]any{
		"zoo":        registry.Name,
		"source":     source,
		"animals":    len(registry.Animals()),
		"enclosures": len(registry.Enclosures()),
		"staff":      len(registry.Staff()),
	})
	return e, nil
}

// openJournal opens the history database. Failure only costs history, so
// it is logged and the session continues.
func (e *env) openJournal(zooName, source string) {
	database, err := db.Open(e.cfg.DB.Path)
	if err != nil {
		e.logger.Warnf("history disabled: %v", err)
		return
	}
	j, err := journal.Start(database, zooName, source)
	if err != nil {
		e.logger.Warnf("history disabled: %v", err)
		_ = database.Close()
		return
	}
	e.database = database
	e.journal = j
}

// Close ends the journal session.
func (e *env) Close() error {
	if e.journal != nil {
		if err := e.journal.End(); err != nil {
			e.logger.Warnf("end session: %v", err)
		}
	}
	if e.database != nil {
		return e.database.Close()
	}
	return nil
}

// buildRegistry loads the configured roster, or starts an empty zoo.
func buildRegistry(cfg *config.Config, name string) (*zoo.Registry, error) {
	if cfg.Zoo.Roster == "" {
		if name == "" {
			name = cfg.Zoo.Name
		}
		return zoo.NewRegistry(name), nil
	}
	r, err := roster.Load(cfg.Zoo.Roster)
	if err != nil {
		return nil, err
	}
	registry, err := r.Build(name)
	if err != nil {
		return nil, fmt.Errorf("build roster %s: %w", cfg.Zoo.Roster, err)
	}
	if registry.Name == "" {
		registry.Name = cfg.Zoo.Name
	}
	return registry, nil
}

func fanOut(handlers []orchestrator.EventHandler) orchestrator.EventHandler {
	return func(e orchestrator.Event) {
		for _, h := range handlers {
			if h != nil {
				h(e)
			}
		}
	}
}
