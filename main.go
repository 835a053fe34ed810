package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sadopc/ganttr/internal/config"
	"github.com/sadopc/ganttr/internal/logging"
	"github.com/sadopc/ganttr/internal/planner"
	"github.com/sadopc/ganttr/internal/seed"
	"github.com/sadopc/ganttr/internal/store"
	"github.com/sadopc/ganttr/internal/tui"
)

func main() {
	defaultConfig, _ := config.DefaultPath()
	configPath := flag.String("config", defaultConfig, "path to the YAML config file")
	seedPath := flag.String("seed", "", "YAML file with users, projects and tasks to load at startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	s, err := store.NewMemory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	st := planner.New(s, log)
	if err := applyConfig(st, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	path := *seedPath
	if path == "" {
		path = cfg.SeedFile
	}
	if path != "" {
		plan, err := seed.Load(path)
		if err == nil {
			err = plan.Apply(st)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading seed %s: %v\n", path, err)
			os.Exit(1)
		}
		log.Info("seed loaded", zap.String("path", path))
	}

	p := tea.NewProgram(tui.NewApp(st, log), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Error("program exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// applyConfig stores the configured timeline preferences as settings, which
// the UI reads and edits from then on.
func applyConfig(st *planner.State, cfg config.Config) error {
	return st.SetPreferences(cfg.Mode(), cfg.RedrawDelay)
}
