package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/museum/pkg/backdrop"
	"github.com/Dicklesworthstone/museum/pkg/config"
	"github.com/Dicklesworthstone/museum/pkg/export"
	"github.com/Dicklesworthstone/museum/pkg/journal"
	"github.com/Dicklesworthstone/museum/pkg/loader"
	"github.com/Dicklesworthstone/museum/pkg/model"
	"github.com/Dicklesworthstone/museum/pkg/ui"
	"github.com/Dicklesworthstone/museum/pkg/updater"
	"github.com/Dicklesworthstone/museum/pkg/version"
	"github.com/Dicklesworthstone/museum/pkg/watcher"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the whole program; it returns the exit code so deferred cleanup
// such as closing the journal happens before the process exits.
func run(args []string) int {
	fs := flag.NewFlagSet("museum", flag.ContinueOnError)
	help := fs.Bool("help", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	configPath := fs.String("config", "", "Config file (default ~/.config/museum/config.yaml)")
	catalogPath := fs.String("catalog", "", "Catalog YAML (default: built-in catalog)")
	journalPath := fs.String("journal", "", "Reading journal database")
	noJournal := fs.Bool("no-journal", false, "Do not record visits and read entries")
	room := fs.String("room", "", "Start inside the room with this id")
	pick := fs.Bool("pick", false, "Choose a starting room from a menu")
	list := fs.Bool("list", false, "Print rooms, hotspots and entries, then exit")
	exportMap := fs.String("export-map", "", "Write the floor plan to FILE (.svg or .png) and exit")
	exportSite := fs.String("export-site", "", "Write a static site bundle to DIR and exit")
	preview := fs.String("preview", "", "Serve a site bundle from DIR locally")
	previewPort := fs.Int("preview-port", 0, "Port for --preview (0 picks a free port)")
	watch := fs.Bool("watch", false, "Reload the catalog when its file changes")
	checkUpdate := fs.Bool("check-update", false, "Check GitHub for a newer release")
	debug := fs.Bool("debug", false, "Write a debug log")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *help {
		fmt.Println("Usage: museum [options]")
		fmt.Println("\nA virtual museum for the terminal: walk the hall, look around the rooms, read the archives.")
		fs.PrintDefaults()
		return 0
	}
	if *showVersion {
		fmt.Printf("museum %s\n", version.Version)
		return 0
	}

	if *preview != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := export.StartPreview(ctx, export.PreviewConfig{BundlePath: *preview, Port: *previewPort, OpenBrowser: true})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running preview: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	if *catalogPath != "" {
		cfg.Catalog = *catalogPath
	}
	if *journalPath != "" {
		cfg.Journal.Path = *journalPath
	}
	cfg.Journal.Disabled = cfg.Journal.Disabled || *noJournal
	cfg.Watch = cfg.Watch || *watch
	cfg.Debug = cfg.Debug || *debug

	if *checkUpdate {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		tag, url, err := updater.CheckForUpdates(ctx)
		cancel()
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Update check failed: %v\n", err)
			return 1
		case tag == "":
			fmt.Printf("museum %s is up to date\n", version.Version)
		default:
			fmt.Printf("museum %s is available (you have %s): %s\n", tag, version.Version, url)
		}
		return 0
	}

	catalog, err := loader.LoadCatalog(cfg.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		if errors.Is(err, loader.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "Run without --catalog to use the built-in museum.")
		}
		return 1
	}

	var jnl *journal.Journal
	if !cfg.Journal.Disabled && cfg.Journal.Path != "" {
		jnl, err = openJournal(cfg.Journal)
		if err != nil {
			// Reading works without a journal
			fmt.Fprintf(os.Stderr, "Warning: journal unavailable: %v\n", err)
		}
	}
	if jnl != nil {
		defer jnl.Close()
	}

	if *exportMap != "" {
		if err := export.SaveFloorPlan(export.FloorPlanOptions{Path: *exportMap, Catalog: catalog}); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting floor plan: %v\n", err)
			return 1
		}
		fmt.Printf("Floor plan written to %s\n", *exportMap)
		return 0
	}
	if *exportSite != "" {
		opts := export.SiteOptions{Dir: *exportSite, Catalog: catalog}
		if jnl != nil {
			opts.IsRead = jnl.IsRead
		}
		if err := export.WriteSite(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting site: %v\n", err)
			return 1
		}
		fmt.Printf("Site written to %s (preview with --preview %s)\n", *exportSite, *exportSite)
		return 0
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
	if *list || !interactive {
		printCatalog(catalog, jnl)
		return 0
	}

	startRoom := *room
	if startRoom != "" && catalog.Room(startRoom) == nil {
		fmt.Fprintf(os.Stderr, "Unknown room %q\n", startRoom)
		return 1
	}
	if *pick {
		startRoom, err = pickRoom(catalog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error choosing room: %v\n", err)
			return 1
		}
	}

	if cfg.Debug {
		f, err := tea.LogToFile(cfg.LogFile, "museum")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log: %v\n", err)
			return 1
		}
		defer f.Close()
	} else {
		// bubbletea owns the terminal; stray log output would corrupt it
		log.SetOutput(io.Discard)
	}

	opts := ui.Options{
		Settings:  cfg.Pan.Settings(),
		Terminal:  cfg.Terminal,
		StartRoom: startRoom,
		Cache:     backdrop.NewCache(),
		Guide:     ui.NewGuideStore(ui.DefaultGuidePath()),
	}
	if jnl != nil {
		opts.Journal = jnl
	}
	p := tea.NewProgram(ui.NewModel(catalog, opts), tea.WithAltScreen(), tea.WithMouseAllMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Watch && cfg.Catalog != "" {
		go watchCatalog(ctx, cfg.Catalog, p)
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running museum: %v\n", err)
		return 1
	}
	return 0
}

// watchCatalog re-reads the catalog on change. Invalid edits are logged and
// the previous catalog stays on screen.
func watchCatalog(ctx context.Context, path string, p *tea.Program) {
	w, err := watcher.New([]string{path}, func([]string) {
		c, err := loader.LoadCatalogFromFile(path)
		if err != nil {
			log.Printf("catalog reload: %v", err)
			return
		}
		p.Send(ui.CatalogReloadedMsg{Catalog: c})
	})
	if err != nil {
		log.Printf("catalog watch: %v", err)
		return
	}
	log.Printf("watching %v", w.Files())
	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("catalog watch: %v", err)
	}
}

// openJournal is a variable so tests can observe the journal run opens
var openJournal = func(cfg config.JournalConfig) (*journal.Journal, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return journal.Open(cfg.Path, cfg.Driver)
}

func pickRoom(c *model.Catalog) (string, error) {
	var choice string
	options := make([]huh.Option[string], 0, len(c.Rooms)+1)
	options = append(options, huh.NewOption("Main Hall", ""))
	for _, r := range c.Rooms {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%d entries)", r.Title, r.PostCount()), r.ID))
	}
	err := huh.NewSelect[string]().
		Title("Where would you like to begin?").
		Options(options...).
		Value(&choice).
		Run()
	return choice, err
}

func printCatalog(c *model.Catalog, jnl *journal.Journal) {
	fmt.Printf("Museum catalog: %d rooms, %d entries\n", len(c.Rooms), c.PostCount())
	for _, r := range c.Rooms {
		fmt.Printf("\n%s [%s]\n", r.Title, r.ID)
		for _, h := range r.Hotspots {
			fmt.Printf("  %s (%s, %d entries)\n", h.Name, h.Kind, len(h.Posts))
			for _, p := range h.Posts {
				mark := " "
				if jnl != nil && jnl.IsRead(p.ID) {
					mark = "✓"
				}
				fmt.Printf("    %s %s\n", mark, p.Title)
			}
		}
	}
	if jnl != nil {
		s := jnl.Progress(c)
		fmt.Printf("\nRead %d of %d entries (%.0f%%), %.0f%% of exhibits explored\n", s.Read, s.Total, s.Coverage*100, s.Explored*100)
	}
}
