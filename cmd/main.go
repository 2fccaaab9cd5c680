package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/cli/browser"

	"trackview/controller"
	"trackview/server"
	"trackview/utils"
	"trackview/views"
)

func main() {
	// ── Environment (.env is optional) ───────────────────────────────
	if err := utils.LoadEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	configDefault := "config/trackview.yaml"
	if v := os.Getenv(utils.EnvConfigPath); v != "" {
		configDefault = v
	}

	// ── CLI flags ────────────────────────────────────────────────────
	configPath := flag.String("config", configDefault, "path to trackview.yaml")
	trackPath := flag.String("track", "", "TCX or FIT file to load")
	format := flag.String("format", "", "track format: auto, tcx or fit (overrides config)")
	scriptPath := flag.String("script", "", "range-selector script to replay after loading")
	backend := flag.String("backend", "", "renderer: html or png (overrides config)")
	serve := flag.Bool("serve", false, "serve the interactive range selector over HTTP")
	open := flag.Bool("open", false, "open the rendered page in a browser")
	logFile := flag.String("log", "", "optional log file path (stdout is always included)")
	flag.Parse()

	// ── Load config ──────────────────────────────────────────────────
	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.ApplyEnv()
	if *format != "" {
		cfg.Ingest.Format = *format
	}
	if *backend != "" {
		cfg.Render.Backend = *backend
	}
	if *logFile != "" {
		cfg.App.LogFile = *logFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// ── Logger ───────────────────────────────────────────────────────
	level, err := utils.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := utils.InitLogger(level, cfg.App.LogFile)
	defer logger.Close()

	utils.L().Info("═══════════════════════════════════════════════════")
	utils.L().Info("  trackview  ·  windowed activity track charts")
	utils.L().Info("  GOMAXPROCS=%d  ·  PID=%d", runtime.GOMAXPROCS(0), os.Getpid())
	utils.L().Info("═══════════════════════════════════════════════════")

	if *trackPath == "" {
		utils.L().Fatal("no track given; use -track <file.tcx|file.fit>")
	}
	if *serve && cfg.Render.Backend == "png" {
		utils.L().Warn("-serve needs the html renderer; switching backend from png")
		cfg.Render.Backend = "html"
	}

	// ── Context with OS signal cancellation ──────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// ── Pipeline assembly ────────────────────────────────────────────
	//
	//  track file ──► ingest ──► RecordStore ──► window.State
	//                                                 │
	//        script / HTTP ──► Loop ──► WindowController ──► Registry ──► charts
	//                                                 │
	//                                        ExportController ──► CSV

	var (
		renderer views.Renderer
		html     *views.EChartsRenderer
		png      *views.PNGRenderer
	)
	if cfg.Render.Backend == "png" {
		png = views.NewPNGRenderer(cfg.Render.Width, cfg.Render.Height)
		renderer = png
	} else {
		html = views.NewEChartsRenderer(views.HTMLOptions{
			Width:  cfg.Render.Width,
			Height: cfg.Render.Height,
			Theme:  cfg.Render.Theme,
		})
		renderer = html
	}

	wc := controller.NewWindowController(renderer, controller.Options{Format: cfg.Ingest.Format})
	for _, v := range cfg.Views {
		kind, err := views.ParseKind(v.Kind)
		if err != nil {
			utils.L().Warn("view %s: %v; drawing as line", v.Name, err)
		}
		if err := wc.Register(views.Descriptor{Name: v.Name, X: v.X, Y: v.Y, Kind: kind, Target: v.Target}); err != nil {
			utils.L().Fatal("register view: %v", err)
		}
	}

	loop := controller.NewLoop(wc, cfg.Window.EventBuffer, cfg.Window.CoalesceDrag)
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	if _, err := loop.Load(ctx, *trackPath, cfg.Ingest.Format); err != nil {
		utils.L().Fatal("load track: %v", err)
	}

	if *scriptPath != "" {
		f, err := os.Open(*scriptPath)
		if err != nil {
			utils.L().Fatal("open script: %v", err)
		}
		n, err := controller.RunScript(ctx, loop, f)
		f.Close()
		if err != nil {
			utils.L().Error("%v", err)
		}
		utils.L().Info("script applied %d commands", n)
	}

	// ── Output session ───────────────────────────────────────────────
	sessionDir := filepath.Join(cfg.Render.OutputDir, utils.SessionName(cfg.Render.SessionPrefix))
	if abs, err := filepath.Abs(sessionDir); err == nil {
		sessionDir = abs
	}
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		utils.L().Fatal("create session dir: %v", err)
	}

	pagePath := filepath.Join(sessionDir, cfg.Render.PageFile)
	err = loop.Call(ctx, func(*controller.WindowController) error {
		if png != nil {
			_, err := png.WriteFiles(sessionDir)
			return err
		}
		f, err := os.Create(pagePath)
		if err != nil {
			return fmt.Errorf("create page: %w", err)
		}
		defer f.Close()
		return html.WritePage(f)
	})
	if err != nil {
		utils.L().Error("render: %v", err)
	}

	if cfg.Export.CSV {
		exporter := controller.NewExportController(wc, cfg.Export)
		err := loop.Call(ctx, func(*controller.WindowController) error {
			files, err := exporter.ExportSession(sessionDir)
			utils.L().Info("exported %d csv files", len(files))
			return err
		})
		if err != nil {
			utils.L().Error("export: %v", err)
		}
	}

	if *open && html != nil && !*serve {
		if err := browser.OpenFile(pagePath); err != nil {
			utils.L().Warn("open browser: %v", err)
		}
	}

	if !*serve {
		cancel()
		<-loopDone
		wc.LogStats()
		fmt.Println("\n✓ trackview finished. Output at:", sessionDir)
		return
	}

	// ── Interactive range selector ───────────────────────────────────
	title := filepath.Base(*trackPath)
	srv := server.New(loop, html, title, cfg.Server)
	srvDone := make(chan error, 1)
	go func() { srvDone <- srv.Run(ctx) }()

	if *open {
		if err := browser.OpenURL("http://" + srv.Addr()); err != nil {
			utils.L().Warn("open browser: %v", err)
		}
	}
	utils.L().Info("serving %s — press Ctrl+C to stop", title)

	// ── Stats ticker ─────────────────────────────────────────────────
	statsTicker := time.NewTicker(30 * time.Second)
	defer statsTicker.Stop()

	for {
		select {
		case sig := <-sigCh:
			utils.L().Info("received signal: %v — shutting down…", sig)
			cancel()
			goto shutdown

		case err := <-srvDone:
			if err != nil {
				utils.L().Error("%v", err)
			}
			cancel()
			goto shutdown

		case <-statsTicker.C:
			wc.LogStats()
		}
	}

shutdown:
	<-loopDone
	wc.LogStats()
	fmt.Println("\n✓ trackview stopped. Output at:", sessionDir)
}
