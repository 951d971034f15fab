package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/pillacela/animaciones/internal/batch"
	"github.com/pillacela/animaciones/internal/config"
	"github.com/pillacela/animaciones/internal/export"
	"github.com/pillacela/animaciones/internal/gui"
	"github.com/pillacela/animaciones/internal/logging"
	"github.com/pillacela/animaciones/internal/raster"
	"github.com/pillacela/animaciones/internal/sketch"
	"github.com/pillacela/animaciones/internal/storage"
	"github.com/pillacela/animaciones/internal/term"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	track      string
	seed       int64
	agents     int
	width      int
	height     int
	fps        int
	loop       bool
	logLevel   string
	// headless runs
	snapshotFrames int
	recordFrames   int
	recordRuns     int
	output         string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "animaciones",
		Short:        "audio-reactive agent sketch",
		SilenceUsage: true,
		RunE:         runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".animaciones", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&track, "track", config.DefaultTrack, "mp3 track driving the sketch")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	pf.IntVar(&agents, "agents", config.DefaultAgents, "number of agents")
	pf.IntVar(&width, "width", config.DefaultWidth, "canvas width")
	pf.IntVar(&height, "height", config.DefaultHeight, "canvas height")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	pf.BoolVar(&loop, "loop", false, "loop the track")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the sketch in a window with live audio",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the sketch in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file.png|file.svg]",
		Short: "run headless frames and render the last one to an image",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapshotFrames, "frames", 120, "frames to run before rendering")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "run headless frames and store them",
		Args:  cobra.NoArgs,
		RunE:  runRecord,
	}
	recordCmd.Flags().IntVar(&recordFrames, "frames", 600, "frames to record")
	recordCmd.Flags().IntVar(&recordRuns, "runs", 1, "runs to record in parallel, on consecutive seeds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot band energies and mean speed of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export agent trajectories of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tAGENTS\tFPS\tLOOP")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%dx%d\t%d\t%d\t%v\n", name, p.Width, p.Height, p.Agents, p.FPS, p.Loop)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, snapshotCmd, recordCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, presetsCmd)
	return rootCmd
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	spectrum, player := openPlayer(cfg, logger)
	if player != nil {
		defer func() {
			if err := player.Close(); err != nil {
				logger.Warn("closing audio", "error", err)
			}
		}()
	}

	sim, err := newSimulation(cfg, spectrum, logger)
	if err != nil {
		return err
	}

	logger.Info("starting window", "width", cfg.Width, "height", cfg.Height, "agents", cfg.Agents, "seed", cfg.Seed)
	gui.Run(sim, player, gui.Options{Width: cfg.Width, Height: cfg.Height, FPS: cfg.FPS}, logger.Named("gui"))
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// anything written to the terminal would tear the alt screen
	logger := logging.Discard()

	spectrum, closeTrack := openTrack(cfg, logger)
	defer closeTrack()

	sim, err := newSimulation(cfg, spectrum, logger)
	if err != nil {
		return err
	}
	return term.Run(sim, spectrum, cfg.FPS)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	spectrum, closeTrack := openTrack(cfg, logger)
	defer closeTrack()

	sim, err := newSimulation(cfg, spectrum, logger)
	if err != nil {
		return err
	}
	sim.Step(snapshotFrames)

	if err := writeSnapshot(sim, path); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", path, "frame", sim.FrameCount(), "seed", cfg.Seed)
	return nil
}

// writeSnapshot renders the next frame of sim to path, picking the format
// from the extension.
func writeSnapshot(sim *sketch.Simulation, path string) error {
	w, h := sim.Size()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		cv := raster.New(int(w), int(h))
		sim.Frame(cv)
		if err := cv.WritePNG(f); err != nil {
			return err
		}
	case ".svg":
		svg := export.NewSVG(w, h)
		sim.Frame(svg)
		if _, err := svg.WriteTo(f); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported snapshot format %q (want .png or .svg)", filepath.Ext(path))
	}
	return f.Close()
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)
	storeLog := logger.Named("storage")

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	factory := func(seed int64) (*sketch.Simulation, func(), error) {
		runCfg := cfg.Clone()
		runCfg.Seed = seed
		spectrum, closeTrack := openTrack(runCfg, logger)
		sim, err := newSimulation(runCfg, spectrum, logger)
		if err != nil {
			closeTrack()
			return nil, nil, err
		}
		return sim, closeTrack, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ens := batch.NewEnsemble(batch.New(factory, nil), recordRuns, cfg.Seed)
	results, err := ens.Run(ctx, recordFrames)
	if err != nil {
		return err
	}

	for _, res := range results {
		meta := storage.RunMetadata{
			Preset:  preset,
			Seed:    res.Seed,
			Agents:  cfg.Agents,
			Width:   float64(cfg.Width),
			Height:  float64(cfg.Height),
			FPS:     cfg.FPS,
			Track:   cfg.Track,
			Metrics: res.Metrics,
		}
		meta.ID = fmt.Sprintf("sketch_%d_%d", time.Now().UnixNano(), res.Seed)
		id, err := st.Save(meta, res.Frames)
		if err != nil {
			return err
		}
		storeLog.Info("run saved", "id", id, "seed", res.Seed, "frames", len(res.Frames))
		fmt.Println(id)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tAGENTS\tFRAMES\tSEED\tTRACK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Agents,
			run.Frames,
			run.Seed,
			run.Track,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("agents: %d  seed: %d\n", meta.Agents, meta.Seed)
	fmt.Printf("frames: %d\n\n", len(records))

	bands := [][]float64{
		make([]float64, len(records)),
		make([]float64, len(records)),
		make([]float64, len(records)),
	}
	speed := make([]float64, len(records))
	for i, r := range records {
		bands[0][i] = r.Bands.Low
		bands[1][i] = r.Bands.Mid
		bands[2][i] = r.Bands.High
		speed[i] = r.MeanSpeed
	}

	fmt.Println(asciigraph.PlotMany(bands,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
		asciigraph.Caption("band energy (low/mid/high)"),
	))
	fmt.Println()

	fmt.Println(asciigraph.Plot(speed,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("mean speed"),
	))
	fmt.Println()

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	records, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return fmt.Errorf("no data to export")
	}

	return writeFramesCSV(os.Stdout, records)
}

// writeFramesCSV writes the per-frame band energies and mean speed.
func writeFramesCSV(out io.Writer, records []storage.FrameRecord) error {
	w := csv.NewWriter(out)

	// Header
	header := []string{"frame", "low", "mid", "high", "mean_speed"}
	if err := w.Write(header); err != nil {
		return err
	}

	// Data rows
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Frame),
			strconv.FormatFloat(r.Bands.Low, 'f', 6, 64),
			strconv.FormatFloat(r.Bands.Mid, 'f', 6, 64),
			strconv.FormatFloat(r.Bands.High, 'f', 6, 64),
			strconv.FormatFloat(r.MeanSpeed, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	svg := export.TrajectoriesToSVG(records, meta.Width, meta.Height)
	if output == "" {
		_, err = fmt.Print(svg)
		return err
	}
	return os.WriteFile(output, []byte(svg), 0644)
}
