package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/jsphweid/harmonycheck/chord"
	"github.com/jsphweid/harmonycheck/logger"
	"github.com/jsphweid/harmonycheck/midi"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/report"
	"github.com/jsphweid/harmonycheck/session"
	"github.com/jsphweid/harmonycheck/store"
	"github.com/jsphweid/harmonycheck/util"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type analyzeFlags struct {
	format    string
	workers   int
	root      string
	detectKey bool
	store     string
	max       int
}

var analyzeOpts analyzeFlags

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeOpts.format, "format", "f", "text", "output format: text or json")
	f.IntVarP(&analyzeOpts.workers, "workers", "w", 0, "scores analyzed in parallel (default WORKERS or NumCPU)")
	f.StringVar(&analyzeOpts.root, "root", "", "root policy: tertian or lowest (default ROOT_POLICY)")
	f.BoolVar(&analyzeOpts.detectKey, "detect-key", true, "estimate the key when a score carries none")
	f.StringVar(&analyzeOpts.store, "store", "", "report store: sqlite, dynamodb or none (default STORE_BACKEND)")
	f.IntVar(&analyzeOpts.max, "max", 0, "analyze at most this many files")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Analyzes scores",
	Long: `Analyzes every .mid, .midi and .json score under the given files and
directories (MEDIA_PATH when none are given) and prints one report per score.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{cfg.MediaPath}
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return runAnalyze(ctx, cmd.OutOrStdout(), args, analyzeOpts)
	},
}

// fileReport is one entry of the json output.
type fileReport struct {
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
	model.AnalyzeResponse
}

// Settings are the analysis options that change what a report says. They
// are part of every report id.
type Settings struct {
	RootPolicy string
	DetectKey  bool
}

func (s Settings) Options() ([]session.Option, error) {
	root, ok := chord.RootFinderByName(s.RootPolicy)
	if !ok {
		return nil, fmt.Errorf("unknown root policy %q", s.RootPolicy)
	}
	return []session.Option{session.WithRootFinder(root), session.WithKeyDetection(s.DetectKey)}, nil
}

// ReportID is the store id of data decoded as format (an extension or a
// content type) and analyzed under s.
func (s Settings) ReportID(data []byte, format string) string {
	root := s.RootPolicy
	if root == "" {
		root = "tertian"
	}
	return store.ID(data,
		"format="+midi.Format(format),
		"root="+root,
		fmt.Sprintf("detect-key=%t", s.DetectKey),
	)
}

func settingsFor(rootPolicy string, detectKey bool) Settings {
	if rootPolicy == "" {
		rootPolicy = cfg.RootPolicy
	}
	return Settings{RootPolicy: rootPolicy, DetectKey: detectKey}
}

func runAnalyze(ctx context.Context, out io.Writer, paths []string, flags analyzeFlags) error {
	if flags.format != "text" && flags.format != "json" {
		return fmt.Errorf("unknown format %q", flags.format)
	}
	settings := settingsFor(flags.root, flags.detectKey)
	opts, err := settings.Options()
	if err != nil {
		return err
	}

	files, err := util.GatherScorePaths(paths, flags.max)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no scores found in %v", paths)
	}

	if flags.store != "" {
		cfg.StoreBackend = flags.store
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	// each job writes only its own slot
	ids := make([]string, len(files))
	jobs := make([]session.Job, len(files))
	for i, path := range files {
		i, path := i, path
		jobs[i] = session.Job{ID: path, Load: func() (*model.Score, error) {
			score, data, err := midi.Load(path)
			if err != nil {
				return nil, err
			}
			ids[i] = settings.ReportID(data, filepath.Ext(path))
			return score, nil
		}}
	}
	idByPath := make(map[string]int, len(files))
	for i, path := range files {
		idByPath[path] = i
	}

	var progress func(session.Result)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		bar := progressbar.NewOptions(len(jobs),
			progressbar.OptionSetDescription("Analyzing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)
		progress = func(session.Result) {
			_ = bar.Add(1)
		}
	}

	workers := flags.workers
	if workers <= 0 {
		workers = cfg.Workers
	}
	results := session.Batch(ctx, jobs, workers, progress, opts...)

	var failed int
	reports := make([]fileReport, 0, len(results))
	for _, res := range results {
		entry := fileReport{Path: res.ID}
		if res.Err != nil {
			failed++
			entry.Error = res.Err.Error()
			reports = append(reports, entry)
			if flags.format == "text" {
				fmt.Fprintf(os.Stderr, "%s: %v\n", res.ID, res.Err)
			}
			continue
		}

		id := ids[idByPath[res.ID]]
		entry.AnalyzeResponse = model.AnalyzeResponse{ID: id, Findings: res.Session.Findings(), Report: res.Report}
		reports = append(reports, entry)

		if st != nil {
			stored := model.StoredReport{ID: id, Source: res.ID, Report: res.Report, Findings: entry.Findings}
			if err := st.Put(id, stored); err != nil {
				logger.Error("Could not store report", err, logger.Fields{"source": res.ID, "session_id": res.Session.ID})
			}
		}

		if flags.format == "text" {
			if err := report.WriteText(out, res.ID, res.Report); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
	}

	if flags.format == "json" {
		if err := report.WriteJSON(out, reports); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scores could not be analyzed", failed, len(results))
	}
	return nil
}
