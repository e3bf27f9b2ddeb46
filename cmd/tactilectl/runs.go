package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tactile/internal/model"
	"tactile/internal/runplan"
	"tactile/internal/storage"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
)

func newRunsCmd(s settings) *cobra.Command {
	var (
		limit   int
		runID   string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List prepared runs, newest first",
		Long: `List prepared runs, newest first.

With the sqlite store runs are read from the database. With the memory store
they are read from training_log/run_index.json under the track root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var runs []model.RunRecord
			if runID != "" {
				run, err := getRun(cmd.Context(), s, runID)
				if err != nil {
					return err
				}
				runs = []model.RunRecord{run}
			} else {
				if limit <= 0 {
					return errors.New("limit must be > 0")
				}
				all, err := listRuns(cmd.Context(), s)
				if err != nil {
					return err
				}
				runs = all[:min(limit, len(all))]
			}
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}
			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to list")
	cmd.Flags().StringVar(&runID, "id", "", "show a single run by id")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit runs list as JSON")
	return cmd
}

// listRuns reads the configured store. The memory store does not outlive a
// process, so it falls back to the run index under the track root.
func listRuns(ctx context.Context, s settings) ([]model.RunRecord, error) {
	if !storage.Persistent(s.storeKind()) {
		dir, err := indexDir(s)
		if err != nil {
			return nil, err
		}
		entries, err := runplan.ListRunIndex(dir)
		if err != nil {
			return nil, err
		}
		runs := make([]model.RunRecord, 0, len(entries))
		for _, e := range entries {
			runs = append(runs, recordFromIndex(e))
		}
		return runs, nil
	}

	var runs []model.RunRecord
	err := withStore(ctx, s, func(store storage.Store) error {
		var err error
		runs, err = store.ListRuns(ctx)
		return err
	})
	return runs, err
}

func getRun(ctx context.Context, s settings, id string) (model.RunRecord, error) {
	if !storage.Persistent(s.storeKind()) {
		dir, err := indexDir(s)
		if err != nil {
			return model.RunRecord{}, err
		}
		e, err := runplan.FindRunIndex(dir, id)
		if err != nil {
			return model.RunRecord{}, err
		}
		return recordFromIndex(e), nil
	}

	var run model.RunRecord
	err := withStore(ctx, s, func(store storage.Store) error {
		got, ok, err := store.GetRun(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("run %s not found", id)
		}
		run = got
		return nil
	})
	return run, err
}

func withStore(ctx context.Context, s settings, fn func(storage.Store) error) error {
	store, err := storage.NewStore(s.storeKind(), s.dbPath())
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.Close(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}
	return fn(store)
}

func indexDir(s settings) (string, error) {
	root, err := s.trackRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, runplan.LogRootDir), nil
}

func recordFromIndex(e runplan.RunIndexEntry) model.RunRecord {
	return model.RunRecord{
		ID:             e.RunID,
		Name:           e.Name,
		EnvName:        e.EnvName,
		LogDir:         e.LogDir,
		Parallel:       e.Parallel,
		TotalTimesteps: e.TotalTimesteps,
		Status:         e.Status,
		CreatedAtUTC:   e.CreatedAtUTC,
	}
}

func printRuns(w io.Writer, runs []model.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs found")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s %s env=%s parallel=%d timesteps=%s status=%s created=%s\n",
			bold(r.Name),
			gray(r.ID),
			r.EnvName,
			r.Parallel,
			humanize.Comma(int64(r.TotalTimesteps)),
			colorStatus(r.Status),
			r.CreatedAtUTC,
		)
	}
}

func colorStatus(status string) string {
	switch status {
	case "":
		return "-"
	case model.RunFinished:
		return green(status)
	case model.RunFailed:
		return red(status)
	default:
		return status
	}
}
