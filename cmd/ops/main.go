package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"noteboard/internal/ops"
)

func main() {
	root := &cobra.Command{
		Use:           "noteboard-ops",
		Short:         "Operational tooling for noteboard data directories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(backupCmd(), restoreCmd(), drillCmd(), exportICSCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func backupCmd() *cobra.Command {
	var dataDir, out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory as a .tar.gz",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				ts := time.Now().UTC().Format("20060102T150405Z")
				out = filepath.Join("backups", "noteboard-"+ts+".tar.gz")
			}
			manifest, err := ops.BackupDataDir(dataDir, out)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, rel := range manifest {
				fmt.Fprintln(w, "archived:", rel)
			}
			fmt.Fprintln(w, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "path to data directory")
	cmd.Flags().StringVar(&out, "out", "", "output archive path (.tar.gz)")
	return cmd
}

func restoreCmd() *cobra.Command {
	var archive, target string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Unpack a backup archive into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if archive == "" {
				return fmt.Errorf("--archive is required")
			}
			return ops.RestoreDataDir(archive, target)
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "input backup archive (.tar.gz)")
	cmd.Flags().StringVar(&target, "target-dir", "data-restored", "restore target directory")
	return cmd
}

func drillCmd() *cobra.Command {
	var dataDir, workDir string
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Run a backup+restore round trip and verify digests match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(workDir, 0o755); err != nil {
				return err
			}
			ts := time.Now().UTC().Format("20060102T150405Z")
			archive := filepath.Join(workDir, "noteboard-drill-"+ts+".tar.gz")
			restoreDir := filepath.Join(workDir, "noteboard-drill-restore-"+ts)

			manifest, err := ops.BackupDataDir(dataDir, archive)
			if err != nil {
				return err
			}
			if err := ops.RestoreDataDir(archive, restoreDir); err != nil {
				return err
			}

			srcDigest, err := dirDigest(dataDir)
			if err != nil {
				return err
			}
			restoreDigest, err := dirDigest(restoreDir)
			if err != nil {
				return err
			}
			if srcDigest != restoreDigest {
				return fmt.Errorf("digest mismatch after restore: src=%s restored=%s", srcDigest, restoreDigest)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "backup:", archive)
			fmt.Fprintln(out, "files:", len(manifest))
			fmt.Fprintln(out, "restored:", restoreDir)
			fmt.Fprintln(out, "digest:", srcDigest)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "path to data directory")
	cmd.Flags().StringVar(&workDir, "work-dir", os.TempDir(), "temporary workspace for drill artifacts")
	return cmd
}

func exportICSCmd() *cobra.Command {
	var dataDir, eventID, out string
	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export a calendar event as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ops.ExportEventICS(cmd.Context(), dataDir, eventID, time.Now())
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), doc)
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			return os.WriteFile(out, []byte(doc), 0o644)
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "path to data directory")
	cmd.Flags().StringVar(&eventID, "event", "", "event id to export")
	cmd.Flags().StringVar(&out, "out", "", "output .ics path (defaults to stdout)")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func dirDigest(root string) (string, error) {
	root = filepath.Clean(root)
	entries := []string{}
	if err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || ops.TransientFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	}); err != nil {
		return "", err
	}
	sort.Strings(entries)

	h := sha256.New()
	for _, rel := range entries {
		_, _ = io.WriteString(h, rel)
		_, _ = io.WriteString(h, "\n")
		b, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			return "", err
		}
		if _, err := h.Write(b); err != nil {
			return "", err
		}
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
