package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jsphweid/harmonycheck/midi"
	"github.com/jsphweid/harmonycheck/sample"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(excerptCmd)
}

var excerptCmd = &cobra.Command{
	Use:   "excerpt <file.mid> <measure> [out.mid]",
	Short: "Cuts one measure out of a midi file",
	Long: `Writes a playable midi file holding only the given measure, so a
reported problem can be heard on its own.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		measure, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid measure %q", args[1])
		}
		out := ""
		if len(args) == 3 {
			out = args[2]
		}
		path, err := excerpt(args[0], measure, out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func excerptPath(path string, measure int) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return fmt.Sprintf("%s-m%d.mid", base, measure)
}

func excerpt(path string, measure int, out string) (string, error) {
	mf, err := midi.ReadMidiFile(path)
	if err != nil {
		return "", err
	}
	score, err := midi.ToScore(mf)
	if err != nil {
		return "", err
	}
	if measures := score.Measures(); measure > measures {
		return "", fmt.Errorf("measure %d is past the end (%d measures)", measure, measures)
	}

	clip, err := sample.ForMeasure(mf, score, measure)
	if err != nil {
		return "", err
	}

	if out == "" {
		out = excerptPath(path, measure)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", err
	}
	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := clip.WriteTo(f); err != nil {
		return "", fmt.Errorf("error writing %s: %w", out, err)
	}
	return out, nil
}
