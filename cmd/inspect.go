package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jsphweid/harmonycheck/keys"
	"github.com/jsphweid/harmonycheck/midi"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/util"
	"github.com/spf13/cobra"
)

const keyCandidates = 3

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Inspects a score",
	Long:  `Prints file metadata, the voices a score splits into and the likeliest keys.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(cmd.OutOrStdout(), args[0])
	},
}

func inspect(w io.Writer, path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".mid" || ext == ".midi" {
		mf, err := midi.ReadMidiFile(path)
		if err != nil {
			return err
		}
		info := midi.Describe(mf)
		fmt.Fprintf(w, "tracks: %d\n", info.Tracks)
		fmt.Fprintf(w, "ticks per quarter: %v\n", info.TicksPerQuarter)
		fmt.Fprintf(w, "tempo: %.2f\n", info.Tempo)
		fmt.Fprintf(w, "time signature: %d/%d\n", info.TimeSignature.Numerator, info.TimeSignature.Denominator)
		if info.Key != nil {
			fmt.Fprintf(w, "key signature: %s\n", info.Key)
		}
		fmt.Fprintf(w, "length (ticks): %d\n", info.LengthTicks)
	}

	score, _, err := midi.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "measures: %d\n", score.Measures())

	counts := make([]int, len(score.Voices))
	for i, v := range score.Voices {
		counts[i] = len(v.Events)
		low, high := voiceRange(v)
		fmt.Fprintf(w, "voice %d (%s): %d events, %s..%s\n", i+1, v.Name, counts[i], low, high)
	}
	fmt.Fprintf(w, "events: %d\n", util.Sum(counts))

	_, res, err := keys.Detect(score)
	if err != nil {
		fmt.Fprintf(w, "key: %v\n", err)
		return nil
	}
	for i, c := range res.Candidates {
		if i == keyCandidates {
			break
		}
		fmt.Fprintf(w, "key candidate: %s (r=%.3f)\n", c.Key, c.Correlation)
	}
	return nil
}

func voiceRange(v model.Voice) (model.Pitch, model.Pitch) {
	var low, high model.Pitch
	first := true
	for _, e := range v.Events {
		for _, p := range e.Pitches {
			if first || p.Value < low.Value {
				low = p
			}
			if first || p.Value > high.Value {
				high = p
			}
			first = false
		}
	}
	return low, high
}
