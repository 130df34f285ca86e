package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"algowatch/internal/phi"
)

// errSensitive makes phi-check exit non-zero when any input matched.
var errSensitive = errors.New("sensitive text found")

var phiCheckCmd = &cobra.Command{
	Use:   "phi-check [text...]",
	Short: "Screen text for personal health information",
	Long: `Screen each argument, or each line of stdin when no arguments are
given, and print the matched pattern or "clean".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		texts := args
		if len(texts) == 0 {
			lines, err := readLines(cmd.InOrStdin())
			if err != nil {
				return err
			}
			texts = lines
		}
		return screenTexts(cmd.OutOrStdout(), texts)
	},
}

func init() {
	rootCmd.AddCommand(phiCheckCmd)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}

func screenTexts(w io.Writer, texts []string) error {
	found := false
	for _, text := range texts {
		if pattern, ok := phi.Match(text); ok {
			found = true
			fmt.Fprintln(w, pattern)
			continue
		}
		fmt.Fprintln(w, "clean")
	}
	if found {
		return errSensitive
	}
	return nil
}
