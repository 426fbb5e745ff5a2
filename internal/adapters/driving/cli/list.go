package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/core/ports/driving"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the ledger, most recent entry last",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringP("out", "o", "", "ledger path (default from settings, results.csv)")
	listCmd.Flags().String("source", "", "only show entries from this file name")
	listCmd.Flags().String("name", "", "only show entries for this person (case-insensitive)")
	listCmd.Flags().IntP("limit", "n", 0, "only show the most recent entries")
	listCmd.Flags().Bool("json", false, "print entries as JSON")
	rootCmd.AddCommand(listCmd)
}

// listedEntry is the JSON form of a ledger entry.
type listedEntry struct {
	Filename  string   `json:"filename"`
	Name      string   `json:"name"`
	Interests []string `json:"interests"`
}

func runList(cmd *cobra.Command, _ []string) error {
	if ledgerService == nil {
		return errors.New("ledger service not configured")
	}

	flags := cmd.Flags()
	out, _ := flags.GetString("out")       //nolint:errcheck // flag is defined above
	source, _ := flags.GetString("source") //nolint:errcheck // flag is defined above
	name, _ := flags.GetString("name")     //nolint:errcheck // flag is defined above
	limit, _ := flags.GetInt("limit")      //nolint:errcheck // flag is defined above
	asJSON, _ := flags.GetBool("json")     //nolint:errcheck // flag is defined above

	filter := driving.LedgerFilter{SourceID: source, PersonName: name, Limit: limit}
	entries, err := ledgerService.List(cmd.Context(), resolveOutput(out), filter)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(cmd, entries)
	}

	if len(entries) == 0 {
		cmd.Println("No entries.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILENAME\tNAME\tINTERESTS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key.SourceID, e.Key.PersonName, strings.Join(e.Interests.Sorted(), ", "))
	}
	return w.Flush()
}

func writeJSON(cmd *cobra.Command, entries []domain.LedgerEntry) error {
	out := make([]listedEntry, len(entries))
	for i, e := range entries {
		out[i] = listedEntry{
			Filename:  e.Key.SourceID,
			Name:      e.Key.PersonName,
			Interests: e.Interests.Sorted(),
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
