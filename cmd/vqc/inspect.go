package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show a cached codebook, or list cached codebooks",
	Long: `Inspect prints the codewords and frequencies of the codebook selected by
--name, --dims and --size. Without --name it lists the cached codebooks.`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output as JSON")
	addCodebookFlags(inspectCmd)
}

type codebookJSON struct {
	Name         string     `json:"name"`
	VectorDims   int        `json:"vector_dims"`
	CodebookSize int        `json:"codebook_size"`
	Codewords    [][]uint16 `json:"codewords"`
	Frequencies  []uint64   `json:"frequencies"`
}

func runInspect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if codebookName == "" {
		keys, err := rt.cache.List(ctx, "")
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(out, k)
		}
		return nil
	}

	k, err := key("")
	if err != nil {
		return err
	}
	cb, err := rt.cache.Load(ctx, k)
	if err != nil {
		return fmt.Errorf("load codebook %s: %w", k, err)
	}

	if inspectJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(codebookJSON{
			Name:         k.Name,
			VectorDims:   cb.VectorDimensions(),
			CodebookSize: cb.Size(),
			Codewords:    cb.Codewords(),
			Frequencies:  cb.Frequencies(),
		})
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tFREQUENCY\tCODEWORD")
	for i := 0; i < cb.Size(); i++ {
		fmt.Fprintf(w, "%d\t%d\t%v\n", i, cb.Frequency(i), cb.Codeword(i))
	}
	return w.Flush()
}
