package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trainInput string

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a codebook and store it in the cache",
	Long: `Train reads a plane of raw little-endian uint16 samples, splits it into
vectors of --dims samples and trains a codebook of --size entries.
An existing cached codebook with the same name and shape is reused.`,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().StringVarP(&trainInput, "input", "i", "", "Input sample plane")
	_ = trainCmd.MarkFlagRequired("input")
	addCodebookFlags(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	k, err := key(trainInput)
	if err != nil {
		return err
	}

	vectors, _, err := readVectors(trainInput)
	if err != nil {
		return err
	}

	res, err := rt.compressor.Train(cmd.Context(), k.Name, vectors, k.CodebookSize)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "codebook:   %s\n", k)
	fmt.Fprintf(out, "vectors:    %d\n", len(vectors))
	fmt.Fprintf(out, "cached:     %t\n", res.Cached)
	fmt.Fprintf(out, "iterations: %d\n", res.Iterations)
	fmt.Fprintf(out, "mse:        %.4f\n", res.MSE)
	fmt.Fprintf(out, "psnr:       %.2f dB\n", res.PSNR)
	return nil
}
