package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	encodeInput  string
	encodeOutput string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a sample plane with a cached codebook",
	RunE:  runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVarP(&encodeInput, "input", "i", "", "Input sample plane")
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "Output stream file")
	_ = encodeCmd.MarkFlagRequired("input")
	_ = encodeCmd.MarkFlagRequired("output")
	addCodebookFlags(encodeCmd)
}

func runEncode(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	k, err := key(encodeInput)
	if err != nil {
		return err
	}

	cb, err := rt.cache.Load(ctx, k)
	if err != nil {
		return fmt.Errorf("load codebook %s: %w", k, err)
	}

	vectors, samples, err := readVectors(encodeInput)
	if err != nil {
		return err
	}

	stream, err := rt.compressor.Encode(ctx, cb, vectors)
	if err != nil {
		return err
	}

	data, err := stream.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(encodeOutput, data, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "encoded %d samples into %d bytes (%.2f bits/sample)\n",
		samples, len(data), bitsPerSample(len(stream.Data), samples))
	return nil
}

func bitsPerSample(n, samples int) float64 {
	if samples == 0 {
		return 0
	}
	return float64(8*n) / float64(samples)
}
