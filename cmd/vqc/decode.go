package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/vqc"
)

var (
	decodeInput   string
	decodeOutput  string
	decodeSamples int
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a stream back into a sample plane",
	Long: `Decode reconstructs a sample plane from a stream written by encode.
--name, --dims and --size must match the codebook used for encoding.
--samples truncates the zero padding added to the last vector.`,
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(&decodeInput, "input", "i", "", "Input stream file")
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "Output sample plane")
	decodeCmd.Flags().IntVar(&decodeSamples, "samples", -1, "Number of samples to write, -1 for all")
	addCodebookFlags(decodeCmd)
	_ = decodeCmd.MarkFlagRequired("input")
	_ = decodeCmd.MarkFlagRequired("output")
	_ = decodeCmd.MarkFlagRequired("name")
}

func runDecode(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	k, err := key("")
	if err != nil {
		return err
	}

	cb, err := rt.cache.Load(ctx, k)
	if err != nil {
		return fmt.Errorf("load codebook %s: %w", k, err)
	}

	data, err := os.ReadFile(decodeInput)
	if err != nil {
		return err
	}

	var stream vqc.Stream
	if err := stream.UnmarshalBinary(data); err != nil {
		return err
	}

	vectors, err := rt.compressor.Decode(cb, &stream)
	if err != nil {
		return err
	}

	f, err := os.Create(decodeOutput)
	if err != nil {
		return err
	}
	samples := vqc.Flatten(vectors, decodeSamples)
	if err := vqc.WriteSamples(f, samples); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "decoded %d samples\n", len(samples))
	return nil
}
