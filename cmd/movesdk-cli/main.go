// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "movesdk-cli",
	Short: "CLI for working with canonical transaction encodings",
	Long:  `A CLI application for encoding, decoding, signing, and verifying transactions in their canonical binary and JSON forms.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("key", "", "Private key as hex string or key file path")
	rootCmd.PersistentFlags().String("scheme", "", "Signature scheme (ed25519, secp256k1, or secp256r1)")
}

func main() {
	Execute()
}
