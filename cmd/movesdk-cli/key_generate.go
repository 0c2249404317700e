// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/movesdk/auth"
	"github.com/ava-labs/movesdk/codec"
)

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new private key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		scheme, err := resolveScheme(cmd)
		if err != nil {
			return err
		}
		keyFactory, err := auth.GetPrivateKeyFactory(scheme)
		if err != nil {
			return fmt.Errorf("failed to resolve scheme: %w", err)
		}

		key, err := keyFactory.GeneratePrivateKey()
		if err != nil {
			return fmt.Errorf("failed to generate key: %w", err)
		}

		out, err := cmd.Flags().GetString("out")
		if err != nil {
			return fmt.Errorf("failed to get out flag: %w", err)
		}

		response := keyGenerateCmdResponse{
			Address: key.Address.String(),
			Scheme:  scheme,
		}
		if out != "" {
			if err := os.WriteFile(out, key.Bytes, 0o600); err != nil {
				return fmt.Errorf("failed to write key file: %w", err)
			}
			response.File = out
		} else {
			response.Key = codec.ToHex(key.Bytes)
		}

		return printValue(cmd, response)
	},
}

type keyGenerateCmdResponse struct {
	Address string `json:"address"`
	Scheme  string `json:"scheme"`
	Key     string `json:"key,omitempty"`
	File    string `json:"file,omitempty"`
}

func (r keyGenerateCmdResponse) String() string {
	var sb strings.Builder
	sb.WriteString("address: " + r.Address)
	sb.WriteString("\nscheme: " + r.Scheme)
	if r.File != "" {
		sb.WriteString("\nfile: " + r.File)
	} else {
		sb.WriteString("\nkey: " + r.Key)
	}
	return sb.String()
}

func init() {
	keyCmd.AddCommand(keyGenerateCmd)
	keyGenerateCmd.Flags().String("out", "", "Write the key to this file instead of printing it")
}
