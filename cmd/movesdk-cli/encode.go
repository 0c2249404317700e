// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/movesdk/chain"
	"github.com/ava-labs/movesdk/codec"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [json]",
	Short: "Encode the JSON form into canonical binary bytes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		document, err := readDocument(cmd, args)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		signed, err := cmd.Flags().GetBool("signed")
		if err != nil {
			return fmt.Errorf("failed to get signed flag: %w", err)
		}

		var wire []byte
		if signed {
			s, err := chain.DecodeSignedTransaction(chain.Textual, document)
			if err != nil {
				return fmt.Errorf("failed to decode signed transaction: %w", err)
			}
			wire, err = chain.EncodeSignedTransaction(chain.Binary, s)
			if err != nil {
				return fmt.Errorf("failed to encode signed transaction: %w", err)
			}
		} else {
			tx, err := chain.DecodeTransaction(chain.Textual, document)
			if err != nil {
				return fmt.Errorf("failed to decode transaction: %w", err)
			}
			wire, err = chain.EncodeTransaction(chain.Binary, tx)
			if err != nil {
				return fmt.Errorf("failed to encode transaction: %w", err)
			}
		}

		return printValue(cmd, encodeCmdResponse{
			Encoded: base64.StdEncoding.EncodeToString(wire),
			Hex:     codec.ToHex(wire),
		})
	},
}

type encodeCmdResponse struct {
	Encoded string `json:"encoded"`
	Hex     string `json:"hex"`
}

func (r encodeCmdResponse) String() string {
	return r.Encoded
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().Bool("signed", false, "Treat the input as a signed transaction envelope")
}
