// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/movesdk/chain"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [bytes]",
	Short: "Decode canonical binary bytes into the JSON form",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload(cmd, args)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		signed, err := cmd.Flags().GetBool("signed")
		if err != nil {
			return fmt.Errorf("failed to get signed flag: %w", err)
		}

		var document []byte
		if signed {
			s, err := chain.DecodeSignedTransaction(chain.Binary, payload)
			if err != nil {
				return fmt.Errorf("failed to decode signed transaction: %w", err)
			}
			document, err = chain.EncodeSignedTransaction(chain.Textual, s)
			if err != nil {
				return fmt.Errorf("failed to encode signed transaction: %w", err)
			}
		} else {
			tx, err := chain.DecodeTransaction(chain.Binary, payload)
			if err != nil {
				return fmt.Errorf("failed to decode transaction: %w", err)
			}
			document, err = chain.EncodeTransaction(chain.Textual, tx)
			if err != nil {
				return fmt.Errorf("failed to encode transaction: %w", err)
			}
		}

		return printValue(cmd, decodeCmdResponse{
			Transaction: json.RawMessage(document),
		})
	},
}

type decodeCmdResponse struct {
	Transaction json.RawMessage `json:"transaction"`
}

func (r decodeCmdResponse) String() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Transaction, "", "  "); err != nil {
		return string(r.Transaction)
	}
	return buf.String()
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().Bool("signed", false, "Treat the input as a signed transaction envelope")
}
