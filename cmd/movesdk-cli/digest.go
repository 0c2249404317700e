// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/movesdk/chain"
	"github.com/ava-labs/movesdk/codec"
)

var digestCmd = &cobra.Command{
	Use:   "digest [bytes]",
	Short: "Print the digest of a transaction",
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

		if signed {
			s, err := chain.DecodeSignedTransaction(chain.Binary, payload)
			if err != nil {
				return fmt.Errorf("failed to decode signed transaction: %w", err)
			}
			envelopeDigest, err := s.Digest()
			if err != nil {
				return fmt.Errorf("failed to compute envelope digest: %w", err)
			}
			txDigest, err := s.Transaction.Digest()
			if err != nil {
				return fmt.Errorf("failed to compute transaction digest: %w", err)
			}
			signingDigest, err := s.Transaction.SigningDigest()
			if err != nil {
				return fmt.Errorf("failed to compute signing digest: %w", err)
			}
			return printValue(cmd, digestCmdResponse{
				Digest:            envelopeDigest.String(),
				TransactionDigest: txDigest.String(),
				SigningDigest:     codec.ToHex(signingDigest[:]),
			})
		}

		tx, err := decodeTransactionAuto(payload)
		if err != nil {
			return fmt.Errorf("failed to decode transaction: %w", err)
		}
		txDigest, err := tx.Digest()
		if err != nil {
			return fmt.Errorf("failed to compute transaction digest: %w", err)
		}
		signingDigest, err := tx.SigningDigest()
		if err != nil {
			return fmt.Errorf("failed to compute signing digest: %w", err)
		}
		return printValue(cmd, digestCmdResponse{
			Digest:        txDigest.String(),
			SigningDigest: codec.ToHex(signingDigest[:]),
		})
	},
}

type digestCmdResponse struct {
	Digest            string `json:"digest"`
	TransactionDigest string `json:"transactionDigest,omitempty"`
	SigningDigest     string `json:"signingDigest"`
}

func (r digestCmdResponse) String() string {
	var sb strings.Builder
	sb.WriteString("digest: " + r.Digest)
	if r.TransactionDigest != "" {
		sb.WriteString("\ntransaction digest: " + r.TransactionDigest)
	}
	sb.WriteString("\nsigning digest: " + r.SigningDigest)
	return sb.String()
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.Flags().Bool("signed", false, "Treat the input as a signed transaction envelope")
}
