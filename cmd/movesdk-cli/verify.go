// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/movesdk/auth"
	"github.com/ava-labs/movesdk/chain"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [bytes]",
	Short: "Verify the signatures of a signed transaction envelope",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload(cmd, args)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		var s *chain.SignedTransaction
		if isJSONDocument(payload) {
			s, err = chain.DecodeSignedTransaction(chain.Textual, payload)
		} else {
			s, err = chain.DecodeSignedTransaction(chain.Binary, payload)
		}
		if err != nil {
			return fmt.Errorf("failed to decode signed transaction: %w", err)
		}

		if err := auth.VerifySignedTransaction(s); err != nil {
			return fmt.Errorf("failed to verify: %w", err)
		}

		digest, err := s.Digest()
		if err != nil {
			return fmt.Errorf("failed to compute digest: %w", err)
		}
		signers := make([]string, len(s.Signatures))
		for i, blob := range s.Signatures {
			sig, err := auth.ParseUserSignature(blob)
			if err != nil {
				return fmt.Errorf("failed to parse signature %d: %w", i, err)
			}
			signers[i] = sig.Address().String()
		}

		return printValue(cmd, verifyCmdResponse{
			Digest:  digest.String(),
			Signers: signers,
		})
	},
}

type verifyCmdResponse struct {
	Digest  string   `json:"digest"`
	Signers []string `json:"signers"`
}

func (r verifyCmdResponse) String() string {
	return fmt.Sprintf("✅ Signatures valid (digest: %s)\nsigners: %s", r.Digest, strings.Join(r.Signers, ", "))
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
