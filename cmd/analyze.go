// Copyright (c) 2024, 0x0BSoD. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/0x0BSoD/saaHub/internal/config"
)

var (
	flagTitle   string
	flagSummary string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the exam analyzer on one announcement and print the result as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if flagTitle == "" {
			return errors.New("--title is required")
		}

		an, err := newAnalyzer(config.Get())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(an.Analyze(cmd.Context(), flagTitle, flagSummary))
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&flagTitle, "title", "", "announcement title")
	analyzeCmd.Flags().StringVar(&flagSummary, "summary", "", "announcement summary")
}
