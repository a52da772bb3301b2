// Copyright (c) 2024, 0x0BSoD. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/0x0BSoD/saaHub/internal/filter"
	"github.com/0x0BSoD/saaHub/internal/model"
	"github.com/0x0BSoD/saaHub/internal/sample"
)

var (
	flagQuery      string
	flagDomains    []string
	flagServices   []string
	flagSources    []string
	flagBookmarked bool
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Filter the built-in sample articles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sel, err := selectionFromFlags()
		if err != nil {
			return err
		}

		articles, err := sample.Articles()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, a := range filter.Filter(articles, sel) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Relevance, a.Source, a.Title)
		}
		return w.Flush()
	},
}

func init() {
	articlesCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "search title, summary and services")
	articlesCmd.Flags().StringSliceVar(&flagDomains, "domain", nil, "exam domain (repeatable)")
	articlesCmd.Flags().StringSliceVar(&flagServices, "service", nil, "AWS service (repeatable)")
	articlesCmd.Flags().StringSliceVar(&flagSources, "source", nil, "feed source name (repeatable)")
	articlesCmd.Flags().BoolVar(&flagBookmarked, "bookmarked", false, "only bookmarked articles")
}

func selectionFromFlags() (filter.Selection, error) {
	sel := filter.Selection{
		Services: lo.Uniq(flagServices),
		Sources:  lo.Uniq(flagSources),
	}.WithSearch(flagQuery).WithBookmarksOnly(flagBookmarked)

	for _, raw := range lo.Uniq(flagDomains) {
		d, err := model.ParseDomain(raw)
		if err != nil {
			return filter.Selection{}, err
		}
		sel.Domains = append(sel.Domains, d)
	}

	return sel, nil
}
