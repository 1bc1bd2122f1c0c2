package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// completionPostSlugs returns a ValidArgsFunction that completes post slugs
func completionPostSlugs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c := getClient()
	ctx := context.Background()
	resp, err := c.ListOwnPosts(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	suggestions := make([]string, len(resp.Posts))
	for i, p := range resp.Posts {
		suggestions[i] = p.Slug + "\t" + p.Title
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// completionOrgSlugs returns a ValidArgsFunction that completes organization slugs
func completionOrgSlugs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c := getClient()
	ctx := context.Background()
	resp, err := c.ListOrgs(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	suggestions := make([]string, len(resp.Organizations))
	for i, org := range resp.Organizations {
		suggestions[i] = org.Slug + "\t" + org.Name
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// completionLocales returns a ValidArgsFunction that completes language pack locales
func completionLocales(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c := getClient()
	ctx := context.Background()
	resp, err := c.ListLangPacks(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	suggestions := make([]string, len(resp.LanguagePacks))
	for i, lp := range resp.LanguagePacks {
		suggestions[i] = lp.Locale + "\t" + lp.Name
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// completionOutputFormat provides completion for --output flag
func completionOutputFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
}

// completionNeedCategories provides completion for --need flags
func completionNeedCategories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"money", "goods", "services", "volunteers", "food", "other"}, cobra.ShellCompDirectiveNoFileComp
}

// completionPostStates provides completion for --state flag
func completionPostStates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"active", "inactive"}, cobra.ShellCompDirectiveNoFileComp
}
