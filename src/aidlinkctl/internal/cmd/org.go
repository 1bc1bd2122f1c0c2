package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidlink/aidlink/src/aidlinkctl/internal/output"
)

var orgCmd = &cobra.Command{
	Use:     "org",
	Aliases: []string{"orgs", "organization"},
	Short:   "Browse verified organizations",
}

var orgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List verified organizations",
	RunE:  runOrgList,
}

var orgGetCmd = &cobra.Command{
	Use:   "get <slug>",
	Short: "Get an organization profile by slug",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrgGet,
}

func init() {
	orgCmd.AddCommand(orgListCmd)
	orgCmd.AddCommand(orgGetCmd)
}

func runOrgList(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	resp, err := c.ListOrgs(ctx)
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {

		if resp.Count == 0 {
			output.PrintMessage("No verified organizations found.")
			return nil
		}

		rows := make([][]string, len(resp.Organizations))
		for i, org := range resp.Organizations {
			rows[i] = []string{org.Slug, org.Name, org.City, org.Website}
		}
		output.PrintTable([]string{"SLUG", "NAME", "CITY", "WEBSITE"}, rows)
		output.PrintMessage(fmt.Sprintf("Showing %d of %d organizations.", resp.Count, resp.Total))
		return nil
	})
}

func runOrgGet(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	resp, err := c.GetOrg(ctx, args[0])
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {

		rows := [][]string{
			{"Slug", resp.Slug},
			{"Name", resp.Name},
			{"Bio", resp.Bio},
			{"Website", resp.Website},
			{"Address", resp.Address},
			{"Postal Code", resp.PostalCode},
			{"City", resp.City},
			{"District", resp.District},
		}
		for _, contact := range resp.Contacts {
			rows = append(rows, []string{"Contact (" + contact.Type + ")", contact.Contact})
		}
		output.PrintTable([]string{"FIELD", "VALUE"}, rows)
		return nil
	})
}
