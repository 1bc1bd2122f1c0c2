package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidlink/aidlink/src/aidlinkctl/internal/client"
	"github.com/aidlink/aidlink/src/aidlinkctl/internal/output"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your own profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your full profile",
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long: `Updates profile fields as field=value pairs, e.g.:

  aidlinkctl profile update --set bio="We hand out warm meals" --set city=Lisboa`,
	RunE: runProfileUpdate,
}

var profilePhotoCmd = &cobra.Command{
	Use:   "photo <file>",
	Short: "Upload a profile photo",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilePhoto,
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profilePhotoCmd)

	profileUpdateCmd.Flags().StringArray("set", nil, "Field update as field=value (repeatable)")
	_ = profileUpdateCmd.MarkFlagRequired("set")
}

// parseFieldPairs turns repeated field=value flags into update pairs
func parseFieldPairs(raw []string) ([]client.FieldValue, error) {
	fields := make([]client.FieldValue, 0, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid field update %q: expected field=value", entry)
		}
		fields = append(fields, client.FieldValue{Field: parts[0], Value: parts[1]})
	}
	return fields, nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	resp, err := c.GetProfile(ctx)
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {

		rows := [][]string{
			{"Name", resp.Name},
			{"Email", resp.Email},
			{"Slug", resp.Slug},
			{"Type", resp.Type},
			{"Verified", fmt.Sprintf("%t", resp.Verified)},
			{"Bio", resp.Bio},
			{"Website", resp.Website},
			{"Address", resp.Address},
			{"Postal Code", resp.PostalCode},
			{"City", resp.City},
			{"District", resp.District},
			{"Photo", resp.Photo},
		}
		for _, contact := range resp.Contacts {
			rows = append(rows, []string{"Contact (" + contact.Type + ")", contact.Contact})
		}
		output.PrintTable([]string{"FIELD", "VALUE"}, rows)
		return nil
	})
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetStringArray("set")
	fields, err := parseFieldPairs(raw)
	if err != nil {
		return err
	}

	c := getClient()
	ctx := context.Background()

	resp, err := c.UpdateProfile(ctx, fields)
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {

		output.PrintMessage(fmt.Sprintf("Profile updated (%d field(s)).", len(fields)))
		return nil
	})
}

func runProfilePhoto(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	resp, err := c.UploadPhoto(ctx, args[0])
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {

		output.PrintMessage(fmt.Sprintf("Photo uploaded: %s", resp.Photo))
		return nil
	})
}
