package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidlink/aidlink/src/aidlinkctl/internal/client"
	"github.com/aidlink/aidlink/src/aidlinkctl/internal/output"
)

var postCmd = &cobra.Command{
	Use:     "post",
	Aliases: []string{"posts"},
	Short:   "Browse and manage aid posts",
}

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active posts, newest first",
	RunE:  runPostList,
}

var postSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search posts by free text or detailed filters",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPostSearch,
}

var postGetCmd = &cobra.Command{
	Use:   "get <slug>",
	Short: "Get a post by slug",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostGet,
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new post",
	RunE:  runPostCreate,
}

var postUpdateCmd = &cobra.Command{
	Use:   "update <slug>",
	Short: "Update an owned post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostUpdate,
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete an owned post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostDelete,
}

var postHistoryCmd = &cobra.Command{
	Use:   "history <slug>",
	Short: "Show the change history of an owned post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostHistory,
}

var postMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own posts, including inactive ones",
	RunE:  runPostMine,
}

func init() {
	postCmd.AddCommand(postListCmd)
	postCmd.AddCommand(postSearchCmd)
	postCmd.AddCommand(postGetCmd)
	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postUpdateCmd)
	postCmd.AddCommand(postDeleteCmd)
	postCmd.AddCommand(postHistoryCmd)
	postCmd.AddCommand(postMineCmd)

	// List and search filters
	for _, c := range []*cobra.Command{postListCmd, postSearchCmd} {
		c.Flags().StringP("query", "q", "", "Free-text query across title, description, owner and locations")
		c.Flags().String("title", "", "Title filter (detailed mode)")
		c.Flags().StringArray("location", nil, "Location filter (repeatable)")
		c.Flags().StringArray("need", nil, "Need category filter (repeatable)")
	}

	// Create flags
	postCreateCmd.Flags().String("title", "", "Post title (required)")
	postCreateCmd.Flags().String("description", "", "Post description (required)")
	postCreateCmd.Flags().StringArray("location", nil, "Location (repeatable)")
	postCreateCmd.Flags().StringArray("need", nil, "Need category (repeatable): money, goods, services, volunteers, food, other")
	postCreateCmd.Flags().String("schedule", "", "Schedule, e.g. opening hours")
	postCreateCmd.Flags().StringArray("contact", nil, "Contact as type:value, e.g. phone:+351912345678 (repeatable)")
	_ = postCreateCmd.MarkFlagRequired("title")
	_ = postCreateCmd.MarkFlagRequired("description")

	// Update flags
	postUpdateCmd.Flags().String("title", "", "Post title")
	postUpdateCmd.Flags().String("description", "", "Post description")
	postUpdateCmd.Flags().StringArray("location", nil, "Location (repeatable, replaces all)")
	postUpdateCmd.Flags().StringArray("need", nil, "Need category (repeatable, replaces all)")
	postUpdateCmd.Flags().String("schedule", "", "Schedule")
	postUpdateCmd.Flags().StringArray("contact", nil, "Contact as type:value (repeatable, replaces all)")
	postUpdateCmd.Flags().String("state", "", "Post state (active, inactive)")
}

// parseContacts turns repeated type:value flags into contact entries
func parseContacts(raw []string) ([]client.Contact, error) {
	contacts := make([]client.Contact, 0, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid contact %q: expected type:value", entry)
		}
		contacts = append(contacts, client.Contact{Type: parts[0], Contact: parts[1]})
	}
	return contacts, nil
}

func filterFromFlags(cmd *cobra.Command, args []string) *client.FilterOptions {
	opts := &client.FilterOptions{}
	if len(args) > 0 {
		opts.Query = args[0]
	}
	if q, _ := cmd.Flags().GetString("query"); q != "" {
		opts.Query = q
	}
	opts.Title, _ = cmd.Flags().GetString("title")
	opts.Locations, _ = cmd.Flags().GetStringArray("location")
	opts.Needs, _ = cmd.Flags().GetStringArray("need")
	return opts
}

func printPostList(resp *client.PostListResponse) error {
	return output.PrintFormatted(getOutputFormat(), resp, func() error {

		if resp.Count == 0 {
			output.PrintMessage("No posts found.")
			return nil
		}

		rows := make([][]string, len(resp.Posts))
		for i, p := range resp.Posts {
			rows[i] = []string{
				p.Slug,
				p.Title,
				strings.Join(p.Needs, ","),
				strings.Join(p.Locations, ","),
				p.State,
				p.CreatedBy,
			}
		}
		output.PrintTable([]string{"SLUG", "TITLE", "NEEDS", "LOCATIONS", "STATE", "BY"}, rows)
		output.PrintMessage(fmt.Sprintf("Showing %d of %d posts.", resp.Count, resp.Total))
		return nil
	})
}

func runPostList(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	resp, err := c.ListPosts(ctx, filterFromFlags(cmd, nil))
	if err != nil {
		return err
	}
	return printPostList(resp)
}

func runPostSearch(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	resp, err := c.SearchPosts(ctx, filterFromFlags(cmd, args))
	if err != nil {
		return err
	}
	return printPostList(resp)
}

func runPostGet(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	resp, err := c.GetPost(ctx, args[0])
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {

		rows := [][]string{
			{"Slug", resp.Slug},
			{"Title", resp.Title},
			{"Description", resp.Description},
			{"Needs", strings.Join(resp.Needs, ", ")},
			{"Locations", strings.Join(resp.Locations, ", ")},
			{"Schedule", resp.Schedule},
			{"State", resp.State},
			{"By", resp.CreatedBy},
			{"Created", resp.CreatedAt},
			{"Updated", resp.UpdatedAt},
		}
		for _, contact := range resp.Contacts {
			rows = append(rows, []string{"Contact (" + contact.Type + ")", contact.Contact})
		}
		output.PrintTable([]string{"FIELD", "VALUE"}, rows)
		return nil
	})
}

func runPostCreate(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	locations, _ := cmd.Flags().GetStringArray("location")
	needs, _ := cmd.Flags().GetStringArray("need")
	schedule, _ := cmd.Flags().GetString("schedule")
	rawContacts, _ := cmd.Flags().GetStringArray("contact")

	contacts, err := parseContacts(rawContacts)
	if err != nil {
		return err
	}

	req := &client.CreatePostRequest{
		Title:       title,
		Description: description,
		Locations:   locations,
		Needs:       needs,
		Schedule:    schedule,
		Contacts:    contacts,
	}

	resp, err := c.CreatePost(ctx, req)
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {

		output.PrintMessage(fmt.Sprintf("Post %q published (slug: %s)", resp.Title, resp.Slug))
		return nil
	})
}

func runPostUpdate(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	// Updates replace the post wholesale, so start from the current
	// content and overlay only the changed flags.
	current, err := c.GetPost(ctx, args[0])
	if err != nil {
		return err
	}

	req := &client.UpdatePostRequest{
		Title:       current.Title,
		Description: current.Description,
		Locations:   current.Locations,
		Needs:       current.Needs,
		Schedule:    current.Schedule,
		Contacts:    current.Contacts,
		State:       current.State,
	}
	setStringIfChanged(cmd, "title", &req.Title)
	setStringIfChanged(cmd, "description", &req.Description)
	setStringIfChanged(cmd, "schedule", &req.Schedule)
	setStringIfChanged(cmd, "state", &req.State)
	if cmd.Flags().Changed("location") {
		req.Locations, _ = cmd.Flags().GetStringArray("location")
	}
	if cmd.Flags().Changed("need") {
		req.Needs, _ = cmd.Flags().GetStringArray("need")
	}
	if cmd.Flags().Changed("contact") {
		raw, _ := cmd.Flags().GetStringArray("contact")
		contacts, err := parseContacts(raw)
		if err != nil {
			return err
		}
		req.Contacts = contacts
	}

	resp, err := c.UpdatePost(ctx, args[0], req)
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {

		output.PrintMessage(fmt.Sprintf("Post %q updated.", resp.Title))
		return nil
	})
}

func runPostDelete(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	if err := c.DeletePost(ctx, args[0]); err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), map[string]string{"message": "Post deleted", "slug": args[0]}, func() error {

		output.PrintMessage(fmt.Sprintf("Post %s deleted.", args[0]))
		return nil
	})
}

func runPostHistory(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	resp, err := c.GetPostHistory(ctx, args[0])
	if err != nil {
		return err
	}

	return output.PrintFormatted(getOutputFormat(), resp, func() error {

		if resp.Count == 0 {
			output.PrintMessage("No revisions recorded.")
			return nil
		}

		rows := make([][]string, len(resp.History))
		for i, rev := range resp.History {
			rows[i] = []string{
				fmt.Sprintf("%d", rev.ID),
				rev.Title,
				rev.State,
				rev.UpdatedAt,
			}
		}
		output.PrintTable([]string{"REVISION", "TITLE", "STATE", "UPDATED"}, rows)
		return nil
	})
}

func runPostMine(cmd *cobra.Command, args []string) error {
	c := getClient()
	ctx := context.Background()

	resp, err := c.ListOwnPosts(ctx)
	if err != nil {
		return err
	}
	return printPostList(resp)
}
