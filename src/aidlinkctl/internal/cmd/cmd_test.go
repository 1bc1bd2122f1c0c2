package cmd

import (
	"testing"

	"github.com/aidlink/aidlink/src/aidlinkctl/internal/client"
)

// =============================================================================
// Command Registration Tests
// =============================================================================

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{
		"version", "health", "login", "logout", "register", "whoami",
		"verify", "forgot-password", "reset-password",
		"post", "org", "profile", "langpack",
	}

	commands := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		commands[cmd.Name()] = true
	}
	for _, name := range expected {
		if !commands[name] {
			t.Errorf("expected subcommand %q not found on root", name)
		}
	}
}

func TestPostCommand_HasSubcommands(t *testing.T) {
	expected := []string{
		"list", "search", "get", "create", "update", "delete",
		"history", "mine",
	}
	commands := make(map[string]bool)
	for _, cmd := range postCmd.Commands() {
		commands[cmd.Name()] = true
	}
	for _, name := range expected {
		if !commands[name] {
			t.Errorf("expected post subcommand %q not found", name)
		}
	}
}

func TestOrgCommand_HasSubcommands(t *testing.T) {
	expected := []string{"list", "get"}
	commands := make(map[string]bool)
	for _, cmd := range orgCmd.Commands() {
		commands[cmd.Name()] = true
	}
	for _, name := range expected {
		if !commands[name] {
			t.Errorf("expected org subcommand %q not found", name)
		}
	}
}

func TestProfileCommand_HasSubcommands(t *testing.T) {
	expected := []string{"show", "update", "photo"}
	commands := make(map[string]bool)
	for _, cmd := range profileCmd.Commands() {
		commands[cmd.Name()] = true
	}
	for _, name := range expected {
		t.Run(name, func(t *testing.T) {
			if !commands[name] {
				t.Errorf("expected profile subcommand %q not found", name)
			}
		})
	}
}

func TestLangpackCommand_HasSubcommands(t *testing.T) {
	expected := []string{"list", "get", "upload", "delete"}
	commands := make(map[string]bool)
	for _, cmd := range langpackCmd.Commands() {
		commands[cmd.Name()] = true
	}
	for _, name := range expected {
		if !commands[name] {
			t.Errorf("expected langpack subcommand %q not found", name)
		}
	}
}

// =============================================================================
// Command Aliases Tests
// =============================================================================

func TestPostCommand_Alias(t *testing.T) {
	if len(postCmd.Aliases) == 0 || postCmd.Aliases[0] != "posts" {
		t.Error("expected post alias 'posts'")
	}
}

func TestOrgCommand_Alias(t *testing.T) {
	if len(orgCmd.Aliases) == 0 || orgCmd.Aliases[0] != "orgs" {
		t.Error("expected org alias 'orgs'")
	}
}

func TestLangpackCommand_Alias(t *testing.T) {
	if len(langpackCmd.Aliases) == 0 || langpackCmd.Aliases[0] != "lp" {
		t.Error("expected langpack alias 'lp'")
	}
}

// =============================================================================
// Arg Validation Tests
// =============================================================================

func TestPostGetCmd_RequiresArg(t *testing.T) {
	err := postGetCmd.Args(postGetCmd, []string{})
	if err == nil {
		t.Error("expected error for missing arg on post get")
	}
}

func TestPostGetCmd_AcceptsOneArg(t *testing.T) {
	err := postGetCmd.Args(postGetCmd, []string{"winter-drive"})
	if err != nil {
		t.Errorf("unexpected error for single arg: %v", err)
	}
}

func TestPostSearchCmd_AcceptsOptionalArg(t *testing.T) {
	if err := postSearchCmd.Args(postSearchCmd, []string{}); err != nil {
		t.Errorf("search should accept zero args: %v", err)
	}
	if err := postSearchCmd.Args(postSearchCmd, []string{"winter"}); err != nil {
		t.Errorf("search should accept one arg: %v", err)
	}
	if err := postSearchCmd.Args(postSearchCmd, []string{"a", "b"}); err == nil {
		t.Error("search should reject two args")
	}
}

func TestVerifyCmd_RequiresArg(t *testing.T) {
	if err := verifyCmd.Args(verifyCmd, []string{}); err == nil {
		t.Error("expected error for missing token arg on verify")
	}
}

// =============================================================================
// Flag Parsing Helper Tests
// =============================================================================

func TestParseContacts_Valid(t *testing.T) {
	contacts, err := parseContacts([]string{"phone:+351912345678", "email:help@example.org"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
	if contacts[0].Type != "phone" || contacts[0].Contact != "+351912345678" {
		t.Errorf("unexpected first contact: %+v", contacts[0])
	}
	if contacts[1].Type != "email" || contacts[1].Contact != "help@example.org" {
		t.Errorf("unexpected second contact: %+v", contacts[1])
	}
}

func TestParseContacts_ValueWithColon(t *testing.T) {
	contacts, err := parseContacts([]string{"url:https://example.org/help"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contacts[0].Contact != "https://example.org/help" {
		t.Errorf("expected value to keep its colons, got %q", contacts[0].Contact)
	}
}

func TestParseContacts_Invalid(t *testing.T) {
	for _, entry := range []string{"no-separator", ":value-only", "type:"} {
		if _, err := parseContacts([]string{entry}); err == nil {
			t.Errorf("expected error for %q", entry)
		}
	}
}

func TestParseContacts_Empty(t *testing.T) {
	contacts, err := parseContacts(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 0 {
		t.Errorf("expected no contacts, got %d", len(contacts))
	}
}

func TestParseFieldPairs_Valid(t *testing.T) {
	fields, err := parseFieldPairs([]string{"bio=Warm meals daily", "city=Lisboa"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Field != "bio" || fields[0].Value != "Warm meals daily" {
		t.Errorf("unexpected first field: %+v", fields[0])
	}
}

func TestParseFieldPairs_ValueWithEquals(t *testing.T) {
	fields, err := parseFieldPairs([]string{"website=https://example.org/?ref=cli"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields[0].Value != "https://example.org/?ref=cli" {
		t.Errorf("expected value to keep its equals signs, got %q", fields[0].Value)
	}
}

func TestParseFieldPairs_Invalid(t *testing.T) {
	for _, entry := range []string{"no-separator", "=value-only"} {
		if _, err := parseFieldPairs([]string{entry}); err == nil {
			t.Errorf("expected error for %q", entry)
		}
	}
}

func TestParseFieldPairs_EmptyValueAllowed(t *testing.T) {
	// Clearing a field is a valid update
	fields, err := parseFieldPairs([]string{"bio="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields[0].Field != "bio" || fields[0].Value != "" {
		t.Errorf("expected empty value accepted, got %+v", fields[0])
	}
}

// =============================================================================
// Filter Construction Tests
// =============================================================================

func TestFilterFromFlags_PositionalQuery(t *testing.T) {
	opts := filterFromFlags(postSearchCmd, []string{"winter"})
	if opts.Query != "winter" {
		t.Errorf("expected positional arg as query, got %q", opts.Query)
	}
}

func TestFilterFromFlags_FlagOverridesPositional(t *testing.T) {
	cmd := postSearchCmd
	if err := cmd.Flags().Set("query", "food"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	defer cmd.Flags().Set("query", "")

	opts := filterFromFlags(cmd, []string{"winter"})
	if opts.Query != "food" {
		t.Errorf("expected flag to override positional arg, got %q", opts.Query)
	}
}

// =============================================================================
// Output Helper Tests
// =============================================================================

func TestPrintPostList_EmptyDoesNotPanic(t *testing.T) {
	outputFormat = "table"
	resp := &client.PostListResponse{Count: 0, Total: 0, Posts: nil}
	if err := printPostList(resp); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
