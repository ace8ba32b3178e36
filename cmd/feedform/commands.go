package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hollis/feedform/internal/config"
	"github.com/hollis/feedform/internal/discovery"
	"github.com/hollis/feedform/internal/feedapi"
	"github.com/hollis/feedform/internal/form"
	"github.com/hollis/feedform/internal/preview"
)

// Command flags
var (
	serverFlag   string
	tokenFlag    string
	scanTimeout  int
	outputFormat string
	noPreview    bool

	prefAlertOnDisabled string
	prefDateFormat      string
	prefDateTimezone    string
	prefDateLocale      string
)

// TokenEnvVar is the default environment variable consulted for the
// API token when no per-server variable is configured.
const TokenEnvVar = "FEEDFORM_TOKEN"

func init() {
	// Common flags for server commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Server nickname or base URL (skips discovery)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "API token (overrides "+TokenEnvVar+" and the configured token variable)")

	// Add subcommands directly to root
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(prefsCmd)
}

// scanCmd discovers feedd servers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for feedd servers on the network",
	Long: `Scan for feedd servers using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts from feedd servers and displays
all discovered instances with their addresses and metadata. Discovered
servers can be saved to the configuration with --remember.`,
	Example: `  # Scan for 5 seconds (default)
  feedform scan

  # Longer scan for slow networks
  feedform scan --timeout 15

  # Save the discovered server under a nickname
  feedform scan --remember study-pi`,
	RunE: runScan,
}

var rememberAs string

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
	scanCmd.Flags().StringVar(&rememberAs, "remember", "", "Save the single discovered server under this nickname")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for feedd servers (timeout: %ds)...\n\n", scanTimeout)

	servers, err := discovery.Scan(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		fmt.Println("No servers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the feedd server is running and announces itself over mDNS")
		fmt.Println("  - Check that you are on the same network segment as the server")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --server flag to specify the base URL manually")
		return nil
	}

	fmt.Printf("Found %d server(s):\n\n", len(servers))

	for i, server := range servers {
		fmt.Printf("%d. %s\n", i+1, server.Name)
		fmt.Printf("   Address: %s:%d\n", server.IP, server.Port)
		if server.Version != "" {
			fmt.Printf("   Version: %s\n", server.Version)
		}
		if len(server.Metadata) > 0 {
			fmt.Printf("   Metadata: %v\n", server.Metadata)
		}
		fmt.Println()
	}

	if rememberAs != "" {
		if len(servers) > 1 {
			return fmt.Errorf("found %d servers; --remember needs exactly one", len(servers))
		}
		if err := feedapi.NewClient(servers[0].BaseURL(), tokenFlag).Ping(); err != nil {
			return fmt.Errorf("server at %s did not answer a ping: %w", servers[0].BaseURL(), err)
		}
		registry, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		registry.RememberServer(rememberAs, servers[0].BaseURL())
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		fmt.Printf("Saved %s as %q\n", servers[0].BaseURL(), rememberAs)
		return nil
	}

	fmt.Println("Use 'feedform show <feed-id>' to inspect a feed")
	fmt.Println("Use 'feedform edit <feed-id>' to edit its article injections")

	return nil
}

// showCmd displays a feed
var showCmd = &cobra.Command{
	Use:   "show <feed-id>",
	Short: "Show a feed and its article injections",
	Long: `Display a feed's details and its configured article injections.

This command connects to the server and retrieves the feed, including
its injection eligibility and the full injection list.`,
	Example: `  # Show a feed using the configured default server
  feedform show 42

  # Show a feed on a specific server
  feedform show 42 --server http://study-pi.local:8080

  # JSON output for scripting
  feedform show 42 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	client, _, err := resolveClient()
	if err != nil {
		return err
	}

	feed, err := client.GetFeed(args[0])
	if err != nil {
		return fmt.Errorf("failed to get feed: %w", err)
	}

	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(feed, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	default:
		printFeed(feed)
	}

	return nil
}

func printFeed(feed *feedapi.Feed) {
	fmt.Printf("Feed:     %s\n", feed.Title)
	fmt.Printf("ID:       %s\n", feed.ID)
	fmt.Printf("URL:      %s\n", feed.URL)
	if feed.SiteURL != "" {
		fmt.Printf("Site:     %s\n", feed.SiteURL)
	}
	fmt.Printf("Disabled: %v\n", feed.Disabled)
	fmt.Printf("Eligible for injections: %v\n", feed.InjectionsEligible)
	fmt.Println()

	if len(feed.ArticleInjections) == 0 {
		fmt.Println("No article injections configured.")
		return
	}
	fmt.Printf("Article injections (%d):\n", len(feed.ArticleInjections))
	for i, inj := range feed.ArticleInjections {
		fmt.Printf("%d. source field %q\n", i+1, inj.SourceField)
		for _, sel := range inj.Selectors {
			fmt.Printf("   {%s} ← %s\n", sel.Label, sel.CSSSelector)
		}
	}
}

// editCmd launches the interactive injections editor
var editCmd = &cobra.Command{
	Use:   "edit <feed-id>",
	Short: "Edit a feed's article injections interactively",
	Long: `Launch the interactive article injections editor for a feed.

The editor provides:
- An accordion of the feed's injections
- Per-selector live previews rendered by the server
- Local validation before anything is sent
- Dirty tracking so unsaved changes are always visible

Changes are saved with ctrl+s and only then sent to the server.`,
	Example: `  # Edit a feed on the default server
  feedform edit 42

  # Edit without live previews (no websocket connection)
  feedform edit 42 --no-preview`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().BoolVar(&noPreview, "no-preview", false, "Disable live previews")
}

func runEdit(cmd *cobra.Command, args []string) error {
	client, token, err := resolveClient()
	if err != nil {
		return err
	}

	feed, err := client.GetFeed(args[0])
	if err != nil {
		return fmt.Errorf("failed to get feed: %w", err)
	}

	// Saves from the form are explicit user actions; report the first
	// failure instead of retrying behind the user's back.
	saver := feedapi.NewClient(client.BaseURL, token)
	saver.SetRetry(0, 0)

	var renderer preview.Renderer
	if !noPreview {
		renderer = preview.NewWSRenderer(client.BaseURL, token, feed.ID)
	}

	model := form.New(feed, saver, renderer)
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("editor error: %w", err)
	}

	if m, ok := final.(form.Model); ok && m.Dirty() {
		fmt.Println("Unsaved changes were discarded.")
	}

	rememberLastFeed(client.BaseURL, feed.ID)

	return nil
}

// rememberLastFeed records the edited feed on the matching configured
// server. Best effort: configuration problems never fail the edit.
func rememberLastFeed(baseURL, feedID string) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return
	}
	for _, server := range registry.Servers {
		if server.BaseURL == baseURL {
			server.LastFeed = feedID
			server.LastSeen = time.Now()
			_ = registry.Save()
			return
		}
	}
}

// prefsCmd updates user preferences
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Update user preferences on the server",
	Long: `Update the server-side user preferences.

Only the preferences named by flags are sent; everything else keeps
its current value on the server.`,
	Example: `  # Get an alert when a feed gets disabled after repeated failures
  feedform prefs --alert-on-disabled true

  # Change the article date presentation
  feedform prefs --date-format "2.1.2006" --date-timezone Europe/Helsinki`,
	RunE: runPrefs,
}

func init() {
	prefsCmd.Flags().StringVar(&prefAlertOnDisabled, "alert-on-disabled", "", "Alert when a feed is auto-disabled (true/false)")
	prefsCmd.Flags().StringVar(&prefDateFormat, "date-format", "", "Article date format")
	prefsCmd.Flags().StringVar(&prefDateTimezone, "date-timezone", "", "Article date timezone (IANA name)")
	prefsCmd.Flags().StringVar(&prefDateLocale, "date-locale", "", "Article date locale")
}

func runPrefs(cmd *cobra.Command, args []string) error {
	update := &feedapi.UserPreferencesUpdate{}
	touched := false

	if prefAlertOnDisabled != "" {
		alert, err := strconv.ParseBool(prefAlertOnDisabled)
		if err != nil {
			return fmt.Errorf("invalid --alert-on-disabled value (use true/false): %w", err)
		}
		update.AlertOnDisabledFeed = &alert
		touched = true
	}
	if prefDateFormat != "" {
		update.DateFormat = &prefDateFormat
		touched = true
	}
	if prefDateTimezone != "" {
		update.DateTimezone = &prefDateTimezone
		touched = true
	}
	if prefDateLocale != "" {
		update.DateLocale = &prefDateLocale
		touched = true
	}
	if !touched {
		return fmt.Errorf("nothing to update, see 'feedform prefs --help' for available flags")
	}

	client, _, err := resolveClient()
	if err != nil {
		return err
	}

	user, err := client.UpdateUserPreferences(update)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	fmt.Printf("Preferences updated for %s\n", user.Login)
	prefs := user.Preferences
	fmt.Printf("  Alert on disabled feed: %v\n", prefs.AlertOnDisabledFeed)
	if prefs.DateFormat != "" {
		fmt.Printf("  Date format:   %s\n", prefs.DateFormat)
	}
	if prefs.DateTimezone != "" {
		fmt.Printf("  Date timezone: %s\n", prefs.DateTimezone)
	}
	if prefs.DateLocale != "" {
		fmt.Printf("  Date locale:   %s\n", prefs.DateLocale)
	}

	return nil
}

// resolveClient builds an API client from flags, configuration and
// discovery, in that order. It also returns the resolved token so
// callers can build further clients against the same server.
func resolveClient() (*feedapi.Client, string, error) {
	baseURL, tokenEnv, err := resolveServer()
	if err != nil {
		return nil, "", err
	}

	token := tokenFlag
	if token == "" && tokenEnv != "" {
		token = os.Getenv(tokenEnv)
	}
	if token == "" {
		token = os.Getenv(TokenEnvVar)
	}
	if token == "" {
		return nil, "", fmt.Errorf("no API token: set %s, configure token_env for the server, or pass --token", TokenEnvVar)
	}

	return feedapi.NewClient(baseURL, token), token, nil
}

// resolveServer finds the server base URL: an explicit URL or nickname
// from --server, the configured default, or a single discovered server.
func resolveServer() (baseURL, tokenEnv string, err error) {
	registry, regErr := config.LoadRegistry()

	if serverFlag != "" {
		if strings.Contains(serverFlag, "://") {
			return serverFlag, "", nil
		}
		if regErr != nil {
			return "", "", fmt.Errorf("failed to load configuration: %w", regErr)
		}
		server, ok := registry.Servers[serverFlag]
		if !ok {
			return "", "", fmt.Errorf("unknown server nickname %q (run 'feedform scan --remember %s' first)", serverFlag, serverFlag)
		}
		return server.BaseURL, server.TokenEnv, nil
	}

	if regErr == nil {
		if server := registry.DefaultServer(); server != nil {
			return server.BaseURL, server.TokenEnv, nil
		}
		if registry.Preferences != nil && !registry.Preferences.AutoDiscover {
			return "", "", fmt.Errorf("no server configured. Use --server or 'feedform scan --remember <nickname>'")
		}
	}

	// Try discovery
	fmt.Println("No server specified, attempting auto-discovery...")
	timeout := discovery.DefaultScanTimeout
	if regErr == nil && registry.Preferences != nil && registry.Preferences.DiscoverTimeout > 0 {
		timeout = time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
	}
	servers, err := discovery.Scan(timeout)
	if err != nil {
		return "", "", fmt.Errorf("discovery failed: %w", err)
	}

	if len(servers) == 0 {
		return "", "", fmt.Errorf("no servers found. Use --server to specify the base URL manually")
	}
	if len(servers) > 1 {
		fmt.Printf("Found %d servers:\n", len(servers))
		for i, server := range servers {
			fmt.Printf("%d. %s (%s)\n", i+1, server.Name, server.BaseURL())
		}
		return "", "", fmt.Errorf("multiple servers found. Use --server to specify which one")
	}

	server := servers[0]
	fmt.Printf("Found server: %s (%s)\n\n", server.Name, server.BaseURL())
	return server.BaseURL(), "", nil
}
