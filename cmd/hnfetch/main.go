// Command hnfetch queries the Hacker News API once and prints the result.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/samvad-hq/samvad-hn-harvester/internal/config"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/httpclient"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hnfetch: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{
		baseURL:   hn.DefaultBaseURL,
		userAgent: "samvad-hn-harvester/1.0",
		timeout:   15 * time.Second,
	}
	if cfg, err := config.Load(); err == nil {
		opts.baseURL = cfg.HNBaseURL
		opts.userAgent = cfg.HNUserAgent
		opts.timeout = cfg.RequestTimeout
	}

	cmd := &cobra.Command{
		Use:           "hnfetch",
		Short:         "Fetch stories and items from the Hacker News API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", opts.baseURL, "HN API base URL")
	cmd.PersistentFlags().StringVar(&opts.userAgent, "user-agent", opts.userAgent, "User-Agent header")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request timeout")

	cmd.AddCommand(newTopCommand(opts), newItemCommand(opts))
	return cmd
}

func (o *rootOptions) client() *hn.Client {
	return hn.New(
		httpclient.NewRestyClient(o.timeout),
		hn.WithBaseURL(o.baseURL),
		hn.WithUserAgent(o.userAgent),
	)
}
