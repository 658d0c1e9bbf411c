package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Adda-Baaj/alb-oembed/internal/app"
	"github.com/Adda-Baaj/alb-oembed/internal/config"
	"github.com/Adda-Baaj/alb-oembed/internal/logger"
	"github.com/Adda-Baaj/alb-oembed/pkg/oembed"
	"github.com/spf13/cobra"
)

type fetchOptions struct {
	provider  string
	endpoint  string
	format    string
	params    map[string]string
	maxWidth  int
	maxHeight int
	embedSrc  bool
}

func newRootCmd() *cobra.Command {
	var (
		resolver      *app.Resolver
		providersFile string
	)

	root := &cobra.Command{
		Use:           "oembed",
		Short:         "Request oEmbed representations from known providers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if providersFile != "" {
				cfg.ProvidersFile = providersFile
			}

			log, err := logger.Init(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logger.DebugObj("oembed starting", "config", cfg)

			resolver, err = app.NewResolver(cfg, logger.Default())
			if err != nil {
				log.Errorw("failed to initialize resolver", "error", err)
				return err
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&providersFile, "providers-file", "", "providers file (overrides PROVIDERS_FILE)")

	root.AddCommand(
		newFetchCmd(func() *app.Resolver { return resolver }),
		newProvidersCmd(func() *app.Resolver { return resolver }),
	)
	return root
}

// execute runs root and flushes the logger whether or not the command failed;
// cobra skips post-run hooks after a RunE error.
func execute(ctx context.Context, root *cobra.Command) error {
	defer func() { _ = logger.Close() }()
	return root.ExecuteContext(ctx)
}

func newFetchCmd(resolver func() *app.Resolver) *cobra.Command {
	opts := fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch <resource-url>",
		Short: "Fetch the oEmbed response for a resource URL",
		Example: `  oembed fetch --provider youtube https://www.youtube.com/watch?v=M3r2XDceM6A
  oembed fetch --endpoint http://www.flickr.com/services/oembed/ --format xml --maxwidth 300 http://www.flickr.com/photos/bees/2341623661/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := app.Target{ProviderID: opts.provider, Endpoint: opts.endpoint, Format: opts.format}
			resp, err := resolver().Lookup(cmd.Context(), target, args[0], opts.requestParams())
			if err != nil {
				return err
			}
			if opts.embedSrc {
				src, err := resp.EmbedSource()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), src)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.provider, "provider", "p", "", "configured provider id")
	flags.StringVarP(&opts.endpoint, "endpoint", "e", "", "provider endpoint URL (instead of --provider)")
	flags.StringVarP(&opts.format, "format", "f", string(oembed.FormatJSON), "endpoint response format: json or xml")
	flags.StringToStringVar(&opts.params, "param", nil, "extra request parameter key=value (repeatable)")
	flags.IntVar(&opts.maxWidth, "maxwidth", 0, "maximum embed width")
	flags.IntVar(&opts.maxHeight, "maxheight", 0, "maximum embed height")
	flags.BoolVar(&opts.embedSrc, "embed-src", false, "print only the src of the embedded element")
	cmd.MarkFlagsMutuallyExclusive("provider", "endpoint")
	cmd.MarkFlagsOneRequired("provider", "endpoint")

	return cmd
}

func (o fetchOptions) requestParams() oembed.Params {
	params := oembed.MaxSize(o.maxWidth, o.maxHeight)
	for k, v := range o.params {
		params[k] = v
	}
	return params
}

func newProvidersCmd(resolver func() *app.Resolver) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List configured providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := resolver().Providers()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tFORMAT\tENDPOINT")
			for _, p := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, strings.ToUpper(p.Format), p.Endpoint)
			}
			return w.Flush()
		},
	}
}

func writeJSON(w io.Writer, resp *oembed.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(resp.Fields())
}
