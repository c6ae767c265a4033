package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/linkstats/internal/app"
	"github.com/user/linkstats/internal/delivery/http/request"
	"github.com/user/linkstats/internal/usecase"
	"github.com/user/linkstats/pkg/archive"
	"github.com/user/linkstats/pkg/config"
)

type exportOptions struct {
	workspace string
	out       string
	params    map[string]string
}

// queryFlags maps CLI flags onto analytics query parameters.
var queryFlags = []struct{ flag, param, usage string }{
	{"interval", "interval", "24h|7d|30d|90d|ytd|1y|all"},
	{"start", "start", "range start (RFC 3339 or YYYY-MM-DD)"},
	{"end", "end", "range end (RFC 3339 or YYYY-MM-DD)"},
	{"timezone", "timezone", "IANA timezone for bucketing"},
	{"domain", "domain", "short link domain"},
	{"key", "key", "short link key, _root for the domain root"},
	{"link-id", "linkId", "link ID"},
	{"domain-id", "domainId", "filter by domain ID"},
	{"tag-id", "tagId", "filter by tag ID"},
	{"country", "country", "filter by ISO country code"},
	{"city", "city", "filter by city"},
	{"device", "device", "filter by device"},
	{"browser", "browser", "filter by browser"},
	{"os", "os", "filter by operating system"},
	{"referer", "referer", "filter by referer"},
	{"url", "url", "filter by destination URL"},
	{"qr", "qr", "filter by QR scans (true|false)"},
	{"root", "root", "filter by root links (true|false)"},
}

func exportCmd() *cobra.Command {
	opts := exportOptions{params: make(map[string]string)}
	values := make([]string, len(queryFlags))

	c := &cobra.Command{
		Use:   "export",
		Short: "Write a workspace's analytics export archive to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for i, f := range queryFlags {
				if values[i] != "" {
					opts.params[f.param] = values[i]
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()

			out := io.Writer(os.Stdout)
			if opts.out != "-" {
				file, err := os.Create(opts.out)
				if err != nil {
					return err
				}
				defer file.Close()
				out = file
			}

			n, err := runExport(cmd.Context(), a.Scope, a.Exporter, opts, out)
			if err != nil {
				return err
			}
			if opts.out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d file(s) to %s\n", n, opts.out)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&opts.workspace, "workspace", "w", "", "Workspace ID (required)")
	c.Flags().StringVarP(&opts.out, "out", "o", usecase.ExportFilename, "Output path, - for stdout")
	for i, f := range queryFlags {
		c.Flags().StringVar(&values[i], f.flag, "", f.usage)
	}

	_ = c.MarkFlagRequired("workspace")
	return c
}

// runExport resolves the scope, builds the export and writes the archive to w.
// It returns the number of CSV files in the archive.
func runExport(ctx context.Context, scope usecase.ScopeResolver, exporter usecase.Exporter, opts exportOptions, w io.Writer) (int, error) {
	values := make(url.Values, len(opts.params))
	for k, v := range opts.params {
		values.Set(k, v)
	}

	q, err := request.ParseAnalyticsQuery(values)
	if err != nil {
		return 0, err
	}

	ws, err := scope.ResolveWorkspace(ctx, opts.workspace)
	if err != nil {
		return 0, err
	}
	link, err := scope.ResolveLink(ctx, ws, q)
	if err != nil {
		return 0, err
	}

	files, err := exporter.Export(ctx, usecase.ExportInput{Workspace: ws, Link: link, Query: q})
	if err != nil {
		return 0, err
	}
	if err := archive.WriteZip(w, files); err != nil {
		return 0, fmt.Errorf("failed to write archive: %w", err)
	}
	return len(files), nil
}
