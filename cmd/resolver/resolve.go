package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nguyenvanvutlv/resolver/internal/cinemeta"
	"github.com/nguyenvanvutlv/resolver/internal/config"
	store_registry "github.com/nguyenvanvutlv/resolver/internal/store/registry"
	stremio_dsearch "github.com/nguyenvanvutlv/resolver/internal/stremio/dsearch"
	stremio_transformer "github.com/nguyenvanvutlv/resolver/internal/stremio/transformer"
	"github.com/nguyenvanvutlv/resolver/internal/util"
	"github.com/nguyenvanvutlv/resolver/store"
	"github.com/spf13/cobra"
)

type resolveOptions struct {
	store       string
	token       string
	contentType string
	id          string
	filter      string
	sort        string
}

func renderStreams(w io.Writer, result *stremio_dsearch.Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Name", "File", "Size", "Score", "Group"})
	for i, d := range result.Streams {
		tw.AppendRow(table.Row{
			i + 1,
			d.Name,
			d.Filename,
			util.ToSize(d.VideoSize),
			strconv.FormatFloat(d.Score, 'f', 2, 64),
			d.BingeGroup,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	tw.Render()

	for _, f := range result.Failures {
		fmt.Fprintf(w, "partial failure while %s (candidate %q): %v\n", f.Phase, f.CandidateId, f.Err)
	}
}

func newResolveCommand() *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve streams for a movie or episode and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ud := &stremio_dsearch.UserData{
				StoreCode:  store.StoreCode(opts.store),
				StoreToken: opts.token,
				Filter:     opts.filter,
				Sort:       opts.sort,
			}
			if err := ud.Validate(); err != nil {
				return err
			}
			if _, err := ud.Encode(); err != nil {
				return err
			}

			req, err := stremio_dsearch.ParseMediaRequest(opts.contentType, opts.id)
			if err != nil {
				return err
			}

			s, err := store_registry.GetStoreByCode(ud.StoreCode)
			if err != nil {
				return err
			}
			filter, _ := stremio_transformer.StreamFilterBlob(ud.Filter).Parse()
			sort, _ := stremio_transformer.ParseStreamSort(ud.Sort)

			engine := stremio_dsearch.NewEngine(&stremio_dsearch.EngineConfig{
				Store:       s,
				StoreParams: store.Ctx{APIKey: ud.StoreToken},
				Meta:        &stremio_dsearch.CinemetaResolver{Client: cinemeta.NewClient(nil)},
				Threshold:   config.DSearch.MatchThreshold,
				Filter:      filter,
				Sort:        sort,
				Referencer: &stremio_dsearch.LinkSigner{
					Secret:   []byte(config.DSearch.LinkSecret),
					BaseURL:  config.BaseURL,
					UserData: ud.GetEncoded(),
				},
			})

			result, err := engine.Resolve(cmd.Context(), req)
			if err != nil {
				return err
			}
			if result.Meta == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no metadata for %s\n", req)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", result.Meta.Title, result.Meta.Year)
			renderStreams(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.store, "store", "", "Store code: rd, ad, pm, tb or dl")
	cmd.Flags().StringVar(&opts.token, "token", "", "Store API token")
	cmd.Flags().StringVar(&opts.contentType, "type", "movie", "Content type: movie or series")
	cmd.Flags().StringVar(&opts.id, "id", "", "IMDb id, tt123 or tt123:season:episode for series")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Stream filter expression")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Stream sort fields")
	_ = cmd.MarkFlagRequired("store")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
