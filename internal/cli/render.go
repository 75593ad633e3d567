package cli

import (
	"fmt"

	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/render"
	"github.com/spf13/cobra"
)

func newRenderCmd(o *options) *cobra.Command {
	var lang, category string
	cmd := &cobra.Command{
		Use:       "render <site|home|menu|gallery|staff|contact>",
		Short:     "Print a page as visitors see it",
		Args:      cobra.ExactArgs(1),
		ValidArgs: append([]string{"site"}, content.Pages...),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			l := render.Negotiate(lang, "")
			doc := s.content.Get()
			var view any
			switch args[0] {
			case "site":
				view = render.Site(doc, s.translations, l)
			case content.PageHome:
				view = render.Home(doc, l)
			case content.PageMenu:
				view = render.Menu(doc, s.translations, l, category)
			case content.PageGallery:
				view = render.Gallery(doc, l)
			case content.PageStaff:
				view = render.Staff(doc, l)
			case content.PageContact:
				view = render.Contact(doc, s.translations, l)
			default:
				return fmt.Errorf("unknown page %q", args[0])
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "it", "language (it|en)")
	cmd.Flags().StringVar(&category, "category", "", "menu category to show")
	return cmd
}
