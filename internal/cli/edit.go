package cli

import (
	"errors"
	"fmt"

	"github.com/ristorante/site/internal/content"
	"github.com/ristorante/site/internal/editor"
	"github.com/spf13/cobra"
)

func newShowCmd(o *options) *cobra.Command {
	var showTranslations bool
	cmd := &cobra.Command{
		Use:   "show [page]",
		Short: "Print the stored content, one page of it, or the translations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case showTranslations:
				return printJSON(out, s.translations.All())
			case len(args) == 1:
				if !content.IsPage(args[0]) {
					return fmt.Errorf("unknown page %q", args[0])
				}
				return printJSON(out, s.content.Get().Page(args[0]))
			default:
				return printJSON(out, s.content.Get().Tree())
			}
		},
	}
	cmd.Flags().BoolVar(&showTranslations, "translations", false, "print the translation table")
	return cmd
}

func newFormCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "form <area> <key>",
		Short: "Show which editor a key gets and its current value",
		Example: `  sitectl form home hero.title
  sitectl form menu items.3
  sitectl form translations nav.home`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			kind, err := s.editor.Form(args[0], args[1])
			if err != nil {
				return err
			}
			b, err := editor.MarshalKind(kind)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}

func newSetCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <area> <key> <value>",
		Short: "Write a value back at key",
		Long: `set applies one edit. Objects, lists and quoted strings are read as JSON;
anything else is taken as plain text.`,
		Example: `  sitectl set contact phone "+39 06 1234567"
  sitectl set home hero.title '{"en":"Welcome"}'
  sitectl set home sections.featured.items '["1","4"]'
  sitectl set settings siteName '{"it":"Da Mario","en":"Da Mario"}'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValue(args[2])
			if err != nil {
				return err
			}
			s, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			u, err := s.editor.Submit(args[0], args[1], value)
			if err != nil {
				return err
			}
			if err := s.flush(); err != nil {
				return err
			}
			switch u.Scope {
			case editor.ScopeTranslation:
				fmt.Fprintf(cmd.OutOrStdout(), "updated translation %s\n", u.TranslationKey)
			case editor.ScopeTop:
				fmt.Fprintln(cmd.OutOrStdout(), "updated general settings")
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", u.Page)
			}
			return nil
		},
	}
}

func newTranslateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "translate <key> <it> <en>",
		Short: "Set both renditions of a translation key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			s.translations.EditEntry(args[0], content.Bilingual{It: args[1], En: args[2]})
			if err := s.flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated translation %s\n", args[0])
			return nil
		},
	}
}

func newAddCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a menu category, menu item or gallery image",
	}

	var catID string
	category := &cobra.Command{
		Use:   "category <it> <en>",
		Short: "Add a menu category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			c, err := s.editor.AddCategory(content.MenuCategory{ID: catID, Name: content.Bilingual{It: args[0], En: args[1]}})
			if err != nil {
				return err
			}
			if err := s.flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added category %s\n", c.ID)
			return nil
		},
	}
	category.Flags().StringVar(&catID, "id", "", "category id (generated when empty)")

	var it content.MenuItem
	item := &cobra.Command{
		Use:   "item",
		Short: "Add a menu item",
		Example: `  sitectl add item --category drinks --name-it "Acqua" --name-en "Water" --price 2.00`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			added, err := s.editor.AddMenuItem(it)
			if err != nil {
				return err
			}
			if err := s.flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added item %s to %s\n", added.ID, added.Category)
			return nil
		},
	}
	f := item.Flags()
	f.StringVar(&it.ID, "id", "", "item id (generated when empty)")
	f.StringVar(&it.Category, "category", "", "category id (defaults to the first category)")
	f.StringVar(&it.Name.It, "name-it", "", "Italian name")
	f.StringVar(&it.Name.En, "name-en", "", "English name")
	f.StringVar(&it.Description.It, "desc-it", "", "Italian description")
	f.StringVar(&it.Description.En, "desc-en", "", "English description")
	f.StringVar(&it.Price, "price", "", "price, e.g. 12.50")
	f.StringVar(&it.Image, "image", "", "image path")

	image := &cobra.Command{
		Use:   "image",
		Short: "Add a gallery image with the placeholder picture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			img, err := s.editor.AddGalleryImage()
			if err != nil {
				return err
			}
			if err := s.flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added image %s\n", img.ID)
			return nil
		},
	}

	cmd.AddCommand(category, item, image)
	return cmd
}

func newDeleteCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a menu category, menu item or gallery image",
	}
	for _, d := range []struct {
		use, short string
		del        func(*editor.Editor, string) error
	}{
		{"category <id>", "Delete a menu category no item uses", (*editor.Editor).DeleteCategory},
		{"item <id>", "Delete a menu item", (*editor.Editor).DeleteMenuItem},
		{"image <id>", "Delete a gallery image", (*editor.Editor).DeleteGalleryImage},
	} {
		d := d
		cmd.AddCommand(&cobra.Command{
			Use:   d.use,
			Short: d.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := o.open(cmd.Context())
				if err != nil {
					return err
				}
				if err := d.del(s.editor, args[0]); err != nil {
					var inUse *editor.CategoryInUseError
					if errors.As(err, &inUse) {
						return fmt.Errorf("%w; move or delete those items first", err)
					}
					return err
				}
				if err := s.flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			},
		})
	}
	return cmd
}
