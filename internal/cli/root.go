package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ristorante/site/internal/config"
	"github.com/ristorante/site/internal/editor"
	"github.com/ristorante/site/internal/gateway"
	"github.com/ristorante/site/internal/notify"
	"github.com/ristorante/site/internal/store"
	"github.com/ristorante/site/internal/translations"
	"github.com/spf13/cobra"
)

type options struct {
	gateway string
	timeout time.Duration
}

// session is one command's view of the site: both stores loaded from the
// gateway and an editor over them.
type session struct {
	content      *store.Store
	translations *translations.Store
	editor       *editor.Editor
	notices      *notify.Recorder
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Edit the restaurant site content",
		Long:          `sitectl loads the site content and translations from the persistence service, applies one edit and saves the result back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.gateway != "" {
				return nil
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			o.gateway = cfg.Gateway.BaseURL
			if !cmd.Flags().Changed("timeout") {
				o.timeout = cfg.Gateway.Timeout
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&o.gateway, "gateway", "", "persistence service base URL (default $GATEWAY_URL)")
	root.PersistentFlags().DurationVar(&o.timeout, "timeout", 15*time.Second, "request timeout")

	root.AddCommand(
		newShowCmd(o),
		newFormCmd(o),
		newSetCmd(o),
		newAddCmd(o),
		newDeleteCmd(o),
		newTranslateCmd(o),
		newRenderCmd(o),
	)
	return root
}

// open loads both stores. Unlike the server, a failed load is an error:
// editing the defaults would overwrite the stored site.
func (o *options) open(ctx context.Context) (*session, error) {
	client := gateway.NewClient(o.gateway, o.timeout)
	rec := notify.NewRecorder(0)
	s := &session{
		content:      store.New(client, rec),
		translations: translations.NewStore(client, rec),
		notices:      rec,
	}
	if err := s.content.Init(ctx); err != nil {
		return nil, fmt.Errorf("load content from %s: %w", o.gateway, err)
	}
	if err := s.translations.Init(ctx); err != nil {
		return nil, fmt.Errorf("load translations from %s: %w", o.gateway, err)
	}
	// seeding writes run in the background
	s.content.Wait()
	s.translations.Wait()
	s.editor = editor.New(s.content, s.translations)
	return s, nil
}

// flush waits for pending saves and reports the ones that failed.
func (s *session) flush() error {
	s.content.Wait()
	s.translations.Wait()
	var errs []error
	for _, n := range s.notices.Recent() {
		if n.Level == notify.LevelWarn {
			errs = append(errs, errors.New(n.Msg))
		}
	}
	return errors.Join(errs...)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// parseValue reads objects, lists and quoted strings as JSON. Anything
// else stays a plain string so `set contact phone +39 06 000` needs no
// quoting; numeric fields accept numeric strings.
func parseValue(raw string) (any, error) {
	t := strings.TrimSpace(raw)
	if t == "" || !strings.ContainsRune(`{["`, rune(t[0])) {
		return raw, nil
	}
	var v any
	if err := json.Unmarshal([]byte(t), &v); err != nil {
		return nil, fmt.Errorf("invalid JSON value: %w", err)
	}
	return v, nil
}
