// Package cli implements minusbot, a local terminal front end for the
// portfolio chatbot.
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manasranjandas/portfolio-go/internal/buildinfo"
	"github.com/manasranjandas/portfolio-go/internal/chatbot"
	"github.com/manasranjandas/portfolio-go/internal/config"
	"github.com/manasranjandas/portfolio-go/internal/profile"
)

const defaultProfileDir = "./data/profile"

type options struct {
	profileDir string
	topK       int
}

// NewRootCmd builds the minusbot command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "minusbot",
		Short:         "Ask the portfolio chatbot from the terminal",
		Long:          "minusbot loads the portfolio profile files and answers questions the same way the /api/chat endpoint does.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.profileDir, "profile-dir", "p", "",
		"Profile directory (default: $"+config.EnvProfileDir+" or "+defaultProfileDir+")")
	root.PersistentFlags().IntVarP(&opts.topK, "top-k", "k", chatbot.DefaultTopK, "Search results to show")

	root.AddCommand(newAskCmd(opts), newCorpusCmd(opts), newIntentsCmd(), newVersionCmd())
	return root
}

// Execute runs minusbot with os.Args and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
		return 1
	}
	return 0
}

func (o *options) dir() string {
	if o.profileDir != "" {
		return o.profileDir
	}
	if env := os.Getenv(config.EnvProfileDir); env != "" {
		return env
	}
	return defaultProfileDir
}

func (o *options) responder(cmd *cobra.Command) (*chatbot.Responder, error) {
	p, err := profile.Load(cmd.Context(), o.dir())
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return chatbot.New(p, chatbot.WithTopK(o.topK)), nil
}

func newAskCmd(opts *options) *cobra.Command {
	var showIntent, asJSON bool

	cmd := &cobra.Command{
		Use:   "ask [query...]",
		Short: "Answer one question",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.responder(cmd)
			if err != nil {
				return err
			}
			reply := r.Answer(strings.Join(args, " "))
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reply)
			}
			if showIntent {
				_, _ = fmt.Fprintf(out, "[%s]\n", reply.Intent)
			}
			_, err = fmt.Fprintln(out, reply.Text())
			return err
		},
	}
	cmd.Flags().BoolVarP(&showIntent, "intent", "i", false, "Print the classified intent first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the reply as JSON")
	return cmd
}

func newCorpusCmd(opts *options) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "List the search documents built from the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.responder(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, doc := range r.Documents() {
				if label != "" && !strings.HasPrefix(strings.ToLower(doc.Label), strings.ToLower(label)) {
					continue
				}
				_, _ = fmt.Fprintf(out, "(%s) %s\n", doc.Label, doc.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "Only documents whose label starts with this")
	return cmd
}

func newIntentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intents",
		Short: "Classify queries read from stdin, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return classifyLines(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func classifyLines(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if _, err := fmt.Fprintf(out, "%s\t%s\n", chatbot.Classify(line), line); err != nil {
			return err
		}
	}
	return sc.Err()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "minusbot", buildinfo.String())
		},
	}
}
