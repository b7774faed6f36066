package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/scry-decks/internal/client"
	"github.com/phrazzld/scry-decks/internal/client/deckstore"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/spf13/cobra"
)

// DefaultAPIURL is the API base URL used when --api is not given.
const DefaultAPIURL = "http://localhost:8080/api"

// globals are the persistent flags shared by every subcommand.
type globals struct {
	apiURL  string
	timeout time.Duration
	verbose bool
	out     io.Writer
}

func (g *globals) client() (*client.Client, error) {
	return client.New(g.apiURL, client.WithTimeout(g.timeout))
}

func (g *globals) session() (*deckstore.Session, error) {
	c, err := g.client()
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return deckstore.NewSession(c, log), nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	g := &globals{out: out}

	root := &cobra.Command{
		Use:           "deckctl",
		Short:         "Command line client for the flashcard deck API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&g.apiURL, "api", envOr("DECKCTL_API", DefaultAPIURL), "API base URL")
	flags.DurationVar(&g.timeout, "timeout", client.DefaultTimeout, "overall request timeout")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "log client activity to stderr")

	root.AddCommand(newDecksCmd(g), newUsersCmd(g))
	return root
}

func newDecksCmd(g *globals) *cobra.Command {
	decks := &cobra.Command{
		Use:   "decks",
		Short: "List, show and create decks",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.session()
			if err != nil {
				return err
			}
			if err := s.FetchDecks(cmd.Context()); err != nil {
				return err
			}
			return printDeckList(g.out, s.State().Decks)
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a deck and its flashcards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := g.session()
			if err != nil {
				return err
			}
			if err := s.FetchDeck(cmd.Context(), id); err != nil {
				return err
			}
			return printDeck(g.out, s.State().CurrentDeck)
		},
	}

	var (
		topic  string
		userID int64
		file   string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a deck from a PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open pdf: %w", err)
			}
			defer f.Close()

			s, err := g.session()
			if err != nil {
				return err
			}
			deck, err := s.CreateDeck(cmd.Context(), client.CreateDeckInput{
				Topic:    topic,
				UserID:   userID,
				Filename: filepath.Base(file),
				PDF:      f,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(g.out, "Deck created successfully")
			return printDeck(g.out, deck)
		},
	}
	create.Flags().StringVar(&topic, "topic", "", "deck topic")
	create.Flags().Int64Var(&userID, "user", 0, "owning user ID")
	create.Flags().StringVar(&file, "file", "", "path to the PDF to upload")
	_ = create.MarkFlagRequired("file")

	decks.AddCommand(list, show, create)
	return decks
}

func newUsersCmd(g *globals) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "List, show and create users",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			all, err := c.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(g.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, u := range all {
				fmt.Fprintf(tw, "%d\t%s\n", u.ID, u.Name)
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			u, err := c.GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(g.out, "%d\t%s\n", u.ID, u.Name)
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			u, err := c.CreateUser(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(g.out, "User created successfully\n%d\t%s\n", u.ID, u.Name)
			return nil
		},
	}

	users.AddCommand(list, show, create)
	return users
}

func printDeckList(w io.Writer, decks []domain.Deck) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTOPIC\tOWNER\tCARDS\tCREATED")
	for _, d := range decks {
		owner := strconv.FormatInt(d.UserID, 10)
		if d.User != nil {
			owner = d.User.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			d.ID, d.Topic, owner, len(d.Flashcards), d.CreatedAt.Format(time.DateOnly))
	}
	return tw.Flush()
}

func printDeck(w io.Writer, d *domain.Deck) error {
	if d == nil {
		return errors.New("no deck loaded")
	}
	owner := strconv.FormatInt(d.UserID, 10)
	if d.User != nil {
		owner = fmt.Sprintf("%s (%d)", d.User.Name, d.UserID)
	}
	fmt.Fprintf(w, "Deck %d: %s\nOwner: %s\nPDF: %s\n\n", d.ID, d.Topic, owner, d.PDFPath)

	for i, card := range d.Flashcards {
		fmt.Fprintf(w, "%d. Q: %s\n   A: %s\n", i+1, card.Question, card.Answer)
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// describeError renders API validation failures one field per line.
func describeError(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return err.Error()
	}

	fields := make([]string, 0, len(apiErr.Fields))
	for f := range apiErr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(apiErr.Message)
	for _, f := range fields {
		for _, msg := range apiErr.Fields[f] {
			fmt.Fprintf(&b, "\n  %s: %s", f, msg)
		}
	}
	return b.String()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
