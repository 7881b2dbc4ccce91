package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"newsdesk/internal/client"
	"newsdesk/internal/domain/content"
	"newsdesk/internal/listview"
	"newsdesk/internal/screens"

	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse <resource>",
	Short: "Open an interactive list screen for a resource",
	Long: `Open an interactive list screen. Commands:

  page N | next | prev      navigate pages
  sort FIELD                cycle a column's sort (asc, desc, none)
  search TEXT               search after the debounce window
  type TEXT                 feed TEXT one keystroke at a time
  clear                     clear the search
  limit N                   change page size
  delete ID                 delete a row on this page
  back | forward            move through URL history
  url                       print the current URL
  quit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resource, ok := content.ParseResource(args[0])
		if !ok {
			return fmt.Errorf("unknown resource %q", args[0])
		}
		start, _ := cmd.Flags().GetString("url")
		yes, _ := cmd.Flags().GetBool("yes")
		if start == "" {
			start = "/" + string(resource)
		}
		loc, err := listview.ParseLocation(start)
		if err != nil {
			return fmt.Errorf("bad --url: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		hc := client.NewHTTPClient("deskctl", cfg.Client.APIURL, cfg.Client.Token, cfg.Client.RequestTimeout, cfg.Client.RetryMaxWait)
		acct := client.NewAccount(hc)
		if _, err := acct.Me(ctx); err != nil {
			return fmt.Errorf("sign-in check failed: %w", err)
		}
		nav := &exitNavigator{out: out, done: make(chan string, 1)}

		scr, err := screens.Open(resource, screens.Deps{
			HTTP:            hc,
			Account:         acct,
			Location:        loc,
			Notifier:        &toastNotifier{out: out},
			Confirmer:       huhConfirmer{assumeYes: yes},
			Navigator:       nav,
			MaxItemsPerPage: cfg.List.MaxItemsPerPage,
			SearchDebounce:  cfg.List.SearchDebounce,
		})
		if err != nil {
			return err
		}
		defer scr.Unmount()

		s := &session{
			scr:      scr,
			loc:      loc,
			out:      out,
			debounce: cfg.List.SearchDebounce,
			signout:  nav.done,
		}
		fmt.Fprintln(out, renderView(scr.Mount(ctx), scr.CanDelete(ctx)))
		return s.run(ctx, cmd.InOrStdin())
	},
}

func init() {
	browseCmd.Flags().String("url", "", "Start from this screen URL, e.g. /tags?page=2")
	browseCmd.Flags().BoolP("yes", "y", false, "Do not ask before deleting")
	rootCmd.AddCommand(browseCmd)
}

// command is one parsed REPL line.
type command struct {
	name string
	arg  string
}

var errQuit = errors.New("quit")

func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, nil
	}
	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	switch name {
	case "next", "prev", "clear", "back", "forward", "url", "quit", "exit":
		if name == "exit" {
			name = "quit"
		}
		return command{name: name}, nil
	case "page", "limit", "delete", "sort":
		if arg == "" {
			return command{}, fmt.Errorf("%s needs an argument", name)
		}
		if name == "page" || name == "limit" {
			if _, err := strconv.Atoi(arg); err != nil {
				return command{}, fmt.Errorf("%s needs a number, got %q", name, arg)
			}
		}
		return command{name: name, arg: arg}, nil
	case "search", "type":
		return command{name: name, arg: arg}, nil
	}
	return command{}, fmt.Errorf("unknown command %q", name)
}

// session is one interactive browse loop.
type session struct {
	scr      screens.Screen
	loc      *listview.MemoryLocation
	out      io.Writer
	debounce time.Duration
	signout  <-chan string
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		cmd, err := parseCommand(sc.Text())
		if err != nil {
			fmt.Fprintln(s.out, errorStyle.Render(err.Error()))
			continue
		}
		if cmd.name == "" {
			continue
		}
		err = s.exec(ctx, cmd)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(s.out, errorStyle.Render(err.Error()))
		}
		select {
		case <-s.signout:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}
		fmt.Fprintln(s.out, renderView(s.scr.View(), s.scr.CanDelete(ctx)))
	}
}

func (s *session) exec(ctx context.Context, cmd command) error {
	switch cmd.name {
	case "quit":
		return errQuit
	case "url":
		fmt.Fprintln(s.out, s.loc.String())
		return nil
	case "next":
		s.scr.HandlePageChange(s.scr.View().Query.Page + 1)
	case "prev":
		s.scr.HandlePageChange(s.scr.View().Query.Page - 1)
	case "page":
		n, _ := strconv.Atoi(cmd.arg)
		s.scr.HandlePageChange(n)
	case "limit":
		n, _ := strconv.Atoi(cmd.arg)
		if err := s.scr.HandleItemsPerPageChange(n); err != nil {
			return err
		}
	case "sort":
		if err := s.scr.HandleSort(cmd.arg); err != nil {
			return err
		}
	case "search":
		s.scr.HandleSearchInput(cmd.arg)
		s.settle()
	case "type":
		keys := []rune(cmd.arg)
		for i := 1; i <= len(keys); i++ {
			s.scr.HandleSearchInput(string(keys[:i]))
			time.Sleep(s.debounce / 4)
		}
		s.settle()
	case "clear":
		s.scr.HandleClearSearch()
	case "back":
		if !s.loc.Back() {
			return errors.New("no earlier history")
		}
	case "forward":
		if !s.loc.Forward() {
			return errors.New("no later history")
		}
	case "delete":
		out, err := s.scr.DeleteByID(ctx, cmd.arg)
		if err != nil {
			return err
		}
		if out == listview.DeleteCancelled {
			fmt.Fprintln(s.out, dimStyle.Render("delete cancelled"))
		}
	}
	s.scr.Wait()
	return nil
}

// settle waits out the search debounce window.
func (s *session) settle() {
	time.Sleep(s.debounce + 20*time.Millisecond)
}
