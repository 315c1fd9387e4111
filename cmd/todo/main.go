package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"todotui/internal/config"
	"todotui/internal/logging"
	"todotui/internal/storage"
	"todotui/internal/todo"
	"todotui/internal/ui"
)

var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	todoPath    string
	donePath    string
	includeDone bool
}

// session is the loaded config, logger and store shared by every command.
type session struct {
	cfg    config.Config
	logger *logging.Logger
	store  *todo.Store
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Terminal task manager for todo.txt lists",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer sess.logger.Close()

			trash, err := storage.Open(sess.cfg.TrashPath)
			if err != nil {
				return fmt.Errorf("open trash: %w", err)
			}
			defer trash.Close()

			log.Info("starting tui", "pending", sess.store.Len(todo.Pending), "done", sess.store.Len(todo.Done))
			err = ui.Run(ui.Options{
				Store:  sess.store,
				Config: sess.cfg,
				Trash:  trash,
				Save:   sess.save,
			})
			if err != nil {
				log.Error("tui terminated with error", "err", err)
			}
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML (default: $TODOTUI_CONFIG or user config dir)")
	cmd.PersistentFlags().StringVar(&opts.todoPath, "todo", "", "override the pending todo.txt path")
	cmd.PersistentFlags().StringVar(&opts.donePath, "done", "", "override the done.txt path")
	cmd.PersistentFlags().BoolVar(&opts.includeDone, "include-done", false, "include done tasks in categories")

	cmd.AddCommand(newAddCmd(opts), newListCmd(opts), newTrashCmd(opts))
	return cmd
}

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task>",
		Short: "Append a todo.txt line to the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer sess.logger.Close()

			if err := sess.store.NewTask(strings.Join(args, " ")); err != nil {
				return err
			}
			if err := sess.save(sess.store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added: %d pending, %d done\n", sess.store.Len(todo.Pending), sess.store.Len(todo.Done))
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var (
		projects, contexts, hashtags []string
		done                         bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks matching every given tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer sess.logger.Close()

			for dim, names := range map[todo.Dimension][]string{
				todo.Project: projects,
				todo.Context: contexts,
				todo.Hashtag: hashtags,
			} {
				for _, name := range names {
					if !slices.Contains(sess.store.Filters(dim), name) {
						sess.store.ToggleFilter(dim, name)
					}
				}
			}
			list := todo.Pending
			if done {
				list = todo.Done
			}
			out := cmd.OutOrStdout()
			for _, e := range sess.store.Filtered(list) {
				fmt.Fprintf(out, "%3d %s\n", e.Index+1, e.Task)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&projects, "project", "p", nil, "require +project (repeatable)")
	cmd.Flags().StringSliceVarP(&contexts, "context", "c", nil, "require @context (repeatable)")
	cmd.Flags().StringSliceVarP(&hashtags, "hashtag", "t", nil, "require #hashtag (repeatable)")
	cmd.Flags().BoolVar(&done, "done", false, "list done tasks instead of pending")
	return cmd
}

func newTrashCmd(opts *options) *cobra.Command {
	var purge bool
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Show tasks removed from the lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer sess.logger.Close()

			trash, err := storage.Open(sess.cfg.TrashPath)
			if err != nil {
				return fmt.Errorf("open trash: %w", err)
			}
			defer trash.Close()

			out := cmd.OutOrStdout()
			if purge {
				n, err := trash.Purge()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "purged %d tasks\n", n)
				return nil
			}
			removed, err := trash.List()
			if err != nil {
				return err
			}
			for _, r := range removed {
				fmt.Fprintf(out, "%-8s %-16s %s\n", r.List, humanize.Time(r.RemovedAt), r.Line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&purge, "purge", false, "delete every removed task")
	return cmd
}

func openSession(cmd *cobra.Command, opts *options) (*session, error) {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.todoPath != "" {
		cfg.TodoPath = opts.todoPath
	}
	if opts.donePath != "" {
		cfg.DonePath = opts.donePath
	}
	if cmd.Flags().Changed("include-done") {
		cfg.IncludeDone = opts.includeDone
	}

	logger, err := logging.Setup(cfg.LogPath, cfg.LogLevel, config.AppName)
	if err != nil {
		return nil, err
	}
	log.Info("configuration loaded", "config_path", configPath, "todo_path", cfg.TodoPath, "done_path", cfg.DonePath)

	store, err := loadStore(cfg)
	if err != nil {
		logger.Close()
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, store: store}, nil
}

// loadStore reads both list files. Any malformed line aborts the load so a
// later save cannot drop it.
func loadStore(cfg config.Config) (*todo.Store, error) {
	var lines []string
	for _, path := range []string{cfg.TodoPath, cfg.DonePath} {
		l, err := storage.ReadLines(path)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l...)
	}
	store, errs := todo.Load(lines, cfg.IncludeDone)
	if len(errs) > 0 {
		return nil, fmt.Errorf("load tasks: %w", errors.Join(errs...))
	}
	return store, nil
}

func (s *session) save(store *todo.Store) error {
	if err := storage.WriteLines(s.cfg.TodoPath, store.Lines(todo.Pending)); err != nil {
		return fmt.Errorf("write %s: %w", s.cfg.TodoPath, err)
	}
	if err := storage.WriteLines(s.cfg.DonePath, store.Lines(todo.Done)); err != nil {
		return fmt.Errorf("write %s: %w", s.cfg.DonePath, err)
	}
	return nil
}
