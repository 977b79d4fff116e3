package main

import (
	"io"
	"vehlog/internal/activity"
	"vehlog/internal/di"
	"vehlog/internal/snapshot"
	"vehlog/internal/structures"

	"github.com/spf13/cobra"
)

// withStore opens and loads the configured store, runs fn and flushes the
// store before closing the persistence driver.
func withStore(flags *structures.CliFlags, fn func(store snapshot.StoreInterface) error) error {
	store, cleanup, err := di.InitSnapshotStore(flags)
	if err != nil {
		return codeError(3, "%s", err)
	}
	defer cleanup()

	store.Load()
	if err := fn(store); err != nil {
		return err
	}
	if err := store.Flush(); err != nil {
		return codeError(4, "could not persist snapshots: %s", err)
	}
	return nil
}

func notFound(id string) error {
	return codeError(2, "snapshot %s not found", id)
}

func newSnapshotCmd(flags *structures.CliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage stored snapshots of parsed logs",
	}
	cmd.AddCommand(
		snapshotCreateCmd(flags),
		snapshotUpdateCmd(flags),
		&cobra.Command{
			Use:   "list",
			Short: "List snapshots in creation order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(flags, func(store snapshot.StoreInterface) error {
					return writeJSON(cmd.OutOrStdout(), store.List())
				})
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Print a snapshot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(flags, func(store snapshot.StoreInterface) error {
					snap, ok := store.Get(args[0])
					if !ok {
						return notFound(args[0])
					}
					return writeJSON(cmd.OutOrStdout(), snap)
				})
			},
		},
		&cobra.Command{
			Use:   "current",
			Short: "Print the current snapshot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(flags, func(store snapshot.StoreInterface) error {
					snap, ok := store.Current()
					if !ok {
						return codeError(2, "no current snapshot")
					}
					return writeJSON(cmd.OutOrStdout(), snap)
				})
			},
		},
		&cobra.Command{
			Use:   "use <id>",
			Short: "Make a snapshot current",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(flags, func(store snapshot.StoreInterface) error {
					if !store.SetCurrent(args[0]) {
						return notFound(args[0])
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "history",
			Short: "Print recently current snapshot ids, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(flags, func(store snapshot.StoreInterface) error {
					return writeJSON(cmd.OutOrStdout(), store.History())
				})
			},
		},
		&cobra.Command{
			Use:   "rename <id> <name>",
			Short: "Rename a snapshot",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(flags, func(store snapshot.StoreInterface) error {
					if !store.Rename(args[0], args[1]) {
						return notFound(args[0])
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a snapshot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(flags, func(store snapshot.StoreInterface) error {
					if !store.Delete(args[0]) {
						return notFound(args[0])
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every snapshot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(flags, func(store snapshot.StoreInterface) error {
					store.Clear()
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "transform <id>",
			Short: "Categorize a snapshot and keep the result with it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(flags, func(store snapshot.StoreInterface) error {
					buckets, ok := store.Transform(args[0])
					if !ok {
						return notFound(args[0])
					}
					return writeJSON(cmd.OutOrStdout(), buckets)
				})
			},
		},
		snapshotExportCmd(flags),
		snapshotCompareCmd(flags),
		&cobra.Command{
			Use:   "search <query>",
			Short: "Find records containing the query in any snapshot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(flags, func(store snapshot.StoreInterface) error {
					return writeJSON(cmd.OutOrStdout(), store.Search(args[0]))
				})
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Print store totals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(flags, func(store snapshot.StoreInterface) error {
					return writeJSON(cmd.OutOrStdout(), store.Stats())
				})
			},
		},
	)
	return cmd
}

func snapshotCreateCmd(flags *structures.CliFlags) *cobra.Command {
	var (
		name             string
		clean, transform bool
	)
	cmd := &cobra.Command{
		Use:   "create [file...]",
		Short: "Parse logs into a new snapshot and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(cmd.Context(), cmd.InOrStdin(), args, clean)
			if err != nil {
				return codeError(3, "%s", err)
			}
			return withStore(flags, func(store snapshot.StoreInterface) error {
				var id string
				if transform {
					buckets := activity.Categorize(activity.CleanAll(records))
					id = store.Create(name, records, &buckets)
				} else {
					id = store.Create(name, records, nil)
				}
				printf(cmd, "%s\n", id)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "Snapshot name")
	f.BoolVar(&clean, "clean", false, "Normalize records before storing")
	f.BoolVar(&transform, "transform", false, "Store the categorization as well")
	return cmd
}

func snapshotUpdateCmd(flags *structures.CliFlags) *cobra.Command {
	var clean bool
	cmd := &cobra.Command{
		Use:   "update <id> [file...]",
		Short: "Replace a snapshot's records with freshly parsed logs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(cmd.Context(), cmd.InOrStdin(), args[1:], clean)
			if err != nil {
				return codeError(3, "%s", err)
			}
			return withStore(flags, func(store snapshot.StoreInterface) error {
				if !store.Update(args[0], records, nil) {
					return notFound(args[0])
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clean, "clean", false, "Normalize records before storing")
	return cmd
}

func snapshotExportCmd(flags *structures.CliFlags) *cobra.Command {
	var sep string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Print a snapshot as delimited text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sep, err := activity.ParseSeparator(sep)
			if err != nil {
				return codeError(3, "%s", err)
			}
			return withStore(flags, func(store snapshot.StoreInterface) error {
				out, ok := store.Export(args[0], sep)
				if !ok {
					return notFound(args[0])
				}
				_, err := io.WriteString(cmd.OutOrStdout(), out)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&sep, "sep", activity.DefaultSeparator, "Field separator: comma, semicolon or tab")
	return cmd
}

func snapshotCompareCmd(flags *structures.CliFlags) *cobra.Command {
	var diff bool
	cmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Compare the records of two snapshots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(flags, func(store snapshot.StoreInterface) error {
				result, ok := store.Compare(args[0], args[1])
				if !ok {
					return codeError(2, "snapshot %s or %s not found", args[0], args[1])
				}
				if !diff {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				a, _ := store.Get(args[0])
				b, _ := store.Get(args[1])
				_, err := io.WriteString(cmd.OutOrStdout(), activity.TextDiff(a.Records, b.Records))
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&diff, "diff", false, "Print a line diff of both exports instead")
	return cmd
}
