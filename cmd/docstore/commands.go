package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/docstore/v1/arango"
)

var (
	whereFlags []string
	bindParams []string
	limit      int64
	skip       int64
	ensureDB   bool
	matchField string
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the server answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			if err := s.client.Ping(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		})
	},
}

var countCmd = &cobra.Command{
	Use:   "count <collection>",
	Short: "Count the documents matching --where",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cons, err := parseWhere(whereFlags)
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			n, err := s.client.Collection(args[0]).Count(ctx, cons)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		})
	},
}

var findCmd = &cobra.Command{
	Use:   "find <collection>",
	Short: "Print the documents matching --where, one JSON object per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cons, err := parseWhere(whereFlags)
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			cur, err := s.client.Collection(args[0]).Find(ctx, cons, limit, skip)
			if err != nil {
				return err
			}
			defer func() { _ = cur.Close() }()
			return printCursor(ctx, cmd.OutOrStdout(), cur)
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <collection> <key>",
	Short: "Print the document stored under key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			doc, err := s.client.Collection(args[0]).Get(ctx, args[1])
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("document %s/%s not found", args[0], args[1])
			}
			return printJSON(cmd.OutOrStdout(), doc)
		})
	},
}

var insertCmd = &cobra.Command{
	Use:   "insert <collection> <json|->",
	Short: "Insert a document given as JSON, or read from stdin with -",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readDocument(cmd.InOrStdin(), args[1])
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			coll := s.client.Collection(args[0])
			var doc *arango.Document
			if matchField != "" {
				doc, err = coll.Upsert(ctx, matchField, data)
			} else {
				doc, err = coll.Insert(ctx, data)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <collection> <key> <json|->",
	Short: "Merge a JSON object into the document stored under key",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readDocument(cmd.InOrStdin(), args[2])
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			doc, err := s.client.Collection(args[0]).Update(ctx, args[1], data)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <collection> [key]",
	Short: "Delete one document by key, or every document matching --where",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cons, err := parseWhere(whereFlags)
		if err != nil {
			return err
		}
		if len(args) == 2 && !cons.IsEmpty() {
			return errors.New("pass either a key or --where, not both")
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			coll := s.client.Collection(args[0])
			var removed int64
			if len(args) == 2 {
				removed, err = coll.Delete(ctx, args[1])
			} else {
				removed, err = coll.DeleteWhere(ctx, cons)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", removed)
			return nil
		})
	},
}

var ensureCmd = &cobra.Command{
	Use:   "ensure [collection]",
	Short: "Create a collection, or the database with --database-only, unless it exists",
	Args: func(cmd *cobra.Command, args []string) error {
		if ensureDB {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			var (
				created bool
				err     error
				name    string
			)
			if ensureDB {
				name = s.client.Config().Database
				created, err = s.client.EnsureDatabase(ctx)
			} else {
				name = args[0]
				created, err = s.client.Collection(name).EnsureExists(ctx)
			}
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", name)
			}
			return nil
		})
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <aql>",
	Short: "Run a raw AQL query with --bind parameters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bindings, err := parseAssignments(bindParams)
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			cur, err := s.client.Query(ctx, args[0], bindings)
			if err != nil {
				return err
			}
			defer func() { _ = cur.Close() }()
			return printCursor(ctx, cmd.OutOrStdout(), cur)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{countCmd, findCmd, deleteCmd} {
		c.Flags().StringArrayVarP(&whereFlags, "where", "w", nil, "field=value condition, repeatable; values are parsed as JSON when possible")
	}
	findCmd.Flags().Int64Var(&limit, "limit", 0, "maximum number of documents, 0 for all")
	findCmd.Flags().Int64Var(&skip, "skip", 0, "number of matching documents to skip")
	insertCmd.Flags().StringVar(&matchField, "upsert-on", "", "update the document whose field matches instead of inserting")
	ensureCmd.Flags().BoolVar(&ensureDB, "database-only", false, "create the configured database instead of a collection")
	queryCmd.Flags().StringArrayVarP(&bindParams, "bind", "b", nil, "name=value bind parameter, repeatable")
}

func readDocument(stdin io.Reader, arg string) (*arango.Record, error) {
	var data []byte
	var err error
	if arg == "-" {
		data, err = io.ReadAll(stdin)
	} else if strings.HasPrefix(arg, "@") {
		data, err = os.ReadFile(strings.TrimPrefix(arg, "@"))
	} else {
		data = []byte(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	rec, err := arango.ParseRecord(data)
	if err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return rec, nil
}
