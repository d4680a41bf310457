package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/lib/tree"
	"github.com/benz9527/xrbtree/lib/xlog"
)

const (
	valueTypeInt    = "int"
	valueTypeString = "string"
)

var (
	ErrUnknownValueType = errors.New("unknown value type (use int or string)")
	ErrNotIndexed       = errors.New("positional queries need an indexed tree (use --indexed)")
)

type treeOptions struct {
	indexed    bool
	desc       bool
	valueType  string
	erase      []string
	logLevel   string
	logEncoder string
}

// treeReport erases the value type of a built tree for the commands.
type treeReport struct {
	size      int64
	serialize func(compact bool) (string, error)
	validate  func() error
	at        func(idx int64) (string, error)
}

func newRootCommand() *cobra.Command {
	opts := &treeOptions{}
	rootCmd := &cobra.Command{
		Use:   "rbtree",
		Short: "Build red-black trees from the command line",
		Long: `rbtree inserts the given values into a red-black tree, erases the
values passed by --erase, then reports on the resulting tree.

Commands:
  serialize  Print the tree shape as JSON
  validate   Check every red-black tree rule
  at         Print the values at the given in-order positions`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&opts.indexed, "indexed", false, "maintain left subtree counts for positional queries")
	flags.BoolVar(&opts.desc, "desc", false, "order values descending")
	flags.StringVar(&opts.valueType, "type", valueTypeInt, "value type: int or string")
	flags.StringSliceVar(&opts.erase, "erase", nil, "values to erase after the inserts")
	flags.StringVar(&opts.logLevel, "log-level", xlog.LogLevelWarn.String(), "log level: debug, info, warn or error")
	flags.StringVar(&opts.logEncoder, "log-encoder", xlog.PlainText.String(), "log encoder: json or plaintext")

	rootCmd.AddCommand(
		newSerializeCommand(opts),
		newValidateCommand(opts),
		newAtCommand(opts),
	)
	return rootCmd
}

func newSerializeCommand(opts *treeOptions) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "serialize [values...]",
		Short: "Print the tree shape as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, logger, err := buildReport(cmd, opts, args)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			out, err := report.serialize(compact)
			if err != nil {
				logger.Error(err, "serialize failed")
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print without whitespace")
	return cmd
}

func newValidateCommand(opts *treeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [values...]",
		Short: "Check every red-black tree rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, logger, err := buildReport(cmd, opts, args)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			if err = report.validate(); err != nil {
				for _, e := range multierr.Errors(err) {
					logger.Error(e, "rule violated")
				}
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok, %d values\n", report.size)
			return err
		},
	}
}

func newAtCommand(opts *treeOptions) *cobra.Command {
	var positions []int64
	cmd := &cobra.Command{
		Use:   "at [values...]",
		Short: "Print the values at the given in-order positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.indexed {
				return ErrNotIndexed
			}
			report, logger, err := buildReport(cmd, opts, args)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			for _, idx := range positions {
				val, err := report.at(idx)
				if err != nil {
					logger.Error(err, "positional query failed", zap.Int64("index", idx))
					return fmt.Errorf("index %d: %w", idx, err)
				}
				if _, err = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", idx, val); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&positions, "index", []int64{0}, "0-based in-order positions")
	return cmd
}

func newLogger(cmd *cobra.Command, opts *treeOptions) (xlog.XLogger, error) {
	lvl, lvlErr := xlog.ParseLogLevel(opts.logLevel)
	enc, encErr := xlog.ParseLogEncoder(opts.logEncoder)
	if err := multierr.Combine(lvlErr, encErr); err != nil {
		return nil, err
	}
	return xlog.NewXLogger(
		xlog.WithXLoggerWriter(cmd.ErrOrStderr()),
		xlog.WithXLoggerLevel(lvl),
		xlog.WithXLoggerEncoder(enc),
	)
}

func buildReport(cmd *cobra.Command, opts *treeOptions, args []string) (*treeReport, xlog.XLogger, error) {
	logger, err := newLogger(cmd, opts)
	if err != nil {
		return nil, nil, err
	}

	var report *treeReport
	switch opts.valueType {
	case valueTypeInt:
		report, err = build[int](opts, args, strconv.Atoi, logger)
	case valueTypeString:
		report, err = build[string](opts, args, func(s string) (string, error) {
			return s, nil
		}, logger)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownValueType, opts.valueType)
	}
	if err != nil {
		logger.Error(err, "build tree failed")
		return nil, nil, err
	}
	return report, logger, nil
}

func parseValues[T infra.OrderedKey](raw []string, parse func(string) (T, error)) ([]T, error) {
	vals := make([]T, 0, len(raw))
	var err error
	for _, s := range raw {
		v, e := parse(s)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("invalid value %q: %w", s, e))
			continue
		}
		vals = append(vals, v)
	}
	return vals, err
}

func build[T infra.OrderedKey](
	opts *treeOptions,
	args []string,
	parse func(string) (T, error),
	logger xlog.XLogger,
) (*treeReport, error) {
	inserts, insErr := parseValues(args, parse)
	erases, ersErr := parseValues(opts.erase, parse)
	if err := multierr.Combine(insErr, ersErr); err != nil {
		return nil, err
	}

	treeOpts := make([]tree.RBTreeOpt[T], 0, 1)
	if opts.desc {
		treeOpts = append(treeOpts, tree.WithRBTreeDesc[T]())
	}
	var t tree.RBTree[T]
	if opts.indexed {
		t = tree.IndexedRBTreeFrom(inserts, treeOpts...)
	} else {
		t = tree.RBTreeFrom(inserts, treeOpts...)
	}

	erased := lo.CountBy(lo.Uniq(erases), func(v T) bool {
		if !t.Contains(v) {
			return false
		}
		t.Remove(v)
		return true
	})
	logger.Info("tree built",
		zap.Bool("indexed", t.Indexed()),
		zap.Int("args", len(inserts)),
		zap.Int("unique", len(lo.Uniq(inserts))),
		zap.Int("erased", erased),
		zap.Int64("len", t.Len()),
	)

	report := &treeReport{
		size:      t.Len(),
		serialize: t.Serialize,
		validate: func() error {
			return tree.Validate[T](t)
		},
		at: func(idx int64) (string, error) {
			it, ok := t.(tree.IndexedRBTree[T])
			if !ok {
				return "", ErrNotIndexed
			}
			v, err := it.GetByIndex(idx)
			if err != nil {
				return "", err
			}
			return fmt.Sprint(v), nil
		},
	}
	return report, nil
}
