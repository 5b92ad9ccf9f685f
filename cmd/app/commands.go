package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/starford/cuppa/internal"
	"github.com/starford/cuppa/internal/models"
)

const dateLayout = "2006-01-02"

type envAction func(ctx context.Context, cmd *cli.Command, env *internal.Env) error

// withEnv opens the configured store for a single command. Logs go to
// stderr so the command output stays clean.
func withEnv(fn envAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		env, err := internal.Open(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
		if err != nil {
			return err
		}
		defer env.Close()
		return fn(ctx, cmd, env)
	}
}

func halfFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "half",
		Usage: "Record a half cup instead of a whole one",
	}
}

func addCup(ctx context.Context, cmd *cli.Command, env *internal.Env) error {
	if _, err := env.Tracker.Add(ctx, !cmd.Bool("half")); err != nil {
		return err
	}
	return showToday(ctx, cmd, env)
}

func popCup(ctx context.Context, cmd *cli.Command, env *internal.Env) error {
	cup, ok, err := env.Tracker.Pop(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(os.Stdout, "no cups recorded today")
		return nil
	}
	fmt.Fprintf(os.Stdout, "removed %s\n", formatCount(cup))
	return showToday(ctx, cmd, env)
}

func changeCup(ctx context.Context, cmd *cli.Command, env *internal.Env) error {
	if _, err := env.Tracker.Change(ctx, !cmd.Bool("half")); err != nil {
		return err
	}
	return showToday(ctx, cmd, env)
}

func decCup(ctx context.Context, cmd *cli.Command, env *internal.Env) error {
	if _, err := env.Tracker.Dec(ctx); err != nil {
		return err
	}
	return showToday(ctx, cmd, env)
}

func resetToday(ctx context.Context, cmd *cli.Command, env *internal.Env) error {
	if err := env.Tracker.Reset(ctx); err != nil {
		return err
	}
	return showToday(ctx, cmd, env)
}

func showToday(ctx context.Context, _ *cli.Command, env *internal.Env) error {
	sum, err := env.Tracker.Summary(ctx)
	if err != nil {
		return err
	}
	writeSummary(os.Stdout, sum)
	return nil
}

func showWeek(ctx context.Context, cmd *cli.Command, env *internal.Env) error {
	ref := env.Tracker.Now()
	if d := cmd.String("date"); d != "" {
		t, err := time.ParseInLocation(dateLayout, d, env.Tracker.Location())
		if err != nil {
			return fmt.Errorf("--date must be formatted YYYY-MM-DD: %w", err)
		}
		ref = t
	}
	ref = ref.AddDate(0, 0, 7*int(cmd.Int("offset")))

	week, err := env.Tracker.Week(ctx, ref)
	if err != nil {
		return err
	}
	writeWeek(os.Stdout, week)
	return nil
}

func listDates(ctx context.Context, _ *cli.Command, env *internal.Env) error {
	dates, err := env.Tracker.Dates(ctx)
	if err != nil {
		return err
	}
	for _, d := range dates {
		fmt.Fprintln(os.Stdout, d)
	}
	return nil
}

func dump(_ context.Context, _ *cli.Command, env *internal.Env) error {
	keys, err := env.Store.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		raw, _, err := env.Store.Raw(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\n", k, raw)
	}
	return nil
}

func writeSummary(w io.Writer, sum models.DaySummary) {
	fmt.Fprintf(w, "%s: %s cups", sum.Date, formatCount(sum.Total))
	if len(sum.Cups) > 0 {
		parts := make([]string, len(sum.Cups))
		for i, c := range sum.Cups {
			parts[i] = formatCount(c)
		}
		fmt.Fprintf(w, " (%s)", strings.Join(parts, " + "))
	}
	fmt.Fprintln(w)
}

func writeWeek(w io.Writer, week models.Week) {
	fmt.Fprintf(w, "week %d\n", week.Number)
	for i, day := range week.Days() {
		count := "-"
		if day.Count != nil {
			count = formatCount(*day.Count)
		}
		fmt.Fprintf(w, "%-9s  %s  %s\n", models.WeekdayNames[i], day.Key, count)
	}
	fmt.Fprintf(w, "total      %s\n", formatCount(week.Total()))
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
