package controller

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"trackview/utils"
)

// RunScript feeds a range-selector script through the loop, one command per
// line:
//
//	range <startPct> <stopPct>   (or just "<startPct> <stopPct>")
//	axes <view> <x> <y>
//	load <path> [format]
//	labels
//
// Blank lines and lines starting with # are skipped. The first failing
// command stops the script; its line number is in the error.
func RunScript(ctx context.Context, loop *Loop, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	lineNo, applied := 0, 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := runCommand(ctx, loop, strings.Fields(line)); err != nil {
			return applied, fmt.Errorf("script line %d %q: %w", lineNo, line, err)
		}
		applied++
	}
	if err := sc.Err(); err != nil {
		return applied, fmt.Errorf("read script: %w", err)
	}
	return applied, nil
}

func runCommand(ctx context.Context, loop *Loop, f []string) error {
	switch f[0] {
	case "range":
		return runRange(ctx, loop, f[1:])
	case "axes":
		if len(f) != 4 {
			return fmt.Errorf("want: axes <view> <x> <y>")
		}
		resp, err := loop.ChangeAxes(ctx, f[1], f[2], f[3])
		if err == nil {
			utils.L().Info("axes %s -> %s/%s  window [%s, %s]", f[1], f[2], f[3], resp.Labels.First, resp.Labels.Last)
		}
		return err
	case "load":
		if len(f) < 2 || len(f) > 3 {
			return fmt.Errorf("want: load <path> [format]")
		}
		format := ""
		if len(f) == 3 {
			format = f[2]
		}
		_, err := loop.Load(ctx, f[1], format)
		return err
	case "labels":
		l, err := loop.Labels(ctx)
		if err == nil {
			utils.L().Info("window [%d,%d) of %d  %s - %s", l.Start, l.End, l.Length, l.First, l.Last)
		}
		return err
	default:
		return runRange(ctx, loop, f)
	}
}

func runRange(ctx context.Context, loop *Loop, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("want: range <startPct> <stopPct>")
	}
	a, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	b, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	resp, err := loop.Move(ctx, a, b)
	if err != nil {
		return err
	}
	utils.L().Info("range %g-%g%%  %s  [%s, %s]", a, b, resp.Delta, resp.Labels.First, resp.Labels.Last)
	return nil
}
