package controller

import (
	"context"
	"errors"
	"strings"
	"testing"

	"trackview/models"
)

func startLoop(t *testing.T, wc *WindowController) *Loop {
	t.Helper()
	loop := NewLoop(wc, 4, false)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = loop.Run(ctx) }()
	return loop
}

func TestRunScript(t *testing.T) {
	wc, _ := newController(t, 200)
	loop := startLoop(t, wc)

	script := `
# slide the window right
range 0 50
25 75
axes xy time altitude
labels
`
	n, err := RunScript(context.Background(), loop, strings.NewReader(script))
	if err != nil {
		t.Fatalf("run script: %v", err)
	}
	if n != 4 {
		t.Fatalf("applied %d commands", n)
	}
	if b := wc.Bounds(); b.Start != 50 || b.End != 150 {
		t.Fatalf("bounds = %s", b)
	}
	spec, _ := wc.Registry().Spec("xy")
	if spec.Y.Name != "altitude" {
		t.Fatalf("xy y = %s", spec.Y.Name)
	}
	assertViews(t, wc)
}

func TestRunScript_StopsAtFirstError(t *testing.T) {
	wc, _ := newController(t, 100)
	loop := startLoop(t, wc)

	script := "10 20\n30 5\n40 60\n"
	n, err := RunScript(context.Background(), loop, strings.NewReader(script))
	var ire *models.InvalidRangeError
	if !errors.As(err, &ire) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error lacks line number: %v", err)
	}
	if n != 1 {
		t.Fatalf("applied = %d", n)
	}
	if b := wc.Bounds(); b.Start != 10 || b.End != 20 {
		t.Fatalf("bounds = %s", b)
	}
}

func TestRunScript_BadCommands(t *testing.T) {
	wc, _ := newController(t, 10)
	loop := startLoop(t, wc)
	for _, line := range []string{"range 1", "axes xy time", "load", "ten 20", "axes nope time speed"} {
		if _, err := RunScript(context.Background(), loop, strings.NewReader(line)); err == nil {
			t.Fatalf("%q: expected error", line)
		}
	}
}
