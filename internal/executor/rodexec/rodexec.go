// Package rodexec is a reference fuzzer.Executor that runs lifted source
// through a real JS engine by driving a headless browser over CDP. It is
// not meant to replace a REPRL-speaking production executor (process-level
// isolation and fork-server speed are out of scope for the in-tree
// implementation) — it exists so `ecmafuzz smoke --executor=rod`
// can exercise the whole pipeline end-to-end against a real engine without
// any external dependency beyond a Chrome/Chromium binary.
package rodexec

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"ecmafuzz/internal/fuzzer"
	"ecmafuzz/internal/logging"
)

// Config configures how the reference browser is reached or launched:
// attach to an existing debugger URL, or launch a binary.
type Config struct {
	DebuggerURL string
	Launch      []string
	Headless    bool
}

// Executor drives one detached, shared browser instance. It is safe for
// concurrent use: each Execute call opens its own incognito page so
// concurrent rounds never share global state (cookies, console buffer).
type Executor struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
}

// New returns an Executor. The browser is launched lazily on first Execute.
func New(cfg Config) *Executor {
	return &Executor{cfg: cfg}
}

func (e *Executor) ensureStarted() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browser != nil {
		if _, err := e.browser.Version(); err == nil {
			return nil
		}
		_ = e.browser.Close()
		e.browser = nil
	}

	controlURL := e.cfg.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(e.cfg.Headless)
		if len(e.cfg.Launch) > 0 {
			l = l.Bin(e.cfg.Launch[0])
		}
		url, err := l.Launch()
		if err != nil {
			return fmt.Errorf("rodexec: launch browser: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("rodexec: connect: %w", err)
	}
	e.browser = browser
	return nil
}

// Execute evaluates source in a fresh incognito page and reports what
// happened: a thrown exception or console.error is a Failed outcome, a
// page crash or browser-level panic is Crashed, and exceeding timeout is
// TimedOut. Anything else is Succeeded.
func (e *Executor) Execute(ctx context.Context, source string, timeout time.Duration) (fuzzer.Execution, error) {
	if err := e.ensureStarted(); err != nil {
		return fuzzer.Execution{}, err
	}

	e.mu.Lock()
	browser := e.browser
	e.mu.Unlock()

	incognito, err := browser.Incognito()
	if err != nil {
		return fuzzer.Execution{}, fmt.Errorf("rodexec: incognito context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fuzzer.Execution{}, fmt.Errorf("rodexec: create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	var stderrMu sync.Mutex
	var stderr strings.Builder
	crashed := false

	stop := page.Context(ctx).EachEvent(
		func(ev *proto.RuntimeExceptionThrown) {
			stderrMu.Lock()
			defer stderrMu.Unlock()
			fmt.Fprintf(&stderr, "%s\n", ev.ExceptionDetails.Text)
		},
		func(ev *proto.RuntimeConsoleAPICalled) {
			if ev.Type != proto.RuntimeConsoleAPICalledTypeError {
				return
			}
			stderrMu.Lock()
			defer stderrMu.Unlock()
			stderr.WriteString(stringifyArgs(ev.Args))
			stderr.WriteString("\n")
		},
		func(ev *proto.InspectorTargetCrashed) {
			crashed = true
		},
	)
	go stop()

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err = page.Context(runCtx).Evaluate(&rod.EvalOptions{
		JS:           source,
		ByValue:      true,
		AwaitPromise: true,
	})
	elapsed := time.Since(start)
	logging.Get(logging.CategoryExec).Debug("rodexec: ran %d bytes in %s", len(source), elapsed)

	exec := fuzzer.Execution{
		ExecTimeMs: elapsed.Milliseconds(),
	}
	stderrMu.Lock()
	exec.Stderr = stderr.String()
	stderrMu.Unlock()

	switch {
	case crashed:
		exec.Outcome = fuzzer.Crashed
	case runCtx.Err() != nil:
		exec.Outcome = fuzzer.TimedOut
	case err != nil:
		exec.Outcome = fuzzer.Failed
		exec.Stderr += err.Error()
	case exec.Stderr != "":
		exec.Outcome = fuzzer.Failed
	default:
		exec.Outcome = fuzzer.Succeeded
	}
	return exec, nil
}

// Close shuts down the shared browser. Safe to call even if Execute was
// never called.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browser == nil {
		return nil
	}
	err := e.browser.Close()
	e.browser = nil
	return err
}

func stringifyArgs(args []*proto.RuntimeRemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a == nil {
			continue
		}
		if !a.Value.Nil() {
			parts = append(parts, a.Value.String())
			continue
		}
		if a.Description != "" {
			parts = append(parts, a.Description)
		}
	}
	return strings.Join(parts, " ")
}

var _ fuzzer.Executor = (*Executor)(nil)
