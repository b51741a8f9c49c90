// internal/collect/collect.go
// Package collect runs every prompt through every requested backend and appends
// one response record per call.
package collect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mwiater/biaslens/internal/logging"
	"github.com/mwiater/biaslens/internal/prompts"
	"github.com/mwiater/biaslens/internal/providers"
	"github.com/mwiater/biaslens/internal/records"
)

// ErrNoPrompts is returned when the prompt directory holds no prompt files.
var ErrNoPrompts = errors.New("no prompts found")

var (
	okTag   = color.New(color.FgGreen).SprintFunc()
	warnTag = color.New(color.FgYellow).SprintFunc()
	errTag  = color.New(color.FgRed).SprintFunc()
)

// RecordWriter persists one record. *records.Appender satisfies it.
type RecordWriter interface {
	Append(rec records.Record) error
}

// Plan describes one collection batch.
type Plan struct {
	PromptDir    string
	Backends     []string
	Runs         int
	Temperature  float64
	SystemPrompt string
}

// Stats summarizes a finished batch.
type Stats struct {
	Calls   int
	Errors  int
	Unknown []string
}

// Runner executes a Plan sequentially, waiting on a rate limiter before each call.
type Runner struct {
	registry *providers.Registry
	writer   RecordWriter
	limiter  *rate.Limiter
	out      io.Writer
	bar      progress.Model

	now   func() time.Time
	newID func() string
}

// NewRunner builds a Runner that allows one backend call per pacing interval.
// A zero pacing disables throttling.
func NewRunner(registry *providers.Registry, writer RecordWriter, pacing time.Duration, out io.Writer) *Runner {
	limit := rate.Inf
	if pacing > 0 {
		limit = rate.Every(pacing)
	}
	if out == nil {
		out = os.Stdout
	}
	return &Runner{
		registry: registry,
		writer:   writer,
		limiter:  rate.NewLimiter(limit, 1),
		out:      out,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(24)),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

type target struct {
	key   string
	model string
	c     providers.Completer
}

// Run executes plan. A failing call is recorded inline as "[ERROR] <Kind>: <message>"
// and the batch continues; only context cancellation or a write failure stops it.
func (r *Runner) Run(ctx context.Context, plan Plan) (Stats, error) {
	var stats Stats

	files, err := prompts.List(plan.PromptDir)
	if err != nil {
		return stats, fmt.Errorf("list prompts: %w", err)
	}
	if len(files) == 0 {
		return stats, fmt.Errorf("%w in %s; add files like H1_positive.txt, H1_negative.txt", ErrNoPrompts, plan.PromptDir)
	}

	var targets []target
	for _, key := range plan.Backends {
		b, err := r.registry.Get(key)
		if errors.Is(err, providers.ErrUnknownBackend) {
			logging.LogEvent("[WARN] %v", err)
			fmt.Fprintf(r.out, "%s Unknown model key: %s. Skipping.\n", warnTag("[WARN]"), key)
			stats.Unknown = append(stats.Unknown, key)
			continue
		}
		if err != nil {
			return stats, err
		}
		targets = append(targets, target{key: b.Name, model: b.Model, c: b.Completer})
	}

	total := len(files) * len(targets) * plan.Runs
	for _, file := range files {
		data, err := os.ReadFile(file.Path)
		if err != nil {
			return stats, fmt.Errorf("read prompt %s: %w", file.Path, err)
		}
		promptText := string(data)

		for _, t := range targets {
			for i := 0; i < plan.Runs; i++ {
				if err := r.limiter.Wait(ctx); err != nil {
					return stats, err
				}
				response, callErr := t.c.Complete(ctx, providers.Request{
					Prompt:       promptText,
					Temperature:  plan.Temperature,
					Model:        t.model,
					SystemPrompt: plan.SystemPrompt,
				})
				if callErr != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return stats, ctxErr
					}
					stats.Errors++
					logging.LogEvent("[ERROR] %s %s/%s run %d: %v", t.key, file.Hypothesis, file.Variant, i+1, callErr)
					response = fmt.Sprintf("[ERROR] %s: %v", providers.ErrorKind(callErr), callErr)
				} else {
					response = strings.TrimSpace(response)
				}

				rec := records.Record{
					ID:           r.newID(),
					Timestamp:    r.now().UTC().Format(time.RFC3339Nano),
					Model:        t.key,
					ModelVersion: t.model,
					Temperature:  plan.Temperature,
					Hypothesis:   file.Hypothesis,
					Variant:      file.Variant,
					PromptPath:   file.Path,
					PromptText:   promptText,
					ResponseText: response,
				}
				if err := r.writer.Append(rec); err != nil {
					return stats, err
				}
				stats.Calls++

				tag := okTag("[OK]")
				if callErr != nil {
					tag = errTag("[ERROR]")
				}
				fmt.Fprintf(r.out, "%s %s / %s / %s run %d %s\n", tag, file.Hypothesis, file.Variant, t.key, i+1,
					r.bar.ViewAs(float64(stats.Calls)/float64(total)))
			}
		}
	}
	return stats, nil
}
