package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"video_syncer/internal/domain"
)

var (
	errNoMediaSource  = errors.New("no audio or video source")
	errEmptyTaskID    = errors.New("submission returned no task id")
	errEmptyText      = errors.New("task completed without text")
	errPollsExhausted = errors.New("poll attempts exhausted")
)

// submitASR moves a pending item to asr_polling, or straight to asr_done
// when the service already holds the transcript and returns it inline.
func (p *Pipeline) submitASR(ctx context.Context, it domain.Item, _ func(int)) domain.Item {
	source := it.Source()
	if source == "" {
		return it.Fail(errNoMediaSource)
	}

	it, err := it.Transition(domain.StatusASRPosting)
	if err != nil {
		return it.Fail(err)
	}

	var sub *ASRSubmission
	err = p.limiter.Do(ctx, func(ctx context.Context) error {
		var err error
		sub, err = p.api.SubmitASR(ctx, ASRRequest{
			AwemeID:    it.AwemeID,
			MediaURL:   source,
			DurationMs: it.Duration,
		})
		return err
	})
	if err != nil {
		return it.Fail(fmt.Errorf("submit asr: %w", err))
	}
	if sub == nil || strings.TrimSpace(sub.TaskID) == "" {
		return it.Fail(errEmptyTaskID)
	}

	it.ASRTaskID = strings.TrimSpace(sub.TaskID)
	if it, err = it.Transition(domain.StatusASRPolling); err != nil {
		return it.Fail(err)
	}

	if it.ASRTaskID == domain.ExistSentinel && strings.TrimSpace(sub.Text) != "" {
		it.RawText = strings.TrimSpace(sub.Text)
		if it, err = it.Transition(domain.StatusASRDone); err != nil {
			return it.Fail(err)
		}
	}
	return it
}

func (p *Pipeline) pollASR(ctx context.Context, it domain.Item, report func(int)) domain.Item {
	text, err := p.poll(ctx, report, func(ctx context.Context) (*PollResult, error) {
		return p.api.PollASR(ctx, it.AwemeID, it.ASRTaskID)
	})
	if err != nil {
		return it.Fail(fmt.Errorf("poll asr: %w", err))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return it.Fail(fmt.Errorf("poll asr: %w", errEmptyText))
	}

	it.RawText = text
	next, err := it.Transition(domain.StatusASRDone)
	if err != nil {
		return it.Fail(err)
	}
	return next
}

// submitLLM offers the raw transcript for cleanup. Items that need no cleanup
// keep asr_done with NoCleanup set, or reach llm_done with no clean text.
func (p *Pipeline) submitLLM(ctx context.Context, it domain.Item, _ func(int)) domain.Item {
	if !p.config.Cleanup {
		it.NoCleanup = true
		return it
	}

	it, err := it.Transition(domain.StatusLLMPosting)
	if err != nil {
		return it.Fail(err)
	}

	var sub *LLMSubmission
	err = p.limiter.Do(ctx, func(ctx context.Context) error {
		var err error
		sub, err = p.api.SubmitLLM(ctx, it.AwemeID, it.RawText)
		return err
	})
	if err != nil {
		return it.Fail(fmt.Errorf("submit llm: %w", err))
	}

	if it, err = it.Transition(domain.StatusLLMPolling); err != nil {
		return it.Fail(err)
	}

	switch {
	case sub == nil || len(sub.Tasks) == 0:
		it.NoCleanup = true
		return mustTransition(it, domain.StatusLLMDone)
	case len(sub.Tasks) == 1 && sub.Tasks[0].IsExist() && strings.TrimSpace(sub.Text) != "":
		it.LLMTasks = sub.Tasks
		it.CleanText = strings.TrimSpace(sub.Text)
		return mustTransition(it, domain.StatusLLMDone)
	default:
		it.LLMTasks = sub.Tasks
		return it
	}
}

// pollLLM polls every segment of an item. All segments must succeed; the
// clean text is their concatenation in submission order.
func (p *Pipeline) pollLLM(ctx context.Context, it domain.Item, report func(int)) domain.Item {
	if len(it.LLMTasks) == 0 {
		it.NoCleanup = true
		return mustTransition(it, domain.StatusLLMDone)
	}

	texts := make([]string, len(it.LLMTasks))

	var g errgroup.Group
	for i, ref := range it.LLMTasks {
		g.Go(func() error {
			text, err := p.poll(ctx, report, func(ctx context.Context) (*PollResult, error) {
				return p.api.PollLLM(ctx, it.AwemeID, ref)
			})
			if err != nil {
				return fmt.Errorf("segment %d: %w", i+1, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return it.Fail(fmt.Errorf("poll llm: %w", err))
	}

	it.CleanText = strings.TrimSpace(strings.Join(texts, ""))
	return mustTransition(it, domain.StatusLLMDone)
}

// poll calls fn at the configured interval until the remote task settles.
// The first attempt is immediate. A transport error counts as an attempt.
func (p *Pipeline) poll(ctx context.Context, report func(int), fn func(ctx context.Context) (*PollResult, error)) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= p.config.MaxPollAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, p.config.PollInterval); err != nil {
				return "", err
			}
		}
		if report != nil {
			report(attempt)
		}

		var res *PollResult
		err := p.limiter.Do(ctx, func(ctx context.Context) error {
			var err error
			res, err = fn(ctx)
			return err
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			lastErr = err
			continue
		}
		if res == nil {
			continue
		}

		switch res.State {
		case PollDone:
			return res.Text, nil
		case PollFailed:
			return "", fmt.Errorf("%w: task failed: %s", domain.ErrRemoteAPI, res.Message)
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: %w", errPollsExhausted, lastErr)
	}
	return "", errPollsExhausted
}

func mustTransition(it domain.Item, to domain.ItemStatus) domain.Item {
	next, err := it.Transition(to)
	if err != nil {
		return it.Fail(err)
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
