package sdk

import (
	"context"
	"time"

	"github.com/dohr-michael/ozzie-core/internal/appctx"
	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/events"
	"github.com/dohr-michael/ozzie-core/internal/ids"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

// Submit runs a raw utterance through the full pipeline (spec §4.10): the
// beforeClassify hook, classification against the enabled action set, the
// classified event, routing (with beforeRoute), and task admission into the
// dispatcher. It returns a nil Task, nil error whenever the utterance is
// dropped along the way — by a hook, an unknown classification, or no
// matching route — since none of those are error conditions.
//
// Submit never checks IsListening: the voice-capture layer is expected to
// gate calls to Submit on it, since Submit is also the entry path for
// callers that bypass voice entirely.
func (s *SDK) Submit(ctx context.Context, utterance string) (*tasks.Task, error) {
	appCtx := s.AppContext.Get()

	utterance, ok := s.hookMgr.BeforeClassify(utterance, appCtx)
	if !ok {
		return nil, nil
	}

	s.Bus.Publish(events.NewTypedEvent(events.SourceSDK, events.TranscriptPayload{Utterance: utterance}))

	classified, err := s.classifier.Classify(ctx, utterance, s.Actions.List(true), appCtx)
	if err != nil {
		if s.cfg.Errors.OnClassifyError == "throw" {
			return nil, core.New("sdk.submit", core.KindClassify, err)
		}
		return nil, nil
	}
	if classified == nil {
		return nil, nil
	}

	s.Bus.Publish(events.NewTypedEvent(events.SourceSDK, events.ClassifiedPayload{
		Action:     classified.Action,
		Content:    classified.Content,
		Params:     classified.Params,
		Priority:   classified.Priority,
		Confidence: classified.Confidence,
		Dropped:    classified.Action == "unknown",
	}))
	if classified.Action == "unknown" {
		return nil, nil
	}

	routed, ok := s.hookMgr.BeforeRoute(*classified, appCtx)
	if !ok {
		return nil, nil
	}

	queueName := s.Router.Route(routed)
	if queueName == "" {
		return nil, nil
	}

	task := tasks.Task{
		ID:          ids.New("task"),
		Action:      routed.Action,
		Content:     routed.Content,
		Params:      routed.Params,
		Priority:    routed.Priority,
		Queue:       queueName,
		CreatedAt:   time.Now(),
		MaxAttempts: s.defaultMaxAttempts(),
	}

	if _, err := s.dispatcher.Enqueue(task); err != nil {
		return nil, err
	}

	if stored, err := s.TaskStore.Get(task.ID); err == nil {
		task = *stored
	}

	s.AppContext.Update(func(c appctx.AppContext) appctx.AppContext {
		c.LastTask = &appctx.Task{ID: task.ID, Action: task.Action, Queue: task.Queue, Status: string(task.Status)}
		return c
	})

	return &task, nil
}

func (s *SDK) defaultMaxAttempts() int {
	if s.cfg.Dispatcher.DefaultMaxAttempts > 0 {
		return s.cfg.Dispatcher.DefaultMaxAttempts
	}
	return 3
}
