// Package sdk is the SDK Facade (spec §4.10): it wires the Action Store,
// Agent Registry, Queue Manager, Task Store, Router, Hook Manager,
// Classifier, Dispatcher, Undo Log, and AppContext Manager into one
// constructed instance, owns the singleton event bus, and exposes the
// operation surface enumerated in spec §4.10/§6.1. Grounded on
// cmd/ozzie/main.go + cmd/commands/root.go's construct-and-inject wiring
// style — rejecting the teacher's own `getIPCAdapter`/global-singleton
// pattern per spec §9's explicit-instance redesign note.
package sdk

import (
	"context"
	"sync/atomic"

	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/agents"
	"github.com/dohr-michael/ozzie-core/internal/appctx"
	"github.com/dohr-michael/ozzie-core/internal/classifier"
	"github.com/dohr-michael/ozzie-core/internal/config"
	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/dispatcher"
	"github.com/dohr-michael/ozzie-core/internal/events"
	"github.com/dohr-michael/ozzie-core/internal/hooks"
	"github.com/dohr-michael/ozzie-core/internal/queues"
	"github.com/dohr-michael/ozzie-core/internal/router"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
	"github.com/dohr-michael/ozzie-core/internal/undo"
)

// Options bundles the SDK's construction-time configuration (spec §6.5):
// the file-serializable half lives in config.Config, the two closures the
// config file cannot carry (a Custom classifier function and lifecycle
// Hooks) are supplied directly.
type Options struct {
	Config         config.Config
	CustomClassify classifier.CustomFunc
	Hooks          hooks.Hooks
	Persistence    Adapter // optional; see persistence.go

	// AgentResolvers supplies the Resolver for each agent name that
	// Restore may find in the persistence adapter; an agent record with
	// no matching entry is skipped rather than restored without a
	// Resolve function (see persistence.go's Restore).
	AgentResolvers map[string]agents.Resolver
}

// SDK is the facade instance: one constructed runtime wiring every core
// component together.
type SDK struct {
	cfg config.Config

	Bus        *events.Bus
	Actions    *ActionsAPI
	Agents     *AgentsAPI
	Queues     *QueuesAPI
	Router     *router.Router
	TaskStore  *tasks.Store
	Tasks      *TasksAPI
	Undo       *UndoAPI
	AppContext *appctx.Manager

	dispatcher *dispatcher.Dispatcher
	hookMgr    *hooks.Manager
	classifier classifier.Classifier

	listening      atomic.Bool
	persist        Adapter
	agentResolvers map[string]agents.Resolver
}

// New constructs an SDK instance and starts its dispatcher. Missing
// apiKey with classifier mode "ai" is a construction-time error, per spec
// §6.5.
func New(opts Options) (*SDK, error) {
	cfg := opts.Config
	if cfg.Classifier.Mode == "" {
		cfg.Classifier.Mode = config.ClassifierAI
	}
	if cfg.Classifier.Mode == config.ClassifierAI && cfg.APIKey == "" {
		return nil, core.New("sdk.new", core.KindValidation, nil)
	}
	if (cfg.Classifier.Mode == config.ClassifierCustom || cfg.Classifier.Mode == config.ClassifierHybrid) && opts.CustomClassify == nil {
		return nil, core.New("sdk.new", core.KindValidation, nil)
	}

	bus := events.NewBus(eventsBufferSize(cfg))

	actionStore := actions.NewStore()
	agentRegistry := agents.NewRegistry()
	queueMgr := queues.NewManager(bus)
	taskStore := tasks.NewStore()
	rt := router.New()
	if cfg.DefaultQueue != "" {
		rt.SetDefaultQueue(cfg.DefaultQueue)
	}
	hookMgr := hooks.NewManager(opts.Hooks)
	undoLog := undo.NewLog(cfg.Undo.Capacity, bus, opts.Persistence)
	appCtxMgr := appctx.NewManager()

	cl, err := buildClassifier(cfg, opts.CustomClassify)
	if err != nil {
		return nil, err
	}

	disp := dispatcher.New(dispatcher.Config{
		Queues:  queueMgr,
		Agents:  agentRegistry,
		Store:   taskStore,
		Hooks:   hookMgr,
		UndoLog: undoLog,
		Bus:     bus,
		AppCtx:  appCtxMgr,
		Persist: opts.Persistence,
		Backoff: dispatcher.BackoffConfig{
			Base: cfg.Dispatcher.BackoffDuration(),
			Cap:  cfg.Dispatcher.BackoffCapDuration(),
		},
	})
	disp.Start()

	s := &SDK{
		cfg:            cfg,
		Bus:            bus,
		Actions:        &ActionsAPI{store: actionStore, bus: bus, persist: opts.Persistence},
		Agents:         &AgentsAPI{registry: agentRegistry, bus: bus, persist: opts.Persistence},
		Queues:         &QueuesAPI{manager: queueMgr, persist: opts.Persistence},
		Router:         rt,
		TaskStore:      taskStore,
		AppContext:     appCtxMgr,
		dispatcher:     disp,
		hookMgr:        hookMgr,
		classifier:     cl,
		persist:        opts.Persistence,
		agentResolvers: opts.AgentResolvers,
	}
	s.Undo = &UndoAPI{log: undoLog}
	s.Tasks = &TasksAPI{store: taskStore, dispatcher: disp}
	s.listening.Store(true)

	if s.persist != nil {
		if err := s.Restore(context.Background()); err != nil {
			corelog.For("sdk").Warn("restore from persistence adapter failed", "error", err)
		}
	}

	return s, nil
}

// Close stops the dispatcher's per-queue loops and closes the event bus.
func (s *SDK) Close() {
	s.dispatcher.Stop()
	s.Bus.Close()
}

func buildClassifier(cfg config.Config, customFn classifier.CustomFunc) (classifier.Classifier, error) {
	aiCfg := classifier.AIConfig{
		Model:                cfg.Classifier.AIModel,
		ConfidenceFloor:      cfg.Classifier.ConfidenceFloor,
		DebounceWindow:       cfg.Classifier.DebounceWindow(),
		MaxRequestsPerMinute: cfg.Classifier.MaxRequestsPerMinute,
	}

	switch cfg.Classifier.Mode {
	case config.ClassifierCustom:
		return classifier.Custom{Fn: customFn}, nil
	case config.ClassifierHybrid:
		return classifier.Hybrid{
			Custom: classifier.Custom{Fn: customFn},
			AI:     classifier.NewAI(cfg.APIKey, aiCfg),
		}, nil
	case config.ClassifierAI:
		return classifier.NewAI(cfg.APIKey, aiCfg), nil
	default:
		return nil, core.New("sdk.buildClassifier", core.KindValidation, nil)
	}
}

func eventsBufferSize(cfg config.Config) int {
	if cfg.Events.BufferSize > 0 {
		return cfg.Events.BufferSize
	}
	return 1024
}
