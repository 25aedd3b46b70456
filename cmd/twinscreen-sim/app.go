package main

import (
	"maps"
	"slices"
	"sync"

	"github.com/agiangrant/twinscreen/retained"
)

// sceneApp plays a scene: it emits the scene's construction edits and then
// applies the matching rules for every dispatched event.
type sceneApp struct {
	mu      sync.Mutex
	rules   []Rule
	pending []retained.Mutation
	work    chan struct{}
	log     func(target retained.NodeID, ev retained.Event)

	exit    bool
	handoff *retained.Handoff
}

func newSceneApp(s *Scene, log func(retained.NodeID, retained.Event)) (*sceneApp, error) {
	muts, err := s.Mutations()
	if err != nil {
		return nil, err
	}
	return &sceneApp{
		rules:   s.Rules,
		pending: muts,
		work:    make(chan struct{}, 1),
		log:     log,
	}, nil
}

func (a *sceneApp) HandleEvent(target retained.NodeID, ev retained.Event) {
	if a.log != nil {
		a.log(target, ev)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range a.rules {
		if retained.NodeID(r.Node) != target || r.Event != ev.Type.String() {
			continue
		}
		if r.Key != "" && r.Key != ev.Key.String() {
			continue
		}
		a.apply(r)
	}
	select {
	case a.work <- struct{}{}:
	default:
	}
}

func (a *sceneApp) apply(r Rule) {
	to := retained.NodeID(r.Target)
	if r.Target == 0 {
		to = retained.NodeID(r.Node)
	}
	if r.SetText != nil {
		a.pending = append(a.pending, retained.SetText(to, *r.SetText))
	}
	for _, name := range slices.Sorted(maps.Keys(r.SetAttr)) {
		v, err := attrValue(r.SetAttr[name])
		if err != nil {
			retained.Logger().Warn("rule attribute skipped", "node", to, "attr", name, "err", err)
			continue
		}
		a.pending = append(a.pending, retained.SetAttr(to, name, v))
	}
	if r.Remove {
		a.pending = append(a.pending, retained.Remove(to))
	}
	if r.Exit {
		a.exit = true
		if r.TitleID != 0 {
			a.handoff = &retained.Handoff{TitleID: r.TitleID, Media: retained.ParseMedia(r.Media)}
		}
	}
}

func (a *sceneApp) Mutations() []retained.Mutation {
	a.mu.Lock()
	defer a.mu.Unlock()
	m := a.pending
	a.pending = nil
	return m
}

func (a *sceneApp) Work() <-chan struct{} { return a.work }

func (a *sceneApp) Exit() (bool, *retained.Handoff) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exit, a.handoff
}
