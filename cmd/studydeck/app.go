package main

import (
	"context"
	"fmt"

	"github.com/andrewpaige1/studydeck/config"
	"github.com/andrewpaige1/studydeck/identity"
	"github.com/andrewpaige1/studydeck/logger"
	"github.com/andrewpaige1/studydeck/recorder"
	"github.com/andrewpaige1/studydeck/remote"
	"github.com/andrewpaige1/studydeck/snapshot"
	"github.com/andrewpaige1/studydeck/store"
	"github.com/andrewpaige1/studydeck/syncer"
)

// app wires the client packages together for one command invocation.
type app struct {
	cfg      config.Client
	log      *logger.Logger
	snaps    *snapshot.Store
	cards    *store.Store
	client   *remote.Client
	session  *identity.Session
	syncer   *syncer.Syncer
	recorder *recorder.Recorder
}

func loadApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	snaps, err := snapshot.Open(cfg.StoragePath, log)
	if err != nil {
		return nil, err
	}
	cards, err := store.Open(ctx, snaps, store.WithLocation(loc), store.WithLogger(log))
	if err != nil {
		snaps.Close()
		return nil, err
	}

	a := &app{cfg: cfg, log: log, snaps: snaps, cards: cards}
	a.client = remote.NewClient(cfg.APIURL, remote.WithToken(func() string {
		return a.session.Token()
	}))
	a.session, err = identity.NewSession(ctx, a.client, snaps, log)
	if err != nil {
		snaps.Close()
		return nil, err
	}
	a.syncer = syncer.New(cards, a.client, syncer.WithSettleDelay(cfg.SettleDelay), syncer.WithLogger(log))
	a.session.Subscribe(a.syncer.Listener())
	a.recorder = recorder.New(a.client, nil, log)
	return a, nil
}

func (a *app) userID() (string, error) {
	cur, ok := a.session.Current()
	if !ok {
		return "", fmt.Errorf("not signed in; run `studydeck login` first")
	}
	return cur.UserID, nil
}

func (a *app) Close() {
	if err := a.snaps.Close(); err != nil {
		a.log.Warn("close storage", "error", err)
	}
	a.log.Sync()
}
