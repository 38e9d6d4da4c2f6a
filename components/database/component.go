package database

import (
	"context"

	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"go.uber.org/dig"

	"github.com/cryptocreeper94-sudo/orby-sub003/pkg/daemon"
)

func init() {
	Component = &app.Component{
		Name:     "Database",
		DepsFunc: func(cDeps dependencies) { deps = cDeps },
		Provide:  provide,
		Run:      run,
	}
}

var (
	Component *app.Component
	deps      dependencies
)

type dependencies struct {
	dig.In

	Store kvstore.KVStore
}

func provide(c *dig.Container) error {
	if err := c.Provide(newMapDB); err != nil {
		Component.LogPanic(err)
	}

	return nil
}

func newMapDB() kvstore.KVStore {
	return mapdb.NewMapDB()
}

func run() error {
	if err := Component.Daemon().BackgroundWorker("Close database", func(ctx context.Context) {
		<-ctx.Done()

		Component.LogInfo("Closing database ...")
		if err := deps.Store.Flush(); err != nil {
			Component.LogErrorf("failed to flush the database: %s", err)
		}
		if err := deps.Store.Close(); err != nil {
			Component.LogErrorf("failed to close the database: %s", err)
		}
		Component.LogInfo("Closing database ... done")
	}, daemon.PriorityCloseDatabase); err != nil {
		Component.LogPanicf("failed to start worker: %s", err)
	}

	return nil
}
