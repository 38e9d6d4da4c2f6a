package main

import (
	"github.com/iotaledger/hive.go/app"

	"github.com/cryptocreeper94-sudo/orby-sub003/components/anchor"
	"github.com/cryptocreeper94-sudo/orby-sub003/components/database"
	"github.com/cryptocreeper94-sudo/orby-sub003/components/prometheus"
	"github.com/cryptocreeper94-sudo/orby-sub003/components/restapi"
)

const Name = "orby-anchord"

// Version is overwritten at build time with -ldflags.
var Version = "0.1.0"

var InitComponent = &app.InitComponent{
	Component: &app.Component{
		Name: "App",
	},
	NonHiddenFlags: []string{
		"config",
		"help",
		"version",
	},
}

func main() {
	app.New(Name, Version,
		app.WithInitComponent(InitComponent),
		app.WithComponents(
			database.Component,
			anchor.Component,
			restapi.Component,
			prometheus.Component,
		),
	).Run()
}
