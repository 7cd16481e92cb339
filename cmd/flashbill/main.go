package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/flashbill/flashbill/internal/clock"
	"github.com/flashbill/flashbill/internal/config"
	"github.com/flashbill/flashbill/internal/migration"
	"github.com/flashbill/flashbill/internal/observability"
	"github.com/flashbill/flashbill/internal/server"
	"github.com/flashbill/flashbill/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
