package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/facturo/internal/seed"
	"github.com/smallbiznis/facturo/internal/server"
	"github.com/smallbiznis/facturo/pkg/db"
	"github.com/smallbiznis/facturo/pkg/log"
	"github.com/smallbiznis/facturo/pkg/telemetry"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		fx.Provide(RegisterSnowflake),
		log.Module,
		db.Module,
		telemetry.Module,
		server.Module,

		// Schema and fixture bootstrap runs before the server starts
		// accepting requests.
		fx.Invoke(func(gdb *gorm.DB, node *snowflake.Node) error {
			return seed.Ensure(gdb, node)
		}),
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
