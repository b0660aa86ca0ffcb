// Command dbcdecode decodes a CAN database (DBC) file and prints the result.
//
// Configuration comes from DBC_* environment variables (a .env file in the
// working directory is loaded first) and is overridden by flags.
//
//	dbcdecode -format=yaml vehicle.dbc
//	dbcdecode -query='messages.#.name' vehicle.dbc
//	dbcdecode diff old.dbc new.dbc
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	code := runMain(ctx, os.Args[1:], os.Stdout, os.Stderr, readEnvConfig)
	stop()
	os.Exit(code)
}
