package server

import (
	"flag"
	"fmt"

	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"
)

type startFlags struct {
	addr  string
	debug bool
}

func parseStartFlags(args []string) (startFlags, error) {
	var f startFlags
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	fs.StringVar(&f.addr, flagBind, "tcp://localhost:46658", "address server listens on")
	fs.BoolVar(&f.debug, flagDebug, false, "call stack returned on error")
	err := fs.Parse(args)
	return f, err
}

// AppGenerator builds the application lazily, once the home dir and
// logger are settled by the outer flags
type AppGenerator func(string, log.Logger, bool) (abci.Application, error)

// StartCmd builds the application and serves it over the abci socket
// until a termination signal arrives
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	flags, err := parseStartFlags(args)
	if err != nil {
		return err
	}

	app, err := gen(home, logger, flags.debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", flags.addr)

	svr, err := server.NewServer(flags.addr, "socket", app)
	if err != nil {
		return fmt.Errorf("error creating listener: %v", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return err
	}

	// block until a signal arrives, then shut the server down
	cmn.TrapSignal(logger, func() {
		svr.Stop()
	})
	return nil
}
