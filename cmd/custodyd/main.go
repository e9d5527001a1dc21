package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/reppay/custody"
	custodyd "github.com/reppay/custody/cmd/custodyd/app"
	"github.com/reppay/custody/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

func helpMessage() {
	fmt.Println("custodyd")
	fmt.Println("          Sponsor to merchant escrow node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("validate  Check the app_state of genesis files")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$CUSTODY_HOME" or "$HOME/.custody")`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "custody")

	conf, err := server.LoadConfig()
	if err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&conf.Home, "home", conf.Home, "directory to store files under")
	flag.CommandLine.Usage = helpMessage
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(custodyd.GenInitOptions, logger, conf.Home, rest)
	case "start":
		err = server.StartCmd(custodyd.GenerateApp, logger, conf, rest)
	case "validate":
		err = server.ValidateGenesis(custodyd.Initializers(), rest)
	case "version":
		fmt.Println(custody.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
