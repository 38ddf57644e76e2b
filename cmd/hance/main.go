package main

import (
	"flag"
	"fmt"
	"os"
)

type config struct {
	args []string
}

type command interface {
	Name() string
	Help() string
	Run() error
	Register(*flag.FlagSet)
}

func (config *config) run() int {
	cmdName, args := parseArgs(config.args)
	if cmdName == "" {
		printUsage()
		return errorExitCode
	}

	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}
		flags := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		cmd.Register(flags)
		if err := flags.Parse(args); err != nil {
			return errorExitCode
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Command failed: %v\n", err)
			return errorExitCode
		}
		return successExitCode
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmdName)
	printUsage()
	return errorExitCode
}

var (
	successExitCode = 0
	errorExitCode   = 1
	commands        = []command{
		&processCommand{},
		&stemsCommand{},
		&liveCommand{},
		&busesCommand{},
		&devicesCommand{},
	}
)

func main() {
	c := config{
		args: os.Args,
	}
	os.Exit(c.run())
}

func parseArgs(args []string) (string, []string) {
	if len(args) < 2 {
		return "", nil
	}
	return args[1], args[2:]
}

func printUsage() {
	fmt.Println("Hance separates audio into buses with model-driven engine")
	fmt.Println()
	fmt.Println("Usage: hance <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	for _, cmd := range commands {
		fmt.Printf("\t%s\t%s\n", cmd.Name(), cmd.Help())
	}
}

// required returns error listing missing required flags.
func required(flags ...string) error {
	var message string
	for i := 0; i < len(flags); i += 2 {
		if flags[i+1] == "" {
			message += fmt.Sprintf("Missing -%s required flag\n", flags[i])
		}
	}
	if message != "" {
		return fmt.Errorf("%s", message)
	}
	return nil
}
