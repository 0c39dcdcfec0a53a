package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gt7setup/tuner/internal/dispatcher"
)

const usage = `usage: gt7setup <command> [args]

commands:
  springs <vehicle> <fields>              spring, damper, roll bar and alignment setup
  gears <vehicle> <fields>                gear ratios, final drive and speeds
  tire <ratio> <rpm> <km/h> <final drive> tire diameter from a telemetry reading
  vehicles                                list stored vehicles
  vehicle <name>                          show a stored vehicle
  save-vehicle <name> <drivetrain> <car type> <front lever> <rear lever> [base weight]
  delete-vehicle <name>                   remove a vehicle and its setups
  import <sheet.csv>                      import the vehicle lever-ratio sheet
  history springs|gears <vehicle> [limit] past setups, newest first
  history tires [limit]                   past tire estimates, newest first
  setupdb                                 migrate the database schema
  dumpdb [path]                           snapshot the sqlite database
  backups [dir]                           list database snapshots
  flush                                   write queued calculations to the database
  dispatch <COMMAND> [args...]            send a raw command such as :VERSION:
  version

<fields> is a JSON object of recognised text fields, a path to a JSON
file, or - to read it from stdin.
`

func isHelp(arg string) bool {
	switch strings.ToLower(arg) {
	case "help", "-h", "--help", "-help":
		return true
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, usage)
}

// commandFor maps CLI arguments to a dispatcher command and its arguments.
func commandFor(args []string, stdin io.Reader) (string, []string, error) {
	name, rest := strings.ToLower(args[0]), args[1:]

	switch name {
	case "springs", "gears":
		if len(rest) != 2 {
			return "", nil, fmt.Errorf("%s needs <vehicle> <fields>", name)
		}
		fields, err := readFields(rest[1], stdin)
		if err != nil {
			return "", nil, err
		}
		cmd := ":SPRING:SETUP:"
		if name == "gears" {
			cmd = ":GEAR:SETUP:"
		}
		return cmd, []string{rest[0], fields}, nil

	case "tire":
		return ":TIRE:DIAMETER:", rest, nil
	case "vehicles":
		return ":VEHICLE:LIST:", rest, nil
	case "vehicle":
		return ":VEHICLE:GET:", rest, nil
	case "save-vehicle":
		return ":VEHICLE:SAVE:", rest, nil
	case "delete-vehicle":
		return ":VEHICLE:DELETE:", rest, nil
	case "import":
		return ":VEHICLE:IMPORT:", rest, nil
	case "version":
		return ":VERSION:", rest, nil
	case "setupdb":
		return ":DB:SETUP:", rest, nil
	case "dumpdb":
		return ":DB:DUMP:", rest, nil
	case "backups":
		return ":DB:BACKUPS:", rest, nil
	case "flush":
		return ":STORAGE:FLUSH:", rest, nil

	case "history":
		if len(rest) == 0 {
			return "", nil, fmt.Errorf("history needs springs, gears or tires")
		}
		switch strings.ToLower(rest[0]) {
		case "springs":
			return ":HISTORY:SPRING:", rest[1:], nil
		case "gears":
			return ":HISTORY:GEAR:", rest[1:], nil
		case "tires":
			return ":HISTORY:TIRE:", rest[1:], nil
		}
		return "", nil, fmt.Errorf("unknown history kind %q", rest[0])

	case "dispatch":
		if len(rest) == 0 {
			return "", nil, fmt.Errorf("dispatch needs a command")
		}
		return rest[0], rest[1:], nil
	}
	return "", nil, fmt.Errorf("unknown command %q", args[0])
}

// readFields returns the JSON text for a <fields> argument.
func readFields(arg string, stdin io.Reader) (string, error) {
	switch {
	case arg == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read fields from stdin: %w", err)
		}
		return string(data), nil
	case strings.HasPrefix(strings.TrimSpace(arg), "{"):
		return arg, nil
	default:
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("read fields: %w", err)
		}
		return string(data), nil
	}
}

// runCommand dispatches one CLI command and prints its result as JSON.
func runCommand(args []string, stdin io.Reader, stdout io.Writer) error {
	cmd, cmdArgs, err := commandFor(args, stdin)
	if err != nil {
		return err
	}

	result, err := eventDispatcher.Dispatch(dispatcher.Event{
		Command:   cmd,
		Args:      cmdArgs,
		Timestamp: time.Now(),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
