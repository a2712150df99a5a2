package app

import "time"

// mutatingCommands lists the commands that change stored data. Only these
// trigger the automatic vault backup on Close.
var mutatingCommands = map[string]bool{
	"AddManual":      true,
	"EditText":       true,
	"ToggleFavorite": true,
	"MoveToFolder":   true,
	"DeleteRecord":   true,
	"CreateFolder":   true,
	"RenameFolder":   true,
	"DeleteFolder":   true,
	"RecountFolders": true,
	"SaveSettings":   true,
	"Import":         true,
	"PullBackup":     true,
	"ClearAll":       true,
	"Watch":          true,
	"Poll":           true,
	"Serve":          true,
}

// Operation tracks the CLI command being run. Its ID tags every log line
// written during the command.
type Operation struct {
	ID      string
	Command string
	Status  string // "success" or "error"
}

// NewOperation creates an operation for command started at now.
func NewOperation(command string, now time.Time) *Operation {
	return &Operation{
		ID:      now.UTC().Format("20060102T150405Z"),
		Command: command,
		Status:  "success",
	}
}

// Mutating reports whether the command may change stored data.
func (op *Operation) Mutating() bool {
	return mutatingCommands[op.Command]
}

// Finish records the outcome of the command.
func (op *Operation) Finish(err error) {
	if err != nil {
		op.Status = "error"
	}
}

// Succeeded reports whether the command finished without error.
func (op *Operation) Succeeded() bool {
	return op.Status == "success"
}
