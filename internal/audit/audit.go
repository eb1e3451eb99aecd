// Package audit records one JSON line per meshctl invocation in
// ~/.meshctl/audit.log.
package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is one audit log entry.
type Event struct {
	Timestamp     string   `json:"timestamp"`
	Operation     string   `json:"operation"`
	Subscription  string   `json:"subscription,omitempty"`
	ResourceGroup string   `json:"resourceGroup,omitempty"`
	Args          []string `json:"args"`
	Result        string   `json:"result"`
	ExitCode      int      `json:"exitCode"`
	DurationMs    int64    `json:"durationMs"`
	CorrelationID string   `json:"correlationId"`
}

// redacted replaces values of flags that may carry secrets.
const redacted = "[redacted]"

var secretFlags = map[string]bool{
	"--parameters": true,
	"-p":           true,
	"--shared-key": true,
}

// homeDir is replaced in tests.
var homeDir = os.UserHomeDir

func BuildEvent(args []string, result string, exitCode int, duration time.Duration) Event {
	op, sub, rg := inferFromArgs(args)
	return Event{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Operation:     op,
		Subscription:  sub,
		ResourceGroup: rg,
		Args:          redact(args),
		Result:        result,
		ExitCode:      exitCode,
		DurationMs:    duration.Milliseconds(),
		CorrelationID: uuid.NewString(),
	}
}

func Write(event Event) error {
	path, err := userAuditPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	line, err := json.Marshal(event)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(line, '\n'))
	return err
}

func ReadUserAudit() ([]Event, error) {
	path, err := userAuditPath()
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var out []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var event Event
		if err := json.Unmarshal([]byte(line), &event); err == nil {
			out = append(out, event)
		}
	}
	return out, scanner.Err()
}

func userAuditPath() (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".meshctl", "audit.log"), nil
}

// inferFromArgs takes the command path from the leading positional args and
// picks the target scope out of the flags.
func inferFromArgs(args []string) (operation, subscription, resourceGroup string) {
	var path []string
	for i := 1; i < len(args) && len(path) < 3; i++ {
		if strings.HasPrefix(args[i], "-") {
			break
		}
		path = append(path, args[i])
	}
	operation = "root"
	if len(path) > 0 {
		operation = strings.Join(path, " ")
	}

	for i := 0; i < len(args); i++ {
		name, value, inline := strings.Cut(args[i], "=")
		if !inline {
			if i+1 >= len(args) {
				continue
			}
			value = args[i+1]
		}
		switch name {
		case "--subscription", "-s":
			subscription = value
		case "--resource-group", "-g":
			resourceGroup = value
		}
	}
	return
}

func redact(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out); i++ {
		name, _, inline := strings.Cut(out[i], "=")
		if !secretFlags[name] {
			continue
		}
		if inline {
			out[i] = name + "=" + redacted
		} else if i+1 < len(out) {
			out[i+1] = redacted
			i++
		}
	}
	return out
}
