package atagone

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	twaccessory "github.com/cloudkucooland/toowarm/accessory"
	"github.com/cloudkucooland/toowarm/config"

	"github.com/sirupsen/logrus"
)

// reportArgs builds the argument list for a plain report pull
func reportArgs(a *twaccessory.TWAccessory) []string {
	if a.Mode == config.ModePortal {
		return []string{"--email", a.Email, "--password", a.Password}
	}
	return []string{"--hostname", a.IP}
}

// setArgs builds the argument list for a target temperature change
func setArgs(a *twaccessory.TWAccessory, temp float64) []string {
	return append(reportArgs(a), "--set", strconv.FormatFloat(temp, 'f', 1, 64))
}

// runOne invokes the external utility and returns its combined output.
// The utility owns the device conversation, local or portal, we just
// collect whatever it prints.
func runOne(args []string) (string, error) {
	c := config.Get()

	command := c.Command
	if command == "" {
		command = "atag-one"
	}
	timeout := time.Duration(c.ExecTimeout) * time.Second
	if c.ExecTimeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fields := logrus.Fields{"command": command}
	start := time.Now()
	out, err := exec.CommandContext(ctx, command, args...).CombinedOutput()
	fields["duration"] = time.Since(start).Round(time.Millisecond).String()

	if ctx.Err() == context.DeadlineExceeded {
		logrus.WithFields(fields).Warn("atag-one utility timed out")
		return "", fmt.Errorf("%s timed out after %s", command, timeout)
	}
	if err != nil {
		logrus.WithFields(fields).WithError(err).Warn("atag-one utility failed")
		return "", fmt.Errorf("%s: %w: %s", command, err, string(out))
	}
	logrus.WithFields(fields).Info("ran atag-one utility")
	return string(out), nil
}
