package config

import (
	"github.com/brutella/hc"
)

// modes for talking to the thermostat
const (
	ModeLocal  = "local"  // direct to the device on the LAN
	ModePortal = "portal" // through the ATAG portal
)

// Config is the primary daemon configuration...
type Config struct {
	ConfigDir    string    // passed in from CLI
	ConfigFile   string    // server.json
	HTTPAddress  string    // net.Dial address format, :port is good enough
	Name         string    // what this bridge shows as
	ID           string    // displayed serial number -- if you run multiple instances, make sure each has a distinct ID
	HCConfig     hc.Config // base HomeControl configuration
	Command      string    // path to the atag-one utility -- looked up on $PATH if unset
	PullRate     int       // (seconds) how frequently to pull the thermostat -- (unset/0 uses 60)
	ExecTimeout  int       // (seconds) how long one invocation of the utility may run -- (unset/0 uses 30)
	ExecLogLevel string    // logrus level for the exec layer -- (unset uses info)
}

var runningConfig *Config

// Get a pointer to the global config
func Get() *Config {
	return runningConfig
}

// should only be called by the bootstrap
func Set(c *Config) {
	runningConfig = c
}
