package accessory

import (
	hcaccessory "github.com/brutella/hc/accessory"
	"github.com/brutella/hc/log"
	"github.com/cloudkucooland/toowarm/action"
)

// TWAccessory is the accessory type, TooWarm's stuff, plus hc's stuff
type TWAccessory struct {
	Platform string // AtagOne for the thermostat, HomeControl for the bridge internals
	Name     string // the name used internally
	// the accessory's config file name
	Mode     string // local or portal -- inferred from IP when unset
	IP       string // the IP address of the thermostat (local mode)
	Email    string // portal account (portal mode)
	Password string // portal account (portal mode)

	Type hcaccessory.AccessoryType // defined at https://github.com/brutella/hc/tree/master/accessory

	// embedded struct (pointer)
	Info                   hcaccessory.Info // defined at https://github.com/brutella/hc/blob/master/accessory/accessory.go
	*hcaccessory.Accessory                  // set when the device is added to HomeControl

	Device interface{}

	Actions []action.Action
	Runner  func(*TWAccessory, *action.Action)
}

// MatchActions returns a slice of actions that should be run
// jumping through hoops since including platform here would be circular
func (a TWAccessory) MatchActions(state string) []*action.Action {
	var actions []*action.Action
	for i := range a.Actions {
		if a.Actions[i].TriggerState == state {
			log.Info.Printf("%s: %+v", a.Actions[i].TriggerState, a.Actions[i])
			actions = append(actions, &a.Actions[i])
		}
	}
	return actions
}
