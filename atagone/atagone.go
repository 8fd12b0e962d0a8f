package atagone

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	twaccessory "github.com/cloudkucooland/toowarm/accessory"
	"github.com/cloudkucooland/toowarm/action"
	"github.com/cloudkucooland/toowarm/config"
	"github.com/cloudkucooland/toowarm/devices"
	"github.com/cloudkucooland/toowarm/platform"

	"github.com/brutella/hc/accessory"
	"github.com/brutella/hc/characteristic"
	"github.com/brutella/hc/log"
	"github.com/brutella/hc/util"
	"github.com/sirupsen/logrus"
)

// Platform is the handle to the ATAG One thermostat
type Platform struct {
	Running bool
}

var ones map[string]*twaccessory.TWAccessory
var doOnce sync.Once

// only one invocation of the utility per poll cycle, an overlapping
// tick is a no-op
var pollMu sync.Mutex
var polling bool

// the last decoded report and target setpoint per accessory, for the
// HTTP status channel and for rolling back failed sets
var lastMu sync.RWMutex
var lastReports = make(map[string]*Report)
var lastTargets = make(map[string]float64)

// Startup is called by the platform management to get things going
func (p Platform) Startup(c *config.Config) platform.Control {
	level := logrus.InfoLevel
	if c.ExecLogLevel != "" {
		l, err := logrus.ParseLevel(c.ExecLogLevel)
		if err != nil {
			log.Info.Printf("bad ExecLogLevel [%s]: %s", c.ExecLogLevel, err.Error())
		} else {
			level = l
		}
	}
	logrus.SetLevel(level)
	p.Running = true
	return p
}

// Shutdown is called by the platform management to shut things down
func (p Platform) Shutdown() platform.Control {
	p.Running = false
	return p
}

// Verify checks that an accessory carries what its mode needs,
// inferring the mode when the config file leaves it out
func Verify(a *twaccessory.TWAccessory) error {
	if a.Mode == "" {
		if a.IP != "" {
			a.Mode = config.ModeLocal
		} else {
			a.Mode = config.ModePortal
		}
	}
	switch a.Mode {
	case config.ModeLocal:
		if a.IP == "" {
			return fmt.Errorf("[%s] local mode requires the thermostat IP", a.Name)
		}
	case config.ModePortal:
		if a.Email == "" || a.Password == "" {
			return fmt.Errorf("[%s] portal mode requires email and password", a.Name)
		}
	default:
		return fmt.Errorf("[%s] unknown mode: %s", a.Name, a.Mode)
	}
	return nil
}

// AddAccessory validates an ATAG One, wires it up and registers it with HC
func (p Platform) AddAccessory(a *twaccessory.TWAccessory) {
	doOnce.Do(func() {
		ones = make(map[string]*twaccessory.TWAccessory)
	})

	if err := Verify(a); err != nil {
		log.Info.Println(err.Error())
		return
	}

	if a.Info.Name == "" {
		a.Info.Name = a.Name
	}
	if a.Info.Manufacturer == "" {
		a.Info.Manufacturer = "ATAG"
	}
	if a.Info.Model == "" {
		a.Info.Model = "One"
	}
	if a.Info.ID == 0 {
		// distinct IDs even when several accessory files omit them
		a.Info.ID = uint64(1541 + len(ones))
	}

	storage, err := util.NewFileStorage("serials")
	if err != nil {
		log.Info.Println("unable to get storage")
	}
	a.Info.SerialNumber = util.GetSerialNumberForAccessoryName(a.Info.Name, storage)

	a.Type = accessory.TypeThermostat

	d := devices.NewAtagOne(a.Info)
	a.Device = d
	a.Accessory = d.Accessory

	ones[a.Name] = a
	a.Runner = actionRunner

	// add to HC for GUI
	h, _ := platform.GetPlatform("HomeControl")
	h.AddAccessory(a)

	d.Thermostat.TemperatureDisplayUnits.SetValue(characteristic.TemperatureDisplayUnitsCelsius)

	d.Thermostat.TargetTemperature.OnValueRemoteUpdate(func(newval float64) {
		log.Info.Printf("HC requested target temperature %.1f", newval)
		setTargetTemperature(a, newval)
	})

	// the boiler is heat-only, snap anything else back
	d.Thermostat.TargetHeatingCoolingState.OnValueRemoteUpdate(func(newval int) {
		if newval == characteristic.TargetHeatingCoolingStateHeat ||
			newval == characteristic.TargetHeatingCoolingStateOff {
			return
		}
		log.Info.Printf("[%s] does not support mode %d", a.Name, newval)
		d.Thermostat.TargetHeatingCoolingState.SetValue(characteristic.TargetHeatingCoolingStateHeat)
	})

	// set initial state
	if err := pollOne(a); err != nil {
		log.Info.Println(err.Error())
	}
	seedTarget(a)
}

// seedTarget remembers the boot setpoint so a failed set always has
// something to roll back to, even when the initial poll produced nothing
func seedTarget(a *twaccessory.TWAccessory) {
	d, ok := a.Device.(*devices.AtagOne)
	if !ok {
		return
	}
	if _, ok := getLastTarget(a.Name); !ok {
		setLastTarget(a.Name, d.Thermostat.TargetTemperature.GetValue())
	}
}

// GetAccessory looks up a thermostat by name
func (p Platform) GetAccessory(name string) (*twaccessory.TWAccessory, bool) {
	val, ok := ones[name]
	return val, ok
}

// Background starts up the go process to periodically pull the thermostat
func (p Platform) Background() {
	pr := config.Get().PullRate
	if pr <= 0 {
		pr = 60
	}
	go func() {
		for range time.Tick(time.Second * time.Duration(pr)) {
			p.backgroundPuller()
		}
	}()
}

func (p Platform) backgroundPuller() {
	if !tryPoll() {
		log.Info.Print("AtagOne poll already in flight, skipping tick")
		return
	}
	defer donePoll()

	for _, a := range ones {
		if err := pollOne(a); err != nil {
			log.Info.Println(err.Error())
		}
	}
}

// pollOne is one invoke-parse-publish cycle. Any failure leaves the
// previous state in place until the next tick.
func pollOne(a *twaccessory.TWAccessory) error {
	out, err := runOne(reportArgs(a))
	if err != nil {
		return err
	}
	r, err := extractReport(out)
	if err != nil {
		return err
	}
	applyReport(a, r)
	return nil
}

func tryPoll() bool {
	pollMu.Lock()
	defer pollMu.Unlock()
	if polling {
		return false
	}
	polling = true
	return true
}

func donePoll() {
	pollMu.Lock()
	polling = false
	pollMu.Unlock()
}

// setTargetTemperature pushes a new setpoint to the boiler. A failed set
// surfaces as a fault and the previous setpoint is put back.
func setTargetTemperature(a *twaccessory.TWAccessory, newval float64) {
	d, ok := a.Device.(*devices.AtagOne)
	if !ok {
		log.Info.Printf("[%s] is not an AtagOne device", a.Name)
		return
	}

	out, err := runOne(setArgs(a, newval))
	if err != nil {
		log.Info.Printf("[%s] set failed: %s", a.Name, err.Error())
		d.Thermostat.StatusFault.SetValue(characteristic.StatusFaultGeneralFault)
		if prev, ok := getLastTarget(a.Name); ok {
			d.Thermostat.TargetTemperature.SetValue(prev)
		}
		return
	}

	d.Thermostat.StatusFault.SetValue(characteristic.StatusFaultNoFault)
	d.Thermostat.TargetTemperature.SetValue(newval)
	setLastTarget(a.Name, newval)

	// the utility echoes a report after a set, use it when present
	if r, err := extractReport(out); err == nil {
		applyReport(a, r)
	}
}

func actionRunner(a *twaccessory.TWAccessory, d *action.Action) {
	switch d.Verb {
	case "SetTemperature":
		temp, err := strconv.ParseFloat(d.Value, 64)
		if err != nil {
			log.Info.Printf("bad action value [%s]: %s", d.Value, err.Error())
			return
		}
		setTargetTemperature(a, temp)
	default:
		log.Info.Printf("unknown verb [%s] for [%s]", d.Verb, a.Name)
	}
}

func setLastReport(name string, r *Report) {
	lastMu.Lock()
	lastReports[name] = r
	lastMu.Unlock()
}

func setLastTarget(name string, t float64) {
	lastMu.Lock()
	lastTargets[name] = t
	lastMu.Unlock()
}

func getLastTarget(name string) (float64, bool) {
	lastMu.RLock()
	defer lastMu.RUnlock()
	t, ok := lastTargets[name]
	return t, ok
}

// Handler serves the last known reports on the HTTP control channel
func Handler(w http.ResponseWriter, r *http.Request) {
	lastMu.RLock()
	defer lastMu.RUnlock()

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(lastReports); err != nil {
		log.Info.Println(err.Error())
	}
}
