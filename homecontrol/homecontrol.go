package twhc

import (
	twaccessory "github.com/cloudkucooland/toowarm/accessory"
	"github.com/cloudkucooland/toowarm/config"
	"github.com/cloudkucooland/toowarm/platform"

	"github.com/brutella/hc"
	"github.com/brutella/hc/accessory"
	"github.com/brutella/hc/log"
	"github.com/brutella/hc/util"
	"sync"
)

// HCPlatform is the platform handle
type HCPlatform struct {
	Running bool
}

var doOnceHC sync.Once
var hcs map[string]*twaccessory.TWAccessory

// Startup is called by the platform bootstrap
func (h HCPlatform) Startup(c *config.Config) platform.Control {
	doOnceHC.Do(func() {
		hcs = make(map[string]*twaccessory.TWAccessory)
		h.Running = true
	})
	return h
}

// StartHC is called after all devices are registered to start operation
func StartHC() {
	c := config.Get()
	storage, err := util.NewFileStorage("serials")
	if err != nil {
		log.Info.Println("unable to get storage")
	}
	serial := util.GetSerialNumberForAccessoryName("TooWarmRoot", storage)

	if c.Name == "" {
		c.Name = "TooWarm"
	}
	root := accessory.NewBridge(accessory.Info{
		Name:             c.Name,
		ID:               1,
		SerialNumber:     serial,
		Manufacturer:     "deviousness",
		Model:            "TooWarm",
		FirmwareRevision: "0.1.0",
	})
	root.Accessory.OnIdentify(func() {
		log.Info.Printf("bridge root identify called: %+v", root.Accessory)
	})

	// all the other registered things
	values := []*accessory.Accessory{}
	for _, v := range hcs {
		values = append(values, v.Accessory)
	}
	config := hc.Config(c.HCConfig)
	transport, err := hc.NewIPTransport(config, root.Accessory, values...)
	if err != nil {
		log.Info.Panic(err)
	}

	hc.OnTermination(func() {
		<-transport.Stop()
	})
	go transport.Start()
	uri, _ := transport.XHMURI()
	log.Info.Printf("add this bridge with: %s", uri)
}

// Shutdown is called at process teardown
func (h HCPlatform) Shutdown() platform.Control {
	h.Running = false
	return h
}

// AddAccessory registers a device with HC
func (h HCPlatform) AddAccessory(a *twaccessory.TWAccessory) {
	if a.Accessory == nil {
		log.Info.Printf("accessory unset: %v", a.Info)
		return
	}

	a.Accessory.OnIdentify(func() {
		log.Info.Printf("identify called for [%s]: %+v", a.Name, a.Accessory)
		for _, service := range a.Accessory.GetServices() {
			log.Info.Printf("service: %+v", service)
			for _, char := range service.GetCharacteristics() {
				log.Info.Printf("characteristic : %+v", char)
			}
		}
	})

	hcs[a.Name] = a
}

// GetAccessory looks up a device by name -- you probably want the AtagOne platform's version, not this
func (h HCPlatform) GetAccessory(name string) (*twaccessory.TWAccessory, bool) {
	a, ok := hcs[name]
	return a, ok
}

// Background runs the various background tasks: none for HC
func (h HCPlatform) Background() {
}
