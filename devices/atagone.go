package devices

import (
	"github.com/brutella/hc/accessory"
	"github.com/brutella/hc/characteristic"
	"github.com/brutella/hc/service"
)

// AtagOne presents the boiler as a thermostat with the extra readings
// hanging off it as sensor services
type AtagOne struct {
	*accessory.Accessory

	Thermostat   *AtagOneSvc
	OutsideTemp  *service.TemperatureSensor
	HotWaterTemp *service.TemperatureSensor
	// HAP has no water pressure type, present bar as lux
	WaterPressure *service.LightSensor
}

func NewAtagOne(info accessory.Info) *AtagOne {
	acc := AtagOne{}
	acc.Accessory = accessory.New(info, accessory.TypeThermostat)

	acc.Thermostat = NewAtagOneSvc()
	acc.Thermostat.Primary = true
	acc.AddService(acc.Thermostat.Service)

	acc.OutsideTemp = service.NewTemperatureSensor()
	name := characteristic.NewName()
	name.SetValue("Outside Temperature")
	acc.OutsideTemp.AddCharacteristic(name.Characteristic)
	acc.AddService(acc.OutsideTemp.Service)

	acc.HotWaterTemp = service.NewTemperatureSensor()
	name = characteristic.NewName()
	name.SetValue("Hot Water Temperature")
	acc.HotWaterTemp.AddCharacteristic(name.Characteristic)
	acc.AddService(acc.HotWaterTemp.Service)

	acc.WaterPressure = service.NewLightSensor()
	name = characteristic.NewName()
	name.SetValue("CH Water Pressure")
	acc.WaterPressure.AddCharacteristic(name.Characteristic)
	acc.AddService(acc.WaterPressure.Service)

	return &acc
}

type AtagOneSvc struct {
	*service.Service

	CurrentTemperature         *characteristic.CurrentTemperature
	TargetTemperature          *characteristic.TargetTemperature
	CurrentHeatingCoolingState *characteristic.CurrentHeatingCoolingState
	TargetHeatingCoolingState  *characteristic.TargetHeatingCoolingState
	TemperatureDisplayUnits    *characteristic.TemperatureDisplayUnits
	StatusFault                *characteristic.StatusFault
}

func NewAtagOneSvc() *AtagOneSvc {
	svc := AtagOneSvc{}
	svc.Service = service.New(service.TypeThermostat)

	svc.CurrentTemperature = characteristic.NewCurrentTemperature()
	svc.AddCharacteristic(svc.CurrentTemperature.Characteristic)

	svc.TargetTemperature = characteristic.NewTargetTemperature()
	svc.AddCharacteristic(svc.TargetTemperature.Characteristic)

	svc.CurrentHeatingCoolingState = characteristic.NewCurrentHeatingCoolingState()
	svc.AddCharacteristic(svc.CurrentHeatingCoolingState.Characteristic)

	svc.TargetHeatingCoolingState = characteristic.NewTargetHeatingCoolingState()
	svc.AddCharacteristic(svc.TargetHeatingCoolingState.Characteristic)

	svc.TemperatureDisplayUnits = characteristic.NewTemperatureDisplayUnits()
	svc.AddCharacteristic(svc.TemperatureDisplayUnits.Characteristic)

	svc.StatusFault = characteristic.NewStatusFault()
	svc.AddCharacteristic(svc.StatusFault.Characteristic)

	return &svc
}
