package domain

import (
	"sort"
	"strings"
)

type ResourceType string

const (
	ResourceRelay                 ResourceType = "relay"
	ResourceWifiRelay             ResourceType = "wifi_relay"
	ResourceActionSwitch          ResourceType = "action_switch"
	ResourceMode                  ResourceType = "mode"
	ResourceWaterTank             ResourceType = "water_tank"
	ResourceSensor                ResourceType = "sensor"
	ResourceBattery               ResourceType = "battery"
	ResourceCamera                ResourceType = "camera"
	ResourceTemperatureSensor     ResourceType = "temperature_sensor"
	ResourceSolarChargeController ResourceType = "solar_charge_controller"
)

// GPSSourceID is the only state source without a backend collection.
const GPSSourceID = "gps"

// SwitchGroupsCollection lists the configured switch groups.
const SwitchGroupsCollection = "switch_groups"

// GPSStatePath is the dedicated location endpoint.
const GPSStatePath = "gps/state"

var collections = map[ResourceType]string{
	ResourceRelay:                 "relays",
	ResourceWifiRelay:             "wifi_relays",
	ResourceActionSwitch:          "action_switches",
	ResourceMode:                  "modes",
	ResourceWaterTank:             "water_tanks",
	ResourceSensor:                "sensors",
	ResourceBattery:               "batteries",
	ResourceCamera:                "cameras",
	ResourceTemperatureSensor:     "temperature_sensors",
	ResourceSolarChargeController: "solar_charge_controllers",
}

// SwitchCollections are the backend collections holding toggleable
// resources, in the order the switch catalog lists them.
var SwitchCollections = []string{"relays", "wifi_relays", "modes", "action_switches"}

// CollectionFor returns the backend collection name for a resource tag.
func CollectionFor(t ResourceType) (string, error) {
	c, ok := collections[t]
	if !ok {
		return "", &UnknownResourceTypeError{Type: string(t)}
	}
	return c, nil
}

// TypeForCollection is the reverse lookup of CollectionFor.
func TypeForCollection(collection string) (ResourceType, bool) {
	for t, c := range collections {
		if c == collection {
			return t, true
		}
	}
	return "", false
}

// ResourceTypes returns every registered tag, sorted.
func ResourceTypes() []ResourceType {
	types := make([]ResourceType, 0, len(collections))
	for t := range collections {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// CompositeID names a resource as "<type>-<id>".
type CompositeID string

func NewCompositeID(t ResourceType, id string) CompositeID {
	return CompositeID(string(t) + "-" + id)
}

// Split cuts the identifier on its first "-". The type must be registered;
// the remainder is returned untouched as the backend id.
func (c CompositeID) Split() (ResourceType, string, error) {
	tag, id, found := strings.Cut(string(c), "-")
	t := ResourceType(tag)
	if !found {
		return "", "", &UnknownResourceTypeError{Type: string(c)}
	}
	if _, ok := collections[t]; !ok {
		return "", "", &UnknownResourceTypeError{Type: tag}
	}
	if id == "" {
		return "", "", &ResourceNotFoundError{Type: t}
	}
	return t, id, nil
}

func (c CompositeID) String() string {
	return string(c)
}
