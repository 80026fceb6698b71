package models

// NetClass is a nominal link bandwidth, in bytes/sec. The values below
// are the recognized media classes: theoretical throughput times 0.75,
// halved again for the wireless classes to match observed real-world
// speeds.
type NetClass int

const (
	BT1    NetClass = 34000
	BT2    NetClass = 100000
	WLANb  NetClass = 500000
	LAN10  NetClass = 937500
	WLANg  NetClass = 2500000
	LAN100 NetClass = 9375000
	LAN1K  NetClass = 93750000

	// DefaultNetSpeed is used when no network speed is configured.
	DefaultNetSpeed = int(WLANb)
)

// MediaClasses maps the nominal names recognized by the config file
// to their numeric bytes/sec value.
var MediaClasses = map[string]NetClass{
	"BT-1":   BT1,
	"BT-2":   BT2,
	"WLAN-b": WLANb,
	"LAN10":  LAN10,
	"WLAN-g": WLANg,
	"LAN100": LAN100,
	"LAN1K":  LAN1K,
}
