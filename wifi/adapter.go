package wifi

import "strings"

// NoAdapters is the placeholder listed when no Wi-Fi adapter was found.
const NoAdapters = "No adapters"

// p2pDevicePrefix marks the Wi-Fi Direct pseudo-device NetworkManager
// creates next to each radio, e.g. p2p-dev-wlan0.
const p2pDevicePrefix = "p2p-dev-"

// ValidAdapter reports whether name identifies a scannable adapter.
func ValidAdapter(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || name == NoAdapters {
		return false
	}
	return !strings.HasPrefix(name, p2pDevicePrefix)
}

// AdaptersOrPlaceholder returns names, or a single NoAdapters entry when
// names is empty.
func AdaptersOrPlaceholder(names []string) []string {
	if len(names) == 0 {
		return []string{NoAdapters}
	}
	return names
}
