package config

import "strconv"

// GroupwareConfig mirrors the configuration surface documented in spec.md
// §6. It is honored by the DAV layer, the parser, and the notifier — all
// external collaborators per §1 — not by internal/itip. It is carried here
// because the teacher's own internal/config.go always parses the full
// configuration surface for a subsystem even when large parts of it are
// consumed elsewhere in the binary (see the teacher's LDAPConfig, which
// internal/auth and internal/directory read, not internal/config itself).
//
// Grounded on original_source/crates/common/src/config/groupware.rs, which
// this struct is a field-for-field, default-for-default port of.
type GroupwareConfig struct {
	// DAV settings.
	MaxRequestSize    int64
	DeadPropertySize  int
	LivePropertySize  int
	MaxLockTimeout    int64
	MaxLocksPerUser   int
	MaxResponseResults int

	// Calendar settings.
	MaxICalSize              int64
	MaxICalInstances         int
	MaxICalAttendeesPerInstance int
	DefaultCalendarName      string
	DefaultCalendarDisplayName string

	// Addressbook settings.
	MaxVCardSize                  int64
	DefaultAddressbookName        string
	DefaultAddressbookDisplayName string

	// File storage settings.
	MaxFileSize int64
}

func getenvInt64(key string, def int64) int64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getenvInt(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseGroupwareConfig reads GroupwareConfig from the process environment
// using the key names from spec.md §6 (dots and hyphens replaced by underscores,
// upper-cased, "GROUPWARE_" prefixed) and the same defaults listed there.
func parseGroupwareConfig() GroupwareConfig {
	const (
		mib = 1024 * 1024
		kib = 1024
	)
	return GroupwareConfig{
		MaxRequestSize:     getenvInt64("GROUPWARE_DAV_REQUEST_MAX_SIZE", 25*mib),
		DeadPropertySize:   getenvInt("GROUPWARE_DAV_PROPERTY_MAX_SIZE_DEAD", 1024),
		LivePropertySize:   getenvInt("GROUPWARE_DAV_PROPERTY_MAX_SIZE_LIVE", 250),
		MaxLockTimeout:     getenvInt64("GROUPWARE_DAV_LOCK_MAX_TIMEOUT", 3600),
		MaxLocksPerUser:    getenvInt("GROUPWARE_DAV_LOCKS_MAX_PER_USER", 10),
		MaxResponseResults: getenvInt("GROUPWARE_DAV_RESPONSE_MAX_RESULTS", 2000),

		MaxICalSize:                 getenvInt64("GROUPWARE_CALENDAR_MAX_SIZE", 512*kib),
		MaxICalInstances:            getenvInt("GROUPWARE_CALENDAR_MAX_RECURRENCE_EXPANSIONS", 3000),
		MaxICalAttendeesPerInstance: getenvInt("GROUPWARE_CALENDAR_MAX_ATTENDEES_PER_INSTANCE", 20),
		DefaultCalendarName:         getenv("GROUPWARE_CALENDAR_DEFAULT_HREF_NAME", "default"),
		DefaultCalendarDisplayName:  getenv("GROUPWARE_CALENDAR_DEFAULT_DISPLAY_NAME", "Stalwart Calendar"),

		MaxVCardSize:                   getenvInt64("GROUPWARE_CONTACTS_MAX_SIZE", 512*kib),
		DefaultAddressbookName:         getenv("GROUPWARE_CONTACTS_DEFAULT_HREF_NAME", "default"),
		DefaultAddressbookDisplayName:  getenv("GROUPWARE_CONTACTS_DEFAULT_DISPLAY_NAME", "Stalwart Address Book"),

		MaxFileSize: getenvInt64("GROUPWARE_FILE_STORAGE_MAX_SIZE", 25*mib),
	}
}
