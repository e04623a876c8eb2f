//go:build windows

package config

// Unix-style names used in shared config files, mapped to their Windows equivalents.
var windowsEnvKeys = map[string]string{
	"HOSTNAME": "COMPUTERNAME",
	"HOME":     "USERPROFILE",
	"TMPDIR":   "TEMP",
}

func mapEnvKey(key string) string {
	if mapped, ok := windowsEnvKeys[key]; ok {
		return mapped
	}
	return key
}
