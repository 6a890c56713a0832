package config

import "os"

func IsDebug() bool {
	return os.Getenv("GLANCE_DEBUG") == "1"
}
