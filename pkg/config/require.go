package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

func WarnEmpty(value, envName, feature string) {
	if value == "" {
		log.Printf("Notice: env %s is not set, %s is disabled", envName, feature)
	}
}
