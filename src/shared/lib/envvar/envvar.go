package envvar

import (
	"fmt"
	"os"
)

const (
	DATASET_ROOT       = "STEMBENCH_DATASET_ROOT"
	RESULTS_ROOT       = "STEMBENCH_RESULTS_ROOT"
	STORE_PATH         = "STEMBENCH_STORE_PATH"
	MODEL_REGISTRY     = "STEMBENCH_MODEL_REGISTRY"
	SEPARATOR_BIN_PATH = "STEMBENCH_SEPARATOR_BIN_PATH"
	MUSEVAL_BIN_PATH   = "STEMBENCH_MUSEVAL_BIN_PATH"
	RUN_CONFIG_PATH    = "STEMBENCH_RUN_CONFIG"
	TRACKS             = "STEMBENCH_TRACKS"
)

func MustGet(key string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet {
		panic(fmt.Sprintf("No env variable found for key %s", key))
	}

	if val == "" {
		panic(fmt.Sprintf("Env variable is empty for key %s", key))
	}

	return val
}

func GetOr(key string, fallback string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet || val == "" {
		return fallback
	}

	return val
}
