// Package main is the entrypoint for the orghealth CLI.
package main

import (
	"github.com/huangsam/orghealth/cmd"
	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/internal/store"
)

func main() {
	cmd.SetStoreManager(store.Default)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	store.CloseStores() // LogFatal exits without running defers
	if err != nil {
		contract.LogFatal("Cannot run command", err)
	}
}
