// Command cardiorisk estimates heart-disease risk from clinical measurements.
package main

import (
	"github.com/cardiorisk/cardiorisk/cmd"
	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("cardiorisk failed", err)
	}
}
