package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hereditas-net/hereditas/node"
	"github.com/spf13/viper"
)

func main() {
	configName := flag.String("config", "hereditas", "name of the config profile")
	flag.Parse()

	viper.SetConfigName(strings.TrimSuffix(*configName, ".yaml"))
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("error while reading config file: %v\n", err)
		os.Exit(1)
	}
	node.New().Run()
}
